package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// txn is the part of *sql.Tx that mapper writes use.
type txn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Commit() error
	Rollback() error
}

func (b *Backend) beginTx(ctx context.Context) (txn, error) {
	return b.db.BeginTx(ctx, nil)
}

// insertRow executes an INSERT ... RETURNING id statement and then commits
// it. A rejected statement is reported as ErrExecFailed and a failed commit
// as ErrCommitFailed.
func (b *Backend) insertRow(ctx context.Context, query string, args ...any) (int64, error) {
	tx, err := b.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", types.ErrExecFailed, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, b.dialect.rebind(query), args...).Scan(&id); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%w: %w", types.ErrExecFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrCommitFailed, err)
	}
	return id, nil
}

// execWrite executes an UPDATE or DELETE statement that must touch exactly
// one row and then commits it. finalizeErr is the sentinel reported when
// the commit fails. Returns ErrNotFound when no row matched.
func (b *Backend) execWrite(ctx context.Context, finalizeErr error, query string, args ...any) error {
	tx, err := b.begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", types.ErrExecFailed, err)
	}

	res, err := tx.ExecContext(ctx, b.dialect.rebind(query), args...)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", types.ErrExecFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: rows affected: %w", types.ErrExecFailed, err)
	}
	if n == 0 {
		_ = tx.Rollback()
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", finalizeErr, err)
	}
	return nil
}
