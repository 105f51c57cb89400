package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

var errDiskFull = errors.New("disk full")

// failingCommitTx executes statements normally but cannot finalize them.
type failingCommitTx struct {
	*sql.Tx
}

func (f failingCommitTx) Commit() error {
	_ = f.Tx.Rollback()
	return errDiskFull
}

// failCommits makes every subsequent write on b fail at commit time.
func failCommits(b *Backend) {
	b.begin = func(ctx context.Context) (txn, error) {
		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		return failingCommitTx{Tx: tx}, nil
	}
}

func TestFinalizeFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		write   func(m types.Mapper, s *types.Student) error
		wantErr error
	}{
		{
			name: "insert",
			write: func(m types.Mapper, s *types.Student) error {
				_, err := m.Insert(ctx, &types.Student{Name: "Bob"})
				return err
			},
			wantErr: types.ErrCommitFailed,
		},
		{
			name: "update",
			write: func(m types.Mapper, s *types.Student) error {
				s.Name = "Alicia"
				return m.Update(ctx, s)
			},
			wantErr: types.ErrUpdateFailed,
		},
		{
			name: "delete",
			write: func(m types.Mapper, s *types.Student) error {
				return m.Delete(ctx, s)
			},
			wantErr: types.ErrDeleteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			m := studentMapper(t, b)
			id, err := m.Insert(ctx, &types.Student{Name: "Alice"})
			require.NoError(t, err)

			failCommits(b)
			err = tt.write(m, &types.Student{ID: id, Name: "Alice"})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errDiskFull, "the cause is wrapped")
			assert.NotErrorIs(t, err, types.ErrExecFailed)

			all, err := m.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1, "the failed write is not durable")
			assert.Equal(t, &types.Student{ID: id, Name: "Alice"}, all[0])
		})
	}
}
