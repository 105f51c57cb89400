package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/registrar/internal/uow"
	"github.com/mesh-intelligence/registrar/pkg/sqlstore"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// store is an attached backend plus the context that carries the
// command's unit of work.
type store struct {
	ctx     context.Context
	backend types.Backend
	app     *app
}

// openStore attaches the configured backend and installs a fresh session
// bound to it in the command context. The caller must defer Close.
func (a *app) openStore(cmd *cobra.Command) (*store, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}

	backend := sqlstore.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	ctx, sess := uow.NewCurrent(cmd.Context(),
		uow.WithRegistry(backend),
		uow.WithLogger(a.logs.GetOrCreate(uow.LoggerName)),
		uow.WithMetrics(uow.NewMetrics(a.metrics)),
	)
	a.logs.GetOrCreate(uow.LoggerName).Entry().
		WithField("session", sess.ID()).
		WithField("backend", cfg.Backend).
		Debug("store attached")

	return &store{ctx: ctx, backend: backend, app: a}, nil
}

// Close writes the metrics textfile, if configured, and detaches the
// backend. Metrics are written whether or not the command's commit failed.
func (s *store) Close() error {
	return errors.Join(s.app.writeMetrics(), s.backend.Detach())
}

// closeInto closes s and joins any close error into *errp. Used in defer.
func (s *store) closeInto(errp *error) {
	if err := s.Close(); err != nil {
		*errp = errors.Join(*errp, err)
	}
}

// commit flushes the session installed in the store context.
func (s *store) commit() error {
	sess, err := uow.Current(s.ctx)
	if err != nil {
		return err
	}
	return sess.Commit(s.ctx)
}

// find loads the entity of typeName with the given id and asserts its
// concrete type.
func find[T types.Entity](s *store, typeName string, id int64) (T, error) {
	var zero T
	m, err := s.backend.Mapper(typeName)
	if err != nil {
		return zero, err
	}
	e, err := m.FindByID(s.ctx, id)
	if err != nil {
		return zero, err
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", typeName, id, types.ErrInvalidData)
	}
	return v, nil
}

// all loads every entity of typeName, asserting each concrete type.
func all[T types.Entity](s *store, typeName string) ([]T, error) {
	m, err := s.backend.Mapper(typeName)
	if err != nil {
		return nil, err
	}
	entities, err := m.All(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", typeName, err)
	}
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		v, ok := e.(T)
		if !ok {
			return nil, fmt.Errorf("list %s: %w", typeName, types.ErrInvalidData)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseID parses a positive entity id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, arg)
	}
	return id, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeTable prints rows under header as aligned columns, trimming
// trailing padding from each line.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
