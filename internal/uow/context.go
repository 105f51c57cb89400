package uow

import (
	"context"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// NewCurrent creates a session and returns a context in which it is the
// current one. A session installed in a parent context is shadowed, not
// committed: callers commit before replacing it.
func NewCurrent(ctx context.Context, opts ...Option) (context.Context, *Session) {
	s := NewSession(opts...)
	return types.WithTracker(ctx, s), s
}

// Current returns the session installed in ctx.
// Returns ErrNoActiveSession if there is none.
func Current(ctx context.Context) (*Session, error) {
	t, err := types.TrackerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.(*Session)
	if !ok {
		return nil, types.ErrNoActiveSession
	}
	return s, nil
}
