package types

import (
	"context"
	"fmt"
)

// TrackingState is the lifecycle intent recorded for an entity.
type TrackingState int

// Tracking states. An entity is in at most one of new, dirty or removed.
const (
	StateUntracked TrackingState = iota
	StateNew
	StateDirty
	StateRemoved
)

func (s TrackingState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateDirty:
		return "dirty"
	case StateRemoved:
		return "removed"
	default:
		return "untracked"
	}
}

// Tracker collects entities marked new, dirty or removed.
type Tracker interface {
	RegisterNew(e Entity)
	RegisterDirty(e Entity)
	RegisterRemoved(e Entity)
}

type trackerKey struct{}

// WithTracker returns a copy of ctx carrying t as the current tracker.
func WithTracker(ctx context.Context, t Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx.
// Returns ErrNoActiveSession if there is none.
func TrackerFromContext(ctx context.Context) (Tracker, error) {
	if ctx == nil {
		return nil, ErrNoActiveSession
	}
	t, ok := ctx.Value(trackerKey{}).(Tracker)
	if !ok || t == nil {
		return nil, ErrNoActiveSession
	}
	return t, nil
}

// MarkNew registers e as new with the tracker in ctx.
func MarkNew(ctx context.Context, e Entity) {
	mustTracker(ctx, "new", e).RegisterNew(e)
}

// MarkDirty registers e as dirty with the tracker in ctx.
func MarkDirty(ctx context.Context, e Entity) {
	mustTracker(ctx, "dirty", e).RegisterDirty(e)
}

// MarkRemoved registers e as removed with the tracker in ctx.
func MarkRemoved(ctx context.Context, e Entity) {
	mustTracker(ctx, "removed", e).RegisterRemoved(e)
}

// mustTracker panics when ctx has no tracker. Marking outside a session is
// a programming error, not a runtime condition.
func mustTracker(ctx context.Context, state string, e Entity) Tracker {
	t, err := TrackerFromContext(ctx)
	if err != nil {
		panic(fmt.Sprintf("mark %s %s: %v", e.EntityType(), state, err))
	}
	return t
}
