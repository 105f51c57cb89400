// Package uow implements the unit of work: a Session collects entities
// marked new, dirty or removed and flushes them through a mapper registry
// on Commit.
//
// There is no process-wide current session. NewCurrent installs a session
// in a context.Context, and entities find it there when they are marked.
package uow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/registrar/internal/logging"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Compile-time interface check: Session must implement Tracker.
var _ types.Tracker = (*Session)(nil)

// LoggerName is the named logger a Session logs through.
const LoggerName = "uow"

// Write operations, used in log fields and metric labels.
const (
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
)

// Option configures a Session.
type Option func(*Session)

// WithRegistry binds the mapper registry used at commit time.
func WithRegistry(r types.Registry) Option {
	return func(s *Session) { s.registry = r }
}

// WithLogger sets the logger commit activity is reported to.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l.Entry() }
}

// WithMetrics records write and commit metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// Session tracks pending entity changes. Entities are keyed by identity,
// so they must be pointers (or other comparable values). A Session is safe
// for concurrent use; Commit holds the session for its whole duration.
type Session struct {
	id string

	mu       sync.Mutex
	registry types.Registry
	states   map[types.Entity]types.TrackingState
	pending  map[types.TrackingState][]types.Entity

	log     *logrus.Entry
	metrics *Metrics
}

// NewSession returns an empty session. It is not installed anywhere; use
// NewCurrent to make it reachable from a context.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:      newSessionID(),
		states:  make(map[types.Entity]types.TrackingState),
		pending: make(map[types.TrackingState][]types.Entity),
		log:     logging.Discard(LoggerName).Entry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", s.id)
	return s
}

// newSessionID generates a UUID v7, falling back to v4.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SetRegistry binds the mapper registry used at commit time.
func (s *Session) SetRegistry(r types.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = r
}

// RegisterNew tracks e as new.
func (s *Session) RegisterNew(e types.Entity) { s.register(e, types.StateNew) }

// RegisterDirty tracks e as dirty.
func (s *Session) RegisterDirty(e types.Entity) { s.register(e, types.StateDirty) }

// RegisterRemoved tracks e as removed.
func (s *Session) RegisterRemoved(e types.Entity) { s.register(e, types.StateRemoved) }

// register moves e into the set for state. Re-registering e with its
// current state leaves its position unchanged. Removing an unsaved entity
// that is pending insert cancels the insert and untracks it.
func (s *Session) register(e types.Entity, state types.TrackingState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.states[e]
	if prev == state {
		return
	}
	if prev != types.StateUntracked {
		s.pending[prev] = without(s.pending[prev], e)
	}
	if prev == types.StateNew && state == types.StateRemoved && !types.IsBound(e) {
		delete(s.states, e)
		return
	}
	s.pending[state] = append(s.pending[state], e)
	s.states[e] = state
}

func without(list []types.Entity, e types.Entity) []types.Entity {
	for i, existing := range list {
		if existing == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// State returns the tracking state of e.
func (s *Session) State(e types.Entity) types.TrackingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[e]
}

// Pending returns the sizes of the new, dirty and removed sets.
func (s *Session) Pending() (created, dirty, removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[types.StateNew]), len(s.pending[types.StateDirty]), len(s.pending[types.StateRemoved])
}

// Commit flushes the tracked entities: inserts for the new set, then
// updates for the dirty set, then deletes for the removed set, each in
// registration order. Inserted entities receive their backend-assigned id.
//
// Every write is durable on its own. The first failure stops the commit
// and is returned; writes before it stay applied and later ones are not
// attempted. The tracking sets are cleared whether or not Commit succeeds.
// Returns ErrNoRegistry, leaving the sets intact, if no registry is bound.
func (s *Session) Commit(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry == nil {
		return types.ErrNoRegistry
	}

	created := s.pending[types.StateNew]
	dirty := s.pending[types.StateDirty]
	removed := s.pending[types.StateRemoved]

	start := time.Now()
	defer func() {
		s.reset()
		s.metrics.observeCommit(err, time.Since(start))
		fields := logrus.Fields{
			"new":     len(created),
			"dirty":   len(dirty),
			"removed": len(removed),
		}
		if err != nil {
			s.log.WithFields(fields).WithError(err).Warn("commit failed")
			return
		}
		s.log.WithFields(fields).Info("commit")
	}()

	for _, e := range created {
		if err := s.write(ctx, opInsert, e); err != nil {
			return err
		}
	}
	for _, e := range dirty {
		if err := s.write(ctx, opUpdate, e); err != nil {
			return err
		}
	}
	for _, e := range removed {
		if err := s.write(ctx, opDelete, e); err != nil {
			return err
		}
	}
	return nil
}

// write performs one mapper operation for e. The caller holds s.mu.
func (s *Session) write(ctx context.Context, op string, e types.Entity) (err error) {
	entityType := e.EntityType()
	defer func() { s.metrics.observeWrite(op, entityType, err) }()

	if op != opInsert && !types.IsBound(e) {
		return fmt.Errorf("commit %s %s: %w", op, entityType, types.ErrUnboundEntity)
	}

	m, err := s.registry.MapperFor(e)
	if err != nil {
		return fmt.Errorf("commit %s %s: %w", op, entityType, err)
	}

	switch op {
	case opInsert:
		var id int64
		id, err = m.Insert(ctx, e)
		if err == nil {
			e.SetEntityID(id)
		}
	case opUpdate:
		err = m.Update(ctx, e)
	case opDelete:
		err = m.Delete(ctx, e)
	}
	if err != nil {
		return fmt.Errorf("commit %s %s: %w", op, entityType, err)
	}

	s.log.WithFields(logrus.Fields{
		"op":     op,
		"entity": entityType,
		"id":     e.EntityID(),
	}).Debug("write")
	return nil
}

// reset clears all tracking state. The caller holds s.mu.
func (s *Session) reset() {
	s.states = make(map[types.Entity]types.TrackingState)
	s.pending = make(map[types.TrackingState][]types.Entity)
}
