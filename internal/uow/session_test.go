package uow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/registrar/internal/logging"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// fakeRegistry hands out a recording mapper for every registered type.
type fakeRegistry struct {
	calls  []string
	nextID int64
	failOn map[string]error // keyed by "op:name"
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{failOn: make(map[string]error)}
}

func (r *fakeRegistry) MapperFor(e types.Entity) (types.Mapper, error) {
	return r.Mapper(e.EntityType())
}

func (r *fakeRegistry) Mapper(typeName string) (types.Mapper, error) {
	if typeName != types.StudentType {
		return nil, fmt.Errorf("%w: %q", types.ErrUnmappedType, typeName)
	}
	return &recordingMapper{registry: r}, nil
}

type recordingMapper struct {
	registry *fakeRegistry
}

func (m *recordingMapper) record(op string, e types.Entity) error {
	key := op + ":" + e.(*types.Student).Name
	if err, ok := m.registry.failOn[key]; ok {
		return err
	}
	m.registry.calls = append(m.registry.calls, key)
	return nil
}

func (m *recordingMapper) All(context.Context) ([]types.Entity, error) { return nil, nil }

func (m *recordingMapper) FindByID(context.Context, int64) (types.Entity, error) {
	return nil, types.ErrNotFound
}

func (m *recordingMapper) Insert(_ context.Context, e types.Entity) (int64, error) {
	if err := m.record(opInsert, e); err != nil {
		return 0, err
	}
	m.registry.nextID++
	return m.registry.nextID, nil
}

func (m *recordingMapper) Update(_ context.Context, e types.Entity) error {
	return m.record(opUpdate, e)
}

func (m *recordingMapper) Delete(_ context.Context, e types.Entity) error {
	return m.record(opDelete, e)
}

// classroom has no mapper in fakeRegistry.
type classroom struct{ id int64 }

func (c *classroom) EntityType() string   { return "classroom" }
func (c *classroom) EntityID() int64      { return c.id }
func (c *classroom) SetEntityID(id int64) { c.id = id }

func assertPending(t *testing.T, s *Session, wantNew, wantDirty, wantRemoved int) {
	t.Helper()
	n, d, r := s.Pending()
	assert.Equal(t, []int{wantNew, wantDirty, wantRemoved}, []int{n, d, r}, "pending new/dirty/removed")
}

func TestSession_RegisterMovesBetweenSets(t *testing.T) {
	s := NewSession()
	alice := &types.Student{ID: 1, Name: "Alice"}

	s.RegisterNew(alice)
	assert.Equal(t, types.StateNew, s.State(alice))
	assertPending(t, s, 1, 0, 0)

	s.RegisterDirty(alice)
	assert.Equal(t, types.StateDirty, s.State(alice))
	assertPending(t, s, 0, 1, 0)

	s.RegisterRemoved(alice)
	assert.Equal(t, types.StateRemoved, s.State(alice))
	assertPending(t, s, 0, 0, 1)

	assert.Equal(t, types.StateUntracked, s.State(&types.Student{ID: 1, Name: "Alice"}),
		"entities are tracked by identity, not by value")
}

func TestSession_RemoveCancelsPendingInsert(t *testing.T) {
	reg := newFakeRegistry()
	s := NewSession(WithRegistry(reg))
	draft := &types.Student{Name: "draft"}
	kept := &types.Student{Name: "kept"}
	gone := &types.Student{ID: 7, Name: "gone"}

	s.RegisterNew(draft)
	s.RegisterNew(kept)
	s.RegisterRemoved(draft)
	s.RegisterRemoved(gone)

	assert.Equal(t, types.StateUntracked, s.State(draft))
	assertPending(t, s, 1, 0, 1)

	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []string{"insert:kept", "delete:gone"}, reg.calls)
	assert.Zero(t, draft.ID, "a cancelled insert never reaches the mapper")
}

func TestSession_CommitOrder(t *testing.T) {
	reg := newFakeRegistry()
	s := NewSession(WithRegistry(reg))

	a := &types.Student{Name: "a"}
	b := &types.Student{ID: 10, Name: "b"}
	c := &types.Student{ID: 11, Name: "c"}
	d := &types.Student{Name: "d"}
	e := &types.Student{ID: 12, Name: "e"}

	s.RegisterRemoved(c)
	s.RegisterDirty(e)
	s.RegisterNew(a)
	s.RegisterDirty(b)
	s.RegisterNew(d)

	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []string{
		"insert:a", "insert:d",
		"update:e", "update:b",
		"delete:c",
	}, reg.calls)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), d.ID)
	assertPending(t, s, 0, 0, 0)
	assert.Equal(t, types.StateUntracked, s.State(a))
}

func TestSession_DirtyTwiceUpdatesOnce(t *testing.T) {
	reg := newFakeRegistry()
	s := NewSession(WithRegistry(reg))
	alice := &types.Student{ID: 1, Name: "Alice"}
	bob := &types.Student{ID: 2, Name: "Bob"}

	s.RegisterDirty(alice)
	s.RegisterDirty(bob)
	s.RegisterDirty(alice)

	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []string{"update:Alice", "update:Bob"}, reg.calls,
		"re-marking keeps the original position and writes once")
}

func TestSession_CommitUnboundEntity(t *testing.T) {
	tests := []struct {
		name     string
		register func(s *Session, e types.Entity)
	}{
		{name: "dirty", register: (*Session).RegisterDirty},
		{name: "removed", register: (*Session).RegisterRemoved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newFakeRegistry()
			s := NewSession(WithRegistry(reg))
			tt.register(s, &types.Student{Name: "Alice"})

			err := s.Commit(context.Background())
			assert.ErrorIs(t, err, types.ErrUnboundEntity)
			assert.Empty(t, reg.calls, "no write reaches the mapper")
			assertPending(t, s, 0, 0, 0)
		})
	}
}

func TestSession_CommitAbortsOnFirstFailure(t *testing.T) {
	errConstraint := errors.New("constraint violation")
	reg := newFakeRegistry()
	reg.failOn["insert:second"] = errConstraint
	s := NewSession(WithRegistry(reg))

	first := &types.Student{Name: "first"}
	second := &types.Student{Name: "second"}
	third := &types.Student{Name: "third"}
	dirty := &types.Student{ID: 9, Name: "dirty"}
	s.RegisterNew(first)
	s.RegisterNew(second)
	s.RegisterNew(third)
	s.RegisterDirty(dirty)

	err := s.Commit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errConstraint)
	assert.Contains(t, err.Error(), "commit insert student")

	assert.Equal(t, []string{"insert:first"}, reg.calls)
	assert.Equal(t, int64(1), first.ID, "writes before the failure stay applied")
	assert.Zero(t, second.ID)
	assert.Zero(t, third.ID)
	assertPending(t, s, 0, 0, 0)
}

func TestSession_CommitWithoutRegistry(t *testing.T) {
	s := NewSession()
	alice := &types.Student{Name: "Alice"}
	s.RegisterNew(alice)

	assert.ErrorIs(t, s.Commit(context.Background()), types.ErrNoRegistry)
	assertPending(t, s, 1, 0, 0)

	reg := newFakeRegistry()
	s.SetRegistry(reg)
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []string{"insert:Alice"}, reg.calls)
}

func TestSession_CommitUnmappedType(t *testing.T) {
	s := NewSession(WithRegistry(newFakeRegistry()))
	s.RegisterNew(&classroom{})

	err := s.Commit(context.Background())
	assert.ErrorIs(t, err, types.ErrUnmappedType)
}

func TestSession_CommitEmpty(t *testing.T) {
	reg := newFakeRegistry()
	s := NewSession(WithRegistry(reg))
	require.NoError(t, s.Commit(context.Background()))
	assert.Empty(t, reg.calls)
}

func TestSession_ConcurrentRegister(t *testing.T) {
	s := NewSession(WithRegistry(newFakeRegistry()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := &types.Student{Name: fmt.Sprintf("s%d", i)}
			s.RegisterNew(st)
			s.RegisterDirty(st)
			s.RegisterNew(st)
		}(i)
	}
	wg.Wait()

	assertPending(t, s, 50, 0, 0)
}

func TestSession_LogsCommit(t *testing.T) {
	var buf bytes.Buffer
	logs := logging.NewRegistry(&buf, logging.WithLevel(logrus.DebugLevel))
	s := NewSession(WithRegistry(newFakeRegistry()), WithLogger(logs.GetOrCreate(LoggerName)))
	s.RegisterNew(&types.Student{Name: "Alice"})

	require.NoError(t, s.Commit(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "session="+s.ID())
	assert.Contains(t, out, "op=insert")
	assert.Contains(t, out, "msg=commit")
	assert.Contains(t, out, "logger=uow")
}

func TestSession_IDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSession().ID(), NewSession().ID())
}
