package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	mappers := newFakeRegistry()
	mappers.failOn["update:Bob"] = errors.New("locked")

	s := NewSession(WithRegistry(mappers), WithMetrics(m))
	s.RegisterNew(&types.Student{Name: "Alice"})
	require.NoError(t, s.Commit(context.Background()))

	s.RegisterDirty(&types.Student{ID: 1, Name: "Bob"})
	require.Error(t, s.Commit(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues(opInsert, types.StudentType, outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues(opUpdate, types.StudentType, outcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues(outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues(outcomeError)))

	count, err := testutil.GatherAndCount(reg, "registrar_uow_commit_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeWrite(opInsert, types.StudentType, nil)
		m.observeCommit(nil, 0)
	})
}
