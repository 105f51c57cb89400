package uow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics counts unit-of-work writes and commits. A nil *Metrics records
// nothing.
type Metrics struct {
	writes   *prometheus.CounterVec
	commits  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registrar",
			Subsystem: "uow",
			Name:      "writes_total",
			Help:      "Mapper writes issued by commits, by operation, entity type and outcome.",
		}, []string{"op", "entity", "outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registrar",
			Subsystem: "uow",
			Name:      "commits_total",
			Help:      "Session commits by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "registrar",
			Subsystem: "uow",
			Name:      "commit_duration_seconds",
			Help:      "Time spent flushing a session.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.writes, m.commits, m.duration)
	}
	return m
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}

func (m *Metrics) observeWrite(op, entity string, err error) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(op, entity, outcome(err)).Inc()
}

func (m *Metrics) observeCommit(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
}
