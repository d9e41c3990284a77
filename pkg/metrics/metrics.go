// Package metrics exposes Prometheus collectors for query compilation and evaluation.
//
// A nil *Metrics is valid and records nothing, so the evaluator can call it unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one evaluator.
type Metrics struct {
	compiled      prometheus.Counter
	preEvaluated  prometheus.Counter
	deferred      prometheus.Counter
	indexAccesses *prometheus.CounterVec
	nested        prometheus.Counter
	duration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		compiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goxq_queries_compiled_total",
			Help: "Total number of compiled queries",
		}),
		preEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goxq_pre_evaluations_total",
			Help: "Expressions replaced by their value at compile time",
		}),
		deferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goxq_deferred_failures_total",
			Help: "Pre-evaluations whose error was deferred to evaluation time",
		}),
		indexAccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goxq_index_accesses_total",
			Help: "Index scans by index kind",
		}, []string{"kind"}),
		nested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goxq_nested_queries_total",
			Help: "Queries evaluated through eval or run",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "goxq_eval_duration_seconds",
			Help:    "Query evaluation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.compiled,
		m.preEvaluated,
		m.deferred,
		m.indexAccesses,
		m.nested,
		m.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Compiled counts a compiled query.
func (m *Metrics) Compiled() {
	if m != nil {
		m.compiled.Inc()
	}
}

// PreEvaluated counts an expression folded into a literal.
func (m *Metrics) PreEvaluated() {
	if m != nil {
		m.preEvaluated.Inc()
	}
}

// DeferredFailure counts a pre-evaluation error kept for evaluation time.
func (m *Metrics) DeferredFailure() {
	if m != nil {
		m.deferred.Inc()
	}
}

// IndexAccess counts an index scan of the given kind.
func (m *Metrics) IndexAccess(kind string) {
	if m != nil {
		m.indexAccesses.WithLabelValues(kind).Inc()
	}
}

// Nested counts a nested query.
func (m *Metrics) Nested() {
	if m != nil {
		m.nested.Inc()
	}
}

// ObserveEval records the duration of an evaluation.
func (m *Metrics) ObserveEval(d time.Duration) {
	if m != nil {
		m.duration.Observe(d.Seconds())
	}
}
