package generator

import "github.com/prometheus/client_golang/prometheus"

// Metrics provides Prometheus metrics for testbench activity. All methods
// are nil-safe: calls on a nil *Metrics are no-ops.
type Metrics struct {
	// InjectionsTotal counts transactions handed to the controller.
	InjectionsTotal prometheus.Counter

	// ActionsTotal counts dispatched actions by kind.
	// Label values: "do", "expect", "assert".
	ActionsTotal *prometheus.CounterVec

	// ExpectationFailuresTotal counts soft expectation failures.
	ExpectationFailuresTotal prometheus.Counter

	// AssertionFailuresTotal counts suite-aborting assertion failures.
	AssertionFailuresTotal prometheus.Counter
}

// NewMetrics creates and registers generator metrics with the given
// registerer. If reg is nil, metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InjectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "generator",
			Name:      "injections_total",
			Help:      "Transactions handed to the bridge controller",
		}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "generator",
			Name:      "actions_total",
			Help:      "Dispatched testbench actions by kind",
		}, []string{"kind"}),
		ExpectationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "generator",
			Name:      "expectation_failures_total",
			Help:      "Soft expectation failures",
		}),
		AssertionFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "generator",
			Name:      "assertion_failures_total",
			Help:      "Suite-aborting assertion failures",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.InjectionsTotal,
			m.ActionsTotal,
			m.ExpectationFailuresTotal,
			m.AssertionFailuresTotal,
		)
	}

	return m
}

// RecordInjection counts one injected transaction.
func (m *Metrics) RecordInjection() {
	if m == nil {
		return
	}
	m.InjectionsTotal.Inc()
}

// RecordAction counts one dispatched action of the given kind.
func (m *Metrics) RecordAction(kind string) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(kind).Inc()
}

// RecordExpectationFailure counts one soft failure.
func (m *Metrics) RecordExpectationFailure() {
	if m == nil {
		return
	}
	m.ExpectationFailuresTotal.Inc()
}

// RecordAssertionFailure counts one suite abort.
func (m *Metrics) RecordAssertionFailure() {
	if m == nil {
		return
	}
	m.AssertionFailuresTotal.Inc()
}
