package bridge

import "github.com/prometheus/client_golang/prometheus"

// Metrics provides Prometheus metrics for bridge traffic. All methods are
// nil-safe: calls on a nil *Metrics are no-ops, so the controller works
// unchanged with metrics disabled.
type Metrics struct {
	// RequestsTotal counts upstream-originated requests by transaction
	// kind. Label values: "Read", "Write", "Dataless".
	RequestsTotal *prometheus.CounterVec

	// TransactionsInFlight tracks the registry's outstanding-entry count.
	TransactionsInFlight prometheus.Gauge

	// TerminalTotal counts transactions reaching their terminal state,
	// by kind.
	TerminalTotal *prometheus.CounterVec

	// RetriesTotal counts RETRY_ACK responses consumed.
	RetriesTotal prometheus.Counter

	// DataBeatsTotal counts inbound Data beats dispatched into the
	// registry.
	DataBeatsTotal prometheus.Counter

	// CompAckSynthesizedTotal counts CompAck responses the controller
	// synthesized on behalf of clients that opted out of sending their own.
	CompAckSynthesizedTotal prometheus.Counter

	// SnoopsForwardedTotal counts downstream snoops surfaced upstream.
	SnoopsForwardedTotal prometheus.Counter

	// CreditGrantsTotal counts unsolicited PCrdGrant responses surfaced
	// upstream.
	CreditGrantsTotal prometheus.Counter
}

// NewMetrics creates and registers bridge metrics with the given
// registerer. If reg is nil, metrics are created but not registered
// (useful for testing).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Total upstream-originated requests by transaction kind",
		}, []string{"kind"}),
		TransactionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "transactions_in_flight",
			Help:      "Outstanding transactions in the registry",
		}),
		TerminalTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "transactions_terminal_total",
			Help:      "Transactions reaching their terminal state, by kind",
		}, []string{"kind"}),
		RetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "retries_total",
			Help:      "RETRY_ACK responses consumed",
		}),
		DataBeatsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "data_beats_total",
			Help:      "Inbound Data beats dispatched into the registry",
		}),
		CompAckSynthesizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "compack_synthesized_total",
			Help:      "CompAck responses synthesized by the controller",
		}),
		SnoopsForwardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "snoops_forwarded_total",
			Help:      "Downstream snoops surfaced upstream",
		}),
		CreditGrantsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitlm",
			Subsystem: "bridge",
			Name:      "credit_grants_total",
			Help:      "Unsolicited PCrdGrant responses surfaced upstream",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RequestsTotal,
			m.TransactionsInFlight,
			m.TerminalTotal,
			m.RetriesTotal,
			m.DataBeatsTotal,
			m.CompAckSynthesizedTotal,
			m.SnoopsForwardedTotal,
			m.CreditGrantsTotal,
		)
	}

	return m
}

// RecordRequest counts a new request and bumps the in-flight gauge.
func (m *Metrics) RecordRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
	m.TransactionsInFlight.Inc()
}

// RecordTerminal counts a terminal transaction and drops the in-flight gauge.
func (m *Metrics) RecordTerminal(kind string) {
	if m == nil {
		return
	}
	m.TerminalTotal.WithLabelValues(kind).Inc()
	m.TransactionsInFlight.Dec()
}

// RecordRetry counts a RETRY_ACK.
func (m *Metrics) RecordRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// RecordDataBeat counts an inbound Data beat.
func (m *Metrics) RecordDataBeat() {
	if m == nil {
		return
	}
	m.DataBeatsTotal.Inc()
}

// RecordCompAckSynthesized counts a synthesized CompAck.
func (m *Metrics) RecordCompAckSynthesized() {
	if m == nil {
		return
	}
	m.CompAckSynthesizedTotal.Inc()
}

// RecordSnoopForwarded counts a snoop surfaced upstream.
func (m *Metrics) RecordSnoopForwarded() {
	if m == nil {
		return
	}
	m.SnoopsForwardedTotal.Inc()
}

// RecordCreditGrant counts a PCrdGrant surfaced upstream.
func (m *Metrics) RecordCreditGrant() {
	if m == nil {
		return
	}
	m.CreditGrantsTotal.Inc()
}
