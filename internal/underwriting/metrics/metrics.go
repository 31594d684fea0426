package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the underwriting module.
type Metrics struct {
	// Decision outcomes by outcome and reason
	DecisionOutcome *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Ledger rejections by status (limit vs allocation)
	LedgerRejections *prometheus.CounterVec
}

// New creates a new Metrics instance with all underwriting metrics registered.
func New() *Metrics {
	return &Metrics{
		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundline_decision_outcomes_total",
			Help: "Total decision outcomes by outcome and reason",
		}, []string{"outcome", "reason"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundline_decision_evaluate_duration_seconds",
			Help:    "Duration of full decision evaluation including ledger reservation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		LedgerRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundline_ledger_rejections_total",
			Help: "Reservations rejected by the deployment ledger, by status",
		}, []string{"status"}),
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(outcome, reason string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(outcome, reason).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementLedgerRejection records a rejected reservation.
func (m *Metrics) IncrementLedgerRejection(status string) {
	if m != nil {
		m.LedgerRejections.WithLabelValues(status).Inc()
	}
}
