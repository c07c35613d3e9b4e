package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the account module.
type Metrics struct {
	// Successful registrations
	AccountsRegistered prometheus.Counter

	// Commit failures by stage ("append", "view", "notify")
	CommitFailures *prometheus.CounterVec

	// Full register command latency including the unit-of-work commit
	RegisterLatency prometheus.Histogram

	// Detail view query latency
	QueryLatency prometheus.Histogram
}

// New creates a new Metrics instance with all account module metrics registered.
func New() *Metrics {
	return &Metrics{
		AccountsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),

		CommitFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_commit_failures_total",
			Help: "Total unit-of-work commit failures by stage",
		}, []string{"stage"}),

		RegisterLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_register_duration_seconds",
			Help:    "Duration of the register command including commit",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		QueryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_detail_query_duration_seconds",
			Help:    "Duration of detail view queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementRegistered records a successful registration.
func (m *Metrics) IncrementRegistered() {
	if m != nil {
		m.AccountsRegistered.Inc()
	}
}

// IncrementCommitFailure records a failed commit stage.
func (m *Metrics) IncrementCommitFailure(stage string) {
	if m != nil {
		m.CommitFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRegisterLatency records the duration of a register command.
func (m *Metrics) ObserveRegisterLatency(d time.Duration) {
	if m != nil {
		m.RegisterLatency.Observe(d.Seconds())
	}
}

// ObserveQueryLatency records the duration of a detail view query.
func (m *Metrics) ObserveQueryLatency(d time.Duration) {
	if m != nil {
		m.QueryLatency.Observe(d.Seconds())
	}
}
