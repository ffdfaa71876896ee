package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for case use cases. A nil *Metrics is a no-op.
type Metrics struct {
	ProcessesCreated prometheus.Counter
	Transitions      *prometheus.CounterVec
	Failures         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProcessesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "delega_judicial_processes_created_total",
			Help: "Judicial processes created and committed",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "delega_judicial_process_transitions_total",
			Help: "Committed judicial process status transitions",
		}, []string{"to"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "delega_judicial_process_failures_total",
			Help: "Failed judicial process use cases by operation and kind",
		}, []string{"operation", "kind"}),
	}
}

func (m *Metrics) IncCreated() {
	if m == nil {
		return
	}
	m.ProcessesCreated.Inc()
}

func (m *Metrics) IncTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncFailure(operation, kind string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(operation, kind).Inc()
}
