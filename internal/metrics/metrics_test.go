package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncCreated()
	m.IncCreated()
	m.IncTransition("in_progress")
	m.IncFailure("create", "not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProcessesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("in_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("create", "not_found")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncCreated()
		m.IncTransition("in_progress")
		m.IncFailure("create", "not_found")
	})
}
