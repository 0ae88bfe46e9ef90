package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Observe("GET", "/students", 200, 15*time.Millisecond)
	r.Observe("GET", "/students", 200, 20*time.Millisecond)
	r.Observe("POST", "/students", 409, 5*time.Millisecond)
	r.Observe("GET", "/colleges", 0, time.Second) // no response received

	assert.Equal(t, float64(2), testutil.ToFloat64(
		r.requestsTotal.WithLabelValues("GET", "/students", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.requestsTotal.WithLabelValues("POST", "/students", "409")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.requestsTotal.WithLabelValues("GET", "/colleges", "0")))
}

func TestNewRecorderRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Observe("GET", "/programs", 200, time.Millisecond)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names[MetricRequestsTotal])
	assert.True(t, names[MetricRequestDurationSeconds])
}
