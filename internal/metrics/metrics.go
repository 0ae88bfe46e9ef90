// Package metrics records request outcomes for the HTTP client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricRequestsTotal          = "campusctl_requests_total"
	MetricRequestDurationSeconds = "campusctl_request_duration_seconds"
)

// Recorder counts dispatched requests and observes their durations,
// labeled by method, path, and status. Status 0 means no response was
// received. Implements the client's Observer interface.
type Recorder struct {
	requestsTotal          *prometheus.CounterVec
	requestDurationSeconds *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// A nil reg uses the default registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRequestsTotal,
			Help: "Total requests dispatched to the backend.",
		}, []string{"method", "path", "status"}),
		requestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRequestDurationSeconds,
			Help:    "Request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(r.requestsTotal, r.requestDurationSeconds)
	return r
}

// Observe records one completed (or failed) request.
func (r *Recorder) Observe(method, path string, status int, d time.Duration) {
	r.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.requestDurationSeconds.WithLabelValues(method, path).Observe(d.Seconds())
}
