package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics records calls made to the bookstore REST API.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewBackendMetrics registers the backend call metrics on the provided registerer.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookbean_backend_request_duration_seconds",
		Help:    "Latency of calls to the bookstore API in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookbean_backend_requests_total",
		Help: "Calls to the bookstore API by operation and status.",
	}, []string{"operation", "status"})
	reg.MustRegister(duration, requests)
	return &BackendMetrics{
		duration: duration,
		requests: requests,
	}
}

// Observe records one finished call. A status of 0 means the request never got a response.
func (b *BackendMetrics) Observe(operation string, status int, elapsed time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	b.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	b.requests.WithLabelValues(op, statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
