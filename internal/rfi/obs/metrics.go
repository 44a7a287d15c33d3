// Package obs wires Prometheus metrics for the service: HTTP traffic,
// workflow transitions, and notification emission.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfi_transitions_total",
			Help: "RFI workflow transition attempts by action and outcome.",
		},
		[]string{"action", "result"},
	)

	notificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfi_notifications_emitted_total",
			Help: "Notification events accepted onto the dispatch queue.",
		},
		[]string{"type"},
	)

	notificationsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfi_notifications_dropped_total",
		Help: "Notification events dropped because the queue was full.",
	})

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Init registers the metrics with the default registry. Call once at
// startup.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration,
		transitionsTotal, notificationsEmitted, notificationsDropped,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TransitionAttempt records a workflow transition attempt and its outcome
// ("ok", "forbidden", "conflict", "validation", "error").
func TransitionAttempt(action, result string) {
	transitionsTotal.WithLabelValues(action, result).Inc()
}

// NotificationEmitted counts an event accepted onto the dispatch queue.
func NotificationEmitted(eventType string) {
	notificationsEmitted.WithLabelValues(eventType).Inc()
}

// NotificationDropped counts an event lost to a full queue.
func NotificationDropped() {
	notificationsDropped.Inc()
}

// Instrument wraps a handler with in-flight, count, and latency metrics.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
			Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpInFlight.Dec()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
