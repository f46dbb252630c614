// Package metrics exposes Prometheus instrumentation for the tracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

// Metrics holds every collector the service records into.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	csvExports         prometheus.Counter
	csvRows            prometheus.Counter
	reminderDigests    *prometheus.CounterVec
	digestRemindersDue prometheus.Counter
	publishFailures    *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		csvExports: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exports_total",
			Help:      "CSV exports generated.",
		}),
		csvRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exported_rows_total",
			Help:      "Application rows written to CSV exports.",
		}),
		reminderDigests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_digests_total",
			Help:      "Per-user reminder digests by result (sent, skipped, failed).",
		}, []string{"result"}),
		digestRemindersDue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_digest_due_total",
			Help:      "Overdue or due-today follow-ups reported in digests.",
		}),
		publishFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published, by type.",
		}, []string{"type"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveExport records one CSV export of rows applications.
func (m *Metrics) ObserveExport(rows int) {
	m.csvExports.Inc()
	m.csvRows.Add(float64(rows))
}

// ObserveDigest records one per-user digest outcome.
func (m *Metrics) ObserveDigest(result string, due int) {
	m.reminderDigests.WithLabelValues(result).Inc()
	if due > 0 {
		m.digestRemindersDue.Add(float64(due))
	}
}

// ObservePublishFailure records a failed event publish.
func (m *Metrics) ObservePublishFailure(eventType string) {
	m.publishFailures.WithLabelValues(eventType).Inc()
}

// Instrument wraps next, recording request counts and latency under route.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
