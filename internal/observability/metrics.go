// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	ValidationFailures  *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheErrors *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Export metrics
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec

	// Stream metrics
	StreamConnections prometheus.Gauge
	StreamMessages    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "calcforge"
	}

	return &Metrics{
		// Engine metrics
		CalculationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calculations_total",
			Help:      "Total number of ROI calculations by outcome",
		}, []string{"outcome"}),
		CalculationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calculation_duration_seconds",
			Help:      "ROI calculation duration in seconds by scenario method",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"method"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "validation_failures_total",
			Help:      "Total number of rejected inputs by field",
		}, []string{"field"}),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of result cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of result cache misses",
		}),
		CacheErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Total number of result cache errors by operation",
		}, []string{"operation"}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		// Export metrics
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "exports_total",
			Help:      "Total number of exports by format and status",
		}, []string{"format", "status"}),
		ExportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Export rendering duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"format"}),

		// Stream metrics
		StreamConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "connections",
			Help:      "Current number of live recalculation connections",
		}),
		StreamMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_total",
			Help:      "Total number of recalculation messages received",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCalculation records an engine run.
func RecordCalculation(method, outcome string, seconds float64) {
	DefaultMetrics.CalculationsTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.CalculationDuration.WithLabelValues(method).Observe(seconds)
}

// RecordValidationFailure records rejected inputs.
func RecordValidationFailure(field string) {
	DefaultMetrics.ValidationFailures.WithLabelValues(field).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		DefaultMetrics.CacheHits.Inc()
		return
	}
	DefaultMetrics.CacheMisses.Inc()
}

// RecordCacheError records a cache backend error.
func RecordCacheError(operation string) {
	DefaultMetrics.CacheErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records HTTP request metrics.
func RecordHTTPRequest(route, method string, status int, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, method, statusClass(status)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordExport records an export.
func RecordExport(format, status string, seconds float64) {
	DefaultMetrics.ExportsTotal.WithLabelValues(format, status).Inc()
	DefaultMetrics.ExportDuration.WithLabelValues(format).Observe(seconds)
}

// StreamOpened increments the live connection gauge.
func StreamOpened() {
	DefaultMetrics.StreamConnections.Inc()
}

// StreamClosed decrements the live connection gauge.
func StreamClosed() {
	DefaultMetrics.StreamConnections.Dec()
}

// RecordStreamMessage counts a received stream message.
func RecordStreamMessage() {
	DefaultMetrics.StreamMessages.Inc()
}

// statusClass keeps label cardinality low: 2xx, 4xx, 5xx.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
