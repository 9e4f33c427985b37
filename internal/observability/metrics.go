// Package observability holds tracing, metrics and request-context plumbing
// for the greeting service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greeting_service"

var (
	telemetryExporterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_export_failures_total",
			Help:      "Number of telemetry exporter initialization failures by exporter protocol.",
		},
		[]string{"exporter"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	greetingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "greetings_total",
			Help:      "Greetings served by endpoint and period.",
		},
		[]string{"endpoint", "period"}, // period is empty for the static greeting
	)
)

func recordExporterFailure(exporter string) {
	if exporter == "" {
		exporter = "unknown"
	}
	telemetryExporterFailures.WithLabelValues(exporter).Inc()
}

// RecordGreeting counts a served greeting.
func RecordGreeting(endpoint, period string) {
	greetingsTotal.WithLabelValues(endpoint, period).Inc()
}

// TelemetryExporterFailures exposes the failure counter for tests and dashboards.
func TelemetryExporterFailures() *prometheus.CounterVec {
	return telemetryExporterFailures
}

// HTTPRequestsTotal exposes the request counter.
func HTTPRequestsTotal() *prometheus.CounterVec {
	return httpRequestsTotal
}

// GreetingsTotal exposes the greeting counter.
func GreetingsTotal() *prometheus.CounterVec {
	return greetingsTotal
}
