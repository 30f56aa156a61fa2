// Package metrics provides Prometheus metrics for the explorer agent.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_imports_total",
			Help: "Directory imports by source and result",
		},
		[]string{"source", "result"},
	)

	importDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_import_duration_seconds",
			Help:    "Time spent listing a directory source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	catalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_catalog_records",
			Help: "Number of records in the working collection",
		},
	)

	deletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aura_record_deletions_total",
			Help: "Records removed from the working collection",
		},
	)

	assistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_assistant_requests_total",
			Help: "Assistant requests by result",
		},
		[]string{"result"},
	)

	assistantDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aura_assistant_request_duration_seconds",
			Help:    "Assistant round-trip time",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	sseConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_sse_connections_active",
			Help: "Number of active event stream connections",
		},
	)
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordImport records a finished directory import
func RecordImport(source string, duration time.Duration, success bool) {
	importsTotal.WithLabelValues(source, result(success)).Inc()
	importDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SetCatalogRecords sets the size of the working collection
func SetCatalogRecords(n int) {
	catalogRecords.Set(float64(n))
}

// RecordDeletion counts a removed record
func RecordDeletion() {
	deletionsTotal.Inc()
}

// RecordAssistantRequest records one assistant round-trip
func RecordAssistantRequest(duration time.Duration, success bool) {
	assistantRequestsTotal.WithLabelValues(result(success)).Inc()
	assistantDuration.Observe(duration.Seconds())
}

// SSEConnected tracks event stream connections; call the returned func on disconnect
func SSEConnected() func() {
	sseConnectionsActive.Inc()
	return sseConnectionsActive.Dec
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
