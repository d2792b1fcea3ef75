// Package metrics exposes Prometheus instrumentation for remote API calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Cloudflare API metrics
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenantflare",
			Subsystem: "cloudflare",
			Name:      "api_calls_total",
			Help:      "Total number of Cloudflare API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tenantflare",
			Subsystem: "cloudflare",
			Name:      "api_latency_seconds",
			Help:      "Latency of Cloudflare API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~25s
		},
		[]string{"operation"},
	)

	// Compensating-action metrics
	sideEffectFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenantflare",
			Subsystem: "cloudflare",
			Name:      "side_effect_failures_total",
			Help:      "Total number of swallowed compensating-action failures by operation",
		},
		[]string{"operation"},
	)

	// Site deployment metrics
	siteFilesUploadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenantflare",
			Subsystem: "r2",
			Name:      "site_files_uploaded_total",
			Help:      "Total number of site files uploaded to R2",
		},
	)
)

func init() {
	prometheus.MustRegister(
		apiCallsTotal,
		apiLatency,
		sideEffectFailuresTotal,
		siteFilesUploadedTotal,
	)
}

// RecordAPICall records a remote API call outcome and latency.
func RecordAPICall(operation, result string, latencySeconds float64) {
	apiCallsTotal.WithLabelValues(operation, result).Inc()
	apiLatency.WithLabelValues(operation).Observe(latencySeconds)
}

// RecordSideEffectFailure records a swallowed compensating-action failure.
func RecordSideEffectFailure(operation string) {
	sideEffectFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordFilesUploaded records uploaded site files.
func RecordFilesUploaded(n int) {
	siteFilesUploadedTotal.Add(float64(n))
}
