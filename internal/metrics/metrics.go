package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webvtt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webvtt_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webvtt_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Track Metrics
	TrackLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webvtt_track_lookups_total",
			Help: "Total number of track lookups by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	TracksEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webvtt_tracks_emitted_total",
			Help: "Total number of tracks emitted into markup or manifests",
		},
		[]string{"kind"},
	)

	TracksSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webvtt_tracks_skipped_total",
			Help: "Total number of matched tracks that were not emitted",
		},
		[]string{"reason"},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webvtt_store_query_duration_seconds",
			Help:    "Attachment store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"store", "operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webvtt_store_errors_total",
			Help: "Total number of failed attachment store queries",
		},
		[]string{"store", "operation"},
	)
)

// Lookup outcomes
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRateLimited records a request rejected by the rate limiter
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// RecordTrackLookup records the outcome of a resolver operation
func RecordTrackLookup(operation, outcome string) {
	TrackLookupsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordTrackEmitted records a track written to markup or a manifest
func RecordTrackEmitted(kind string) {
	TracksEmittedTotal.WithLabelValues(kind).Inc()
}

// RecordTrackSkipped records a matched track that was left out
func RecordTrackSkipped(reason string) {
	TracksSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordStoreQuery records an attachment store round trip
func RecordStoreQuery(store, operation string, duration float64, err error) {
	StoreQueryDuration.WithLabelValues(store, operation).Observe(duration)
	if err != nil {
		StoreErrorsTotal.WithLabelValues(store, operation).Inc()
	}
}
