// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Catalog and Index Metrics
	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of records retained after cleaning",
		},
	)

	CatalogDroppedRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_dropped_rows",
			Help: "Rows dropped while loading the catalog",
		},
		[]string{"reason"}, // "missing_keywords", "duplicate"
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_vocabulary_terms",
			Help: "Number of terms in the fitted vocabulary",
		},
	)

	IndexBuildDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_build_duration_seconds",
			Help: "Time taken to fit or restore the similarity index",
		},
	)

	IndexModelReused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_model_reused",
			Help: "1 if the persisted vectorizer was reused at startup, 0 if refitted",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation operations",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "invalid", "not_found", "not_ready", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of recommendation operations including enrichment",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"operation"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of records returned per operation",
			Buckets: []float64{0, 1, 2, 5, 10, 12, 24, 50, 100},
		},
		[]string{"operation"},
	)

	RecommendUnenrichedDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_unenriched_dropped_total",
			Help: "Records dropped from list results for lacking a poster",
		},
		[]string{"operation"},
	)

	// Enrichment Metrics
	EnrichLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_lookups_total",
			Help: "Total number of external metadata lookups",
		},
		[]string{"service", "outcome"}, // outcome: "found", "empty", "error", "rejected", "canceled"
	)

	EnrichLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrich_lookup_duration_seconds",
			Help:    "Duration of external metadata lookups",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service"},
	)

	EnrichInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrich_in_flight",
			Help: "Records currently being enriched",
		},
	)

	// Geolocation Metrics
	GeolocationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolocation_lookups_total",
			Help: "Total number of client geolocation lookups",
		},
		[]string{"provider", "outcome"},
	)

	GeolocationAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geolocation_api_call_duration_seconds",
			Help:    "Duration of geolocation API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "poster", "trailer", "geolocation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "abandoned"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation operation. results is
// only observed for the "ok" outcome.
func RecordRecommendation(operation, outcome string, results int, duration time.Duration) {
	RecommendRequests.WithLabelValues(operation, outcome).Inc()
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if outcome == "ok" {
		RecommendResults.WithLabelValues(operation).Observe(float64(results))
	}
}

// RecordUnenrichedDropped counts records removed for lacking a poster.
func RecordUnenrichedDropped(operation string, n int) {
	if n > 0 {
		RecommendUnenrichedDropped.WithLabelValues(operation).Add(float64(n))
	}
}

// RecordEnrichLookup records one external lookup.
func RecordEnrichLookup(service, outcome string, duration time.Duration) {
	EnrichLookups.WithLabelValues(service, outcome).Inc()
	if outcome != "rejected" {
		EnrichLookupDuration.WithLabelValues(service).Observe(duration.Seconds())
	}
}

// RecordGeolocationLookup records one geolocation provider call.
func RecordGeolocationLookup(provider, outcome string, duration time.Duration) {
	GeolocationLookups.WithLabelValues(provider, outcome).Inc()
	GeolocationAPICallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordCacheLookup records a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// SetCatalogStats publishes the catalog cleaning summary.
func SetCatalogStats(retained, missingKeywords, duplicates int) {
	CatalogRecords.Set(float64(retained))
	CatalogDroppedRows.WithLabelValues("missing_keywords").Set(float64(missingKeywords))
	CatalogDroppedRows.WithLabelValues("duplicate").Set(float64(duplicates))
}

// SetIndexStats publishes the similarity index summary.
func SetIndexStats(terms int, build time.Duration, reused bool) {
	IndexVocabularySize.Set(float64(terms))
	IndexBuildDuration.Set(build.Seconds())
	if reused {
		IndexModelReused.Set(1)
	} else {
		IndexModelReused.Set(0)
	}
}
