// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

HTTP Metrics:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests
  - api_rate_limit_hits_total (endpoint)

Catalog and Index Metrics:
  - catalog_records, catalog_dropped_rows (reason)
  - index_vocabulary_terms, index_build_duration_seconds, index_model_reused

Recommendation Metrics:
  - recommend_requests_total (operation, outcome)
  - recommend_duration_seconds (operation)
  - recommend_results (operation)
  - recommend_unenriched_dropped_total (operation)

Enrichment Metrics:
  - enrich_lookups_total (service, outcome)
  - enrich_lookup_duration_seconds (service)
  - enrich_in_flight

Geolocation, cache and circuit breaker metrics follow the same pattern; see
the variable declarations in metrics.go.

# Usage

	metrics.RecordAPIRequest("GET", "/api/v1/recommendations", "200", elapsed)
	metrics.RecordEnrichLookup("omdb", "found", elapsed)
*/
package metrics
