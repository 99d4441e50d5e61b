// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides HTTP middleware components for the application.

Key Components:

  - Compression: gzip response bodies for clients that accept it
  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: request count, latency and in-flight gauge per route

All middleware use the http.HandlerFunc -> http.HandlerFunc shape; the api
package adapts them to chi's func(http.Handler) http.Handler.

Middleware Stack:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

PrometheusMetrics must run inside the router so that the matched route pattern
is available for the endpoint label.
*/
package middleware
