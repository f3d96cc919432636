// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package middleware provides the HTTP middleware of the ArtPass API.

All middleware uses the standard func(http.Handler) http.Handler shape so it
can be mounted with chi's Router.Use.

Key Components:

  - RequestID: X-Request-ID and X-Correlation-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by route pattern
  - Compression: pooled gzip writers, skipped for WebSocket upgrades and /metrics
  - PerformanceMonitor: sliding window of latencies with p50/p95/p99 per route

Stack order used by the API router:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
	r.Use(middleware.Compression)

Wrapped response writers forward http.Flusher and http.Hijacker, which the
WebSocket upgrader needs.
*/
package middleware
