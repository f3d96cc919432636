// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Public HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artpass_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artpass_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Remote event API
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_upstream_requests_total",
			Help: "Requests sent to the remote event API",
		},
		[]string{"endpoint", "outcome"}, // ok, not_found, http_error, transport_error, decode_error, canceled, rejected
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artpass_upstream_request_duration_seconds",
			Help:    "Remote event API latency in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	UpstreamRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artpass_upstream_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the client-side rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artpass_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Response cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_cache_hits_total",
			Help: "Upstream response cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_cache_misses_total",
			Help: "Upstream response cache misses",
		},
		[]string{"backend"},
	)

	// Map sessions
	MapSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artpass_map_sessions_active",
			Help: "Map sessions currently running",
		},
	)

	MapSessionMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_map_session_messages_total",
			Help: "Messages processed by map session loops",
		},
		[]string{"type"},
	)

	PagerFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_pager_fetches_total",
			Help: "Venue event fetches by outcome",
		},
		[]string{"outcome"}, // ready, empty, error
	)

	PagerStaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artpass_pager_stale_results_total",
			Help: "Venue event results dropped because a newer selection superseded them",
		},
	)

	StyleSwitches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_basemap_switches_total",
			Help: "Basemap style switches",
		},
		[]string{"style"},
	)

	// Search
	SearchPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_search_pages_total",
			Help: "Search pages fetched",
		},
		[]string{"page", "outcome"}, // page: first, next
	)

	SearchSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artpass_search_superseded_total",
			Help: "Search requests cancelled by a newer search",
		},
	)

	// Passport
	PassportToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_passport_toggles_total",
			Help: "Passport add/remove attempts",
		},
		[]string{"action", "outcome"}, // outcome: changed, unchanged, skipped, error
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artpass_websocket_connections",
			Help: "Open WebSocket connections",
		},
	)

	WSMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artpass_websocket_messages_total",
			Help: "WebSocket messages by direction and type",
		},
		[]string{"direction", "type"},
	)
)

// RecordAPIRequest records one public API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstream records one remote event API call.
func RecordUpstream(endpoint, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
		return
	}
	CacheMisses.WithLabelValues(backend).Inc()
}

// RecordPassportToggle counts a passport action.
func RecordPassportToggle(action, outcome string) {
	PassportToggles.WithLabelValues(action, outcome).Inc()
}
