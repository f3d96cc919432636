// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package api provides the HTTP surface of ArtPass.

The API is a backend-for-frontend over the remote event API: page data is
fetched upstream, normalised and wrapped in one response envelope, while the
interactive map and search list run as server-side sessions reached over
WebSocket.

Routes:

	GET    /health                                liveness, version, breaker state
	GET    /health/live                           liveness probe
	GET    /health/ready                          503 while the event API breaker is open
	GET    /health/performance                    latency percentiles per route
	GET    /metrics                               Prometheus scrape
	GET    /api/v1/home                           hot and recent events
	GET    /api/v1/venues?lat=&lng=               venues, nearest first when located
	GET    /api/v1/venues/{platform}/events       events of one venue in the map window
	GET    /api/v1/events/{id}?uid=               event detail, date label, passport mark
	GET    /api/v1/search                         one page of filtered search
	GET    /api/v1/basemaps                       tile styles
	GET    /api/v1/links?href=&uid=               uid propagation
	GET    /api/v1/users/{uid}/passport           passport grouped by month
	POST   /api/v1/users/{uid}/passport/{id}      mark visited
	DELETE /api/v1/users/{uid}/passport/{id}      unmark
	GET    /api/v1/ws/map?uid=                    map session
	GET    /api/v1/ws/search?uid=                 search paginator

Response Format:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 12, "pagination": {...}},
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}
	}

List endpoints degrade to empty results when the event API fails; only the
event detail distinguishes not-found (404) from an unavailable upstream (502).

Middleware order: request id, RealIP, Recoverer, CORS, Prometheus, performance
monitor, gzip; then per-group security headers and per-IP rate limits.
*/
package api
