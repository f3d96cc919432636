// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package eventapi is the HTTP client for the remote cultural event API.

Endpoints:
  - GET /venue                              venue list (cached)
  - GET /platform/{name}?start_timestamp&end_timestamp
  - GET /hot, GET /recent                   home feed rows
  - GET /event/{id}                         event detail (cached)
  - GET /search?...                         paginated search
  - GET/POST/DELETE /users/{uid}/passport   passport membership

Every response body is trimmed and stripped of trailing '%' characters
before it is decoded. Each request is a single attempt: there is no retry
loop. Calls are paced by a token bucket and pass through a circuit breaker
so an unreachable upstream fails fast.

A 404 from /platform/{name} is an empty list, not an error. Any other non-2xx
status is returned as *StatusError. Cancelled contexts come back as
context.Canceled and are not logged.
*/
package eventapi
