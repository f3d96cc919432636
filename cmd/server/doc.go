// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package main is the entry point for the ArtPass server.

ArtPass helps people find cultural events in Taipei. It proxies the
art-pass event API and adds a home feed, filtered search, a month-grouped
personal passport, and server-driven venue map sessions over WebSocket.

# Application Architecture

	artpass
	├── data-layer
	│   └── cache-sweeper     (CACHE_ENABLED with a sweep interval)
	├── messaging-layer
	│   ├── websocket-hub     (map and search sessions)
	│   └── passport-fanout   (watermill gochannel to user sockets)
	└── api-layer
	    └── http-server       (chi router, /api/v1, /health, /metrics)

Startup order:

 1. Configuration: koanf v2 over defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console
 3. Response cache: in-process LRU or BadgerDB
 4. Event API client: rate limited, circuit broken, cached
 5. Passport service and change bus
 6. HTTP handler and router
 7. Supervisor tree

# Configuration

Environment variables override config.yaml, which overrides defaults:

	EVENT_API_URL=https://art-pass.example.org/api
	HTTP_PORT=8080
	CACHE_BACKEND=badger CACHE_PATH=/data/cache
	CORS_ORIGINS=https://artpass.example.org
	LOG_LEVEL=debug LOG_FORMAT=console

# Signal Handling

SIGINT and SIGTERM cancel the root context. Every supervised service
then stops within SHUTDOWN_TIMEOUT; open map sessions are closed
by the hub before the listener drains.
*/
package main
