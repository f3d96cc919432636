// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/feed"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/middleware"
	"github.com/tomtom215/artpass/internal/models"
	"github.com/tomtom215/artpass/internal/passport"
	"github.com/tomtom215/artpass/internal/search"
	ws "github.com/tomtom215/artpass/internal/websocket"
)

// Version is reported by /health. Overridden at build time with -ldflags.
var Version = "dev"

// EventSource is the part of the remote event API the handlers use.
// *eventapi.Client implements it.
type EventSource interface {
	mapsession.EventSource
	feed.Source
	search.Searcher
	Event(ctx context.Context, id string) (*models.EventDetail, error)
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader (this file)
//   - handlers_helpers.go: response envelope and parameter parsing
//   - handlers_health.go: health, readiness and performance endpoints
//   - handlers_core.go: home, venues, events, search, basemaps, links
//   - handlers_passport.go: passport read and toggle
//   - handlers_websocket.go: map and search WebSocket endpoints
type Handler struct {
	config    *config.Config
	events    EventSource
	feed      *feed.Loader
	passport  *passport.Service
	styles    *mapsession.Styles
	wsHub     *ws.Hub
	perfMon   *middleware.PerformanceMonitor
	loc       *time.Location
	startTime time.Time
	now       func() time.Time

	// sessionCtx parents WebSocket sessions, which outlive their upgrade request.
	sessionCtx context.Context
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(cfg, eventClient, passportSvc, styles, wsHub)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(cfg *config.Config, events EventSource, passportSvc *passport.Service, styles *mapsession.Styles, wsHub *ws.Hub) *Handler {
	return &Handler{
		config:     cfg,
		events:     events,
		feed:       feed.NewLoader(events, cfg.Feed),
		passport:   passportSvc,
		styles:     styles,
		wsHub:      wsHub,
		perfMon:    middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		loc:        models.LoadLocation(cfg.Search.Timezone),
		startTime:  time.Now(),
		now:        time.Now,
		sessionCtx: context.Background(),
	}
}

// SetSessionContext sets the context WebSocket sessions derive from. Cancelling
// it tears every open session down. Call once during startup.
func (h *Handler) SetSessionContext(ctx context.Context) {
	h.sessionCtx = ctx
}

// PerformanceMonitor returns the monitor the router samples requests into.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// getUpgrader creates a WebSocket upgrader with origin checking and a handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket handshakes.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
