// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/middleware"
)

// Router wires the handler into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router with CORS and rate limits from the security config.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(cfg.Security)),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/performance", h.HealthPerformance)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Public API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/home", h.Home)
			r.Get("/venues", h.Venues)
			r.Get("/venues/{platform}/events", h.VenueEvents)
			r.Get("/events/{id}", h.Event)
			r.Get("/search", h.Search)
			r.Get("/basemaps", h.Basemaps)
			r.Get("/links", h.Links)
			r.Get("/users/{uid}/passport", h.Passport)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())

			r.Post("/users/{uid}/passport/{id}", h.PassportAdd)
			r.Delete("/users/{uid}/passport/{id}", h.PassportRemove)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWebSocket())

			r.Get("/ws/map", h.MapWebSocket)
			r.Get("/ws/search", h.SearchWebSocket)
		})
	})

	return r
}
