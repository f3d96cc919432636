// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/artpass/internal/models"
)

const breakerOpen = "open"

// Health handles GET /health: liveness plus the state of the event API breaker.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	breaker := h.events.BreakerState()
	status := "healthy"
	if breaker == breakerOpen {
		status = "degraded"
	}

	sessions := 0
	if h.wsHub != nil {
		sessions = h.wsHub.GetClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:       status,
			Version:      Version,
			EventAPI:     h.config.EventAPI.BaseURL,
			BreakerState: breaker,
			Sessions:     sessions,
			Uptime:       time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests. It answers 200 while the
// process is up, regardless of the event API.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests. An open breaker means every
// page would render empty, so the instance reports 503 until it half-opens.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	breaker := h.events.BreakerState()
	ready := breaker != breakerOpen

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"breaker_state":  breaker,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthPerformance returns per-route latency percentiles over the last 1000 requests.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.perfMon.GetStats(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
