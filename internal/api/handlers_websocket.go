// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"net/http"

	"github.com/tomtom215/artpass/internal/logging"
	ws "github.com/tomtom215/artpass/internal/websocket"
)

// MapWebSocket handles GET /api/v1/ws/map?uid=. Each connection drives one
// map session; the browser renders what the session sends.
func (h *Handler) MapWebSocket(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.socketUID(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ctx := logging.ContextWithCorrelationID(h.sessionCtx, logging.CorrelationIDFromContext(r.Context()))
	client := ws.NewMapClient(ctx, h.wsHub, conn, uid, ws.MapDeps{
		Config: h.config.Map,
		Source: h.events,
		Styles: h.styles,
	})
	client.Start()
}

// SearchWebSocket handles GET /api/v1/ws/search?uid=. Each connection owns
// one paginator.
func (h *Handler) SearchWebSocket(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.socketUID(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewSearchClient(h.wsHub, conn, uid, h.events, h.config.Search)
	client.Start()
}

func (h *Handler) socketUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := SocketRequest{UID: r.URL.Query().Get("uid")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return "", false
	}
	return req.UID, true
}
