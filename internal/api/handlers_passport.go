// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/passport"
)

// PassportResponse is a user's passport grouped by the month entries were added.
type PassportResponse struct {
	UID    string                `json:"uid"`
	Count  int                   `json:"count"`
	Groups []passport.MonthGroup `json:"groups"`
}

// Passport handles GET /api/v1/users/{uid}/passport. A passport that cannot
// be read renders as empty.
func (h *Handler) Passport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := PassportRequest{UID: pathParam(r, "uid")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	resp := PassportResponse{UID: req.UID, Groups: []passport.MonthGroup{}}
	p, err := h.passport.Entries(r.Context(), req.UID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("passport unavailable")
	} else {
		resp.Count = len(p.Entries)
		resp.Groups = passport.GroupByMonth(p.Entries, h.loc)
	}
	respondData(w, r, resp, start)
}

// PassportAdd handles POST /api/v1/users/{uid}/passport/{id}.
func (h *Handler) PassportAdd(w http.ResponseWriter, r *http.Request) {
	h.togglePassport(w, r, false)
}

// PassportRemove handles DELETE /api/v1/users/{uid}/passport/{id}.
func (h *Handler) PassportRemove(w http.ResponseWriter, r *http.Request) {
	h.togglePassport(w, r, true)
}

// togglePassport flips the mark of one event; marked is the state the caller
// currently shows.
func (h *Handler) togglePassport(w http.ResponseWriter, r *http.Request, marked bool) {
	start := time.Now()

	req := PassportRequest{UID: pathParam(r, "uid"), EventID: pathParam(r, "id")}
	if req.EventID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "event id is required", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := h.passport.Toggle(r.Context(), req.UID, req.EventID, marked)
	if errors.Is(err, passport.ErrMissingUID) {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "uid is required", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, ErrCodeExternalService, "Passport service unavailable", err)
		return
	}
	respondData(w, r, result, start)
}
