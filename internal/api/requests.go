// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Request structs carry go-playground/validator tags. The custom tags uid,
// event_id, search_category, search_price and search_time are registered by
// internal/validation.
package api

import "github.com/tomtom215/artpass/internal/search"

// VenuesRequest is GET /venues. Coordinates come as a pair or not at all.
type VenuesRequest struct {
	Lat *float64 `validate:"required_with=Lng,omitempty,latitude"`
	Lng *float64 `validate:"required_with=Lat,omitempty,longitude"`
}

// VenueEventsRequest is GET /venues/{platform}/events.
type VenueEventsRequest struct {
	Platform string `validate:"required,max=256"`
}

// EventRequest is GET /events/{id}. UID is optional and adds the passport mark.
type EventRequest struct {
	ID  string `validate:"required,event_id"`
	UID string `validate:"omitempty,uid"`
}

// SearchRequest is GET /search. The embedded query carries its own tags.
type SearchRequest struct {
	search.Query
	Offset int `validate:"min=0,max=100000"`
	Limit  int `validate:"min=1,max=100"`
}

// PassportRequest addresses one user's passport, optionally one event in it.
type PassportRequest struct {
	UID     string `validate:"required,uid"`
	EventID string `validate:"omitempty,event_id"`
}

// LinksRequest is GET /links.
type LinksRequest struct {
	Href string `validate:"required,max=2048"`
	UID  string `validate:"omitempty,uid"`
}

// SocketRequest is the query of the WebSocket endpoints.
type SocketRequest struct {
	UID string `validate:"omitempty,uid"`
}
