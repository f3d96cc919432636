// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/models"
)

// NoEventsMessage is shown on the card of a venue without upcoming events.
const NoEventsMessage = "此場館近期沒有活動"

// Marker is the rendered form of one venue with coordinates.
type Marker struct {
	Venue     int           `json:"venue"`
	Platform  string        `json:"platform"`
	Position  models.LatLng `json:"position"`
	Radius    float64       `json:"radius"`
	HitRadius float64       `json:"hit_radius"`
	Active    bool          `json:"active"`
}

// UserMarker is the user's position with its accuracy circle.
type UserMarker struct {
	Position       models.LatLng `json:"position"`
	AccuracyMeters float64       `json:"accuracy_m"`
}

// Card is the venue event pager as displayed.
type Card struct {
	Status        PagerStatus          `json:"status"`
	Venue         string               `json:"venue,omitempty"`
	GoogleMapsURL string               `json:"google_maps_url,omitempty"`
	Event         *models.EventSummary `json:"event,omitempty"`
	DateRange     string               `json:"date_range,omitempty"`
	Index         int                  `json:"index"`
	Total         int                  `json:"total"`
	Message       string               `json:"message,omitempty"`
}

// View is everything a surface needs to draw the map page.
type View struct {
	Viewport   geo.Viewport `json:"viewport"`
	Generation uint64       `json:"generation"`
	Markers    []Marker     `json:"markers"`
	User       *UserMarker  `json:"user,omitempty"`
	Selected   int          `json:"selected"`
	Card       Card         `json:"card"`

	Basemap      string `json:"basemap"`
	BasemapToken uint64 `json:"basemap_token"`
	BasemapReady bool   `json:"basemap_ready"`

	VenuesLoading          bool `json:"venues_loading"`
	VenuesLoaded           bool `json:"venues_loaded"`
	LayoutPending          bool `json:"layout_pending"`
	Tracking               bool `json:"tracking"`
	GeolocationUnavailable bool `json:"geolocation_unavailable"`
}

// project derives the view from session state. It has no side effects.
func project(st *state) View {
	v := View{
		Viewport:               st.viewport,
		Generation:             st.markerGen,
		Selected:               st.selected,
		Basemap:                st.style.current.Name,
		BasemapToken:           st.style.token,
		BasemapReady:           st.style.ready,
		VenuesLoading:          st.venuesLoading,
		VenuesLoaded:           st.venuesLoaded,
		LayoutPending:          st.layoutPending,
		Tracking:               st.tracking,
		GeolocationUnavailable: st.geoUnavailable,
	}

	radius := geo.RadiusForZoom(st.viewport.Zoom)
	hit := geo.HitRadius(st.viewport.Zoom)
	v.Markers = make([]Marker, 0, len(st.venues))
	for i, venue := range st.venues {
		p, ok := venue.Coordinate()
		if !ok {
			continue
		}
		v.Markers = append(v.Markers, Marker{
			Venue:     i,
			Platform:  venue.Platform,
			Position:  p,
			Radius:    radius,
			HitRadius: hit,
			Active:    i == st.selected,
		})
	}

	if st.user != nil {
		v.User = &UserMarker{Position: st.user.LatLng, AccuracyMeters: st.user.AccuracyMeters}
	}

	v.Card = projectCard(st)
	return v
}

func projectCard(st *state) Card {
	c := Card{Status: st.pager.status}
	if st.pager.venue >= 0 && st.pager.venue < len(st.venues) {
		venue := st.venues[st.pager.venue]
		c.Venue = venue.Platform
		c.GoogleMapsURL = venue.GoogleMapsURL
	}
	c.Total = len(st.pager.events)
	if ev, ok := st.pager.current(); ok {
		c.Event = &ev
		c.Index = st.pager.index
		c.DateRange = ev.DateRange()
	}
	if st.pager.status == PagerEmpty {
		c.Message = NoEventsMessage
	}
	return c
}
