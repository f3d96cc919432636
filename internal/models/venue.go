// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package models

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies on the globe.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Venue is an exhibition or performance location. Platform is the venue's
// identifying name and is what /platform/{name} is keyed on.
type Venue struct {
	Platform      string    `json:"platform"`
	Latitude      FlexFloat `json:"latitude"`
	Longitude     FlexFloat `json:"longitude"`
	GoogleMapsURL string    `json:"google_maps_url,omitempty"`
}

// Coordinate returns the venue position and whether it is usable for
// spatial selection. Venues without one still appear in listings.
func (v Venue) Coordinate() (LatLng, bool) {
	if !v.Latitude.Valid || !v.Longitude.Valid {
		return LatLng{}, false
	}
	p := LatLng{Lat: v.Latitude.Value, Lng: v.Longitude.Value}
	return p, p.Valid()
}

// HasCoordinate reports whether Coordinate would succeed.
func (v Venue) HasCoordinate() bool {
	_, ok := v.Coordinate()
	return ok
}

// NewVenue builds a venue with coordinates, mostly for tests and fixtures.
func NewVenue(platform string, lat, lng float64) Venue {
	return Venue{Platform: platform, Latitude: Float(lat), Longitude: Float(lng)}
}

// UserLocation is a live position fix.
type UserLocation struct {
	LatLng
	AccuracyMeters float64 `json:"accuracy_m"`
}
