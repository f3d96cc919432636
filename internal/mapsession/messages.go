// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/models"
)

// message is anything the owner goroutine handles.
type message interface {
	kind() string
}

type initMsg struct {
	width, height int
	reply         chan struct{}
}

type resizeMsg struct{ width, height int }

type viewportMsg struct {
	center models.LatLng
	zoom   float64
}

type loadVenuesMsg struct{}

type venuesLoadedMsg struct {
	venues []models.Venue
	err    error
}

type trackMsg struct{}

type locateMsg struct{}

type fixMsg struct {
	fix     Fix
	flyZoom float64 // 0 keeps the camera where it is
}

type clickMsg struct{ point geo.Point }

type selectMsg struct {
	index int
	fly   bool
}

type advanceMsg struct{ dir int }

type eventsLoadedMsg struct {
	gen    uint64
	venue  int
	events []models.EventSummary
	err    error
}

type styleMsg struct {
	name  string
	reply chan error
}

type tilesReadyMsg struct{ token uint64 }

type snapshotMsg struct{ reply chan View }

func (initMsg) kind() string         { return "initialize" }
func (resizeMsg) kind() string       { return "resize" }
func (viewportMsg) kind() string     { return "viewport" }
func (loadVenuesMsg) kind() string   { return "load_venues" }
func (venuesLoadedMsg) kind() string { return "venues_loaded" }
func (trackMsg) kind() string        { return "track" }
func (locateMsg) kind() string       { return "locate" }
func (fixMsg) kind() string          { return "location" }
func (clickMsg) kind() string        { return "click" }
func (selectMsg) kind() string       { return "select" }
func (advanceMsg) kind() string      { return "advance" }
func (eventsLoadedMsg) kind() string { return "events_loaded" }
func (styleMsg) kind() string        { return "style" }
func (tilesReadyMsg) kind() string   { return "tiles_ready" }
func (snapshotMsg) kind() string     { return "snapshot" }
