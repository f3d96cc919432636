// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"testing"

	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/models"
)

func TestProject_MarkersFollowZoom(t *testing.T) {
	st := &state{
		venues:    testVenues(),
		markerGen: 4,
		selected:  1,
		pager:     newPager(),
		viewport:  geo.Viewport{Zoom: 10, Width: 400, Height: 600},
	}

	v := project(st)
	if v.Generation != 4 {
		t.Errorf("generation = %d, want 4", v.Generation)
	}
	if len(v.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(v.Markers))
	}
	for _, m := range v.Markers {
		if m.Radius != 5 || m.HitRadius != 16 {
			t.Errorf("zoom 10 marker radius %v hit %v, want 5 and 16", m.Radius, m.HitRadius)
		}
		if m.Active != (m.Venue == 1) {
			t.Errorf("marker %d active = %v", m.Venue, m.Active)
		}
	}

	// zooming resizes markers without recreating them
	st.viewport.Zoom = 14
	v = project(st)
	if v.Generation != 4 {
		t.Errorf("generation changed on zoom: %d", v.Generation)
	}
	for _, m := range v.Markers {
		if m.Radius != 8 || m.HitRadius < 17.59 || m.HitRadius > 17.61 {
			t.Errorf("zoom 14 marker radius %v hit %v, want 8 and 17.6", m.Radius, m.HitRadius)
		}
	}
}

func TestProject_Card(t *testing.T) {
	st := &state{venues: testVenues(), selected: 1, pager: newPager()}
	st.venues[1].GoogleMapsURL = "https://maps.google.com/?q=moca"

	if c := project(st).Card; c.Status != PagerIdle || c.Venue != "" {
		t.Errorf("idle card = %+v", c)
	}

	gen := st.pager.begin(1)
	if c := project(st).Card; c.Status != PagerLoading || c.Venue != venueMOCA {
		t.Errorf("loading card = %+v", c)
	}

	ev := event("9", "夜光展")
	ev.StartTimestamp = models.Int64(1773532800) // 2026-03-15 08:00 Asia/Taipei
	ev.EndTimestamp = models.Int64(1774051200)   // 2026-03-21 08:00 Asia/Taipei
	st.pager.apply(gen, []models.EventSummary{ev})
	c := project(st).Card
	if c.Status != PagerReady || c.Event == nil || c.Event.Title != "夜光展" {
		t.Fatalf("ready card = %+v", c)
	}
	if c.Total != 1 || c.Index != 0 || c.GoogleMapsURL == "" {
		t.Errorf("ready card = %+v", c)
	}
	if c.DateRange != "2026/03/15 - 2026/03/21" {
		t.Errorf("date range = %q", c.DateRange)
	}
	if c.Message != "" {
		t.Errorf("ready card carries message %q", c.Message)
	}

	gen = st.pager.begin(1)
	st.pager.apply(gen, nil)
	if c := project(st).Card; c.Status != PagerEmpty || c.Message != NoEventsMessage || c.Event != nil {
		t.Errorf("empty card = %+v", c)
	}
}

func TestProject_UserMarker(t *testing.T) {
	st := &state{pager: newPager(), selected: -1}
	if project(st).User != nil {
		t.Error("user marker without a location")
	}
	st.user = &models.UserLocation{LatLng: models.LatLng{Lat: 25.04, Lng: 121.51}, AccuracyMeters: 60}
	u := project(st).User
	if u == nil || u.AccuracyMeters != 60 || u.Position.Lat != 25.04 {
		t.Errorf("user marker = %+v", u)
	}
}
