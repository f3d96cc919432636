// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"testing"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/models"
)

func TestBasemapStyle_TileURL(t *testing.T) {
	styles := NewStyles(nil, "osm")
	tile := geo.Tile{X: 3430, Y: 1753, Zoom: 12}

	tests := []struct {
		name string
		want string
	}{
		{"osm", "https://c.tile.openstreetmap.org/12/3430/1753.png"},
		{"carto-light", "https://d.basemaps.cartocdn.com/light_all/12/3430/1753.png"},
		{"carto-dark", "https://d.basemaps.cartocdn.com/dark_all/12/3430/1753.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, ok := styles.Get(tt.name)
			if !ok {
				t.Fatalf("style %q missing", tt.name)
			}
			if got := style.TileURL(tile); got != tt.want {
				t.Errorf("TileURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasemapStyle_PreviewURL(t *testing.T) {
	taipei := models.LatLng{Lat: 25.0330, Lng: 121.5654}
	styles := NewStyles([]config.BasemapConfig{
		{Name: "coarse", URLTemplate: "https://tiles.example.com/{z}/{x}/{y}.png", MaxZoom: 10},
	}, "osm")

	tests := []struct {
		name string
		zoom float64
		want string
	}{
		{"osm", 12, "https://a.tile.openstreetmap.org/12/3431/1753.png"},
		{"osm", 11.6, "https://a.tile.openstreetmap.org/12/3431/1753.png"},
		{"coarse", 15, "https://tiles.example.com/10/857/438.png"},
	}
	for _, tt := range tests {
		style, ok := styles.Get(tt.name)
		if !ok {
			t.Fatalf("style %q missing", tt.name)
		}
		if got := style.PreviewURL(taipei, tt.zoom); got != tt.want {
			t.Errorf("%s PreviewURL(zoom %v) = %q, want %q", tt.name, tt.zoom, got, tt.want)
		}
	}
}

func TestBasemapStyle_TileURLWithoutSubdomains(t *testing.T) {
	b := BasemapStyle{URLTemplate: "https://tiles.example.com/{z}/{x}/{y}.png"}
	if got := b.TileURL(geo.Tile{X: 1, Y: 2, Zoom: 3}); got != "https://tiles.example.com/3/1/2.png" {
		t.Errorf("TileURL() = %q", got)
	}
}

func TestNewStyles(t *testing.T) {
	configured := []config.BasemapConfig{
		{Name: "osm", URLTemplate: "https://tiles.internal/{z}/{x}/{y}.png", Attribution: "mirror", MaxZoom: 25},
		{Name: "nlsc", URLTemplate: "https://wmts.nlsc.gov.tw/wmts/EMAP/default/GoogleMapsCompatible/{z}/{y}/{x}", MaxZoom: 18},
		{Name: "", URLTemplate: "https://ignored/{z}/{x}/{y}"},
		{Name: "broken"},
	}
	styles := NewStyles(configured, "nlsc")

	names := []string{}
	for _, b := range styles.List() {
		names = append(names, b.Name)
	}
	want := []string{"osm", "carto-light", "carto-dark", "nlsc"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	osm, _ := styles.Get("osm")
	if osm.Attribution != "mirror" || osm.MaxZoom != 19 {
		t.Errorf("override = %+v, want mirror attribution and max zoom clamped to 19", osm)
	}
	if styles.Default().Name != "nlsc" {
		t.Errorf("Default() = %q, want nlsc", styles.Default().Name)
	}
	if _, ok := styles.Get("broken"); ok {
		t.Error("style without a template registered")
	}

	if got := NewStyles(nil, "missing").Default().Name; got != "osm" {
		t.Errorf("Default() with unknown name = %q, want osm", got)
	}
}

func TestStyleSwitcher(t *testing.T) {
	var w styleSwitcher
	osm := BasemapStyle{Name: "osm"}
	dark := BasemapStyle{Name: "carto-dark"}

	token, detach := w.switchTo(osm)
	if token != 1 || detach != 0 {
		t.Errorf("first switch = %d/%d, want 1/0", token, detach)
	}
	token, detach = w.switchTo(dark)
	if token != 2 || detach != 1 {
		t.Errorf("second switch = %d/%d, want 2/1", token, detach)
	}
	if w.ack(1) || w.ready {
		t.Error("stale ack accepted")
	}
	if w.ack(0) {
		t.Error("zero token accepted")
	}
	if !w.ack(2) || !w.ready || w.current.Name != "carto-dark" {
		t.Errorf("current ack refused: %+v", w)
	}
}
