// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/models"
)

// ErrUnknownStyle is returned by SetStyle for names that are not configured.
var ErrUnknownStyle = errors.New("unknown basemap style")

// BasemapStyle is a raster tile source.
type BasemapStyle struct {
	Name        string   `json:"name"`
	URLTemplate string   `json:"url_template"`
	Subdomains  []string `json:"subdomains,omitempty"`
	Attribution string   `json:"attribution"`
	MaxZoom     int      `json:"max_zoom"`
}

// TileURL expands the template for one tile. {s} rotates through the
// subdomains by (x+y) and {r} (retina suffix) is dropped.
func (b BasemapStyle) TileURL(t geo.Tile) string {
	sub := ""
	if n := len(b.Subdomains); n > 0 {
		i := (t.X + t.Y) % n
		if i < 0 {
			i += n
		}
		sub = b.Subdomains[i]
	}
	r := strings.NewReplacer(
		"{s}", sub,
		"{z}", strconv.Itoa(t.Zoom),
		"{x}", strconv.Itoa(t.X),
		"{y}", strconv.Itoa(t.Y),
		"{r}", "",
	)
	return r.Replace(b.URLTemplate)
}

// PreviewURL returns the tile covering center at zoom, rounded and clamped
// to the style's own zoom range.
func (b BasemapStyle) PreviewURL(center models.LatLng, zoom float64) string {
	z := int(math.Round(geo.ClampZoom(zoom, float64(b.MaxZoom))))
	return b.TileURL(geo.TileAt(center, z))
}

const osmAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright" target="_blank" rel="noreferrer">OpenStreetMap</a> contributors`

// builtinStyles are always available unless overridden by name.
var builtinStyles = []BasemapStyle{
	{
		Name:        "osm",
		URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Subdomains:  []string{"a", "b", "c"},
		Attribution: osmAttribution,
		MaxZoom:     19,
	},
	{
		Name:        "carto-light",
		URLTemplate: "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Subdomains:  []string{"a", "b", "c", "d"},
		Attribution: osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		MaxZoom:     19,
	},
	{
		Name:        "carto-dark",
		URLTemplate: "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Subdomains:  []string{"a", "b", "c", "d"},
		Attribution: osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		MaxZoom:     19,
	},
}

// Styles is an immutable, ordered set of basemap styles.
type Styles struct {
	order  []string
	byName map[string]BasemapStyle
	def    string
}

// NewStyles merges configured styles over the built-ins. Configured entries
// replace a built-in of the same name or are appended. defaultName falls
// back to the first style when it is not present.
func NewStyles(configured []config.BasemapConfig, defaultName string) *Styles {
	s := &Styles{byName: make(map[string]BasemapStyle)}
	add := func(b BasemapStyle) {
		if b.MaxZoom <= 0 || b.MaxZoom > int(geo.MaxZoom) {
			b.MaxZoom = int(geo.MaxZoom)
		}
		if _, exists := s.byName[b.Name]; !exists {
			s.order = append(s.order, b.Name)
		}
		s.byName[b.Name] = b
	}
	for _, b := range builtinStyles {
		add(b)
	}
	for _, c := range configured {
		if c.Name == "" || c.URLTemplate == "" {
			continue
		}
		add(BasemapStyle{
			Name:        c.Name,
			URLTemplate: c.URLTemplate,
			Subdomains:  c.Subdomains,
			Attribution: c.Attribution,
			MaxZoom:     c.MaxZoom,
		})
	}

	s.def = defaultName
	if _, ok := s.byName[s.def]; !ok {
		s.def = s.order[0]
	}
	return s
}

// Get looks a style up by name.
func (s *Styles) Get(name string) (BasemapStyle, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Default returns the style a new session starts with.
func (s *Styles) Default() BasemapStyle {
	return s.byName[s.def]
}

// List returns every style in registration order.
func (s *Styles) List() []BasemapStyle {
	out := make([]BasemapStyle, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// styleSwitcher tracks the single attached tile layer. Each switch gets a
// new token; acknowledgements for any other token are stale.
type styleSwitcher struct {
	token   uint64
	current BasemapStyle
	ready   bool
}

// switchTo returns the token for the new layer and the token of the layer
// that must be detached (0 when none).
func (w *styleSwitcher) switchTo(style BasemapStyle) (token, detach uint64) {
	detach = w.token
	w.token++
	w.current = style
	w.ready = false
	return w.token, detach
}

// ack marks the current layer as loaded. It reports false for stale tokens.
func (w *styleSwitcher) ack(token uint64) bool {
	if token == 0 || token != w.token {
		return false
	}
	w.ready = true
	return true
}
