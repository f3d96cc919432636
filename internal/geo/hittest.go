// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package geo

import (
	"math"

	"github.com/tomtom215/artpass/internal/models"
)

// Marker sizing, in pixels.
const (
	MinMarkerRadius = 3.0
	MaxMarkerRadius = 8.0
	MinHitRadius    = 16.0
	hitRadiusScale  = 2.2

	maxHitThreshold = 48.0
)

// RadiusForZoom maps zoom linearly to the visible marker radius:
// clamp(0.8*(zoom-10)+5, 3, 8).
func RadiusForZoom(zoom float64) float64 {
	r := 0.8*(zoom-10) + 5
	return math.Max(MinMarkerRadius, math.Min(MaxMarkerRadius, r))
}

// HitRadius is the radius of the invisible hit circle drawn around a marker.
func HitRadius(zoom float64) float64 {
	return math.Max(MinHitRadius, hitRadiusScale*RadiusForZoom(zoom))
}

// HitThreshold is the largest click-to-marker pixel distance that still
// selects the marker. It widens as the map zooms out and venues cluster,
// and never drops below the hit circle. It is non-increasing in zoom.
func HitThreshold(zoom float64) float64 {
	t := math.Max(maxHitRadius(), 44-2*(zoom-10))
	return math.Max(MinHitRadius, math.Min(maxHitThreshold, t))
}

// maxHitRadius is the hit circle once marker radius saturates; using the
// saturated value keeps HitThreshold monotone.
func maxHitRadius() float64 {
	return math.Max(MinHitRadius, hitRadiusScale*MaxMarkerRadius)
}

// HitTest projects every venue with coordinates into the viewport and
// returns the one closest to click, provided it lies within
// HitThreshold(vp.Zoom). ok is false when nothing is close enough.
func HitTest(click Point, venues []models.Venue, vp Viewport) (index int, ok bool) {
	threshold := HitThreshold(vp.Zoom)
	best, bestDist := -1, math.Inf(1)
	for i, v := range venues {
		p, has := v.Coordinate()
		if !has {
			continue
		}
		if d := vp.ToScreen(p).Dist(click); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > threshold {
		return -1, false
	}
	return best, true
}
