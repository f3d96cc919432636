// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package geo

import (
	"math"

	"github.com/tomtom215/artpass/internal/models"
)

const (
	// TileSize is the edge of a slippy-map tile in pixels.
	TileSize = 256

	// MaxLatitude is the Web Mercator latitude limit.
	MaxLatitude = 85.0511287798

	MinZoom = 0.0
	MaxZoom = 19.0
)

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Project converts a coordinate to world pixel coordinates at zoom.
func Project(p models.LatLng, zoom float64) Point {
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, p.Lat))
	scale := TileSize * math.Pow(2, zoom)
	latRad := lat * math.Pi / 180
	return Point{
		X: scale * (p.Lng + 180) / 360,
		Y: scale * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2,
	}
}

// Unproject converts world pixel coordinates at zoom back to a coordinate.
func Unproject(pt Point, zoom float64) models.LatLng {
	scale := TileSize * math.Pow(2, zoom)
	lng := pt.X/scale*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*pt.Y/scale)))
	return models.LatLng{Lat: latRad * 180 / math.Pi, Lng: lng}
}

// ClampZoom bounds zoom to [MinZoom, maxZoom].
func ClampZoom(zoom, maxZoom float64) float64 {
	if maxZoom <= 0 {
		maxZoom = MaxZoom
	}
	return math.Max(MinZoom, math.Min(zoom, maxZoom))
}

// Viewport is the visible map: a center, a zoom level and the container
// size in CSS pixels.
type Viewport struct {
	Center models.LatLng `json:"center"`
	Zoom   float64       `json:"zoom"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
}

// Empty reports whether the container has no area yet.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// ToScreen projects p into container pixels, origin at the top-left.
func (v Viewport) ToScreen(p models.LatLng) Point {
	c := Project(v.Center, v.Zoom)
	w := Project(p, v.Zoom)
	return Point{
		X: w.X - c.X + float64(v.Width)/2,
		Y: w.Y - c.Y + float64(v.Height)/2,
	}
}

// Bounds is a lat/lng rectangle.
type Bounds struct {
	SouthWest models.LatLng `json:"south_west"`
	NorthEast models.LatLng `json:"north_east"`
}

// BoundsOf returns the rectangle enclosing points. ok is false when empty.
func BoundsOf(points []models.LatLng) (b Bounds, ok bool) {
	for i, p := range points {
		if i == 0 {
			b = Bounds{SouthWest: p, NorthEast: p}
			continue
		}
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	}
	return b, len(points) > 0
}

// VenueBounds returns the rectangle enclosing every venue with coordinates.
func VenueBounds(venues []models.Venue) (Bounds, bool) {
	points := make([]models.LatLng, 0, len(venues))
	for _, v := range venues {
		if p, ok := v.Coordinate(); ok {
			points = append(points, p)
		}
	}
	return BoundsOf(points)
}

// Pad grows the rectangle by ratio of its span on every side.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := (b.NorthEast.Lat - b.SouthWest.Lat) * ratio
	dLng := (b.NorthEast.Lng - b.SouthWest.Lng) * ratio
	return Bounds{
		SouthWest: models.LatLng{Lat: b.SouthWest.Lat - dLat, Lng: b.SouthWest.Lng - dLng},
		NorthEast: models.LatLng{Lat: b.NorthEast.Lat + dLat, Lng: b.NorthEast.Lng + dLng},
	}
}

// FitBounds returns the viewport of the given size that shows the whole
// rectangle at the largest whole zoom level not above maxZoom.
func FitBounds(b Bounds, width, height int, maxZoom float64) Viewport {
	sw := Project(b.SouthWest, 0)
	ne := Project(b.NorthEast, 0)
	center := Unproject(Point{X: (sw.X + ne.X) / 2, Y: (sw.Y + ne.Y) / 2}, 0)

	zoom := ClampZoom(maxZoom, maxZoom)
	dx, dy := math.Abs(ne.X-sw.X), math.Abs(sw.Y-ne.Y)
	if width > 0 && height > 0 && (dx > 0 || dy > 0) {
		scale := math.Inf(1)
		if dx > 0 {
			scale = float64(width) / dx
		}
		if dy > 0 {
			scale = math.Min(scale, float64(height)/dy)
		}
		zoom = ClampZoom(math.Floor(math.Log2(scale)), maxZoom)
	}
	return Viewport{Center: center, Zoom: zoom, Width: width, Height: height}
}

// Tile is a slippy-map tile address.
type Tile struct {
	X, Y, Zoom int
}

// TileAt returns the tile containing p at an integer zoom.
func TileAt(p models.LatLng, zoom int) Tile {
	w := Project(p, float64(zoom))
	maxTile := int(math.Pow(2, float64(zoom))) - 1
	x := int(w.X / TileSize)
	y := int(w.Y / TileSize)
	return Tile{
		X:    max(0, min(x, maxTile)),
		Y:    max(0, min(y, maxTile)),
		Zoom: zoom,
	}
}
