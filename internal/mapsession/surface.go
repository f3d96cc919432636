// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"context"
	"time"

	"github.com/tomtom215/artpass/internal/models"
)

// Surface renders a session. Calls never overlap: they come from the
// session goroutine, and Destroy only after it has stopped. Implementations
// must not block for long.
type Surface interface {
	// Render replaces the whole displayed state.
	Render(View)

	// InvalidateSize asks the map to re-measure its container.
	InvalidateSize()

	// SetView moves the camera; animate distinguishes flyTo from setView.
	SetView(center models.LatLng, zoom float64, animate bool)

	// AttachTiles adds the tile layer identified by token.
	AttachTiles(token uint64, style BasemapStyle)

	// DetachTiles removes the tile layer identified by token.
	DetachTiles(token uint64)

	// Destroy releases the map. No call follows it.
	Destroy()
}

// EventSource is the subset of the event API a session reads.
type EventSource interface {
	Venues(ctx context.Context) ([]models.Venue, error)
	EventsByPlatform(ctx context.Context, platform string, start, end time.Time) ([]models.EventSummary, error)
}
