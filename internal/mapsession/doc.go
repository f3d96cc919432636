// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package mapsession drives one interactive venue map.

A Session owns all map state (venues, markers, selection, user location,
the venue event pager and the basemap) inside a single goroutine. Public
methods post typed messages to that goroutine; network fetches and location
fixes run in helper goroutines and post their results back tagged with the
generation they were started for, so a result that arrives after a newer
request is dropped instead of applied.

After every state change the session projects its state into a View and
hands it to the Surface. The marker layer is never edited in place: markers
are recomputed from venues, zoom and selection on every render.

Message flow:

	browser ──ws──▶ Session.Click / Select / Advance / Resize / SetStyle
	                    │
	                    ▼
	              owner goroutine ──▶ Surface.Render(View)
	                    ▲
	EventSource / Locator results (generation tagged)

Lifecycle:

	s := mapsession.New(deps)
	s.Initialize(ctx, width, height)
	s.LoadVenues()
	s.TrackUserLocation()
	...
	s.Teardown() // idempotent
*/
package mapsession
