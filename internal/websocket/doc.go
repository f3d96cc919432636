// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package websocket connects browsers to map and search sessions.

The package uses gorilla/websocket with the hub-client architecture: the
Hub tracks every connected client together with the uid it was opened
with, and broadcasts either to all clients or to the clients of one uid
(passport changes). Each Client runs a read pump and a write pump; inbound
messages are decoded into Inbound and passed to the client's Handler.

	┌──────────┐
	│   Hub    │ ← passport.changed fan-out by uid
	└────┬─────┘
	     │
	┌────┴─────┬──────────────┐
	│          │              │
	│ map      │ map          │ search
	│ client   │ client       │ client
	│  │       │  │           │  │
	│ Session  │ Session      │ Paginator
	└──────────┴──────────────┴──────────┘

Map clients own one mapsession.Session. The browser is the session's
Surface: view, camera and tiles messages flow out, and the browser's
geolocation API is reached through a mapsession.RemoteLocator whose
requests travel as geolocate messages.

Inbound message types (browser → server):

	init           {width, height}        first layout; loads venues
	resize         {width, height}
	viewport       {lat, lng, zoom}       camera moved by the user
	click          {x, y}                 container pixel
	select         {index}
	advance        {dir}                  -1 or 1
	style          {name}
	tiles_ready    {token}
	locate         {}
	geolocation    {available}
	location       {id, lat, lng, accuracy}
	location_error {id, message}
	search         {categories, prices, times}
	more           {}
	ping           {}

Outbound message types (server → browser):

	view, camera, tiles, geolocate, results, passport_changed, error, pong
*/
package websocket
