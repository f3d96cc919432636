// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

/*
Package supervisor provides process supervision using suture v4.

The tree has three layers, each with its own failure accounting:

	artpass
	├── data-layer
	│   └── cache-sweeper      (when the response cache is enabled)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── passport-fanout
	└── api-layer
	    └── http-server

Crashed services restart with suture's backoff. Canceling the context
passed to Serve stops every service, each bounded by
TreeConfig.ShutdownTimeout. Supervisor events are logged through
sutureslog on top of the zerolog-backed slog handler from
internal/logging.

	tree, err := supervisor.NewSupervisorTree(nil, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddMessagingService(hub)
	tree.AddMessagingService(passport.NewFanout(bus, hub.BroadcastPassportChange))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout))
	return tree.Serve(ctx)
*/
package supervisor
