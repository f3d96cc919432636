// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package services adapts long-running components to suture.Service.
//
// Components that already expose Serve(ctx) error and String(), such as
// the websocket hub and the passport fan-out, are added to the tree
// directly. This package covers the rest:
//
//   - HTTPServerService: ListenAndServe plus graceful Shutdown
//   - CacheSweeperService: periodic expiry reclamation for cache stores
package services
