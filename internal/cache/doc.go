// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package cache holds upstream response bodies for a bounded time.
//
// Two Store implementations are provided:
//   - LRUStore: in-process, capacity bounded, lazy TTL expiry
//   - BadgerStore: BadgerDB backed, on disk or in memory, native TTL
//
// The event API client caches the venue list and event details through
// whichever Store the configuration selects.
package cache
