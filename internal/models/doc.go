// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package models holds the data types shared across ArtPass: venues and
// events as returned by the remote event API, passport entries, and the
// JSON envelope of the public HTTP API.
//
// The remote API is loosely typed. Identifiers arrive as strings or numbers,
// coordinates may be missing or empty, timestamps may be integers or floats.
// The Flex* types absorb those variations at decode time so the rest of the
// code works with plain Go values.
package models
