// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package geo implements spatial selection over venues: great-circle
// ordering from the user, fallback selection, Web Mercator projection into
// the current viewport, and pixel-space hit testing against venue markers.
//
// Everything here is pure and deterministic so it can be tested without a
// map renderer.
package geo
