// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package metrics declares the Prometheus instruments exported on /metrics
// and small helpers to record them. Instruments are registered on the
// default registry at package init through promauto.
package metrics
