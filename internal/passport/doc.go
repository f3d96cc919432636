// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package passport tracks the events a user has marked as visited.
//
// The Service loads a user's passport and toggles single entries against
// the event API. A toggle only counts as a change when the upstream call
// succeeded and reported that the entry was actually added or removed;
// changes are then reported to the caller's callback and published on the
// passport.changed topic of an in-process watermill pub/sub, from where a
// Fanout service delivers them to every connected client of that user.
package passport
