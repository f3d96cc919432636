// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package geo

import (
	"sort"
	"strings"

	"github.com/tomtom215/artpass/internal/models"
)

// OrderByDistance returns venue indices sorted by ascending distance from
// user. Venues without coordinates sort last. Equal distances keep their
// original relative order.
func OrderByDistance(user models.LatLng, venues []models.Venue) []int {
	dist := make([]float64, len(venues))
	idx := make([]int, len(venues))
	for i, v := range venues {
		idx[i] = i
		dist[i] = VenueDistance(user, v)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dist[idx[a]] < dist[idx[b]]
	})
	return idx
}

// Nearest returns the index of the closest venue with coordinates, or -1.
func Nearest(user models.LatLng, venues []models.Venue) int {
	order := OrderByDistance(user, venues)
	if len(order) == 0 || !venues[order[0]].HasCoordinate() {
		return -1
	}
	return order[0]
}

// FirstValidIndex picks a selection when no user location is known:
// the venue named landmark if it has coordinates, else the first venue with
// coordinates, else 0. It returns -1 only for an empty list.
func FirstValidIndex(venues []models.Venue, landmark string) int {
	if len(venues) == 0 {
		return -1
	}
	landmark = strings.TrimSpace(landmark)
	if landmark != "" {
		for i, v := range venues {
			if strings.TrimSpace(v.Platform) == landmark && v.HasCoordinate() {
				return i
			}
		}
	}
	for i, v := range venues {
		if v.HasCoordinate() {
			return i
		}
	}
	return 0
}

// FilterWithCoordinates keeps the indices whose venue has a coordinate,
// preserving order.
func FilterWithCoordinates(order []int, venues []models.Venue) []int {
	out := make([]int, 0, len(order))
	for _, i := range order {
		if i >= 0 && i < len(venues) && venues[i].HasCoordinate() {
			out = append(out, i)
		}
	}
	return out
}
