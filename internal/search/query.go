// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package search

import (
	"net/url"
	"strconv"
	"time"
)

// Query is a search without paging.
type Query struct {
	Categories []string `json:"categories,omitempty" validate:"omitempty,dive,search_category"`
	Prices     []string `json:"prices,omitempty" validate:"omitempty,dive,search_price"`
	Times      []string `json:"times,omitempty" validate:"omitempty,dive,search_time"`
}

// Page addresses one slice of the result list.
type Page struct {
	Offset int
	Limit  int
	Sort   string
}

// BuildQuery encodes q for the upstream /search endpoint. Categories and
// ticket types repeat; All is never sent. Timestamps are present only when
// at least one time tag is set.
func BuildQuery(q Query, page Page, now time.Time, loc *time.Location) url.Values {
	v := url.Values{}
	for _, c := range q.Categories {
		if c != All {
			v.Add("category", c)
		}
	}
	for _, p := range q.Prices {
		if p != All {
			v.Add("ticket_type", p)
		}
	}
	if start, end, ok := TimeRange(q.Times, now, loc); ok {
		v.Set("start_timestamp", strconv.FormatInt(start, 10))
		v.Set("end_timestamp", strconv.FormatInt(end, 10))
	}
	v.Set("limit", strconv.Itoa(page.Limit))
	v.Set("offset", strconv.Itoa(page.Offset))
	if page.Sort != "" {
		v.Set("sort", page.Sort)
	}
	return v
}
