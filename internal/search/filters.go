// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package search

import "slices"

// All is the option that stands for "no restriction".
const All = "全部"

// CategoryOptions lists the selectable categories in display order.
var CategoryOptions = []string{
	All, "表演藝術", "展覽", "音樂現場", "講座", "電影",
	"城市生活圈", "親子活動", "城外行腳", "專題特區", "封面故事",
}

// PriceOptions lists the selectable ticket types in display order.
var PriceOptions = []string{All, "免費", "售票", "索票"}

// Time tags.
const (
	TimeToday    = "今日"
	TimeTomorrow = "明日"
	TimeNext30   = "近30日"
	TimeThisWeek = "本星期"
	TimeWeekend  = "週末"
)

// TimeOptions lists the time tags in display order.
var TimeOptions = []string{TimeToday, TimeTomorrow, TimeNext30, TimeThisWeek, TimeWeekend}

// Filters is the filter panel selection. The zero value is not valid; use
// DefaultFilters.
type Filters struct {
	Categories []string `json:"categories"`
	Prices     []string `json:"prices"`
	Times      []string `json:"times"`
}

// DefaultFilters selects every category and price with no time tag.
func DefaultFilters() Filters {
	return Filters{
		Categories: []string{All},
		Prices:     []string{All},
		Times:      []string{},
	}
}

// ToggleCategory flips one category.
func (f Filters) ToggleCategory(name string) Filters {
	f.Categories = toggleWithAll(f.Categories, name, CategoryOptions)
	return f
}

// TogglePrice flips one ticket type.
func (f Filters) TogglePrice(name string) Filters {
	f.Prices = toggleWithAll(f.Prices, name, PriceOptions)
	return f
}

// ToggleTime flips one time tag. Tags are independent of each other.
func (f Filters) ToggleTime(name string) Filters {
	if !slices.Contains(TimeOptions, name) {
		return f
	}
	set := make(map[string]bool, len(f.Times)+1)
	for _, t := range f.Times {
		set[t] = true
	}
	set[name] = !set[name]
	f.Times = ordered(set, TimeOptions)
	return f
}

// Query returns the selection as a query, dropping the "all" options.
func (f Filters) Query() Query {
	return Query{
		Categories: without(f.Categories, All),
		Prices:     without(f.Prices, All),
		Times:      slices.Clone(f.Times),
	}
}

// toggleWithAll applies the "all" rules: choosing All resets to {All},
// choosing anything else drops All, and an empty result falls back to {All}.
// Unknown names leave the selection unchanged.
func toggleWithAll(current []string, name string, options []string) []string {
	if !slices.Contains(options, name) {
		return current
	}
	if name == All {
		return []string{All}
	}
	set := make(map[string]bool, len(current)+1)
	for _, c := range current {
		if c != All {
			set[c] = true
		}
	}
	set[name] = !set[name]
	next := ordered(set, options)
	if len(next) == 0 {
		return []string{All}
	}
	return next
}

// ordered returns the members of set in option order.
func ordered(set map[string]bool, options []string) []string {
	out := make([]string, 0, len(set))
	for _, o := range options {
		if set[o] {
			out = append(out, o)
		}
	}
	return out
}

func without(values []string, drop string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
