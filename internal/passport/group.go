// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package passport

import (
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/artpass/internal/models"
)

// MonthGroup is the passport entries added in one calendar month.
type MonthGroup struct {
	Month   string                 `json:"month"` // YYYY-MM, empty for undated entries
	Label   string                 `json:"label"`
	Entries []models.PassportEntry `json:"entries"`
}

// GroupByMonth groups entries by the month of added_at in loc, newest month
// first and newest entry first within a month. Entries without a readable
// added_at form a trailing group.
func GroupByMonth(entries []models.PassportEntry, loc *time.Location) []MonthGroup {
	type dated struct {
		entry models.PassportEntry
		at    time.Time
	}
	var withDate []dated
	var undated []models.PassportEntry
	for _, e := range entries {
		if at, ok := e.AddedTime(); ok {
			withDate = append(withDate, dated{e, at.In(loc)})
		} else {
			undated = append(undated, e)
		}
	}
	sort.SliceStable(withDate, func(i, j int) bool {
		return withDate[i].at.After(withDate[j].at)
	})

	groups := []MonthGroup{}
	for _, d := range withDate {
		key := d.at.Format("2006-01")
		if n := len(groups); n == 0 || groups[n-1].Month != key {
			groups = append(groups, MonthGroup{
				Month: key,
				Label: fmt.Sprintf("%d 年 %d 月", d.at.Year(), int(d.at.Month())),
			})
		}
		g := &groups[len(groups)-1]
		g.Entries = append(g.Entries, d.entry)
	}
	if len(undated) > 0 {
		groups = append(groups, MonthGroup{Label: "未標記日期", Entries: undated})
	}
	return groups
}
