// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package search

import (
	"time"
)

// TimeRange merges time tags into one window: the earliest start and the
// latest end of the individual tag windows, in epoch seconds. ok is false
// when no known tag is given.
//
//	今日    today 00:00 to 23:59:59.999
//	明日    tomorrow 00:00 to 23:59:59.999
//	近30日  now to the end of the day 30 days ahead
//	本星期  Monday 00:00 to Sunday 23:59:59.999 of the current week
//	週末    the coming Saturday 00:00 (today if Saturday) to Sunday 23:59:59.999
func TimeRange(tags []string, now time.Time, loc *time.Location) (start, end int64, ok bool) {
	now = now.In(loc)
	today := startOfDay(now)

	var lo, hi time.Time
	for _, tag := range tags {
		var s, e time.Time
		switch tag {
		case TimeToday:
			s, e = today, endOfDay(today)
		case TimeTomorrow:
			d := today.AddDate(0, 0, 1)
			s, e = d, endOfDay(d)
		case TimeNext30:
			s, e = now, endOfDay(now.AddDate(0, 0, 30))
		case TimeThisWeek:
			day := int(now.Weekday())
			if day == 0 {
				day = 7
			}
			monday := today.AddDate(0, 0, 1-day)
			s, e = monday, endOfDay(monday.AddDate(0, 0, 6))
		case TimeWeekend:
			toSat := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
			sat := today.AddDate(0, 0, toSat)
			s, e = sat, endOfDay(sat.AddDate(0, 0, 1))
		default:
			continue
		}
		if !ok || s.Before(lo) {
			lo = s
		}
		if !ok || e.After(hi) {
			hi = e
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo.Unix(), hi.Unix(), true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
