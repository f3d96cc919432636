// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package models

import (
	"time"
)

// DefaultTimezone is used when an event carries no event_timezone.
const DefaultTimezone = "Asia/Taipei"

// EventSummary is one row of a list endpoint (/hot, /recent, /search, /platform).
type EventSummary struct {
	EventID          FlexString `json:"event_id"`
	Title            string     `json:"title"`
	ImageURL         string     `json:"image_url,omitempty"`
	VenueName        string     `json:"venue_name,omitempty"`
	Category         string     `json:"category,omitempty"`
	TicketType       string     `json:"ticket_type,omitempty"`
	StartTimestamp   FlexInt64  `json:"start_timestamp"`
	EndTimestamp     FlexInt64  `json:"end_timestamp"`
	StartDatetimeISO string     `json:"start_datetime_iso,omitempty"`
	EndDatetimeISO   string     `json:"end_datetime_iso,omitempty"`
	EventTimezone    string     `json:"event_timezone,omitempty"`
	DateTime         string     `json:"date_time,omitempty"`
	EventURL         string     `json:"event_url,omitempty"`
}

// Start returns the start instant, preferring the ISO field.
func (e EventSummary) Start() (time.Time, bool) {
	return eventInstant(e.StartDatetimeISO, e.StartTimestamp)
}

// End returns the end instant, preferring the ISO field.
func (e EventSummary) End() (time.Time, bool) {
	return eventInstant(e.EndDatetimeISO, e.EndTimestamp)
}

// DateRange renders the event dates as YYYY/MM/DD in the event timezone:
// a single date when start and end fall on the same day, "start - end"
// otherwise, and the free-form date_time text when no instant is known.
func (e EventSummary) DateRange() string {
	loc := LoadLocation(e.EventTimezone)
	start, hasStart := e.Start()
	end, hasEnd := e.End()

	switch {
	case hasStart && hasEnd:
		s, t := formatDay(start, loc), formatDay(end, loc)
		if s == t {
			return s
		}
		return s + " - " + t
	case hasStart:
		return formatDay(start, loc)
	case hasEnd:
		return formatDay(end, loc)
	default:
		return e.DateTime
	}
}

func eventInstant(iso string, ts FlexInt64) (time.Time, bool) {
	if iso != "" {
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return t, true
		}
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", iso, LoadLocation("")); err == nil {
			return t, true
		}
	}
	if ts.Valid {
		return time.Unix(ts.Value, 0), true
	}
	return time.Time{}, false
}

func formatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006/01/02")
}

// taipeiFallback is used when the host has no tzdata for Asia/Taipei.
var taipeiFallback = time.FixedZone("CST", 8*60*60)

// LoadLocation resolves an IANA zone name, defaulting to Asia/Taipei and
// falling back to a fixed UTC+8 zone when tzdata is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if name != DefaultTimezone {
		return LoadLocation(DefaultTimezone)
	}
	return taipeiFallback
}

// EventDetail is the normalised /event/{id} payload.
type EventDetail struct {
	EventSummary
	Description   string `json:"event_description,omitempty"`
	Organizer     string `json:"organizer,omitempty"`
	TicketPrice   string `json:"ticket_price,omitempty"`
	TicketURL     string `json:"ticket_url,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
}

// RawEventDetail mirrors every field name the detail endpoint has been seen
// to use. Normalize folds the aliases into an EventDetail.
type RawEventDetail struct {
	EventSummary

	ID    FlexString `json:"id"`
	Cover string     `json:"cover"`
	Image string     `json:"image"`
	Venue string     `json:"venue"`
	Place string     `json:"place"`
	URL   string     `json:"url"`

	EventDescription string `json:"event_description"`
	Description      string `json:"description"`
	Summary          string `json:"summary"`
	Content          string `json:"content"`

	Organizer     string     `json:"organizer"`
	OrganizerName string     `json:"organizer_name"`
	TicketPrice   FlexString `json:"ticket_price"`
	TicketURL     string     `json:"ticket_url"`
	ContactPerson string     `json:"contact_person"`
	ContactPhone  FlexString `json:"contact_phone"`
}

// Normalize resolves field aliases. requestedID fills event_id when the
// payload carries neither event_id nor id.
func (r *RawEventDetail) Normalize(requestedID string) EventDetail {
	d := EventDetail{EventSummary: r.EventSummary}

	d.EventID = FlexString(firstNonEmpty(string(r.EventID), string(r.ID), requestedID))
	d.ImageURL = firstNonEmpty(r.ImageURL, r.Cover, r.Image)
	d.VenueName = firstNonEmpty(r.VenueName, r.Venue, r.Place)
	d.EventURL = firstNonEmpty(r.EventURL, r.URL)
	d.EventTimezone = firstNonEmpty(r.EventTimezone, DefaultTimezone)
	d.Description = firstNonEmpty(r.EventDescription, r.Description, r.Summary, r.Content)
	d.Organizer = firstNonEmpty(r.Organizer, r.OrganizerName)
	d.TicketPrice = string(r.TicketPrice)
	d.TicketURL = r.TicketURL
	d.ContactPerson = r.ContactPerson
	d.ContactPhone = string(r.ContactPhone)
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
