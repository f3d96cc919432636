// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package models

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// PassportEntry is one visited event. The event API writes added_at as
// epoch seconds; older records carry date strings.
type PassportEntry struct {
	EventID FlexString `json:"event_id"`
	AddedAt FlexTime   `json:"added_at,omitempty"`
}

// AddedTime returns when the entry was added.
func (p PassportEntry) AddedTime() (time.Time, bool) {
	return p.AddedAt.Time()
}

// Passport is a user's visited-event record.
type Passport struct {
	UID     string          `json:"uid"`
	Entries []PassportEntry `json:"passport"`
}

// Contains reports whether eventID is in the passport.
func (p Passport) Contains(eventID string) bool {
	for _, e := range p.Entries {
		if string(e.EventID) == eventID {
			return true
		}
	}
	return false
}

// passportObject is the object form of GET /users/{uid}/passport.
type passportObject struct {
	UID      string          `json:"uid"`
	Passport []PassportEntry `json:"passport"`
	Count    int             `json:"count"`
}

// UnmarshalJSON accepts either a bare array of entries (or bare ids) or the
// {uid, passport, count} object.
func (p *Passport) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		entries := make([]PassportEntry, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '{' {
				var e PassportEntry
				if err := json.Unmarshal(item, &e); err != nil {
					return err
				}
				entries = append(entries, e)
				continue
			}
			var id FlexString
			if err := json.Unmarshal(item, &id); err != nil {
				return err
			}
			entries = append(entries, PassportEntry{EventID: id})
		}
		p.Entries = entries
		return nil
	}

	var obj passportObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.UID = obj.UID
	p.Entries = obj.Passport
	return nil
}

// PassportAddResult is the POST response. Added is nil when the field is absent.
type PassportAddResult struct {
	Added   *bool  `json:"added"`
	Message string `json:"message,omitempty"`
}

// PassportRemoveResult is the DELETE response. Removed is nil when the field is absent.
type PassportRemoveResult struct {
	Removed *bool  `json:"removed"`
	Message string `json:"message,omitempty"`
}
