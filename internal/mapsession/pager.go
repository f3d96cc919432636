// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import "github.com/tomtom215/artpass/internal/models"

// PagerStatus is the state of the venue event pager.
type PagerStatus string

const (
	PagerIdle    PagerStatus = "idle"
	PagerLoading PagerStatus = "loading"
	PagerReady   PagerStatus = "ready"
	PagerEmpty   PagerStatus = "empty"
)

// pager holds the events of the selected venue. Every begin() starts a new
// generation; results for older generations are refused.
//
//	idle ──begin──▶ loading ──apply──▶ ready | empty
//	  ▲                ▲                  │
//	  └──reset─────────┴──────begin───────┘
type pager struct {
	status PagerStatus
	venue  int
	events []models.EventSummary
	index  int
	gen    uint64
}

func newPager() pager {
	return pager{status: PagerIdle, venue: -1}
}

// begin switches to venue and returns the generation the fetch must carry.
func (p *pager) begin(venue int) uint64 {
	p.gen++
	p.venue = venue
	p.status = PagerLoading
	p.events = nil
	p.index = 0
	return p.gen
}

// apply installs events for gen. It reports false when gen is stale.
func (p *pager) apply(gen uint64, events []models.EventSummary) bool {
	if gen != p.gen || p.status != PagerLoading {
		return false
	}
	p.events = events
	p.index = 0
	if len(events) == 0 {
		p.status = PagerEmpty
	} else {
		p.status = PagerReady
	}
	return true
}

// fail settles gen without events.
func (p *pager) fail(gen uint64) bool {
	return p.apply(gen, nil)
}

// step moves within the event list. It reports false at either end.
func (p *pager) step(dir int) bool {
	if p.status != PagerReady || dir == 0 {
		return false
	}
	next := p.index + dir
	if next < 0 || next >= len(p.events) {
		return false
	}
	p.index = next
	return true
}

// current returns the event on display.
func (p *pager) current() (models.EventSummary, bool) {
	if p.status != PagerReady || p.index < 0 || p.index >= len(p.events) {
		return models.EventSummary{}, false
	}
	return p.events[p.index], true
}

// reset returns to idle and invalidates any fetch in flight.
func (p *pager) reset() {
	p.gen++
	p.status = PagerIdle
	p.venue = -1
	p.events = nil
	p.index = 0
}
