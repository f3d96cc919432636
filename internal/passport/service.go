// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package passport

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
	"github.com/tomtom215/artpass/internal/models"
)

// ErrMissingUID is returned, with a skipped Result, by a toggle that has no
// user to act for.
var ErrMissingUID = errors.New("passport: missing uid")

// Client is the part of the event API the passport needs.
type Client interface {
	Passport(ctx context.Context, uid string) (*models.Passport, error)
	AddToPassport(ctx context.Context, uid, eventID string) (bool, error)
	RemoveFromPassport(ctx context.Context, uid, eventID string) (bool, error)
}

// IDSet is a set of event ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Result is the outcome of a toggle.
type Result struct {
	Marked  bool `json:"marked"`
	Changed bool `json:"changed"`
	Skipped bool `json:"skipped,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithOnChange registers fn to run after every successful state change.
func WithOnChange(fn func(uid, eventID string, marked bool)) Option {
	return func(s *Service) { s.onChange = fn }
}

// WithBus publishes every change on bus.
func WithBus(bus *Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// Service loads and toggles passports.
type Service struct {
	client   Client
	bus      *Bus
	onChange func(uid, eventID string, marked bool)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a Service backed by client.
func NewService(client Client, opts ...Option) *Service {
	s := &Service{client: client, inFlight: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the ids of the events in uid's passport. An empty uid has
// an empty passport.
func (s *Service) Load(ctx context.Context, uid string) (IDSet, error) {
	ids := IDSet{}
	if uid == "" {
		return ids, nil
	}
	p, err := s.client.Passport(ctx, uid)
	if err != nil {
		return ids, err
	}
	for _, e := range p.Entries {
		if id := string(e.EventID); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// Entries returns uid's passport entries as stored upstream.
func (s *Service) Entries(ctx context.Context, uid string) (*models.Passport, error) {
	if uid == "" {
		return &models.Passport{Entries: []models.PassportEntry{}}, nil
	}
	return s.client.Passport(ctx, uid)
}

// Toggle adds eventID when it is not marked and removes it when it is.
// The returned Marked is the state after the call: on error or when the
// upstream reports no change it equals marked. Toggles without an event id
// or while the same entry is already being toggled are skipped. Toggles
// without a uid are skipped too and report ErrMissingUID.
func (s *Service) Toggle(ctx context.Context, uid, eventID string, marked bool) (Result, error) {
	action := "add"
	if marked {
		action = "remove"
	}
	skipped := Result{Marked: marked, Skipped: true}

	if uid == "" {
		logging.Warn().Str("event_id", eventID).Msg("passport toggle without uid skipped")
		metrics.RecordPassportToggle(action, "skipped")
		return skipped, ErrMissingUID
	}
	if eventID == "" {
		metrics.RecordPassportToggle(action, "skipped")
		return skipped, nil
	}

	key := uid + "\x00" + eventID
	s.mu.Lock()
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		metrics.RecordPassportToggle(action, "skipped")
		return skipped, nil
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	next := marked
	if marked {
		removed, err := s.client.RemoveFromPassport(ctx, uid, eventID)
		if err != nil {
			metrics.RecordPassportToggle(action, "error")
			return Result{Marked: marked}, err
		}
		next = !removed
	} else {
		added, err := s.client.AddToPassport(ctx, uid, eventID)
		if err != nil {
			metrics.RecordPassportToggle(action, "error")
			return Result{Marked: marked}, err
		}
		next = added
	}

	if next == marked {
		metrics.RecordPassportToggle(action, "unchanged")
		return Result{Marked: marked}, nil
	}
	metrics.RecordPassportToggle(action, "changed")

	if s.onChange != nil {
		s.onChange(uid, eventID, next)
	}
	if s.bus != nil {
		if err := s.bus.Publish(ChangeEvent{UID: uid, EventID: eventID, Marked: next}); err != nil {
			logging.Warn().Err(err).Str("uid", uid).Str("event_id", eventID).Msg("publish passport change failed")
		}
	}
	return Result{Marked: next, Changed: true}, nil
}
