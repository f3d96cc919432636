// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrGeolocationUnavailable means the device cannot report its position.
var ErrGeolocationUnavailable = errors.New("geolocation unavailable")

// Options mirror the browser's PositionOptions.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// Fix is one reported position.
type Fix struct {
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AccuracyMeters float64 `json:"accuracy"`
}

// Locator reports the user's position.
type Locator interface {
	// Available reports whether positions can be requested at all.
	Available() bool

	// Locate requests a single fix.
	Locate(ctx context.Context, opts Options) (Fix, error)

	// Watch calls fn for every position update, in delivery order, until
	// ctx is done. It returns once the subscription is cancelled.
	Watch(ctx context.Context, opts Options, fn func(Fix)) error
}

// Locate request modes sent to the browser.
const (
	LocateOnce  = "once"
	LocateWatch = "watch"
	LocateClear = "clear"
)

// LocateRequest asks the browser to start or stop reporting positions.
type LocateRequest struct {
	ID           uint64 `json:"id"`
	Mode         string `json:"mode"`
	HighAccuracy bool   `json:"high_accuracy,omitempty"`
	TimeoutMS    int64  `json:"timeout_ms,omitempty"`
	MaxAgeMS     int64  `json:"max_age_ms"`
}

type locateResult struct {
	fix Fix
	err error
}

// RemoteLocator is a Locator whose positions come from a browser over a
// message channel: requests go out through send, answers come back through
// Deliver and Fail.
type RemoteLocator struct {
	send func(LocateRequest) error

	mu        sync.Mutex
	available bool
	nextID    uint64
	pending   map[uint64]chan locateResult
	watchers  map[uint64]func(Fix)
}

// NewRemoteLocator creates a locator that is unavailable until the browser
// reports geolocation support through SetAvailable.
func NewRemoteLocator(send func(LocateRequest) error) *RemoteLocator {
	return &RemoteLocator{
		send:     send,
		pending:  make(map[uint64]chan locateResult),
		watchers: make(map[uint64]func(Fix)),
	}
}

// SetAvailable records whether the browser exposes geolocation.
func (r *RemoteLocator) SetAvailable(ok bool) {
	r.mu.Lock()
	r.available = ok
	r.mu.Unlock()
}

// Available implements Locator.
func (r *RemoteLocator) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available
}

func (r *RemoteLocator) id() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

// Locate implements Locator.
func (r *RemoteLocator) Locate(ctx context.Context, opts Options) (Fix, error) {
	if !r.Available() {
		return Fix{}, ErrGeolocationUnavailable
	}
	id := r.id()
	ch := make(chan locateResult, 1)
	r.mu.Lock()
	r.pending[id] = ch
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
	}()

	req := LocateRequest{
		ID:           id,
		Mode:         LocateOnce,
		HighAccuracy: opts.HighAccuracy,
		TimeoutMS:    opts.Timeout.Milliseconds(),
		MaxAgeMS:     opts.MaxAge.Milliseconds(),
	}
	if err := r.send(req); err != nil {
		return Fix{}, fmt.Errorf("send locate request: %w", err)
	}

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		t := time.NewTimer(opts.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case res := <-ch:
		return res.fix, res.err
	case <-timeout:
		return Fix{}, fmt.Errorf("locate timed out after %s", opts.Timeout)
	case <-ctx.Done():
		return Fix{}, ctx.Err()
	}
}

// Watch implements Locator.
func (r *RemoteLocator) Watch(ctx context.Context, opts Options, fn func(Fix)) error {
	if !r.Available() {
		return ErrGeolocationUnavailable
	}
	id := r.id()
	r.mu.Lock()
	r.watchers[id] = fn
	r.mu.Unlock()

	err := r.send(LocateRequest{
		ID:           id,
		Mode:         LocateWatch,
		HighAccuracy: opts.HighAccuracy,
		MaxAgeMS:     opts.MaxAge.Milliseconds(),
	})
	if err == nil {
		<-ctx.Done()
	}

	r.mu.Lock()
	delete(r.watchers, id)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("send watch request: %w", err)
	}
	_ = r.send(LocateRequest{ID: id, Mode: LocateClear})
	return nil
}

// Deliver routes a position reported for request id.
func (r *RemoteLocator) Deliver(id uint64, fix Fix) {
	r.mu.Lock()
	ch, once := r.pending[id]
	fn, watch := r.watchers[id]
	r.mu.Unlock()

	switch {
	case once:
		select {
		case ch <- locateResult{fix: fix}:
		default:
		}
	case watch:
		fn(fix)
	}
}

// Fail routes a position error reported for request id. Watch errors are
// ignored; the subscription stays open.
func (r *RemoteLocator) Fail(id uint64, message string) {
	r.mu.Lock()
	ch, ok := r.pending[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- locateResult{err: fmt.Errorf("geolocation error: %s", message)}:
	default:
	}
}
