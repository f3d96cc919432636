// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// requestLog records what a RemoteLocator sends to the browser.
type requestLog struct {
	mu   sync.Mutex
	reqs []LocateRequest
	sent chan LocateRequest
}

func newRequestLog() *requestLog {
	return &requestLog{sent: make(chan LocateRequest, 16)}
}

func (l *requestLog) send(req LocateRequest) error {
	l.mu.Lock()
	l.reqs = append(l.reqs, req)
	l.mu.Unlock()
	l.sent <- req
	return nil
}

func (l *requestLog) next(t *testing.T) LocateRequest {
	t.Helper()
	select {
	case req := <-l.sent:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no locate request sent")
		return LocateRequest{}
	}
}

func TestRemoteLocator_Unavailable(t *testing.T) {
	log := newRequestLog()
	r := NewRemoteLocator(log.send)

	if r.Available() {
		t.Error("new locator reports available")
	}
	if _, err := r.Locate(context.Background(), Options{}); !errors.Is(err, ErrGeolocationUnavailable) {
		t.Errorf("Locate() error = %v", err)
	}
	if err := r.Watch(context.Background(), Options{}, func(Fix) {}); !errors.Is(err, ErrGeolocationUnavailable) {
		t.Errorf("Watch() error = %v", err)
	}
	if len(log.reqs) != 0 {
		t.Errorf("requests sent while unavailable: %v", log.reqs)
	}
}

func TestRemoteLocator_LocateDeliver(t *testing.T) {
	log := newRequestLog()
	r := NewRemoteLocator(log.send)
	r.SetAvailable(true)

	type result struct {
		fix Fix
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := r.Locate(context.Background(), Options{HighAccuracy: true, Timeout: 8 * time.Second})
		done <- result{fix, err}
	}()

	req := log.next(t)
	if req.Mode != LocateOnce || !req.HighAccuracy || req.TimeoutMS != 8000 || req.MaxAgeMS != 0 {
		t.Errorf("request = %+v", req)
	}
	r.Deliver(req.ID+100, Fix{Lat: 1})
	r.Deliver(req.ID, Fix{Lat: 25.04, Lng: 121.51, AccuracyMeters: 30})

	res := <-done
	if res.err != nil {
		t.Fatalf("Locate() error = %v", res.err)
	}
	if res.fix.Lat != 25.04 || res.fix.Lng != 121.51 {
		t.Errorf("fix = %+v", res.fix)
	}
}

func TestRemoteLocator_LocateFail(t *testing.T) {
	log := newRequestLog()
	r := NewRemoteLocator(log.send)
	r.SetAvailable(true)

	done := make(chan error, 1)
	go func() {
		_, err := r.Locate(context.Background(), Options{Timeout: 5 * time.Second})
		done <- err
	}()
	req := log.next(t)
	r.Fail(req.ID, "User denied Geolocation")

	err := <-done
	if err == nil || !strings.Contains(err.Error(), "User denied Geolocation") {
		t.Errorf("Locate() error = %v", err)
	}
}

func TestRemoteLocator_LocateTimeoutAndCancel(t *testing.T) {
	r := NewRemoteLocator(newRequestLog().send)
	r.SetAvailable(true)

	if _, err := r.Locate(context.Background(), Options{Timeout: 20 * time.Millisecond}); err == nil {
		t.Error("Locate() without an answer returned no error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Locate(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Locate() on canceled ctx error = %v", err)
	}
}

func TestRemoteLocator_WatchClearsOnCancel(t *testing.T) {
	log := newRequestLog()
	r := NewRemoteLocator(log.send)
	r.SetAvailable(true)

	fixes := make(chan Fix, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, Options{HighAccuracy: true, MaxAge: 5 * time.Second}, func(f Fix) { fixes <- f })
	}()

	req := log.next(t)
	if req.Mode != LocateWatch || req.MaxAgeMS != 5000 {
		t.Errorf("watch request = %+v", req)
	}
	r.Deliver(req.ID, Fix{Lat: 1})
	r.Deliver(req.ID, Fix{Lat: 2})
	r.Fail(req.ID, "position unavailable")
	for _, want := range []float64{1, 2} {
		if f := <-fixes; f.Lat != want {
			t.Errorf("fix lat = %v, want %v", f.Lat, want)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
	stop := log.next(t)
	if stop.Mode != LocateClear || stop.ID != req.ID {
		t.Errorf("clear request = %+v", stop)
	}

	r.Deliver(req.ID, Fix{Lat: 3})
	select {
	case f := <-fixes:
		t.Errorf("fix delivered after clear: %+v", f)
	default:
	}
}
