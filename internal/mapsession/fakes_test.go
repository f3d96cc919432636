// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

const (
	venueMuseum  = "台北市立美術館"
	venueMOCA    = "台北當代藝術館"
	venueNoCoord = "無座標場館"
	venueHall    = "國家音樂廳"
)

// testVenues: index 2 has no coordinates.
func testVenues() []models.Venue {
	return []models.Venue{
		models.NewVenue(venueMuseum, 25.0726, 121.5246),
		models.NewVenue(venueMOCA, 25.0505, 121.5187),
		{Platform: venueNoCoord},
		models.NewVenue(venueHall, 25.0353, 121.5183),
	}
}

func testMapConfig() config.MapConfig {
	return config.MapConfig{
		DefaultLatitude:      25.0726,
		DefaultLongitude:     121.524,
		DefaultZoom:          12,
		MaxZoom:              19,
		DefaultLandmark:      venueMuseum,
		EventWindow:          14 * 24 * time.Hour,
		FitPadding:           0.1,
		FirstFixZoom:         14,
		LocateZoom:           15,
		SelectZoom:           15,
		AccuracyRadiusMeters: 60,
		LocateTimeout:        time.Second,
		WatchMaxAge:          5 * time.Second,
		DefaultBasemap:       "osm",
	}
}

func event(id, title string) models.EventSummary {
	return models.EventSummary{EventID: models.FlexString(id), Title: title}
}

type setViewCall struct {
	center  models.LatLng
	zoom    float64
	animate bool
}

type fakeSurface struct {
	mu            sync.Mutex
	renders       int
	last          View
	invalidations int
	setViews      []setViewCall
	attached      []uint64
	detached      []uint64
	destroyed     int
}

func (f *fakeSurface) Render(v View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
	f.last = v
}

func (f *fakeSurface) InvalidateSize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

func (f *fakeSurface) SetView(center models.LatLng, zoom float64, animate bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setViews = append(f.setViews, setViewCall{center, zoom, animate})
}

func (f *fakeSurface) AttachTiles(token uint64, _ BasemapStyle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, token)
}

func (f *fakeSurface) DetachTiles(token uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = append(f.detached, token)
}

func (f *fakeSurface) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
}

func (f *fakeSurface) lastSetView() (setViewCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.setViews) == 0 {
		return setViewCall{}, false
	}
	return f.setViews[len(f.setViews)-1], true
}

// fakeSource serves canned venues and events. A gated platform answers
// only once its gate is closed and ignores cancellation, which models a
// response that arrives late.
type fakeSource struct {
	mu          sync.Mutex
	venues      []models.Venue
	venuesErr   error
	venueCalls  int
	events      map[string][]models.EventSummary
	eventsErr   map[string]error
	gates       map[string]chan struct{}
	eventCalls  []string
	lastWindow  [2]time.Time
	honorCancel bool
	canceled    int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		venues:    testVenues(),
		events:    make(map[string][]models.EventSummary),
		eventsErr: make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}
}

func (f *fakeSource) Venues(ctx context.Context) ([]models.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.venueCalls++
	if f.venuesErr != nil {
		return nil, f.venuesErr
	}
	return f.venues, nil
}

func (f *fakeSource) EventsByPlatform(ctx context.Context, platform string, start, end time.Time) ([]models.EventSummary, error) {
	f.mu.Lock()
	f.eventCalls = append(f.eventCalls, platform)
	f.lastWindow = [2]time.Time{start, end}
	gate := f.gates[platform]
	events := f.events[platform]
	err := f.eventsErr[platform]
	honor := f.honorCancel
	f.mu.Unlock()

	if honor {
		<-ctx.Done()
		f.mu.Lock()
		f.canceled++
		f.mu.Unlock()
		return nil, ctx.Err()
	}
	if gate != nil {
		<-gate
	}
	return events, err
}

func (f *fakeSource) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.eventCalls...)
}

type fakeLocator struct {
	available bool
	fix       Fix
	locateErr error

	mu          sync.Mutex
	locateCalls int
	watchCalls  int
	watchFn     func(Fix)
	stopped     chan struct{}
}

func newFakeLocator(fix Fix) *fakeLocator {
	return &fakeLocator{available: true, fix: fix, stopped: make(chan struct{})}
}

func (l *fakeLocator) Available() bool { return l.available }

func (l *fakeLocator) Locate(ctx context.Context, _ Options) (Fix, error) {
	l.mu.Lock()
	l.locateCalls++
	l.mu.Unlock()
	if l.locateErr != nil {
		return Fix{}, l.locateErr
	}
	return l.fix, nil
}

func (l *fakeLocator) Watch(ctx context.Context, _ Options, fn func(Fix)) error {
	l.mu.Lock()
	l.watchCalls++
	l.watchFn = fn
	l.mu.Unlock()
	<-ctx.Done()
	close(l.stopped)
	return nil
}

func (l *fakeLocator) watching() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.watchFn != nil
}

func (l *fakeLocator) emit(f Fix) {
	l.mu.Lock()
	fn := l.watchFn
	l.mu.Unlock()
	fn(f)
}

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, src EventSource, loc Locator) (*Session, *fakeSurface) {
	t.Helper()
	surf := &fakeSurface{}
	s := New(context.Background(), Deps{
		Config:  testMapConfig(),
		Source:  src,
		Surface: surf,
		Locator: loc,
		Now:     func() time.Time { return fixedNow },
		ID:      "test-session",
	})
	return s, surf
}

func snapshot(t *testing.T, s *Session) View {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return v
}

// waitView polls the session until cond holds.
func waitView(t *testing.T, s *Session, what string, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := snapshot(t, s)
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last view: %+v", what, v)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitCond(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func initialize(t *testing.T, s *Session, w, h int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Initialize(ctx, w, h); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
}

func waitReady(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("venues never became ready")
	}
}
