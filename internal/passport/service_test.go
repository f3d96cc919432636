// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package passport

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

type fakeClient struct {
	mu       sync.Mutex
	passport *models.Passport
	added    bool
	removed  bool
	err      error
	gate     chan struct{}
	entered  chan struct{}
	adds     int
	removes  int
}

func (f *fakeClient) Passport(ctx context.Context, uid string) (*models.Passport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.passport, nil
}

func (f *fakeClient) AddToPassport(ctx context.Context, uid, eventID string) (bool, error) {
	f.mu.Lock()
	f.adds++
	f.mu.Unlock()
	f.wait()
	return f.added, f.err
}

func (f *fakeClient) RemoveFromPassport(ctx context.Context, uid, eventID string) (bool, error) {
	f.mu.Lock()
	f.removes++
	f.mu.Unlock()
	f.wait()
	return f.removed, f.err
}

func (f *fakeClient) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

type changeRecorder struct {
	mu      sync.Mutex
	changes []string
}

func (r *changeRecorder) record(uid, eventID string, marked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := "off"
	if marked {
		state = "on"
	}
	r.changes = append(r.changes, uid+"/"+eventID+"/"+state)
}

func (r *changeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name        string
		marked      bool
		added       bool
		removed     bool
		err         error
		wantMarked  bool
		wantChanged bool
		wantErr     bool
	}{
		{name: "add accepted", marked: false, added: true, wantMarked: true, wantChanged: true},
		{name: "add refused", marked: false, added: false, wantMarked: false},
		{name: "remove accepted", marked: true, removed: true, wantMarked: false, wantChanged: true},
		{name: "remove refused", marked: true, removed: false, wantMarked: true},
		{name: "add error", marked: false, added: true, err: errors.New("boom"), wantMarked: false, wantErr: true},
		{name: "remove error", marked: true, removed: true, err: errors.New("boom"), wantMarked: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{added: tt.added, removed: tt.removed, err: tt.err}
			rec := &changeRecorder{}
			s := NewService(client, WithOnChange(rec.record))

			res, err := s.Toggle(context.Background(), "u1", "e1", tt.marked)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Toggle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if res.Marked != tt.wantMarked || res.Changed != tt.wantChanged {
				t.Errorf("Toggle() = %+v, want marked %v changed %v", res, tt.wantMarked, tt.wantChanged)
			}
			wantCalls := 0
			if tt.wantChanged {
				wantCalls = 1
			}
			if rec.count() != wantCalls {
				t.Errorf("onChange calls = %d, want %d", rec.count(), wantCalls)
			}
		})
	}
}

func TestToggle_AddedFalseKeepsUnmarked(t *testing.T) {
	client := &fakeClient{added: false}
	rec := &changeRecorder{}
	bus := NewBus(nil)
	defer bus.Close()

	msgs, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(client, WithOnChange(rec.record), WithBus(bus))

	res, err := s.Toggle(context.Background(), "u1", "e1", false)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if res.Marked {
		t.Error("entry marked although upstream reported added=false")
	}
	if rec.count() != 0 {
		t.Errorf("onChange fired %d times", rec.count())
	}
	select {
	case msg := <-msgs:
		t.Errorf("change published: %s", msg.Payload)
	default:
	}
}

func TestToggle_Skipped(t *testing.T) {
	client := &fakeClient{added: true}
	rec := &changeRecorder{}
	s := NewService(client, WithOnChange(rec.record))

	for _, tc := range []struct {
		uid, eventID string
		wantErr      error
	}{
		{"", "e1", ErrMissingUID},
		{"u1", "", nil},
	} {
		res, err := s.Toggle(context.Background(), tc.uid, tc.eventID, false)
		if !errors.Is(err, tc.wantErr) || !res.Skipped || res.Marked {
			t.Errorf("Toggle(%q, %q) = %+v, %v; want skipped, %v", tc.uid, tc.eventID, res, err, tc.wantErr)
		}
	}
	if client.adds != 0 || rec.count() != 0 {
		t.Errorf("skipped toggles reached upstream: adds %d changes %d", client.adds, rec.count())
	}
}

func TestToggle_InFlightGuard(t *testing.T) {
	client := &fakeClient{added: true, gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := NewService(client)

	done := make(chan Result, 1)
	go func() {
		res, _ := s.Toggle(context.Background(), "u1", "e1", false)
		done <- res
	}()
	<-client.entered

	res, err := s.Toggle(context.Background(), "u1", "e1", false)
	if err != nil || !res.Skipped {
		t.Errorf("concurrent toggle = %+v, %v, want skipped", res, err)
	}

	close(client.gate)
	if first := <-done; !first.Changed || !first.Marked {
		t.Errorf("first toggle = %+v", first)
	}

	client.entered = nil
	if res, _ := s.Toggle(context.Background(), "u1", "e1", true); res.Skipped {
		t.Error("toggle after completion skipped")
	}
}

func TestLoad(t *testing.T) {
	client := &fakeClient{passport: &models.Passport{Entries: []models.PassportEntry{
		{EventID: "a"}, {EventID: "b"}, {EventID: ""},
	}}}
	s := NewService(client)

	ids, err := s.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ids) != 2 || !ids.Has("a") || !ids.Has("b") {
		t.Errorf("Load() = %v", ids)
	}

	ids, err = s.Load(context.Background(), "")
	if err != nil || len(ids) != 0 {
		t.Errorf("Load(\"\") = %v, %v", ids, err)
	}

	client.err = errors.New("down")
	if _, err := s.Load(context.Background(), "u1"); err == nil {
		t.Error("Load() swallowed upstream error")
	}
}
