// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/eventapi"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/models"
	"github.com/tomtom215/artpass/internal/passport"
	ws "github.com/tomtom215/artpass/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

var errUpstream = errors.New("upstream down")

// fakeEvents is an in-memory event API.
type fakeEvents struct {
	mu sync.Mutex

	venues    []models.Venue
	venuesErr error
	hot       []models.EventSummary
	recent    []models.EventSummary
	recentErr error
	details   map[string]models.EventDetail
	detailErr error
	results   []models.EventSummary
	searchErr error
	breaker   string

	lastQuery    url.Values
	lastPlatform string
	lastWindow   [2]time.Time
}

func (f *fakeEvents) Venues(ctx context.Context) ([]models.Venue, error) {
	return f.venues, f.venuesErr
}

func (f *fakeEvents) EventsByPlatform(ctx context.Context, platform string, start, end time.Time) ([]models.EventSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPlatform = platform
	f.lastWindow = [2]time.Time{start, end}
	return []models.EventSummary{{EventID: "e1", Title: platform + " 展覽", StartTimestamp: models.Int64(1773532800), EndTimestamp: models.Int64(1774051200)}}, nil
}

func (f *fakeEvents) Hot(ctx context.Context) ([]models.EventSummary, error) {
	return f.hot, nil
}

func (f *fakeEvents) Recent(ctx context.Context) ([]models.EventSummary, error) {
	return f.recent, f.recentErr
}

func (f *fakeEvents) Search(ctx context.Context, query url.Values) ([]models.EventSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	return f.results, f.searchErr
}

func (f *fakeEvents) Event(ctx context.Context, id string) (*models.EventDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	d, ok := f.details[id]
	if !ok {
		return nil, &eventapi.StatusError{StatusCode: http.StatusNotFound}
	}
	return &d, nil
}

func (f *fakeEvents) BreakerState() string {
	if f.breaker == "" {
		return "closed"
	}
	return f.breaker
}

// fakePassport is an in-memory passport store.
type fakePassport struct {
	mu      sync.Mutex
	entries map[string][]models.PassportEntry
	err     error
}

func (p *fakePassport) Passport(ctx context.Context, uid string) (*models.Passport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return &models.Passport{UID: uid, Entries: append([]models.PassportEntry(nil), p.entries[uid]...)}, nil
}

func (p *fakePassport) AddToPassport(ctx context.Context, uid, eventID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return false, p.err
	}
	p.entries[uid] = append(p.entries[uid], models.PassportEntry{EventID: models.FlexString(eventID), AddedAt: "2026-10-19T10:00:00+08:00"})
	return true, nil
}

func (p *fakePassport) RemoveFromPassport(ctx context.Context, uid, eventID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return false, p.err
	}
	kept := p.entries[uid][:0]
	for _, e := range p.entries[uid] {
		if string(e.EventID) != eventID {
			kept = append(kept, e)
		}
	}
	p.entries[uid] = kept
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		EventAPI: config.EventAPIConfig{BaseURL: "https://events.example.test"},
		Map: config.MapConfig{
			DefaultLatitude:  25.0330,
			DefaultLongitude: 121.5654,
			DefaultZoom:      12,
			MaxZoom:          19,
			DefaultLandmark:  "臺北市立美術館",
			EventWindow:      14 * 24 * time.Hour,
			FitPadding:       0.1,
			SelectZoom:       15,
			LocateZoom:       15,
			FirstFixZoom:     14,
			LocateTimeout:    time.Second,
		},
		Search:   config.SearchConfig{PageSize: 10, Sort: "start_asc", Timezone: "Asia/Taipei"},
		Feed:     config.FeedConfig{HotLimit: 6, RecentLimit: 12},
		Security: config.SecurityConfig{CORSOrigins: []string{"https://artpass.example.test"}, RateLimitDisabled: true},
	}
}

// testEnv is a router over fakes.
type testEnv struct {
	cfg      *config.Config
	events   *fakeEvents
	passport *fakePassport
	handler  *Handler
	hub      *ws.Hub
	router   http.Handler
}

var fixedNow = time.Date(2026, 3, 18, 15, 30, 0, 0, time.FixedZone("CST", 8*3600))

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	events := &fakeEvents{
		venues: []models.Venue{
			models.NewVenue("國立故宮博物院", 25.1024, 121.5485),
			{Platform: "線上活動"},
			models.NewVenue("臺北市立美術館", 25.0725, 121.5246),
		},
		hot:    []models.EventSummary{{EventID: "h1", Title: "熱門"}},
		recent: []models.EventSummary{{EventID: "r1", Title: "最新"}},
		details: map[string]models.EventDetail{
			"e42": {EventSummary: models.EventSummary{EventID: "e42", Title: "夜間導覽", StartTimestamp: models.Int64(1773532800), EndTimestamp: models.Int64(1773532800)}},
		},
	}
	pp := &fakePassport{entries: map[string][]models.PassportEntry{
		"u1": {{EventID: "e42", AddedAt: "2026-03-01T12:00:00+08:00"}, {EventID: "e7", AddedAt: "2026-02-11"}},
	}}

	handler := NewHandler(cfg, events, passport.NewService(pp), mapsession.NewStyles(nil, "osm"), hub)
	handler.now = func() time.Time { return fixedNow }
	handler.SetSessionContext(ctx)

	return &testEnv{
		cfg:      cfg,
		events:   events,
		passport: pp,
		handler:  handler,
		hub:      hub,
		router:   NewRouter(handler, cfg).SetupChi(),
	}
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v (%s)", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}
