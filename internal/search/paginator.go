// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
	"github.com/tomtom215/artpass/internal/models"
)

// Searcher runs one upstream search request.
type Searcher interface {
	Search(ctx context.Context, query url.Values) ([]models.EventSummary, error)
}

// State is what the result list shows.
type State struct {
	Query      Query                 `json:"query"`
	Items      []models.EventSummary `json:"items"`
	Offset     int                   `json:"offset"`
	HasMore    bool                  `json:"has_more"`
	Loading    bool                  `json:"loading"`
	FirstLoad  bool                  `json:"first_load"`
	Error      string                `json:"error,omitempty"`
	Generation uint64                `json:"generation"`
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithUpdates registers fn to receive every state change. fn runs with the
// paginator locked and must not call back into it.
func WithUpdates(fn func(State)) Option {
	return func(p *Paginator) { p.onUpdate = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Paginator) { p.now = now }
}

// WithSleep replaces the minimum loading delay. fn must return ctx.Err()
// when ctx ends first.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Paginator) { p.sleep = fn }
}

// Paginator is one search session.
type Paginator struct {
	source   Searcher
	cfg      config.SearchConfig
	loc      *time.Location
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	onUpdate func(State)

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	state    State
	gen      uint64
	inFlight context.CancelFunc
	closed   bool
}

// NewPaginator creates an idle paginator. Nothing is fetched until Search.
func NewPaginator(source Searcher, cfg config.SearchConfig, opts ...Option) *Paginator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	root, stop := context.WithCancel(context.Background())
	p := &Paginator{
		source: source,
		cfg:    cfg,
		loc:    models.LoadLocation(cfg.Timezone),
		now:    time.Now,
		sleep:  sleepContext,
		root:   root,
		stop:   stop,
		state:  State{Items: []models.EventSummary{}, HasMore: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search starts over with q. Any request still in flight is cancelled and
// its result discarded.
func (p *Paginator) Search(q Query) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.inFlight != nil {
		p.inFlight()
		metrics.SearchSuperseded.Inc()
	}

	p.state.Query = q
	p.state.Offset = 0
	p.state.HasMore = true
	p.state.Loading = true
	p.state.FirstLoad = true
	p.state.Error = ""
	p.startLocked(q, 0, true)
}

// More loads the next page. It reports false, doing nothing, while a page
// is loading or when the last page was short.
func (p *Paginator) More() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.state.Loading || !p.state.HasMore {
		return false
	}
	p.state.Loading = true
	p.state.Error = ""
	p.startLocked(p.state.Query, p.state.Offset, false)
	return true
}

// State returns a copy of the current state.
func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Close cancels the request in flight and waits for it to finish.
func (p *Paginator) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.stop()
	p.wg.Wait()
}

func (p *Paginator) startLocked(q Query, offset int, first bool) {
	p.gen++
	p.state.Generation = p.gen
	ctx, cancel := context.WithCancel(p.root)
	p.inFlight = cancel
	p.emitLocked()

	p.wg.Add(1)
	go p.fetch(ctx, cancel, p.gen, q, offset, first)
}

func (p *Paginator) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, q Query, offset int, first bool) {
	defer p.wg.Done()
	defer cancel()

	page, minLoading := "next", p.cfg.NextPageMinLoading
	if first {
		page, minLoading = "first", p.cfg.FirstPageMinLoading
	}

	started := p.now()
	values := BuildQuery(q, Page{Offset: offset, Limit: p.cfg.PageSize, Sort: p.cfg.Sort}, started, p.loc)
	items, err := p.source.Search(ctx, values)
	if err == nil {
		if wait := minLoading - p.now().Sub(started); wait > 0 {
			err = p.sleep(ctx, wait)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.closed {
		return
	}
	p.inFlight = nil
	p.state.Loading = false
	p.state.FirstLoad = false

	switch {
	case err != nil && errors.Is(err, context.Canceled):
		metrics.SearchPages.WithLabelValues(page, "canceled").Inc()
	case err != nil:
		metrics.SearchPages.WithLabelValues(page, "error").Inc()
		logging.Warn().Err(err).Str("page", page).Int("offset", offset).Msg("search page failed")
		p.state.Error = err.Error()
		if first {
			p.state.Items = []models.EventSummary{}
			p.state.HasMore = false
		}
	default:
		metrics.SearchPages.WithLabelValues(page, "ok").Inc()
		if first {
			p.state.Items = append([]models.EventSummary{}, items...)
			p.state.Offset = len(items)
		} else {
			p.state.Items = append(p.state.Items, items...)
			p.state.Offset += len(items)
		}
		p.state.HasMore = len(items) == p.cfg.PageSize
	}
	p.emitLocked()
}

func (p *Paginator) emitLocked() {
	if p.onUpdate != nil {
		p.onUpdate(p.snapshotLocked())
	}
}

func (p *Paginator) snapshotLocked() State {
	s := p.state
	s.Items = append([]models.EventSummary(nil), p.state.Items...)
	if s.Items == nil {
		s.Items = []models.EventSummary{}
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
