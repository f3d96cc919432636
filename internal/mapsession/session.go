// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package mapsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
	"github.com/tomtom215/artpass/internal/models"
)

// ErrSessionClosed is returned by operations on a torn down session.
var ErrSessionClosed = errors.New("map session closed")

// messageBuffer is the capacity of the session inbox.
const messageBuffer = 64

// Deps are the collaborators of a Session.
type Deps struct {
	Config  config.MapConfig
	Source  EventSource
	Surface Surface
	// Locator may be nil when the device has no geolocation.
	Locator Locator
	Styles  *Styles
	// Now defaults to time.Now.
	Now func() time.Time
	// ID defaults to a random UUID.
	ID string
}

// Session is one map page. All state lives in st and is touched only by the
// goroutine started in New.
type Session struct {
	id      string
	cfg     config.MapConfig
	source  EventSource
	surface Surface
	locator Locator
	styles  *Styles
	now     func() time.Time
	log     zerolog.Logger

	msgs   chan message
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	ready  chan struct{}

	helpers   sync.WaitGroup
	closeOnce sync.Once

	st state
}

// state is owned by the session goroutine.
type state struct {
	initialized   bool
	layoutPending bool
	pendingFit    bool
	viewport      geo.Viewport

	venues         []models.Venue
	markerGen      uint64
	venuesStarted  bool
	venuesLoading  bool
	venuesLoaded   bool
	venueCancel    context.CancelFunc
	readySignalled bool

	selected   int
	autoPicked bool

	user           *models.UserLocation
	sorted         []int
	tracking       bool
	geoUnavailable bool

	pager       pager
	fetchCancel context.CancelFunc

	style styleSwitcher
}

// New creates a session and starts its goroutine. parent bounds the
// session's lifetime; Teardown must still be called to release the surface.
func New(parent context.Context, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.ID == "" {
		deps.ID = uuid.New().String()
	}
	if deps.Styles == nil {
		deps.Styles = NewStyles(deps.Config.Basemaps, deps.Config.DefaultBasemap)
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:      deps.ID,
		cfg:     deps.Config,
		source:  deps.Source,
		surface: deps.Surface,
		locator: deps.Locator,
		styles:  deps.Styles,
		now:     deps.Now,
		log:     logging.WithComponent("mapsession").With().Str("session_id", deps.ID).Logger(),
		msgs:    make(chan message, messageBuffer),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		ready:   make(chan struct{}),
		st: state{
			selected: -1,
			pager:    newPager(),
		},
	}

	metrics.MapSessionsActive.Inc()
	go s.run()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Ready is closed once the venue list has loaded and markers exist.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Done is closed when the session goroutine has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Initialize centers the map on the default coordinate and attaches the
// default basemap. It returns once the session has applied it. A zero size
// leaves the layout pending until the first non-zero Resize.
func (s *Session) Initialize(ctx context.Context, width, height int) error {
	reply := make(chan struct{})
	if err := s.post(initMsg{width: width, height: height, reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

// Resize reports a new container size.
func (s *Session) Resize(width, height int) error {
	return s.post(resizeMsg{width: width, height: height})
}

// SetViewport reports the camera after a user pan or zoom.
func (s *Session) SetViewport(center models.LatLng, zoom float64) error {
	return s.post(viewportMsg{center: center, zoom: zoom})
}

// LoadVenues fetches the venue list once. Later calls are ignored.
func (s *Session) LoadVenues() error {
	return s.post(loadVenuesMsg{})
}

// TrackUserLocation starts the one-shot fix and the continuous watch.
// A second call while tracking does nothing.
func (s *Session) TrackUserLocation() error {
	return s.post(trackMsg{})
}

// LocateMe requests one fix and flies to it.
func (s *Session) LocateMe() error {
	return s.post(locateMsg{})
}

// Click hit-tests a tap at container pixel p.
func (s *Session) Click(p geo.Point) error {
	return s.post(clickMsg{point: p})
}

// Select picks a venue by index. Out-of-range indices are ignored.
func (s *Session) Select(index int, flyTo bool) error {
	return s.post(selectMsg{index: index, fly: flyTo})
}

// Advance moves to the next (dir > 0) or previous (dir < 0) event, or to
// the neighbouring venue when the current list is exhausted.
func (s *Session) Advance(dir int) error {
	return s.post(advanceMsg{dir: dir})
}

// SetStyle switches the basemap. Unknown names return ErrUnknownStyle.
func (s *Session) SetStyle(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	if err := s.post(styleMsg{name: name, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

// TilesReady acknowledges that the tile layer for token finished loading.
func (s *Session) TilesReady(token uint64) error {
	return s.post(tilesReadyMsg{token: token})
}

// Snapshot returns the current view. Messages posted earlier by the same
// caller are applied first.
func (s *Session) Snapshot(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.post(snapshotMsg{reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.done:
		return View{}, ErrSessionClosed
	}
}

// Teardown cancels location tracking, the venue load and any event fetch,
// stops the session goroutine and destroys the surface. It is safe to call
// more than once.
func (s *Session) Teardown() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.helpers.Wait()
		s.surface.Destroy()
		metrics.MapSessionsActive.Dec()
		s.log.Debug().Msg("map session torn down")
	})
}

// post delivers m to the session goroutine.
func (s *Session) post(m message) error {
	select {
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
	}
	select {
	case s.msgs <- m:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	}
}

// spawn runs fn on a helper goroutine that Teardown waits for.
func (s *Session) spawn(fn func()) {
	s.helpers.Add(1)
	go func() {
		defer s.helpers.Done()
		fn()
	}()
}

func (s *Session) run() {
	defer close(s.done)
	for {
		// Shutdown takes priority over queued messages.
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		select {
		case <-s.ctx.Done():
			return
		case m := <-s.msgs:
			metrics.MapSessionMessages.WithLabelValues(m.kind()).Inc()
			s.handle(m)
		}
	}
}

func (s *Session) handle(m message) {
	switch m := m.(type) {
	case initMsg:
		s.onInitialize(m)
	case resizeMsg:
		s.onResize(m.width, m.height)
	case viewportMsg:
		s.st.viewport.Center = m.center
		s.st.viewport.Zoom = geo.ClampZoom(m.zoom, s.cfg.MaxZoom)
		s.render()
	case loadVenuesMsg:
		s.onLoadVenues()
	case venuesLoadedMsg:
		s.onVenuesLoaded(m)
	case trackMsg:
		s.onTrack()
	case locateMsg:
		s.onLocate()
	case fixMsg:
		s.onFix(m)
	case clickMsg:
		s.onClick(m.point)
	case selectMsg:
		if m.index < 0 || m.index >= len(s.st.venues) {
			return
		}
		s.st.autoPicked = true
		s.selectVenue(m.index, m.fly)
		s.render()
	case advanceMsg:
		s.onAdvance(m.dir)
	case eventsLoadedMsg:
		s.onEventsLoaded(m)
	case styleMsg:
		m.reply <- s.onStyle(m.name)
	case tilesReadyMsg:
		if s.st.style.ack(m.token) {
			s.render()
		} else {
			s.log.Debug().Uint64("token", m.token).Msg("ignoring stale tile acknowledgement")
		}
	case snapshotMsg:
		m.reply <- project(&s.st)
	}
}

func (s *Session) render() {
	if !s.st.initialized {
		return
	}
	s.surface.Render(project(&s.st))
}

func (s *Session) onInitialize(m initMsg) {
	defer close(m.reply)
	if s.st.initialized {
		return
	}
	center := models.LatLng{Lat: s.cfg.DefaultLatitude, Lng: s.cfg.DefaultLongitude}
	zoom := geo.ClampZoom(s.cfg.DefaultZoom, s.cfg.MaxZoom)
	s.st.viewport = geo.Viewport{Center: center, Zoom: zoom, Width: m.width, Height: m.height}
	s.st.layoutPending = s.st.viewport.Empty()
	s.st.initialized = true

	s.surface.SetView(center, zoom, false)
	style := s.styles.Default()
	token, _ := s.st.style.switchTo(style)
	s.surface.AttachTiles(token, style)

	s.log.Debug().Int("width", m.width).Int("height", m.height).Msg("map session initialized")
	s.render()
}

func (s *Session) onResize(width, height int) {
	s.st.viewport.Width = width
	s.st.viewport.Height = height
	if s.st.viewport.Empty() {
		s.render()
		return
	}
	s.st.layoutPending = false
	s.surface.InvalidateSize()
	if s.st.pendingFit {
		s.fitVenues()
	}
	s.render()
}

func (s *Session) onLoadVenues() {
	if s.st.venuesStarted {
		return
	}
	s.st.venuesStarted = true
	s.st.venuesLoading = true

	ctx, cancel := context.WithCancel(s.ctx)
	s.st.venueCancel = cancel
	s.spawn(func() {
		venues, err := s.source.Venues(ctx)
		_ = s.post(venuesLoadedMsg{venues: venues, err: err})
	})
	s.render()
}

func (s *Session) onVenuesLoaded(m venuesLoadedMsg) {
	s.st.venuesLoading = false
	if s.st.venueCancel != nil {
		s.st.venueCancel()
		s.st.venueCancel = nil
	}
	if m.err != nil {
		if !errors.Is(m.err, context.Canceled) {
			s.log.Warn().Err(m.err).Msg("venue load failed")
		}
		s.render()
		return
	}

	s.st.venues = m.venues
	s.st.venuesLoaded = true
	s.st.markerGen++
	s.st.selected = -1
	s.cancelFetch()
	s.st.pager.reset()

	s.fitVenues()
	s.refreshOrder()
	s.autoSelect()

	if !s.st.readySignalled {
		s.st.readySignalled = true
		close(s.ready)
	}
	s.log.Debug().Int("venues", len(m.venues)).Uint64("generation", s.st.markerGen).Msg("venues loaded")
	s.render()
}

// fitVenues frames every venue with coordinates, or defers until the
// container has a size.
func (s *Session) fitVenues() {
	b, ok := geo.VenueBounds(s.st.venues)
	if !ok {
		s.st.pendingFit = false
		return
	}
	if s.st.viewport.Empty() {
		s.st.pendingFit = true
		return
	}
	s.st.pendingFit = false
	vp := geo.FitBounds(b.Pad(s.cfg.FitPadding), s.st.viewport.Width, s.st.viewport.Height, s.cfg.MaxZoom)
	s.st.viewport.Center = vp.Center
	s.st.viewport.Zoom = vp.Zoom
	s.surface.SetView(vp.Center, vp.Zoom, false)
}

// refreshOrder recomputes the distance order of venues with markers.
func (s *Session) refreshOrder() {
	if s.st.user == nil {
		s.st.sorted = nil
		return
	}
	order := geo.OrderByDistance(s.st.user.LatLng, s.st.venues)
	s.st.sorted = geo.FilterWithCoordinates(order, s.st.venues)
}

// autoSelect picks a venue without user input. Once a location is known
// the nearest venue is picked a single time; a manual selection made
// earlier suppresses that pick. Without a location the default landmark is
// used until something is selected.
func (s *Session) autoSelect() {
	if len(s.st.venues) == 0 {
		return
	}
	if s.st.user != nil {
		if s.st.autoPicked || len(s.st.sorted) == 0 {
			return
		}
		s.st.autoPicked = true
		s.selectVenue(s.st.sorted[0], false)
		return
	}
	if s.st.selected < 0 {
		if idx := geo.FirstValidIndex(s.st.venues, s.cfg.DefaultLandmark); idx >= 0 {
			s.selectVenue(idx, false)
		}
	}
}

func (s *Session) geolocationAvailable() bool {
	return s.locator != nil && s.locator.Available()
}

func (s *Session) onTrack() {
	if s.st.tracking {
		return
	}
	if !s.geolocationAvailable() {
		s.st.geoUnavailable = true
		s.render()
		return
	}
	s.st.tracking = true
	s.st.geoUnavailable = false

	ctx := s.ctx
	firstFix := Options{HighAccuracy: true, Timeout: s.cfg.LocateTimeout}
	s.spawn(func() {
		fix, err := s.locator.Locate(ctx, firstFix)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Debug().Err(err).Msg("initial location fix failed")
			}
			return
		}
		_ = s.post(fixMsg{fix: fix, flyZoom: s.cfg.FirstFixZoom})
	})

	watch := Options{HighAccuracy: true, MaxAge: s.cfg.WatchMaxAge}
	s.spawn(func() {
		err := s.locator.Watch(ctx, watch, func(fix Fix) {
			_ = s.post(fixMsg{fix: fix})
		})
		if err != nil && ctx.Err() == nil {
			s.log.Warn().Err(err).Msg("location watch failed")
		}
	})
	s.render()
}

func (s *Session) onLocate() {
	if !s.geolocationAvailable() {
		return
	}
	ctx := s.ctx
	opts := Options{HighAccuracy: true, Timeout: s.cfg.LocateTimeout}
	s.spawn(func() {
		fix, err := s.locator.Locate(ctx, opts)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Debug().Err(err).Msg("locate failed")
			}
			return
		}
		_ = s.post(fixMsg{fix: fix, flyZoom: s.cfg.LocateZoom})
	})
}

func (s *Session) onFix(m fixMsg) {
	p := models.LatLng{Lat: m.fix.Lat, Lng: m.fix.Lng}
	if !p.Valid() {
		return
	}
	if s.st.user == nil {
		s.st.user = &models.UserLocation{}
	}
	s.st.user.LatLng = p
	s.st.user.AccuracyMeters = s.cfg.AccuracyRadiusMeters

	if m.flyZoom > 0 {
		s.flyTo(p, m.flyZoom)
	}
	s.refreshOrder()
	s.autoSelect()
	s.render()
}

func (s *Session) onClick(p geo.Point) {
	if !s.st.initialized || s.st.viewport.Empty() {
		return
	}
	idx, ok := geo.HitTest(p, s.st.venues, s.st.viewport)
	if !ok {
		return
	}
	s.st.autoPicked = true
	s.selectVenue(idx, true)
	s.render()
}

func (s *Session) onAdvance(dir int) {
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return
	}

	if s.st.pager.step(dir) {
		s.render()
		return
	}

	order := s.st.sorted
	if len(order) == 0 {
		natural := make([]int, len(s.st.venues))
		for i := range natural {
			natural[i] = i
		}
		order = geo.FilterWithCoordinates(natural, s.st.venues)
	}
	if len(order) == 0 {
		return
	}

	next := neighbour(order, s.st.selected, dir)
	s.st.autoPicked = true
	s.selectVenue(next, true)
	s.render()
}

// neighbour returns the entry after (or before) current in order, wrapping
// at both ends. A current index outside order starts from the matching end.
func neighbour(order []int, current, dir int) int {
	pos := -1
	for i, idx := range order {
		if idx == current {
			pos = i
			break
		}
	}
	n := len(order)
	if pos < 0 {
		if dir > 0 {
			return order[0]
		}
		return order[n-1]
	}
	return order[((pos+dir)%n+n)%n]
}

// selectVenue makes idx the selection and starts its event fetch. Any
// fetch in flight is cancelled and its generation retired.
func (s *Session) selectVenue(idx int, fly bool) {
	s.st.selected = idx
	venue := s.st.venues[idx]
	if fly {
		if p, ok := venue.Coordinate(); ok {
			s.flyTo(p, s.cfg.SelectZoom)
		}
	}

	s.cancelFetch()
	gen := s.st.pager.begin(idx)
	ctx, cancel := context.WithCancel(s.ctx)
	s.st.fetchCancel = cancel

	start := s.now()
	end := start.Add(s.cfg.EventWindow)
	platform := venue.Platform
	s.spawn(func() {
		events, err := s.source.EventsByPlatform(ctx, platform, start, end)
		_ = s.post(eventsLoadedMsg{gen: gen, venue: idx, events: events, err: err})
	})
}

func (s *Session) cancelFetch() {
	if s.st.fetchCancel != nil {
		s.st.fetchCancel()
		s.st.fetchCancel = nil
	}
}

func (s *Session) onEventsLoaded(m eventsLoadedMsg) {
	if m.gen != s.st.pager.gen {
		metrics.PagerStaleResults.Inc()
		s.log.Debug().Uint64("generation", m.gen).Int("venue", m.venue).Msg("dropping stale venue events")
		return
	}
	s.cancelFetch()

	if m.err != nil {
		if errors.Is(m.err, context.Canceled) {
			return
		}
		s.log.Warn().Err(m.err).Int("venue", m.venue).Msg("venue events fetch failed")
		s.st.pager.fail(m.gen)
		metrics.PagerFetches.WithLabelValues("error").Inc()
		s.render()
		return
	}

	s.st.pager.apply(m.gen, m.events)
	metrics.PagerFetches.WithLabelValues(string(s.st.pager.status)).Inc()
	s.render()
}

func (s *Session) onStyle(name string) error {
	style, ok := s.styles.Get(name)
	if !ok {
		return ErrUnknownStyle
	}
	token, detach := s.st.style.switchTo(style)
	if detach != 0 {
		s.surface.DetachTiles(detach)
	}
	s.surface.AttachTiles(token, style)
	metrics.StyleSwitches.WithLabelValues(name).Inc()
	s.render()
	return nil
}

func (s *Session) flyTo(p models.LatLng, zoom float64) {
	zoom = geo.ClampZoom(zoom, s.cfg.MaxZoom)
	s.st.viewport.Center = p
	s.st.viewport.Zoom = zoom
	s.surface.SetView(p, zoom, true)
}
