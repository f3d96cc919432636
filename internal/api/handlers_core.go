// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/artpass/internal/eventapi"
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/links"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/models"
	"github.com/tomtom215/artpass/internal/search"
)

// EventCard is a list row with its rendered date label.
type EventCard struct {
	models.EventSummary
	DateRange string `json:"date_range"`
}

func cards(events []models.EventSummary) []EventCard {
	out := make([]EventCard, len(events))
	for i, e := range events {
		out[i] = EventCard{EventSummary: e, DateRange: e.DateRange()}
	}
	return out
}

// VenuesResponse lists venues in upstream order. With a user position,
// Order holds the indexes of venues with coordinates nearest first.
type VenuesResponse struct {
	Venues  []models.Venue `json:"venues"`
	Order   []int          `json:"order,omitempty"`
	Nearest *int           `json:"nearest,omitempty"`
}

// VenueEventsResponse is the event list of one venue over the map window.
type VenueEventsResponse struct {
	Platform string      `json:"platform"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Events   []EventCard `json:"events"`
}

// EventResponse is a normalised event detail. Marked is set when a uid was given
// and the passport could be read.
type EventResponse struct {
	Event     models.EventDetail `json:"event"`
	DateRange string             `json:"date_range"`
	Marked    *bool              `json:"marked,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Query search.Query `json:"query"`
	Items []EventCard  `json:"items"`
}

// BasemapsResponse lists the configured tile styles.
type BasemapsResponse struct {
	Default string          `json:"default"`
	Styles  []BasemapOption `json:"styles"`
}

// BasemapOption is a style plus one tile over the default map center, for
// rendering the style picker.
type BasemapOption struct {
	mapsession.BasemapStyle
	PreviewURL string `json:"preview_url"`
}

// Home handles GET /api/v1/home. A failed half is empty and named in degraded.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	home := h.feed.Load(r.Context())
	if len(home.Degraded) == 0 {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}
	respondData(w, r, home, start)
}

// Venues handles GET /api/v1/venues?lat=&lng=.
func (h *Handler) Venues(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lat, err := getFloatParam(r, "lat")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	lng, err := getFloatParam(r, "lng")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := VenuesRequest{Lat: lat, Lng: lng}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	venues, err := h.events.Venues(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("venue list unavailable")
		venues = []models.Venue{}
	}

	resp := VenuesResponse{Venues: venues}
	if req.Lat != nil && req.Lng != nil {
		user := models.LatLng{Lat: *req.Lat, Lng: *req.Lng}
		resp.Order = geo.FilterWithCoordinates(geo.OrderByDistance(user, venues), venues)
		if nearest := geo.Nearest(user, venues); nearest >= 0 {
			resp.Nearest = &nearest
		}
	}
	respondData(w, r, resp, start)
}

// VenueEvents handles GET /api/v1/venues/{platform}/events for the map window
// starting now.
func (h *Handler) VenueEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := VenueEventsRequest{Platform: pathParam(r, "platform")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	from := h.now()
	to := from.Add(h.config.Map.EventWindow)
	events, err := h.events.EventsByPlatform(r.Context(), req.Platform, from, to)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("platform", sanitizeLogValue(req.Platform)).Msg("venue events unavailable")
		events = nil
	}

	respondData(w, r, VenueEventsResponse{
		Platform: req.Platform,
		Start:    from,
		End:      to,
		Events:   cards(events),
	}, start)
}

// Event handles GET /api/v1/events/{id}?uid=.
func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := EventRequest{ID: pathParam(r, "id"), UID: r.URL.Query().Get("uid")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	detail, err := h.events.Event(r.Context(), req.ID)
	switch {
	case eventapi.IsNotFound(err):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Event not found", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, ErrCodeExternalService, "Event service unavailable", err)
		return
	}

	resp := EventResponse{Event: *detail, DateRange: detail.DateRange()}
	if req.UID != "" {
		ids, err := h.passport.Load(r.Context(), req.UID)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("passport unavailable for event detail")
		} else {
			marked := ids.Has(req.ID)
			resp.Marked = &marked
		}
	}
	respondData(w, r, resp, start)
}

// Search handles GET /api/v1/search?category=&price=&time=&offset=&limit=.
// Upstream failures degrade to an empty page without more.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := SearchRequest{
		Query: search.Query{
			Categories: getListParam(r, "category"),
			Prices:     getListParam(r, "price"),
			Times:      getListParam(r, "time"),
		},
		Offset: getIntParam(r, "offset", 0),
		Limit:  getIntParam(r, "limit", h.config.Search.PageSize),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	page := search.Page{Offset: req.Offset, Limit: req.Limit, Sort: h.config.Search.Sort}
	items, err := h.events.Search(r.Context(), search.BuildQuery(req.Query, page, h.now(), h.loc))
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int("offset", req.Offset).Msg("search page unavailable")
		items = nil
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   SearchResponse{Query: req.Query, Items: cards(items)},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Pagination: &models.PaginationInfo{
				Limit:   req.Limit,
				Offset:  req.Offset,
				Count:   len(items),
				HasMore: err == nil && len(items) >= req.Limit,
			},
		},
	})
}

// Basemaps handles GET /api/v1/basemaps.
func (h *Handler) Basemaps(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	center := models.LatLng{Lat: h.config.Map.DefaultLatitude, Lng: h.config.Map.DefaultLongitude}
	styles := h.styles.List()
	options := make([]BasemapOption, 0, len(styles))
	for _, style := range styles {
		options = append(options, BasemapOption{
			BasemapStyle: style,
			PreviewURL:   style.PreviewURL(center, h.config.Map.DefaultZoom),
		})
	}
	respondData(w, r, BasemapsResponse{
		Default: h.styles.Default().Name,
		Styles:  options,
	}, time.Now())
}

// Links handles GET /api/v1/links?href=&uid=.
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	req := LinksRequest{Href: r.URL.Query().Get("href"), UID: r.URL.Query().Get("uid")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	respondData(w, r, map[string]string{"href": links.WithUID(req.Href, req.UID)}, time.Now())
}
