// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package eventapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/artpass/internal/models"
)

// Venues returns every known venue.
func (c *Client) Venues(ctx context.Context) ([]models.Venue, error) {
	req := request{method: http.MethodGet, endpoint: "venue", path: "/venue", cacheKey: "venue"}
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var venues []models.Venue
	if err := decode(req.endpoint, body, &venues); err != nil {
		return nil, err
	}
	c.store(req, body)
	return venues, nil
}

// EventsByPlatform returns the events of one venue starting in [start, end].
// A 404 means the venue has no events and yields an empty slice.
func (c *Client) EventsByPlatform(ctx context.Context, platform string, start, end time.Time) ([]models.EventSummary, error) {
	q := url.Values{}
	q.Set("start_timestamp", strconv.FormatInt(start.Unix(), 10))
	q.Set("end_timestamp", strconv.FormatInt(end.Unix(), 10))

	events, err := c.eventList(ctx, request{
		method:   http.MethodGet,
		endpoint: "platform",
		path:     "/platform/" + url.PathEscape(platform),
		query:    q,
	})
	if IsNotFound(err) {
		return []models.EventSummary{}, nil
	}
	return events, err
}

// Hot returns the featured events row.
func (c *Client) Hot(ctx context.Context) ([]models.EventSummary, error) {
	return c.eventList(ctx, request{method: http.MethodGet, endpoint: "hot", path: "/hot"})
}

// Recent returns the recently added events row.
func (c *Client) Recent(ctx context.Context) ([]models.EventSummary, error) {
	return c.eventList(ctx, request{method: http.MethodGet, endpoint: "recent", path: "/recent"})
}

// Search runs one page of a search. The query is built by the caller.
func (c *Client) Search(ctx context.Context, query url.Values) ([]models.EventSummary, error) {
	return c.eventList(ctx, request{method: http.MethodGet, endpoint: "search", path: "/search", query: query})
}

// Event returns the normalised detail of one event.
func (c *Client) Event(ctx context.Context, id string) (*models.EventDetail, error) {
	req := request{
		method:   http.MethodGet,
		endpoint: "event",
		path:     "/event/" + url.PathEscape(id),
		cacheKey: "event:" + id,
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var raw models.RawEventDetail
	if err := decode(req.endpoint, body, &raw); err != nil {
		return nil, err
	}
	c.store(req, body)
	detail := raw.Normalize(id)
	return &detail, nil
}

func (c *Client) eventList(ctx context.Context, req request) ([]models.EventSummary, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var events []models.EventSummary
	if err := decode(req.endpoint, body, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.EventSummary{}
	}
	return events, nil
}
