// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package eventapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tomtom215/artpass/internal/models"
)

func passportPath(uid string) string {
	return "/users/" + url.PathEscape(uid) + "/passport"
}

// Passport returns the user's collected events.
func (c *Client) Passport(ctx context.Context, uid string) (*models.Passport, error) {
	req := request{method: http.MethodGet, endpoint: "passport", path: passportPath(uid)}
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var p models.Passport
	if err := decode(req.endpoint, body, &p); err != nil {
		return nil, err
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

// AddToPassport adds eventID and reports whether it is now in the passport.
// A response without an "added" field counts as added.
func (c *Client) AddToPassport(ctx context.Context, uid, eventID string) (bool, error) {
	q := url.Values{}
	q.Set("event_id", eventID)
	req := request{method: http.MethodPost, endpoint: "passport_add", path: passportPath(uid), query: q}

	body, err := c.do(ctx, req)
	if err != nil {
		return false, err
	}
	var res models.PassportAddResult
	if len(body) > 0 {
		if err := decode(req.endpoint, body, &res); err != nil {
			return false, err
		}
	}
	if res.Added == nil {
		return true, nil
	}
	return *res.Added, nil
}

// RemoveFromPassport removes eventID and reports whether it was removed.
// A response without a "removed" field counts as removed.
func (c *Client) RemoveFromPassport(ctx context.Context, uid, eventID string) (bool, error) {
	req := request{
		method:   http.MethodDelete,
		endpoint: "passport_remove",
		path:     passportPath(uid) + "/" + url.PathEscape(eventID),
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return false, err
	}
	var res models.PassportRemoveResult
	if len(body) > 0 {
		if err := decode(req.endpoint, body, &res); err != nil {
			return false, err
		}
	}
	if res.Removed == nil {
		return true, nil
	}
	return *res.Removed, nil
}
