// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package links keeps the uid query parameter attached to in-app links.
package links

import (
	"net/url"
	"strings"
)

// WithUID adds uid to href unless href already carries a uid. Relative
// links stay relative and absolute http(s) links stay absolute. An empty
// uid or an unparsable href returns href unchanged.
func WithUID(href, uid string) string {
	if uid == "" {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	q := u.Query()
	if q.Get("uid") != "" {
		return href
	}
	q.Set("uid", uid)
	u.RawQuery = q.Encode()

	if isAbsoluteHTTP(href) {
		return u.String()
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	out := path + "?" + u.RawQuery
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}

func isAbsoluteHTTP(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
