// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package links

import "testing"

func TestWithUID(t *testing.T) {
	tests := []struct {
		name string
		href string
		uid  string
		want string
	}{
		{"relative path", "/search", "u1", "/search?uid=u1"},
		{"keeps query and fragment", "/search?openFilter=1#top", "u1", "/search?openFilter=1&uid=u1#top"},
		{"existing uid kept", "/passport?uid=other", "u1", "/passport?uid=other"},
		{"absolute link", "https://example.com/a?b=c", "u1", "https://example.com/a?b=c&uid=u1"},
		{"empty uid", "/search", "", "/search"},
		{"unparsable", "http://[::1", "u1", "http://[::1"},
		{"uid escaped", "/nearby", "a b&c", "/nearby?uid=a+b%26c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithUID(tt.href, tt.uid); got != tt.want {
				t.Errorf("WithUID(%q, %q) = %q, want %q", tt.href, tt.uid, got, tt.want)
			}
		})
	}
}
