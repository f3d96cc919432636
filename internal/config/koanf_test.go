// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Map.DefaultZoom != 12 {
		t.Errorf("Map.DefaultZoom = %v, want 12", cfg.Map.DefaultZoom)
	}
	if cfg.Map.EventWindow != 14*24*time.Hour {
		t.Errorf("Map.EventWindow = %v, want 336h", cfg.Map.EventWindow)
	}
	if cfg.Map.DefaultLandmark != "台北市立美術館" {
		t.Errorf("Map.DefaultLandmark = %q", cfg.Map.DefaultLandmark)
	}
	if cfg.Search.PageSize != 10 {
		t.Errorf("Search.PageSize = %d, want 10", cfg.Search.PageSize)
	}
	if cfg.Search.FirstPageMinLoading != 1200*time.Millisecond {
		t.Errorf("Search.FirstPageMinLoading = %v, want 1.2s", cfg.Search.FirstPageMinLoading)
	}
	if cfg.Search.NextPageMinLoading != 800*time.Millisecond {
		t.Errorf("Search.NextPageMinLoading = %v, want 800ms", cfg.Search.NextPageMinLoading)
	}
	if cfg.Feed.HotLimit != 6 || cfg.Feed.RecentLimit != 12 {
		t.Errorf("Feed limits = %d/%d, want 6/12", cfg.Feed.HotLimit, cfg.Feed.RecentLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"HTTP_PORT", "server.port"},
		{"EVENT_API_URL", "event_api.base_url"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"CACHE_BACKEND", "cache.backend"},
		{"SEARCH_FIRST_PAGE_WAIT", "search.first_page_min_loading"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("EVENT_API_URL", "https://events.example.com")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SEARCH_PAGE_SIZE", "20")
	t.Setenv("CACHE_TTL", "2m")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.EventAPI.BaseURL != "https://events.example.com" {
		t.Errorf("EventAPI.BaseURL = %q", cfg.EventAPI.BaseURL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Search.PageSize != 20 {
		t.Errorf("Search.PageSize = %d, want 20", cfg.Search.PageSize)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("Cache.TTL = %v, want 2m", cfg.Cache.TTL)
	}
	// untouched defaults survive the env layer
	if cfg.Map.DefaultZoom != 12 {
		t.Errorf("Map.DefaultZoom = %v, want 12", cfg.Map.DefaultZoom)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8081
map:
  default_landmark: 國立故宮博物院
  basemaps:
    - name: toner
      url_template: https://tiles.example.com/{z}/{x}/{y}.png
      max_zoom: 18
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Map.DefaultLandmark != "國立故宮博物院" {
		t.Errorf("DefaultLandmark = %q", cfg.Map.DefaultLandmark)
	}
	if len(cfg.Map.Basemaps) != 1 || cfg.Map.Basemaps[0].Name != "toner" || cfg.Map.Basemaps[0].MaxZoom != 18 {
		t.Errorf("Basemaps = %+v", cfg.Map.Basemaps)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env should win over file: Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestProcessSliceFieldsKeepsYAMLSlices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "security:\n  cors_origins:\n    - https://only.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://only.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}
