// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package config loads ArtPass configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	EventAPI EventAPIConfig `koanf:"event_api"`
	Map      MapConfig      `koanf:"map"`
	Search   SearchConfig   `koanf:"search"`
	Feed     FeedConfig     `koanf:"feed"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// EventAPIConfig describes the remote event API and how hard we may hit it.
type EventAPIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is requests per second across the whole process; 0 disables pacing.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	BreakerEnabled      bool          `koanf:"breaker_enabled"`
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// MapConfig holds the venue map defaults.
type MapConfig struct {
	DefaultLatitude  float64 `koanf:"default_latitude"`
	DefaultLongitude float64 `koanf:"default_longitude"`
	DefaultZoom      float64 `koanf:"default_zoom"`
	MaxZoom          float64 `koanf:"max_zoom"`
	DefaultLandmark  string  `koanf:"default_landmark"`

	EventWindow time.Duration `koanf:"event_window"`
	FitPadding  float64       `koanf:"fit_padding"`

	FirstFixZoom float64 `koanf:"first_fix_zoom"`
	LocateZoom   float64 `koanf:"locate_zoom"`
	SelectZoom   float64 `koanf:"select_zoom"`

	AccuracyRadiusMeters float64       `koanf:"accuracy_radius_meters"`
	LocateTimeout        time.Duration `koanf:"locate_timeout"`
	WatchMaxAge          time.Duration `koanf:"watch_max_age"`

	DefaultBasemap string          `koanf:"default_basemap"`
	Basemaps       []BasemapConfig `koanf:"basemaps"`
}

// BasemapConfig describes one tile source. Entries override built-in styles by name.
type BasemapConfig struct {
	Name        string   `koanf:"name"`
	URLTemplate string   `koanf:"url_template"`
	Subdomains  []string `koanf:"subdomains"`
	Attribution string   `koanf:"attribution"`
	MaxZoom     int      `koanf:"max_zoom"`
}

// SearchConfig holds search paging behaviour.
type SearchConfig struct {
	PageSize            int           `koanf:"page_size"`
	FirstPageMinLoading time.Duration `koanf:"first_page_min_loading"`
	NextPageMinLoading  time.Duration `koanf:"next_page_min_loading"`
	Sort                string        `koanf:"sort"`
	Timezone            string        `koanf:"timezone"`
}

// FeedConfig holds home feed truncation limits.
type FeedConfig struct {
	HotLimit    int `koanf:"hot_limit"`
	RecentLimit int `koanf:"recent_limit"`
}

// CacheConfig controls the upstream response cache.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Backend  string        `koanf:"backend"` // memory or badger
	Path     string        `koanf:"path"`
	InMemory bool          `koanf:"in_memory"`
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"`

	// SweepInterval is how often expired entries are reclaimed. Zero disables the sweeper.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// SecurityConfig holds CORS and rate limiting for the public API.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config without the writer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load builds the configuration from every source and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
