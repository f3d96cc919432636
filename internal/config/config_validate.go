// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package config

import (
	"fmt"
	"time"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateEventAPI,
		c.validateMap,
		c.validateSearch,
		c.validateFeed,
		c.validateCache,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEventAPI() error {
	if c.EventAPI.BaseURL == "" {
		return fmt.Errorf("EVENT_API_URL is required")
	}
	if err := validateHTTPURL(c.EventAPI.BaseURL, "EVENT_API_URL"); err != nil {
		return fmt.Errorf("EVENT_API_URL is invalid: %w", err)
	}
	if c.EventAPI.Timeout <= 0 {
		return fmt.Errorf("EVENT_API_TIMEOUT must be positive")
	}
	if c.EventAPI.RateLimit < 0 {
		return fmt.Errorf("EVENT_API_RATE_LIMIT must not be negative")
	}
	if c.EventAPI.RateLimit > 0 && c.EventAPI.RateBurst < 1 {
		return fmt.Errorf("EVENT_API_RATE_BURST must be at least 1 when rate limiting is on")
	}
	if c.EventAPI.BreakerEnabled {
		if c.EventAPI.BreakerFailureRatio <= 0 || c.EventAPI.BreakerFailureRatio > 1 {
			return fmt.Errorf("EVENT_API_BREAKER_FAIL_RATE must be in (0, 1]")
		}
		if c.EventAPI.BreakerTimeout <= 0 {
			return fmt.Errorf("EVENT_API_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

func (c *Config) validateMap() error {
	m := c.Map
	if m.DefaultLatitude < -90 || m.DefaultLatitude > 90 {
		return fmt.Errorf("MAP_DEFAULT_LATITUDE must be between -90 and 90")
	}
	if m.DefaultLongitude < -180 || m.DefaultLongitude > 180 {
		return fmt.Errorf("MAP_DEFAULT_LONGITUDE must be between -180 and 180")
	}
	if m.MaxZoom <= 0 || m.DefaultZoom < 0 || m.DefaultZoom > m.MaxZoom {
		return fmt.Errorf("MAP_DEFAULT_ZOOM must be between 0 and map.max_zoom (%v)", m.MaxZoom)
	}
	if m.EventWindow < time.Hour {
		return fmt.Errorf("MAP_EVENT_WINDOW must be at least 1h")
	}
	if m.FitPadding < 0 || m.FitPadding >= 0.5 {
		return fmt.Errorf("map.fit_padding must be in [0, 0.5)")
	}
	if m.LocateTimeout <= 0 {
		return fmt.Errorf("MAP_LOCATE_TIMEOUT must be positive")
	}
	if m.DefaultBasemap == "" {
		return fmt.Errorf("MAP_DEFAULT_BASEMAP is required")
	}
	for i, b := range m.Basemaps {
		if b.Name == "" || b.URLTemplate == "" {
			return fmt.Errorf("map.basemaps[%d] needs name and url_template", i)
		}
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.PageSize < 1 || c.Search.PageSize > 100 {
		return fmt.Errorf("SEARCH_PAGE_SIZE must be between 1 and 100")
	}
	if c.Search.FirstPageMinLoading < 0 || c.Search.NextPageMinLoading < 0 {
		return fmt.Errorf("search minimum loading durations must not be negative")
	}
	if c.Search.Sort != "start_asc" && c.Search.Sort != "start_desc" {
		return fmt.Errorf("search.sort must be start_asc or start_desc")
	}
	if _, err := time.LoadLocation(c.Search.Timezone); err != nil {
		return fmt.Errorf("SEARCH_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.HotLimit < 0 || c.Feed.RecentLimit < 0 {
		return fmt.Errorf("feed limits must not be negative")
	}
	return nil
}

var validCacheBackends = map[string]bool{
	"memory": true,
	"badger": true,
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, badger")
	}
	if c.Cache.Backend == "badger" && !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required for the badger backend unless CACHE_IN_MEMORY=true")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.SweepInterval < 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must not be negative")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
