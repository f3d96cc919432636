// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/artpass/config.yaml",
	"/etc/artpass/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. File and env values override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		EventAPI: EventAPIConfig{
			BaseURL:             "http://127.0.0.1:8000",
			Timeout:             15 * time.Second,
			RateLimit:           20,
			RateBurst:           40,
			BreakerEnabled:      true,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Map: MapConfig{
			// 台北市立美術館
			DefaultLatitude:      25.0726,
			DefaultLongitude:     121.524,
			DefaultZoom:          12,
			MaxZoom:              19,
			DefaultLandmark:      "台北市立美術館",
			EventWindow:          14 * 24 * time.Hour,
			FitPadding:           0.1,
			FirstFixZoom:         14,
			LocateZoom:           15,
			SelectZoom:           15,
			AccuracyRadiusMeters: 60,
			LocateTimeout:        8 * time.Second,
			WatchMaxAge:          5 * time.Second,
			DefaultBasemap:       "osm",
		},
		Search: SearchConfig{
			PageSize:            10,
			FirstPageMinLoading: 1200 * time.Millisecond,
			NextPageMinLoading:  800 * time.Millisecond,
			Sort:                "start_asc",
			Timezone:            "Asia/Taipei",
		},
		Feed: FeedConfig{
			HotLimit:    6,
			RecentLimit: 12,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Backend:  "memory",
			Path:     "/data/cache",
			InMemory: false,
			TTL:      10 * time.Minute,
			Capacity: 2048,

			SweepInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf layers defaults, an optional YAML file and environment
// variables, then validates the result. Precedence: env > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"event_api_url":               "event_api.base_url",
	"event_api_timeout":           "event_api.timeout",
	"event_api_rate_limit":        "event_api.rate_limit",
	"event_api_rate_burst":        "event_api.rate_burst",
	"event_api_breaker_enabled":   "event_api.breaker_enabled",
	"event_api_breaker_timeout":   "event_api.breaker_timeout",
	"event_api_breaker_min_reqs":  "event_api.breaker_min_requests",
	"event_api_breaker_fail_rate": "event_api.breaker_failure_ratio",

	"map_default_latitude":  "map.default_latitude",
	"map_default_longitude": "map.default_longitude",
	"map_default_zoom":      "map.default_zoom",
	"map_default_landmark":  "map.default_landmark",
	"map_default_basemap":   "map.default_basemap",
	"map_event_window":      "map.event_window",
	"map_locate_timeout":    "map.locate_timeout",
	"map_watch_max_age":     "map.watch_max_age",

	"search_page_size":       "search.page_size",
	"search_first_page_wait": "search.first_page_min_loading",
	"search_next_page_wait":  "search.next_page_min_loading",
	"search_timezone":        "search.timezone",

	"feed_hot_limit":    "feed.hot_limit",
	"feed_recent_limit": "feed.recent_limit",

	"cache_enabled":        "cache.enabled",
	"cache_backend":        "cache.backend",
	"cache_path":           "cache.path",
	"cache_in_memory":      "cache.in_memory",
	"cache_ttl":            "cache.ttl",
	"cache_capacity":       "cache.capacity",
	"cache_sweep_interval": "cache.sweep_interval",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unknown variables map to "" and are dropped.
//
//   - HTTP_PORT -> server.port
//   - EVENT_API_URL -> event_api.base_url
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
