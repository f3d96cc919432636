// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package cache

import (
	"fmt"
	"time"

	"github.com/tomtom215/artpass/internal/config"
)

// Store is a byte-oriented key/value cache with per-entry expiry.
type Store interface {
	// Get returns a copy of the value stored under key.
	Get(key string) ([]byte, bool)

	// Set stores value under key for ttl. A non-positive ttl uses the store default.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes key if present.
	Delete(key string)

	// Name identifies the backend in logs and metrics.
	Name() string

	// Close releases backend resources.
	Close() error
}

// Sweeper is implemented by stores that need periodic reclamation of
// expired entries.
type Sweeper interface {
	Sweep() int
}

// New builds the Store described by cfg. It returns nil, nil when caching is disabled.
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "", BackendMemory:
		return NewLRUStore(cfg.Capacity, cfg.TTL), nil
	case BackendBadger:
		s, err := OpenBadgerStore(cfg.Path, cfg.InMemory, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)
