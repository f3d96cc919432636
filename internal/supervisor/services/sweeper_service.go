// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package services

import (
	"context"
	"time"

	"github.com/tomtom215/artpass/internal/logging"
)

// Sweeper is satisfied by cache stores that reclaim expired entries.
type Sweeper interface {
	Sweep() int
}

// CacheSweeperService calls Sweep on a fixed interval until canceled.
type CacheSweeperService struct {
	sweeper  Sweeper
	interval time.Duration
	name     string
}

// NewCacheSweeperService wraps sweeper. A non-positive interval defaults to 5m.
func NewCacheSweeperService(sweeper Sweeper, interval time.Duration) *CacheSweeperService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheSweeperService{
		sweeper:  sweeper,
		interval: interval,
		name:     "cache-sweeper",
	}
}

// Serve implements suture.Service.
func (s *CacheSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sweeper.Sweep(); n > 0 {
				logging.Debug().Int("reclaimed", n).Msg("Cache sweep")
			}
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *CacheSweeperService) String() string {
	return s.name
}
