// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

// Package feed assembles the home page: a carousel of hot events and a list
// of recent ones.
package feed

import (
	"context"
	"sync"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/models"
)

// Source lists events for the home page.
type Source interface {
	Hot(ctx context.Context) ([]models.EventSummary, error)
	Recent(ctx context.Context) ([]models.EventSummary, error)
}

// Home is the home page content. A half that failed to load is empty and
// named in Degraded.
type Home struct {
	Hot      []models.EventSummary `json:"hot"`
	Recent   []models.EventSummary `json:"recent"`
	Degraded []string              `json:"degraded,omitempty"`
}

// Loader fetches the home page.
type Loader struct {
	source Source
	cfg    config.FeedConfig
}

// NewLoader creates a Loader. Non-positive limits fall back to 6 hot and
// 12 recent events.
func NewLoader(source Source, cfg config.FeedConfig) *Loader {
	if cfg.HotLimit <= 0 {
		cfg.HotLimit = 6
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 12
	}
	return &Loader{source: source, cfg: cfg}
}

// Load fetches both lists concurrently. It never fails; a cancelled ctx
// yields an empty, degraded page.
func (l *Loader) Load(ctx context.Context) Home {
	var (
		wg             sync.WaitGroup
		hot, recent    []models.EventSummary
		hotErr, recErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hot, hotErr = l.source.Hot(ctx)
	}()
	go func() {
		defer wg.Done()
		recent, recErr = l.source.Recent(ctx)
	}()
	wg.Wait()

	home := Home{Hot: []models.EventSummary{}, Recent: []models.EventSummary{}}
	if hotErr != nil {
		logging.Ctx(ctx).Warn().Err(hotErr).Msg("hot events unavailable")
		home.Degraded = append(home.Degraded, "hot")
	} else {
		home.Hot = truncate(hot, l.cfg.HotLimit)
	}
	if recErr != nil {
		logging.Ctx(ctx).Warn().Err(recErr).Msg("recent events unavailable")
		home.Degraded = append(home.Degraded, "recent")
	} else {
		home.Recent = truncate(recent, l.cfg.RecentLimit)
	}
	return home
}

func truncate(events []models.EventSummary, n int) []models.EventSummary {
	if events == nil {
		return []models.EventSummary{}
	}
	if len(events) > n {
		return events[:n]
	}
	return events
}
