// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/artpass/internal/api"
	"github.com/tomtom215/artpass/internal/cache"
	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/eventapi"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/passport"
	"github.com/tomtom215/artpass/internal/supervisor"
	"github.com/tomtom215/artpass/internal/supervisor/services"
	ws "github.com/tomtom215/artpass/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; the default logger writes JSON to stderr.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("event_api", cfg.EventAPI.BaseURL).
		Str("environment", cfg.Server.Environment).
		Msg("Starting ArtPass")

	store, err := cache.New(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open response cache")
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing response cache")
			}
		}()
		logging.Info().Str("backend", store.Name()).Dur("ttl", cfg.Cache.TTL).Msg("Response cache enabled")
	}

	client := eventapi.New(cfg.EventAPI, eventapi.WithCache(store, cfg.Cache.TTL))
	styles := mapsession.NewStyles(cfg.Map.Basemaps, cfg.Map.DefaultBasemap)
	hub := ws.NewHub()

	bus := passport.NewBus(nil)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing passport bus")
		}
	}()
	passportSvc := passport.NewService(client, passport.WithBus(bus))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewHandler(cfg, client, passportSvc, styles, hub)
	handler.SetSessionContext(ctx)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if sweeper, ok := store.(cache.Sweeper); ok && cfg.Cache.SweepInterval > 0 {
		tree.AddDataService(services.NewCacheSweeperService(sweeper, cfg.Cache.SweepInterval))
	}
	tree.AddMessagingService(hub)
	tree.AddMessagingService(passport.NewFanout(bus, hub.BroadcastPassportChange))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("ArtPass stopped")
}
