// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Command server runs the LaunchWindow API: a launch schedule cache and
// stream matcher in front of the upstream manifest and video providers.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/launchwindow/server/internal/api"
	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/maintenance"
	"github.com/launchwindow/server/internal/match"
	"github.com/launchwindow/server/internal/ratelimit"
	"github.com/launchwindow/server/internal/source"
	"github.com/launchwindow/server/internal/store"
	syncengine "github.com/launchwindow/server/internal/sync"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("store", cfg.Store.Path).
		Msg("starting launchwindow server")

	db, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("closing store")
		}
	}()

	manifestClient := source.NewManifestClient(cfg.LaunchAPI)
	manifest := source.NewBreakerClient(manifestClient)
	videos := source.NewVideoClient(cfg.Video)
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxCalls, nil)
	matcher := match.NewMatcher(videos, cfg.Video)

	directory := syncengine.NewDirectorySyncer(manifest, db, limiter, cfg.Sync, cfg.LaunchAPI, nil)
	scrub := syncengine.NewScrubDetector(manifest, db, limiter, cfg.Sync, nil)
	service := syncengine.NewService(db, directory, scrub, matcher, cfg.Sync, nil)
	astronauts := syncengine.NewAstronautDirectory(manifestClient, db, limiter, cfg.Sync, nil)
	maintainer := maintenance.New(db, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the catalog before accepting traffic. Best effort: a provider
	// outage at boot should not keep the server down.
	if _, err := service.ForceDirectoryRefresh(ctx); err != nil {
		logging.Warn().Err(err).Msg("initial directory load failed, starting with stored catalog")
	}

	sweeper := syncengine.NewSweeper(service, cfg.Sync.SweepInterval, func() {
		limiter.Cleanup()
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	handler := api.NewHandler(service, astronauts, maintainer)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg.Server),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}
