// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/launchwindow/server/internal/logging"
)

// Sweeper periodically nudges the directory through the same staleness gate
// the read path uses, so the catalog stays warm even when no client is
// asking. It never forces a refresh: a fresh marker makes the tick a no-op.
type Sweeper struct {
	service  *Service
	interval time.Duration

	// cleanup is invoked once per tick for housekeeping hooks, typically
	// rate limiter window pruning. May be nil.
	cleanup func()

	mu       stdsync.Mutex
	running  bool
	stopChan chan struct{}
	wg       stdsync.WaitGroup
}

// NewSweeper creates a sweeper over the service. A zero interval disables it:
// Start becomes a no-op.
func NewSweeper(service *Service, interval time.Duration, cleanup func()) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		cleanup:  cleanup,
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		log := logging.Logger()
		log.Info().Msg("background sweep disabled")
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	log := logging.Logger()
	log.Info().Dur("interval", s.interval).Msg("starting background sweep")

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	log := logging.Logger()
	log.Info().Msg("background sweep stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if s.cleanup != nil {
		s.cleanup()
	}

	if !s.service.directoryStale(s.service.now()) {
		return
	}
	if err := s.service.refreshDirectory(ctx); err != nil {
		log := logging.Logger()
		log.Warn().Err(err).Msg("background directory sweep failed")
	}
}
