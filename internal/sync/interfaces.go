// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

/*
Package sync is the synchronization and matching engine: it decides when
cached launch data and cached stream associations are stale, refreshes them
from the rate-limited manifest provider, detects last-minute schedule changes
near liftoff, and coordinates the stream matcher.

Components:
  - NeedsRefresh: the pure TTL staleness gate
  - DirectorySyncer: full-catalog refresh with delta detection
  - ScrubDetector: critical-window schedule-change state machine
  - Service: read-path orchestration with per-key single-flight
  - Sweeper: periodic background directory refresh

Correctness properties:
  - At most one in-flight refresh per resource key (singleflight)
  - The read path always serves best-known data, never upstream failures
  - Terminal launches are never scrub-checked again
*/
package sync

import (
	"context"
	"time"

	"github.com/launchwindow/server/internal/models"
)

// Storage is the persistence surface the engine needs: a key-value store
// with query-by-field and upsert semantics. Implemented by *store.Store and
// by in-memory fakes in tests.
type Storage interface {
	GetLaunch(id string) (*models.Launch, error)
	UpsertLaunch(launch *models.Launch) error
	UpcomingLaunches(now time.Time, limit int) ([]*models.Launch, error)

	GetStreams(launchID string) ([]models.StreamAssociation, time.Time, error)
	PutStreams(launchID string, assocs []models.StreamAssociation, now time.Time) error
	InvalidateStreams(launchID string) error
	MarkStreamStatus(launchID string, status models.StreamStatus) error

	GetMarker(key string) (*models.SyncMarker, error)
	PutMarker(key string, refreshedAt time.Time) error
	ListMarkers() ([]models.SyncMarker, error)
}

// StreamMatcher produces scored candidate associations for one launch.
// Implemented by *match.Matcher.
type StreamMatcher interface {
	Match(ctx context.Context, launch *models.Launch) []models.StreamAssociation
}

// Limiter bounds manifest provider calls per resource key. Implemented by
// *ratelimit.KeyedLimiter.
type Limiter interface {
	// Acquire records a call for key and reports whether the window had
	// room. A false return is a scheduling signal: skip this cycle.
	Acquire(key string) bool
}

// Clock returns the current time; injectable for tests.
type Clock func() time.Time
