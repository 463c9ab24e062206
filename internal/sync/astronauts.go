// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/source"
	"github.com/launchwindow/server/internal/store"
)

// AstronautAPI is the provider surface the astronaut directory needs.
// Implemented by *source.ManifestClient.
type AstronautAPI interface {
	GetAstronaut(ctx context.Context, id int) (*source.AstronautRecord, error)
}

// AstronautStore is the persistence surface for astronaut records.
// Implemented by *store.Store.
type AstronautStore interface {
	GetAstronaut(id int) (*models.Astronaut, error)
	PutAstronaut(astro *models.Astronaut) error
}

// AstronautDirectory serves astronaut personnel records on demand. Records
// are fetched lazily per ID, cached, and refetched once their stored copy
// ages past the configured TTL. Follows the same read-path shape as the
// launch accessors: staleness gate, singleflight refresh, stale-on-error.
type AstronautDirectory struct {
	api     AstronautAPI
	storage AstronautStore
	limiter Limiter
	ttl     time.Duration
	now     Clock

	group singleflight.Group
}

// NewAstronautDirectory wires the directory. now may be nil, in which case
// time.Now is used.
func NewAstronautDirectory(api AstronautAPI, storage AstronautStore, limiter Limiter, cfg config.SyncConfig, now Clock) *AstronautDirectory {
	if now == nil {
		now = time.Now
	}
	return &AstronautDirectory{
		api:     api,
		storage: storage,
		limiter: limiter,
		ttl:     cfg.AstronautTTL,
		now:     now,
	}
}

// Get returns one astronaut by provider ID, fetching from the provider when
// the record is missing or stale. The second return reports whether the data
// was served without an upstream fetch. Returns store.ErrNotFound when the
// provider has no such astronaut and nothing is cached.
func (d *AstronautDirectory) Get(ctx context.Context, id int) (*models.Astronaut, bool, error) {
	stored, err := d.storage.GetAstronaut(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("astronaut lookup: %w", err)
	}

	now := d.now()
	if stored != nil && !NeedsRefresh(&models.SyncMarker{LastRefreshed: stored.FetchedAt}, d.ttl, now) {
		metrics.CacheHits.WithLabelValues("astronauts").Inc()
		return stored, true, nil
	}
	metrics.CacheMisses.WithLabelValues("astronauts").Inc()

	astro, err := d.refresh(ctx, id)
	if err != nil {
		if stored != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("astronaut_id", id).Msg("astronaut refresh failed, serving stale record")
			return stored, true, nil
		}
		if errors.Is(err, source.ErrNotFound) {
			return nil, false, store.ErrNotFound
		}
		return nil, false, err
	}
	return astro, false, nil
}

// refresh funnels concurrent fetches for one astronaut into a single
// provider call and persists the result.
func (d *AstronautDirectory) refresh(ctx context.Context, id int) (*models.Astronaut, error) {
	key := astronautKey(id)
	res, err, _ := d.group.Do(key, func() (interface{}, error) {
		if !d.limiter.Acquire(key) {
			metrics.RateLimitDenials.Inc()
			return nil, ErrRateLimited
		}

		record, err := d.api.GetAstronaut(context.WithoutCancel(ctx), id)
		if err != nil {
			metrics.SourceCalls.WithLabelValues("manifest", "error").Inc()
			return nil, fmt.Errorf("astronaut fetch: %w", err)
		}
		metrics.SourceCalls.WithLabelValues("manifest", "ok").Inc()

		astro := record.Normalize(d.now())
		if err := d.storage.PutAstronaut(astro); err != nil {
			return nil, fmt.Errorf("persist astronaut: %w", err)
		}
		return astro, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Astronaut), nil
}

func astronautKey(id int) string {
	return "astronaut:" + strconv.Itoa(id)
}
