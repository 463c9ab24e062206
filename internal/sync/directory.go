// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/source"
	"github.com/launchwindow/server/internal/store"
)

// DirectoryResult summarizes one directory sync cycle for operator reporting.
type DirectoryResult struct {
	Fetched     int `json:"fetched"`
	Upserted    int `json:"upserted"`
	Failed      int `json:"failed"`
	Invalidated int `json:"invalidated"`
}

// DirectorySyncer refreshes the full launch catalog from the manifest
// provider. Each cycle fetches the upcoming set, compares every record against
// the stored version, invalidates stream caches for launches whose schedule
// changed materially, and upserts everything.
type DirectorySyncer struct {
	manifest   source.ManifestAPI
	storage    Storage
	limiter    Limiter
	cfg        config.SyncConfig
	retryTries int
	retryDelay time.Duration
	now        Clock
}

// NewDirectorySyncer wires a syncer against the given provider and store.
// retry supplies the catalog fetch retry policy. now may be nil, in which
// case time.Now is used.
func NewDirectorySyncer(manifest source.ManifestAPI, storage Storage, limiter Limiter, cfg config.SyncConfig, retry config.LaunchAPIConfig, now Clock) *DirectorySyncer {
	if now == nil {
		now = time.Now
	}
	return &DirectorySyncer{
		manifest:   manifest,
		storage:    storage,
		limiter:    limiter,
		cfg:        cfg,
		retryTries: retry.RetryAttempts,
		retryDelay: retry.RetryDelay,
		now:        now,
	}
}

// ErrRateLimited is returned when the per-resource call budget is exhausted
// and the cycle was skipped without contacting the provider.
var ErrRateLimited = errors.New("sync: rate limit exhausted")

// Sync runs one directory refresh cycle.
//
// Failure semantics: if the provider fetch fails after retries, the stored
// catalog and the directory marker are left untouched, so the staleness gate
// keeps signalling a refresh is due. If the fetch succeeds but some upserts
// fail, the marker is still advanced: the provider data was obtained and
// partially applied, and retrying immediately would spend another provider
// call for the same payload.
func (d *DirectorySyncer) Sync(ctx context.Context) (*DirectoryResult, error) {
	log := logging.Ctx(ctx)
	start := d.now()

	if !d.limiter.Acquire(models.MarkerDirectory) {
		metrics.RateLimitDenials.Inc()
		log.Warn().Msg("directory sync skipped: rate limit exhausted")
		return nil, ErrRateLimited
	}

	records, err := d.fetchWithRetry(ctx)
	if err != nil {
		errType := "transient"
		if source.IsClientError(err) {
			errType = "client"
		}
		metrics.SyncErrors.WithLabelValues("directory", errType).Inc()
		return nil, fmt.Errorf("directory fetch: %w", err)
	}

	result := &DirectoryResult{Fetched: len(records)}
	now := d.now()

	for i := range records {
		incoming := records[i].Normalize(now)
		if incoming.ID == "" {
			result.Failed++
			continue
		}

		prev, err := d.storage.GetLaunch(incoming.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("launch_id", incoming.ID).Msg("directory sync: read existing launch")
			result.Failed++
			continue
		}

		if prev != nil && d.significantChange(prev, incoming) {
			if err := d.storage.InvalidateStreams(incoming.ID); err != nil {
				log.Error().Err(err).Str("launch_id", incoming.ID).Msg("directory sync: invalidate streams")
			} else {
				metrics.CacheInvalidations.WithLabelValues("directory_delta").Inc()
				result.Invalidated++
				log.Info().
					Str("launch_id", incoming.ID).
					Str("name", incoming.Name).
					Time("was", prev.ScheduledAt).
					Time("now", incoming.ScheduledAt).
					Str("status", string(incoming.Status)).
					Msg("schedule changed materially, stream cache invalidated")
			}
		}

		if err := d.storage.UpsertLaunch(incoming); err != nil {
			log.Error().Err(err).Str("launch_id", incoming.ID).Msg("directory sync: upsert launch")
			result.Failed++
			continue
		}
		result.Upserted++
	}

	if err := d.storage.PutMarker(models.MarkerDirectory, now); err != nil {
		log.Error().Err(err).Msg("directory sync: write marker")
	}

	metrics.SyncDuration.WithLabelValues("directory").Observe(d.now().Sub(start).Seconds())
	metrics.SyncRecordsProcessed.WithLabelValues("directory").Add(float64(result.Upserted))
	metrics.SyncLastSuccess.WithLabelValues("directory").Set(float64(now.Unix()))

	log.Info().
		Int("fetched", result.Fetched).
		Int("upserted", result.Upserted).
		Int("failed", result.Failed).
		Int("invalidated", result.Invalidated).
		Dur("elapsed", d.now().Sub(start)).
		Msg("directory sync complete")

	return result, nil
}

// fetchWithRetry fetches the upcoming catalog with exponential backoff.
// Client errors (4xx other than 429) are not retried: the request itself is
// malformed and repeating it cannot help.
func (d *DirectorySyncer) fetchWithRetry(ctx context.Context) ([]source.LaunchRecord, error) {
	log := logging.Ctx(ctx)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.retryDelay

	return backoff.Retry(ctx, func() ([]source.LaunchRecord, error) {
		records, err := d.manifest.UpcomingLaunches(ctx)
		if err != nil {
			metrics.SourceCalls.WithLabelValues("manifest", "error").Inc()
			if source.IsClientError(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		metrics.SourceCalls.WithLabelValues("manifest", "ok").Inc()
		return records, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(d.retryTries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("retry_in", next).Msg("directory fetch failed, retrying")
		}),
	)
}

// significantChange reports whether the incoming record differs from the
// stored one in a way that makes previously matched streams unreliable:
// the scheduled time moved by more than the configured threshold, or a
// confirmed launch regressed to an unconfirmed status.
func (d *DirectorySyncer) significantChange(prev, next *models.Launch) bool {
	shift := next.ScheduledAt.Sub(prev.ScheduledAt)
	if shift < 0 {
		shift = -shift
	}
	if shift > d.cfg.SignificantDelay {
		return true
	}
	return prev.Status == models.StatusGo && next.Status.IsUncertain()
}
