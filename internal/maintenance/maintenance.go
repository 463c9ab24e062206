// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package maintenance holds the housekeeping operations exposed through the
// admin API: archiving past launches and sweeping stream entries whose
// launch no longer exists. Nothing here deletes launch records.
package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/store"
)

// Storage is the store surface maintenance needs.
type Storage interface {
	ListLaunches() ([]*models.Launch, error)
	GetLaunch(id string) (*models.Launch, error)
	UpsertLaunch(launch *models.Launch) error
	StreamLaunchIDs() ([]string, error)
	InvalidateStreams(launchID string) error
}

// Maintainer runs housekeeping against the store.
type Maintainer struct {
	storage Storage
	now     func() time.Time
}

// New creates a maintainer. now may be nil, in which case time.Now is used.
func New(storage Storage, now func() time.Time) *Maintainer {
	if now == nil {
		now = time.Now
	}
	return &Maintainer{storage: storage, now: now}
}

// ArchiveResult summarizes one archive pass.
type ArchiveResult struct {
	Examined int `json:"examined"`
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

// ArchiveOlderThan marks terminal and long-past launches as archived when
// their scheduled time is more than age in the past. Archiving changes
// status only; the record stays readable by ID.
func (m *Maintainer) ArchiveOlderThan(ctx context.Context, age time.Duration) (*ArchiveResult, error) {
	launches, err := m.storage.ListLaunches()
	if err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx)
	cutoff := m.now().Add(-age)
	result := &ArchiveResult{Examined: len(launches)}

	for _, l := range launches {
		if l.Status == models.StatusArchived || l.ScheduledAt.After(cutoff) {
			continue
		}
		l.Status = models.StatusArchived
		l.UpdatedAt = m.now()
		if err := m.storage.UpsertLaunch(l); err != nil {
			log.Error().Err(err).Str("launch_id", l.ID).Msg("archive: upsert launch")
			result.Failed++
			continue
		}
		result.Archived++
	}

	log.Info().
		Int("examined", result.Examined).
		Int("archived", result.Archived).
		Int("failed", result.Failed).
		Dur("age", age).
		Msg("archive pass complete")
	return result, nil
}

// OrphanResult summarizes one orphan sweep.
type OrphanResult struct {
	Examined int `json:"examined"`
	Removed  int `json:"removed"`
	Failed   int `json:"failed"`
}

// SweepOrphanStreams removes stream cache entries whose launch record no
// longer exists in the store.
func (m *Maintainer) SweepOrphanStreams(ctx context.Context) (*OrphanResult, error) {
	ids, err := m.storage.StreamLaunchIDs()
	if err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx)
	result := &OrphanResult{Examined: len(ids)}

	for _, id := range ids {
		_, err := m.storage.GetLaunch(id)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("launch_id", id).Msg("orphan sweep: read launch")
			result.Failed++
			continue
		}
		if err := m.storage.InvalidateStreams(id); err != nil {
			log.Error().Err(err).Str("launch_id", id).Msg("orphan sweep: remove streams")
			result.Failed++
			continue
		}
		metrics.CacheInvalidations.WithLabelValues("orphan").Inc()
		result.Removed++
	}

	log.Info().
		Int("examined", result.Examined).
		Int("removed", result.Removed).
		Int("failed", result.Failed).
		Msg("orphan sweep complete")
	return result, nil
}

// Stats is a read-only snapshot of store contents, served by the admin
// cleanup stats endpoint.
type Stats struct {
	Launches       int `json:"launches"`
	Archived       int `json:"archived"`
	Terminal       int `json:"terminal"`
	StreamEntries  int `json:"stream_entries"`
	OrphanedStream int `json:"orphaned_stream_entries"`
}

// CollectStats counts launches by lifecycle bucket and stream entries with
// and without a backing launch.
func (m *Maintainer) CollectStats(ctx context.Context) (*Stats, error) {
	launches, err := m.storage.ListLaunches()
	if err != nil {
		return nil, err
	}
	ids, err := m.storage.StreamLaunchIDs()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(launches))
	stats := &Stats{Launches: len(launches), StreamEntries: len(ids)}
	for _, l := range launches {
		known[l.ID] = struct{}{}
		switch {
		case l.Status == models.StatusArchived:
			stats.Archived++
		case l.Status.IsTerminal():
			stats.Terminal++
		}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			stats.OrphanedStream++
		}
	}
	return stats, nil
}
