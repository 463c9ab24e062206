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

	"golang.org/x/sync/singleflight"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/store"
)

// defaultUpcomingLimit caps the launch list when the caller does not ask for
// a specific size.
const defaultUpcomingLimit = 50

// Service is the read-path orchestrator. Every public accessor follows the
// same shape: consult the staleness gate, refresh through singleflight when
// stale, and fall back to the last stored data when the refresh fails.
type Service struct {
	storage   Storage
	directory *DirectorySyncer
	scrub     *ScrubDetector
	matcher   StreamMatcher
	cfg       config.SyncConfig
	now       Clock

	group singleflight.Group
}

// NewService wires the orchestrator. now may be nil, in which case time.Now
// is used.
func NewService(storage Storage, directory *DirectorySyncer, scrub *ScrubDetector, matcher StreamMatcher, cfg config.SyncConfig, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		storage:   storage,
		directory: directory,
		scrub:     scrub,
		matcher:   matcher,
		cfg:       cfg,
		now:       now,
	}
}

// ListUpcoming returns the upcoming launch list, refreshing the directory
// first when its TTL has lapsed. A non-positive limit falls back to the
// default cap. The second return reports whether the data was served without
// an upstream refresh.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]*models.Launch, bool, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	now := s.now()
	cached := true

	if s.directoryStale(now) {
		metrics.CacheMisses.WithLabelValues("directory").Inc()
		cached = false
		if err := s.refreshDirectory(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("directory refresh failed, serving stored catalog")
		}
	} else {
		metrics.CacheHits.WithLabelValues("directory").Inc()
	}

	launches, err := s.storage.UpcomingLaunches(now, limit)
	if err != nil {
		return nil, false, fmt.Errorf("list upcoming: %w", err)
	}
	return launches, cached, nil
}

// GetLaunch returns one launch by ID, running an inline scrub check when the
// launch is inside its critical window. Returns store.ErrNotFound for
// unknown IDs.
func (s *Service) GetLaunch(ctx context.Context, id string) (*models.Launch, error) {
	launch, err := s.storage.GetLaunch(id)
	if err != nil {
		return nil, err
	}
	launch, _ = s.scrub.Check(ctx, launch)
	return launch, nil
}

// GetStreams returns the stream associations for one launch, refreshing them
// through the matcher when stale. Launches farther out than the stream
// horizon get an empty, fresh result without spending provider quota; past
// launches are still attempted so retrospective lookups work.
func (s *Service) GetStreams(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error) {
	launch, err := s.storage.GetLaunch(launchID)
	if err != nil {
		return nil, false, err
	}
	launch, _ = s.scrub.Check(ctx, launch)
	now := s.now()

	if launch.ScheduledAt.Sub(now) > s.cfg.StreamHorizon {
		return []models.StreamAssociation{}, true, nil
	}

	marker, err := s.storage.GetMarker(models.StreamMarkerKey(launchID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("stream marker: %w", err)
	}

	if !NeedsRefresh(marker, s.cfg.StreamTTL, now) {
		metrics.CacheHits.WithLabelValues("streams").Inc()
		assocs, _, err := s.storage.GetStreams(launchID)
		if err == nil {
			return assocs, true, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("stream cache: %w", err)
		}
		// Marker without an entry: fall through to a refresh.
	}
	metrics.CacheMisses.WithLabelValues("streams").Inc()

	assocs, err := s.refreshStreams(ctx, launch)
	if err != nil {
		// Serve whatever is stored, however old.
		stale, _, serr := s.storage.GetStreams(launchID)
		if serr == nil {
			logging.Ctx(ctx).Warn().Err(err).Str("launch_id", launchID).Msg("stream refresh failed, serving stale associations")
			return stale, true, nil
		}
		return nil, false, err
	}
	return assocs, false, nil
}

// ForceDirectoryRefresh runs a directory sync regardless of marker age.
// Used by the admin sync endpoint.
func (s *Service) ForceDirectoryRefresh(ctx context.Context) (*DirectoryResult, error) {
	res, err, _ := s.group.Do("directory", func() (interface{}, error) {
		return s.directory.Sync(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(*DirectoryResult), nil
}

// ForceStreamRefresh drops the cached stream set for one launch and rebuilds
// it immediately. Used by the admin sync endpoint.
func (s *Service) ForceStreamRefresh(ctx context.Context, launchID string) ([]models.StreamAssociation, error) {
	launch, err := s.storage.GetLaunch(launchID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.InvalidateStreams(launchID); err != nil {
		return nil, fmt.Errorf("invalidate streams: %w", err)
	}
	metrics.CacheInvalidations.WithLabelValues("admin").Inc()
	return s.refreshStreams(ctx, launch)
}

// StalenessReport summarizes marker age against TTL for every tracked
// resource.
func (s *Service) StalenessReport() (*models.StalenessReport, error) {
	markers, err := s.storage.ListMarkers()
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}

	now := s.now()
	report := &models.StalenessReport{
		GeneratedAt: now,
		Resources:   make([]models.ResourceStaleness, 0, len(markers)),
	}
	for _, m := range markers {
		ttl := s.cfg.StreamTTL
		if m.Key == models.MarkerDirectory {
			ttl = s.cfg.DirectoryTTL
		}
		report.Resources = append(report.Resources, models.ResourceStaleness{
			Key:           m.Key,
			LastRefreshed: m.LastRefreshed,
			Age:           now.Sub(m.LastRefreshed).Round(time.Second).String(),
			TTL:           ttl.String(),
			Stale:         NeedsRefresh(&m, ttl, now),
		})
	}
	return report, nil
}

// directoryStale consults the directory marker.
func (s *Service) directoryStale(now time.Time) bool {
	marker, err := s.storage.GetMarker(models.MarkerDirectory)
	if err != nil {
		return true
	}
	return NeedsRefresh(marker, s.cfg.DirectoryTTL, now)
}

// refreshDirectory funnels concurrent directory refreshes into one provider
// call. The refresh runs on a context detached from the caller's cancellation
// so an impatient client cannot abort a sync other readers are waiting on.
func (s *Service) refreshDirectory(ctx context.Context) error {
	_, err, _ := s.group.Do("directory", func() (interface{}, error) {
		return s.directory.Sync(context.WithoutCancel(ctx))
	})
	return err
}

// refreshStreams funnels concurrent refreshes for one launch into a single
// matcher run, then persists the result and advances the marker.
func (s *Service) refreshStreams(ctx context.Context, launch *models.Launch) ([]models.StreamAssociation, error) {
	key := "streams:" + launch.ID
	res, err, _ := s.group.Do(key, func() (interface{}, error) {
		start := s.now()
		assocs := s.matcher.Match(context.WithoutCancel(ctx), launch)

		now := s.now()
		if err := s.storage.PutStreams(launch.ID, assocs, now); err != nil {
			return nil, fmt.Errorf("persist streams: %w", err)
		}
		if err := s.storage.PutMarker(models.StreamMarkerKey(launch.ID), now); err != nil {
			return nil, fmt.Errorf("stream marker: %w", err)
		}

		metrics.SyncDuration.WithLabelValues("streams").Observe(now.Sub(start).Seconds())
		metrics.SyncRecordsProcessed.WithLabelValues("streams").Add(float64(len(assocs)))
		metrics.SyncLastSuccess.WithLabelValues("streams").Set(float64(now.Unix()))
		return assocs, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.StreamAssociation), nil
}
