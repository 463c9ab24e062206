// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/models"
)

// UpsertLaunch writes a launch record, creating or replacing it.
func (s *Store) UpsertLaunch(launch *models.Launch) error {
	data, err := json.Marshal(launch)
	if err != nil {
		return fmt.Errorf("marshal launch %s: %w", launch.ID, err)
	}
	return s.set(launchKeyPrefix+launch.ID, data)
}

// GetLaunch returns one launch by external ID, or ErrNotFound.
func (s *Store) GetLaunch(id string) (*models.Launch, error) {
	var launch models.Launch
	err := s.get(launchKeyPrefix+id, func(val []byte) error {
		return json.Unmarshal(val, &launch)
	})
	if err != nil {
		return nil, err
	}
	return &launch, nil
}

// ListLaunches returns every stored launch in unspecified order.
func (s *Store) ListLaunches() ([]*models.Launch, error) {
	var launches []*models.Launch
	err := s.scanPrefix(launchKeyPrefix, func(val []byte) error {
		var launch models.Launch
		if err := json.Unmarshal(val, &launch); err != nil {
			return err
		}
		launches = append(launches, &launch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return launches, nil
}

// UpcomingLaunches returns launches scheduled at or after now, ordered by
// scheduled time ascending, capped at limit. Archived launches are excluded.
func (s *Store) UpcomingLaunches(now time.Time, limit int) ([]*models.Launch, error) {
	all, err := s.ListLaunches()
	if err != nil {
		return nil, err
	}

	upcoming := all[:0]
	for _, launch := range all {
		if launch.Status == models.StatusArchived {
			continue
		}
		if !launch.ScheduledAt.Before(now) {
			upcoming = append(upcoming, launch)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}
