// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/models"
)

// GetMarker returns the sync marker for a resource key, or ErrNotFound.
func (s *Store) GetMarker(key string) (*models.SyncMarker, error) {
	var marker models.SyncMarker
	err := s.get(markerKeyPrefix+key, func(val []byte) error {
		return json.Unmarshal(val, &marker)
	})
	if err != nil {
		return nil, err
	}
	return &marker, nil
}

// PutMarker records that the resource identified by key was refreshed at the
// given instant.
func (s *Store) PutMarker(key string, refreshedAt time.Time) error {
	data, err := json.Marshal(models.SyncMarker{Key: key, LastRefreshed: refreshedAt})
	if err != nil {
		return fmt.Errorf("marshal marker %s: %w", key, err)
	}
	return s.set(markerKeyPrefix+key, data)
}

// ListMarkers returns every stored sync marker. Used by the staleness report.
func (s *Store) ListMarkers() ([]models.SyncMarker, error) {
	var markers []models.SyncMarker
	err := s.scanPrefix(markerKeyPrefix, func(val []byte) error {
		var marker models.SyncMarker
		if err := json.Unmarshal(val, &marker); err != nil {
			return err
		}
		markers = append(markers, marker)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return markers, nil
}
