// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/models"
)

// streamEntry is the stored shape of one launch's stream cache entry.
type streamEntry struct {
	Associations  []models.StreamAssociation `json:"associations"`
	LastRefreshed time.Time                  `json:"last_refreshed"`
}

// GetStreams returns the cached stream associations for a launch and when
// they were last refreshed. Returns ErrNotFound when no entry exists.
func (s *Store) GetStreams(launchID string) ([]models.StreamAssociation, time.Time, error) {
	var entry streamEntry
	err := s.get(streamKeyPrefix+launchID, func(val []byte) error {
		return json.Unmarshal(val, &entry)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return entry.Associations, entry.LastRefreshed, nil
}

// PutStreams replaces a launch's stream cache entry wholesale.
func (s *Store) PutStreams(launchID string, assocs []models.StreamAssociation, now time.Time) error {
	data, err := json.Marshal(streamEntry{Associations: assocs, LastRefreshed: now})
	if err != nil {
		return fmt.Errorf("marshal streams for %s: %w", launchID, err)
	}
	return s.set(streamKeyPrefix+launchID, data)
}

// InvalidateStreams removes a launch's stream cache entry and its sync
// marker. Invalidating an absent entry is a no-op.
func (s *Store) InvalidateStreams(launchID string) error {
	if err := s.delete(streamKeyPrefix + launchID); err != nil {
		return err
	}
	return s.delete(markerKeyPrefix + models.StreamMarkerKey(launchID))
}

// MarkStreamStatus sets the lifecycle status of every cached association for
// a launch. A missing entry is a no-op.
func (s *Store) MarkStreamStatus(launchID string, status models.StreamStatus) error {
	assocs, refreshed, err := s.GetStreams(launchID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for i := range assocs {
		assocs[i].Status = status
	}
	return s.PutStreams(launchID, assocs, refreshed)
}

// StreamLaunchIDs returns the launch IDs that currently have a stream cache
// entry. Used by the orphan sweep.
func (s *Store) StreamLaunchIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(streamKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, streamKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
