// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package store persists launches, stream associations, and sync markers in an
// embedded BadgerDB key-value store.
//
// Key layout:
//
//	launch:<id>   -> models.Launch (JSON)
//	streams:<id>  -> streamEntry (JSON): associations + last refresh time
//	marker:<key>  -> models.SyncMarker (JSON)
//
// The store is deliberately dumb: freshness decisions, matching, and scrub
// logic live in the syncer and match packages.
package store

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/launchwindow/server/internal/config"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Key prefixes for BadgerDB storage.
const (
	launchKeyPrefix    = "launch:"
	streamKeyPrefix    = "streams:"
	markerKeyPrefix    = "marker:"
	astronautKeyPrefix = "astronaut:"
)

// Store wraps a BadgerDB handle with typed accessors for the LaunchWindow
// data model. All methods are safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the configured path.
func Open(cfg config.StoreConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// get reads and unmarshals one key into out via fn.
func (s *Store) get(key string, decode func([]byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(decode)
	})
}

// set writes one marshaled value under key.
func (s *Store) set(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// delete removes one key. Deleting an absent key is a no-op.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// scanPrefix iterates all values under prefix, invoking decode per value.
func (s *Store) scanPrefix(prefix string, decode func([]byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(decode); err != nil {
				return err
			}
		}
		return nil
	})
}
