// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/source"
	"github.com/launchwindow/server/internal/store"
)

// testSyncConfig mirrors production freshness policy with production-scale
// windows; tests drive time through fake clocks instead of shrinking TTLs.
func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		DirectoryTTL:         time.Hour,
		StreamTTL:            12 * time.Hour,
		StreamHorizon:        72 * time.Hour,
		SignificantDelay:     24 * time.Hour,
		CriticalWindowBefore: time.Hour,
		CriticalWindowAfter:  10 * time.Minute,
		ScrubDelay:           time.Hour,
		AstronautTTL:         7 * 24 * time.Hour,
		SweepInterval:        0,
	}
}

// testRetryConfig keeps catalog fetch retries fast: real attempt counts,
// millisecond backoff.
func testRetryConfig() config.LaunchAPIConfig {
	return config.LaunchAPIConfig{
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

// memStorage is an in-memory Storage for engine tests. Badger-backed
// behavior is covered by the store package tests.
type memStorage struct {
	mu       stdsync.Mutex
	launches map[string]*models.Launch
	streams  map[string][]models.StreamAssociation
	streamAt map[string]time.Time
	markers  map[string]time.Time

	upsertErr     error
	putStreamsErr error

	invalidated []string
	marked      map[string]models.StreamStatus
}

func newMemStorage() *memStorage {
	return &memStorage{
		launches: make(map[string]*models.Launch),
		streams:  make(map[string][]models.StreamAssociation),
		streamAt: make(map[string]time.Time),
		markers:  make(map[string]time.Time),
		marked:   make(map[string]models.StreamStatus),
	}
}

func (m *memStorage) GetLaunch(id string) (*models.Launch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.launches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memStorage) UpsertLaunch(launch *models.Launch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	cp := *launch
	m.launches[launch.ID] = &cp
	return nil
}

func (m *memStorage) UpcomingLaunches(now time.Time, limit int) ([]*models.Launch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Launch
	for _, l := range m.launches {
		if l.Status == models.StatusArchived {
			continue
		}
		cp := *l
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStorage) GetStreams(launchID string) ([]models.StreamAssociation, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assocs, ok := m.streams[launchID]
	if !ok {
		return nil, time.Time{}, store.ErrNotFound
	}
	return assocs, m.streamAt[launchID], nil
}

func (m *memStorage) PutStreams(launchID string, assocs []models.StreamAssociation, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putStreamsErr != nil {
		return m.putStreamsErr
	}
	m.streams[launchID] = assocs
	m.streamAt[launchID] = now
	return nil
}

func (m *memStorage) InvalidateStreams(launchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, launchID)
	delete(m.streamAt, launchID)
	delete(m.markers, models.StreamMarkerKey(launchID))
	m.invalidated = append(m.invalidated, launchID)
	return nil
}

func (m *memStorage) MarkStreamStatus(launchID string, status models.StreamStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked[launchID] = status
	for i := range m.streams[launchID] {
		m.streams[launchID][i].Status = status
	}
	return nil
}

func (m *memStorage) GetMarker(key string) (*models.SyncMarker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.markers[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.SyncMarker{Key: key, LastRefreshed: at}, nil
}

func (m *memStorage) PutMarker(key string, refreshedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[key] = refreshedAt
	return nil
}

func (m *memStorage) ListMarkers() ([]models.SyncMarker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SyncMarker, 0, len(m.markers))
	for k, at := range m.markers {
		out = append(out, models.SyncMarker{Key: k, LastRefreshed: at})
	}
	return out, nil
}

// mockManifest is a function-field mock for source.ManifestAPI.
type mockManifest struct {
	upcoming  func(context.Context) ([]source.LaunchRecord, error)
	getLaunch func(context.Context, string) (*source.LaunchRecord, error)

	upcomingCalls int
	getCalls      int
}

func (m *mockManifest) UpcomingLaunches(ctx context.Context) ([]source.LaunchRecord, error) {
	m.upcomingCalls++
	if m.upcoming != nil {
		return m.upcoming(ctx)
	}
	return nil, nil
}

func (m *mockManifest) GetLaunch(ctx context.Context, id string) (*source.LaunchRecord, error) {
	m.getCalls++
	if m.getLaunch != nil {
		return m.getLaunch(ctx, id)
	}
	return nil, source.ErrNotFound
}

// allowAll is a Limiter that never denies.
type allowAll struct{}

func (allowAll) Acquire(string) bool { return true }

// denyAll is a Limiter with an exhausted window.
type denyAll struct{}

func (denyAll) Acquire(string) bool { return false }

// mockMatcher is a function-field mock for StreamMatcher.
type mockMatcher struct {
	match func(context.Context, *models.Launch) []models.StreamAssociation
	calls int
}

func (m *mockMatcher) Match(ctx context.Context, launch *models.Launch) []models.StreamAssociation {
	m.calls++
	if m.match != nil {
		return m.match(ctx, launch)
	}
	return nil
}

// fixedClock returns a Clock pinned to t.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// wireRecord builds a manifest wire record through its JSON shape, since the
// nested status type is not exported.
func wireRecord(id, name string, net time.Time, providerStatus string) source.LaunchRecord {
	var rec source.LaunchRecord
	payload := fmt.Sprintf(`{"id":%q,"name":%q,"net":%q,"status":{"name":%q}}`,
		id, name, net.UTC().Format(time.RFC3339), providerStatus)
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		panic(err)
	}
	return rec
}
