// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/maintenance"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/store"
	syncengine "github.com/launchwindow/server/internal/sync"
)

type mockService struct {
	listUpcoming  func(ctx context.Context, limit int) ([]*models.Launch, bool, error)
	getLaunch     func(ctx context.Context, id string) (*models.Launch, error)
	getStreams    func(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error)
	forceDir      func(ctx context.Context) (*syncengine.DirectoryResult, error)
	forceStreams  func(ctx context.Context, launchID string) ([]models.StreamAssociation, error)
	stalenessRept func() (*models.StalenessReport, error)
}

func (m *mockService) ListUpcoming(ctx context.Context, limit int) ([]*models.Launch, bool, error) {
	return m.listUpcoming(ctx, limit)
}

func (m *mockService) GetLaunch(ctx context.Context, id string) (*models.Launch, error) {
	return m.getLaunch(ctx, id)
}

func (m *mockService) GetStreams(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error) {
	return m.getStreams(ctx, launchID)
}

func (m *mockService) ForceDirectoryRefresh(ctx context.Context) (*syncengine.DirectoryResult, error) {
	return m.forceDir(ctx)
}

func (m *mockService) ForceStreamRefresh(ctx context.Context, launchID string) ([]models.StreamAssociation, error) {
	return m.forceStreams(ctx, launchID)
}

func (m *mockService) StalenessReport() (*models.StalenessReport, error) {
	return m.stalenessRept()
}

type mockMaintenance struct {
	archive func(ctx context.Context, age time.Duration) (*maintenance.ArchiveResult, error)
	sweep   func(ctx context.Context) (*maintenance.OrphanResult, error)
	stats   func(ctx context.Context) (*maintenance.Stats, error)
}

func (m *mockMaintenance) ArchiveOlderThan(ctx context.Context, age time.Duration) (*maintenance.ArchiveResult, error) {
	return m.archive(ctx, age)
}

func (m *mockMaintenance) SweepOrphanStreams(ctx context.Context) (*maintenance.OrphanResult, error) {
	return m.sweep(ctx)
}

func (m *mockMaintenance) CollectStats(ctx context.Context) (*maintenance.Stats, error) {
	return m.stats(ctx)
}

func newTestRouter(service SyncService, maint Maintenance) http.Handler {
	return NewRouter(NewHandler(service, nil, maint), config.ServerConfig{AdminRateLimit: 1000})
}

// mockAstronauts is a function-field mock for AstronautService.
type mockAstronauts struct {
	get func(ctx context.Context, id int) (*models.Astronaut, bool, error)
}

func (m *mockAstronauts) Get(ctx context.Context, id int) (*models.Astronaut, bool, error) {
	return m.get(ctx, id)
}

func newAstronautRouter(astronauts AstronautService) http.Handler {
	return NewRouter(NewHandler(nil, astronauts, nil), config.ServerConfig{AdminRateLimit: 1000})
}

// envelope mirrors the response shape with the payload left raw so each test
// decodes it into the type it expects.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Error    *models.APIError `json:"error"`
	Metadata struct {
		Cached bool `json:"cached"`
	} `json:"metadata"`
}

func doRequest(t *testing.T, router http.Handler, method, target string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, http.NoBody))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, &env
}

func TestLaunches(t *testing.T) {
	service := &mockService{
		listUpcoming: func(ctx context.Context, limit int) ([]*models.Launch, bool, error) {
			return []*models.Launch{{ID: "a", Name: "Falcon 9 | Starlink"}}, true, nil
		},
	}
	rec, env := doRequest(t, newTestRouter(service, nil), http.MethodGet, "/api/v1/launches")

	if rec.Code != http.StatusOK || env.Status != "ok" {
		t.Fatalf("status = %d %q", rec.Code, env.Status)
	}
	if !env.Metadata.Cached {
		t.Error("cached flag not propagated")
	}
	var launches []models.Launch
	if err := json.Unmarshal(env.Data, &launches); err != nil || len(launches) != 1 {
		t.Errorf("data = %s (%v)", env.Data, err)
	}
}

func TestLaunches_LimitParam(t *testing.T) {
	var gotLimit int
	service := &mockService{
		listUpcoming: func(ctx context.Context, limit int) ([]*models.Launch, bool, error) {
			gotLimit = limit
			return []*models.Launch{{ID: "a"}, {ID: "b"}}, true, nil
		},
	}
	router := newTestRouter(service, nil)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/launches?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotLimit != 2 {
		t.Errorf("limit passed to service = %d, want 2", gotLimit)
	}

	for _, bad := range []string{"0", "-1", "101", "many"} {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/launches?limit="+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%q: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestLaunch_NotFound(t *testing.T) {
	service := &mockService{
		getLaunch: func(ctx context.Context, id string) (*models.Launch, error) {
			return nil, store.ErrNotFound
		},
	}
	rec, env := doRequest(t, newTestRouter(service, nil), http.MethodGet, "/api/v1/launches/missing")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestStreams_NilBecomesEmptyList(t *testing.T) {
	service := &mockService{
		getStreams: func(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error) {
			return nil, true, nil
		},
	}
	rec, env := doRequest(t, newTestRouter(service, nil), http.MethodGet, "/api/v1/launches/a/streams")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if string(env.Data) != "[]" {
		t.Errorf("data = %s, want []", env.Data)
	}
}

func TestStreams_UpstreamFailureIsBadGateway(t *testing.T) {
	service := &mockService{
		getStreams: func(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error) {
			return nil, false, errors.New("video provider down")
		},
	}
	rec, env := doRequest(t, newTestRouter(service, nil), http.MethodGet, "/api/v1/launches/a/streams")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeSyncError {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestSyncLaunches_RateLimited(t *testing.T) {
	service := &mockService{
		forceDir: func(ctx context.Context) (*syncengine.DirectoryResult, error) {
			return nil, syncengine.ErrRateLimited
		},
	}
	rec, env := doRequest(t, newTestRouter(service, nil), http.MethodPost, "/api/v1/admin/sync/launches")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestSyncStreams(t *testing.T) {
	var gotID string
	service := &mockService{
		forceStreams: func(ctx context.Context, launchID string) ([]models.StreamAssociation, error) {
			gotID = launchID
			return []models.StreamAssociation{{VideoID: "v1", LaunchID: launchID}}, nil
		},
	}
	rec, _ := doRequest(t, newTestRouter(service, nil), http.MethodPost, "/api/v1/admin/sync/streams/abc")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotID != "abc" {
		t.Errorf("launch id = %q, want abc", gotID)
	}
}

func TestArchive_AgeValidation(t *testing.T) {
	var gotAge time.Duration
	maint := &mockMaintenance{
		archive: func(ctx context.Context, age time.Duration) (*maintenance.ArchiveResult, error) {
			gotAge = age
			return &maintenance.ArchiveResult{}, nil
		},
	}
	router := newTestRouter(nil, maint)

	rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/admin/archive")
	if rec.Code != http.StatusOK || gotAge != defaultArchiveAge {
		t.Errorf("default: status %d, age %v", rec.Code, gotAge)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/api/v1/admin/archive?age=168h")
	if rec.Code != http.StatusOK || gotAge != 168*time.Hour {
		t.Errorf("explicit: status %d, age %v", rec.Code, gotAge)
	}

	for _, bad := range []string{"yesterday", "-24h", "0s"} {
		rec, env := doRequest(t, router, http.MethodPost, "/api/v1/admin/archive?age="+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("age=%q: status = %d, want 400", bad, rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeBadRequest {
			t.Errorf("age=%q: error = %+v", bad, env.Error)
		}
	}
}

func TestCleanupStats(t *testing.T) {
	maint := &mockMaintenance{
		stats: func(ctx context.Context) (*maintenance.Stats, error) {
			return &maintenance.Stats{Launches: 7, StreamEntries: 3}, nil
		},
	}
	rec, env := doRequest(t, newTestRouter(nil, maint), http.MethodGet, "/api/v1/admin/cleanup/stats")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats maintenance.Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil || stats.Launches != 7 {
		t.Errorf("data = %s (%v)", env.Data, err)
	}
}

func TestHealth(t *testing.T) {
	rec, env := doRequest(t, newTestRouter(nil, nil), http.MethodGet, "/health")
	if rec.Code != http.StatusOK || env.Status != "ok" {
		t.Errorf("status = %d %q", rec.Code, env.Status)
	}
}

func TestRequestIDHeader(t *testing.T) {
	service := &mockService{
		listUpcoming: func(ctx context.Context, limit int) ([]*models.Launch, bool, error) {
			return nil, true, nil
		},
	}
	rec, _ := doRequest(t, newTestRouter(service, nil), http.MethodGet, "/api/v1/launches")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestAstronaut(t *testing.T) {
	var gotID int
	astronauts := &mockAstronauts{
		get: func(ctx context.Context, id int) (*models.Astronaut, bool, error) {
			gotID = id
			return &models.Astronaut{ID: id, Name: "Chris Hadfield", Nationality: "Canadian"}, true, nil
		},
	}
	rec, env := doRequest(t, newAstronautRouter(astronauts), http.MethodGet, "/api/v1/astronauts/276")

	if rec.Code != http.StatusOK || env.Status != "ok" {
		t.Fatalf("status = %d %q", rec.Code, env.Status)
	}
	if gotID != 276 {
		t.Errorf("id passed to service = %d, want 276", gotID)
	}
	if !env.Metadata.Cached {
		t.Error("cached flag not propagated")
	}
	var astro models.Astronaut
	if err := json.Unmarshal(env.Data, &astro); err != nil || astro.Name != "Chris Hadfield" {
		t.Errorf("data = %s (%v)", env.Data, err)
	}
}

func TestAstronaut_BadID(t *testing.T) {
	astronauts := &mockAstronauts{
		get: func(ctx context.Context, id int) (*models.Astronaut, bool, error) {
			t.Fatal("service should not be called for a bad id")
			return nil, false, nil
		},
	}
	router := newAstronautRouter(astronauts)

	for _, bad := range []string{"abc", "-7", "0"} {
		rec, env := doRequest(t, router, http.MethodGet, "/api/v1/astronauts/"+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id=%q: status = %d, want 400", bad, rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeBadRequest {
			t.Errorf("id=%q: error = %+v", bad, env.Error)
		}
	}
}

func TestAstronaut_NotFound(t *testing.T) {
	astronauts := &mockAstronauts{
		get: func(ctx context.Context, id int) (*models.Astronaut, bool, error) {
			return nil, false, store.ErrNotFound
		},
	}
	rec, env := doRequest(t, newAstronautRouter(astronauts), http.MethodGet, "/api/v1/astronauts/9999999")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAstronaut_RateLimited(t *testing.T) {
	astronauts := &mockAstronauts{
		get: func(ctx context.Context, id int) (*models.Astronaut, bool, error) {
			return nil, false, syncengine.ErrRateLimited
		},
	}
	rec, env := doRequest(t, newAstronautRouter(astronauts), http.MethodGet, "/api/v1/astronauts/276")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAstronaut_UpstreamFailureIsBadGateway(t *testing.T) {
	astronauts := &mockAstronauts{
		get: func(ctx context.Context, id int) (*models.Astronaut, bool, error) {
			return nil, false, errors.New("provider down")
		},
	}
	rec, env := doRequest(t, newAstronautRouter(astronauts), http.MethodGet, "/api/v1/astronauts/276")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeSyncError {
		t.Errorf("error = %+v", env.Error)
	}
}
