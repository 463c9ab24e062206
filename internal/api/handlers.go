// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/launchwindow/server/internal/maintenance"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/store"
	syncengine "github.com/launchwindow/server/internal/sync"
)

// SyncService is the orchestration surface the public handlers consume.
// Implemented by *sync.Service.
type SyncService interface {
	ListUpcoming(ctx context.Context, limit int) ([]*models.Launch, bool, error)
	GetLaunch(ctx context.Context, id string) (*models.Launch, error)
	GetStreams(ctx context.Context, launchID string) ([]models.StreamAssociation, bool, error)
	ForceDirectoryRefresh(ctx context.Context) (*syncengine.DirectoryResult, error)
	ForceStreamRefresh(ctx context.Context, launchID string) ([]models.StreamAssociation, error)
	StalenessReport() (*models.StalenessReport, error)
}

// AstronautService is the personnel lookup surface. Implemented by
// *sync.AstronautDirectory.
type AstronautService interface {
	Get(ctx context.Context, id int) (*models.Astronaut, bool, error)
}

// Maintenance is the housekeeping surface the admin handlers consume.
// Implemented by *maintenance.Maintainer.
type Maintenance interface {
	ArchiveOlderThan(ctx context.Context, age time.Duration) (*maintenance.ArchiveResult, error)
	SweepOrphanStreams(ctx context.Context) (*maintenance.OrphanResult, error)
	CollectStats(ctx context.Context) (*maintenance.Stats, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	service     SyncService
	astronauts  AstronautService
	maintenance Maintenance
}

// NewHandler creates the handler set.
func NewHandler(service SyncService, astronauts AstronautService, maintenance Maintenance) *Handler {
	return &Handler{service: service, astronauts: astronauts, maintenance: maintenance}
}

// maxListLimit caps how many launches one list request may ask for.
const maxListLimit = 100

// Launches serves GET /api/v1/launches: the upcoming launch list, refreshed
// through the staleness gate. Accepts an optional ?limit= parameter.
func (h *Handler) Launches(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			rw.BadRequest("limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	launches, cached, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.OK(launches, cached)
}

// Launch serves GET /api/v1/launches/{id}: one launch, scrub-checked inline
// when it is close to its scheduled time.
func (h *Handler) Launch(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("launch id is required")
		return
	}

	launch, err := h.service.GetLaunch(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("launch not found")
			return
		}
		rw.StoreError(err)
		return
	}
	rw.OK(launch, true)
}

// Streams serves GET /api/v1/launches/{id}/streams: the scored stream
// associations for one launch.
func (h *Handler) Streams(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("launch id is required")
		return
	}

	assocs, cached, err := h.service.GetStreams(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("launch not found")
			return
		}
		rw.SyncError(err)
		return
	}
	if assocs == nil {
		assocs = []models.StreamAssociation{}
	}
	rw.OK(assocs, cached)
}

// Astronaut serves GET /api/v1/astronauts/{id}: one astronaut's personnel
// record, fetched from the provider on first request and refetched once the
// cached copy ages out.
func (h *Handler) Astronaut(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		rw.BadRequest("astronaut id must be a positive integer")
		return
	}

	astro, cached, err := h.astronauts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("astronaut not found")
			return
		}
		if errors.Is(err, syncengine.ErrRateLimited) {
			rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "provider call budget exhausted, try again later")
			return
		}
		rw.SyncError(err)
		return
	}
	rw.OK(astro, cached)
}

// Health serves GET /health for liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)
	rw.OK(map[string]string{"status": "up"}, false)
}
