// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/launchwindow/server/internal/store"
	syncengine "github.com/launchwindow/server/internal/sync"
)

// defaultArchiveAge is how far in the past a launch must be before the
// archive endpoint touches it, absent an explicit age parameter.
const defaultArchiveAge = 30 * 24 * time.Hour

// SyncLaunches serves POST /api/v1/admin/sync/launches: an unconditional
// directory refresh.
func (h *Handler) SyncLaunches(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	result, err := h.service.ForceDirectoryRefresh(r.Context())
	if err != nil {
		if errors.Is(err, syncengine.ErrRateLimited) {
			rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "provider call budget exhausted, try again later")
			return
		}
		rw.SyncError(err)
		return
	}
	rw.OK(result, false)
}

// SyncStreams serves POST /api/v1/admin/sync/streams/{id}: drop and rebuild
// one launch's stream associations.
func (h *Handler) SyncStreams(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("launch id is required")
		return
	}

	assocs, err := h.service.ForceStreamRefresh(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("launch not found")
			return
		}
		rw.SyncError(err)
		return
	}
	rw.OK(assocs, false)
}

// Staleness serves GET /api/v1/admin/staleness: marker age against TTL for
// every tracked resource.
func (h *Handler) Staleness(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	report, err := h.service.StalenessReport()
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.OK(report, true)
}

// Archive serves POST /api/v1/admin/archive: mark long-past launches as
// archived. Accepts an optional ?age= duration parameter.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	age := defaultArchiveAge
	if raw := r.URL.Query().Get("age"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			rw.BadRequest("age must be a positive duration, e.g. 720h")
			return
		}
		age = parsed
	}

	result, err := h.maintenance.ArchiveOlderThan(r.Context(), age)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.OK(result, false)
}

// CleanupOrphans serves POST /api/v1/admin/cleanup/orphans: remove stream
// entries whose launch no longer exists.
func (h *Handler) CleanupOrphans(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	result, err := h.maintenance.SweepOrphanStreams(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.OK(result, false)
}

// CleanupStats serves GET /api/v1/admin/cleanup/stats: a read-only snapshot
// of store contents.
func (h *Handler) CleanupStats(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)

	stats, err := h.maintenance.CollectStats(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.OK(stats, true)
}
