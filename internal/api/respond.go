// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package api provides the HTTP surface: Chi routing, middleware, and the
// standardized response envelope all endpoints share.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStoreError         = "STORE_ERROR"
	ErrCodeSyncError          = "SYNC_ERROR"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// responder tracks a request's start time so every response carries its
// query duration.
type responder struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

func newResponder(w http.ResponseWriter, r *http.Request) *responder {
	return &responder{w: w, r: r, start: time.Now()}
}

// OK writes a 200 with the standard envelope. cached reports whether the
// payload came from the local store without an upstream refresh.
func (rw *responder) OK(data interface{}, cached bool) {
	rw.writeJSON(http.StatusOK, &models.APIResponse{
		Status: "ok",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// Error writes an error response with the standard envelope.
func (rw *responder) Error(statusCode int, code, message string) {
	rw.writeJSON(statusCode, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.start).Milliseconds(),
		},
	})
}

func (rw *responder) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func (rw *responder) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

func (rw *responder) StoreError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("store error")
	rw.Error(http.StatusInternalServerError, ErrCodeStoreError, "a storage error occurred")
}

func (rw *responder) SyncError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("sync error")
	rw.Error(http.StatusBadGateway, ErrCodeSyncError, "upstream refresh failed")
}

func (rw *responder) writeJSON(statusCode int, payload *models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(payload); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
