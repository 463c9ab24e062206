// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package models

import "time"

// APIResponse is the standard envelope for all HTTP responses.
//
// Example success response:
//
//	{
//	  "status": "success",
//	  "data": [...],
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "cached": true}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "Launch not found"},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Cached reports whether the payload was served from the local store without
// triggering an upstream refresh. QueryTimeMS covers store access plus any
// inline refresh work.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code alongside a human-readable message.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, STORE_ERROR, SYNC_ERROR,
// METHOD_NOT_ALLOWED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StalenessReport describes how fresh each tracked resource currently is.
// Served by the admin staleness endpoint.
type StalenessReport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Resources   []ResourceStaleness `json:"resources"`
}

// ResourceStaleness is one resource's entry in a StalenessReport.
type ResourceStaleness struct {
	Key           string    `json:"key"`
	LastRefreshed time.Time `json:"last_refreshed"`
	Age           string    `json:"age"`
	TTL           string    `json:"ttl"`
	Stale         bool      `json:"stale"`
}
