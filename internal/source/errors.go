// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the upstream source reports the resource does
// not exist (HTTP 404). Callers treat it as "keep cached record", never as a
// deletion signal.
var ErrNotFound = errors.New("source: not found")

// StatusError carries the HTTP status of a failed source call so callers can
// separate client errors (never retried) from transient ones (retried with
// backoff).
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsClientError reports whether err is a non-retryable 4xx source failure.
// 404s are ErrNotFound instead and report false here; 429 is rate pressure,
// not a malformed request, and stays retryable.
func IsClientError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
}

// IsTransient reports whether err looks retryable: a 5xx response, a 429, or
// any non-status failure (timeout, connection refused, parse error in flight).
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}
