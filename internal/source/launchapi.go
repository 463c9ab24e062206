// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package source contains the typed read-only clients for the two external
// dependencies: the launch manifest provider and the video search provider.
//
// Each client issues one HTTP call per method, normalizes the response into
// internal models, and surfaces typed errors so the syncer can tell client
// errors (skip, never retry) from transient ones (retry with backoff).
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/config"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "... (truncated)"
	}
	return string(body)
}

// ManifestAPI is the read-only interface to the launch manifest provider.
// Implemented by ManifestClient for production and by mocks in tests.
type ManifestAPI interface {
	// UpcomingLaunches fetches the full upcoming set, bounded by the
	// provider-side page size.
	UpcomingLaunches(ctx context.Context) ([]LaunchRecord, error)

	// GetLaunch fetches one authoritative launch record by external ID.
	// Returns ErrNotFound for 404s.
	GetLaunch(ctx context.Context, id string) (*LaunchRecord, error)
}

// ManifestClient talks to the launch manifest provider's REST API.
//
// Directory fetches use the longer configured timeout; single-launch fetches
// use the detail timeout because they run inline on user-facing reads.
// HTTP 429 responses are retried with exponential backoff, honoring
// Retry-After. All other retry policy belongs to the caller.
//
// Thread safety: safe for concurrent use; every call builds its own request.
type ManifestClient struct {
	baseURL        string
	pageSize       int
	client         *http.Client
	detailClient   *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewManifestClient creates a manifest provider client from configuration.
func NewManifestClient(cfg config.LaunchAPIConfig) *ManifestClient {
	return &ManifestClient{
		baseURL:        cfg.BaseURL,
		pageSize:       cfg.PageSize,
		client:         &http.Client{Timeout: cfg.Timeout},
		detailClient:   &http.Client{Timeout: cfg.DetailTimeout},
		maxRetries:     cfg.RetryAttempts,
		retryBaseDelay: cfg.RetryDelay,
	}
}

// UpcomingLaunches fetches the upcoming launch catalog in detailed mode.
func (c *ManifestClient) UpcomingLaunches(ctx context.Context) ([]LaunchRecord, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("mode", "detailed")
	reqURL := fmt.Sprintf("%s/launch/upcoming/?%s", c.baseURL, params.Encode())

	var page launchPage
	if err := c.getJSON(ctx, c.client, "upcoming launches", reqURL, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// GetLaunch fetches one launch record by its external identifier.
func (c *ManifestClient) GetLaunch(ctx context.Context, id string) (*LaunchRecord, error) {
	reqURL := fmt.Sprintf("%s/launch/%s/", c.baseURL, url.PathEscape(id))

	var record LaunchRecord
	if err := c.getJSON(ctx, c.detailClient, "launch detail", reqURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// getJSON performs a GET with 429 backoff handling and decodes the response.
func (c *ManifestClient) getJSON(ctx context.Context, client *http.Client, op, reqURL string, result interface{}) error {
	resp, err := c.doWithRateLimitRetry(ctx, client, reqURL)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// doWithRateLimitRetry performs an HTTP GET with exponential backoff on 429
// responses, doubling from the configured base delay and honoring Retry-After
// when the provider sends one.
func (c *ManifestClient) doWithRateLimitRetry(ctx context.Context, client *http.Client, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", "LaunchWindow/1.0")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = &StatusError{Op: "manifest", StatusCode: http.StatusTooManyRequests, Body: "rate limit exceeded after retries"}
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
