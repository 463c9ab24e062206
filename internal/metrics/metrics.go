// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package metrics provides Prometheus instrumentation for LaunchWindow.
// Metrics are exposed at /metrics in Prometheus text format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Sync metrics

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of refresh operations in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"resource"}, // "directory", "streams"
	)

	SyncRecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_total",
			Help: "Total number of records processed by refresh operations",
		},
		[]string{"resource"},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of failed refresh operations",
		},
		[]string{"resource", "error_type"}, // error_type: "transient", "client"
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful refresh per resource",
		},
		[]string{"resource"},
	)

	// Scrub detection metrics

	ScrubChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrub_checks_total",
			Help: "Total number of scrub checks by outcome",
		},
		[]string{"outcome"}, // "complete", "scrubbed", "status_changed", "on_time", "error", "rate_limited"
	)

	// Source call metrics

	SourceCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_calls_total",
			Help: "Total number of external source calls",
		},
		[]string{"source", "outcome"}, // source: "manifest", "video"
	)

	RateLimitDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_denials_total",
			Help: "Total number of manifest calls skipped by the per-key rate limiter",
		},
	)

	// Matcher metrics

	MatcherCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_candidates",
			Help:    "Candidate streams surviving filter and dedupe per matcher invocation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	MatcherBudgetExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_budget_exhausted_total",
			Help: "Matcher invocations that hit the per-invocation call budget",
		},
	)

	// Cache metrics

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"}, // "directory", "streams"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of stream cache invalidations",
		},
		[]string{"reason"}, // "directory_delta", "scrub", "admin", "orphan"
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
