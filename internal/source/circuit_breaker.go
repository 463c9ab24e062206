// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
)

const (
	// breakerInterval resets failure counts while the circuit stays closed.
	breakerInterval = time.Minute

	// breakerTimeout is how long the circuit stays open before half-open probes.
	breakerTimeout = 2 * time.Minute
)

// BreakerClient wraps a ManifestAPI with a circuit breaker so a flapping or
// down manifest provider fails fast instead of holding request slots open.
//
// Configuration:
//   - Opens after 60% failure rate with minimum 10 requests
//   - 1 minute measurement window, 2 minutes before half-open
//   - 3 concurrent probes allowed in half-open state
//
// The breaker uses real time via sony/gobreaker; tests mock the underlying
// client rather than the breaker.
type BreakerClient struct {
	api  ManifestAPI
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerClient wraps api with a circuit breaker named for metrics.
func NewBreakerClient(api ManifestAPI) *BreakerClient {
	const cbName = "manifest-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},

		IsSuccessful: func(err error) bool {
			// 4xx responses and 404s are upstream answers, not provider
			// health failures; they must not trip the breaker.
			return err == nil || IsClientError(err) || errors.Is(err, ErrNotFound)
		},
	})

	return &BreakerClient{api: api, cb: cb, name: cbName}
}

// UpcomingLaunches fetches the catalog through the breaker.
func (b *BreakerClient) UpcomingLaunches(ctx context.Context) ([]LaunchRecord, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.api.UpcomingLaunches(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]LaunchRecord), nil
}

// GetLaunch fetches one record through the breaker.
func (b *BreakerClient) GetLaunch(ctx context.Context, id string) (*LaunchRecord, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.api.GetLaunch(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*LaunchRecord), nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
