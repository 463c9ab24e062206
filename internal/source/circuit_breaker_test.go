// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type fakeManifest struct {
	upcoming func(ctx context.Context) ([]LaunchRecord, error)
	get      func(ctx context.Context, id string) (*LaunchRecord, error)
}

func (f *fakeManifest) UpcomingLaunches(ctx context.Context) ([]LaunchRecord, error) {
	return f.upcoming(ctx)
}

func (f *fakeManifest) GetLaunch(ctx context.Context, id string) (*LaunchRecord, error) {
	return f.get(ctx, id)
}

func TestBreakerClient_PassThrough(t *testing.T) {
	api := &fakeManifest{
		upcoming: func(ctx context.Context) ([]LaunchRecord, error) {
			return []LaunchRecord{{ID: "abc"}}, nil
		},
		get: func(ctx context.Context, id string) (*LaunchRecord, error) {
			return &LaunchRecord{ID: id}, nil
		},
	}
	b := NewBreakerClient(api)

	records, err := b.UpcomingLaunches(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("upcoming = %v, %v", records, err)
	}

	record, err := b.GetLaunch(context.Background(), "abc")
	if err != nil || record.ID != "abc" {
		t.Fatalf("get = %v, %v", record, err)
	}
}

// TestBreakerClient_OpensOnServerErrors verifies sustained 5xx responses
// eventually fail fast without reaching the wrapped client.
func TestBreakerClient_OpensOnServerErrors(t *testing.T) {
	var calls int
	api := &fakeManifest{
		upcoming: func(ctx context.Context) ([]LaunchRecord, error) {
			calls++
			return nil, &StatusError{Op: "upcoming launches", StatusCode: http.StatusBadGateway}
		},
	}
	b := NewBreakerClient(api)

	// The trip condition needs at least 10 observed requests.
	for i := 0; i < 20; i++ {
		b.UpcomingLaunches(context.Background())
	}

	if calls >= 20 {
		t.Errorf("breaker never opened: %d calls reached the client", calls)
	}
	_, err := b.UpcomingLaunches(context.Background())
	if err == nil {
		t.Fatal("expected open-circuit error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("open circuit should fail fast, got upstream %v", err)
	}
}

// TestBreakerClient_ClientErrorsDoNotTrip verifies 404s and 4xx answers are
// treated as upstream responses, not provider health failures.
func TestBreakerClient_ClientErrorsDoNotTrip(t *testing.T) {
	var calls int
	api := &fakeManifest{
		get: func(ctx context.Context, id string) (*LaunchRecord, error) {
			calls++
			if calls%2 == 0 {
				return nil, ErrNotFound
			}
			return nil, &StatusError{Op: "launch detail", StatusCode: http.StatusBadRequest}
		},
	}
	b := NewBreakerClient(api)

	for i := 0; i < 30; i++ {
		b.GetLaunch(context.Background(), "x")
	}

	if calls != 30 {
		t.Errorf("client errors tripped the breaker: only %d calls reached the client", calls)
	}
}
