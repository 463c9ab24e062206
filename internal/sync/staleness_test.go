// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"testing"
	"time"

	"github.com/launchwindow/server/internal/models"
)

// TestNeedsRefresh_Boundary verifies age-vs-TTL comparisons, including the
// inclusive boundary where age exactly equals the TTL.
func TestNeedsRefresh_Boundary(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", 10 * time.Minute, false},
		{"just under ttl", ttl - time.Nanosecond, false},
		{"exactly at ttl", ttl, true},
		{"past ttl", 2 * ttl, true},
		{"zero age", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := &models.SyncMarker{
				Key:           models.MarkerDirectory,
				LastRefreshed: now.Add(-tt.age),
			}
			if got := NeedsRefresh(marker, ttl, now); got != tt.want {
				t.Errorf("NeedsRefresh(age=%v, ttl=%v) = %v, want %v", tt.age, ttl, got, tt.want)
			}
		})
	}
}

// TestNeedsRefresh_NilMarker verifies a missing marker always means stale.
func TestNeedsRefresh_NilMarker(t *testing.T) {
	if !NeedsRefresh(nil, time.Hour, time.Now()) {
		t.Error("expected nil marker to need refresh")
	}
}
