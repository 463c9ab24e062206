// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"time"

	"github.com/launchwindow/server/internal/models"
)

// NeedsRefresh reports whether a cached resource must be refreshed before
// being served: true iff no marker exists or the marker's age has reached the
// TTL. The boundary is inclusive: age exactly equal to the TTL is stale.
//
// Pure function, no side effects.
func NeedsRefresh(marker *models.SyncMarker, ttl time.Duration, now time.Time) bool {
	if marker == nil {
		return true
	}
	return now.Sub(marker.LastRefreshed) >= ttl
}
