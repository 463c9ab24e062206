// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package match

import "strings"

// scoreDenominator normalizes the additive point total into [0,1]. Chosen
// empirically: a title carrying vehicle, exact payload/batch id, and both
// generic keywords saturates at 1.0.
const scoreDenominator = 10.0

// Score rates how likely a candidate video title is genuine coverage of the
// identified launch. Returns a value in [0,1].
func Score(id Identity, title string) float64 {
	lower := strings.ToLower(title)
	points := 0.0

	if id.Class == ClassRegional {
		if id.Vehicle != "" && strings.Contains(lower, strings.ToLower(id.Vehicle)) {
			points += 3
		}
		if id.Payload != "" && strings.Contains(lower, strings.ToLower(id.Payload)) {
			points += 5
		}
		return clamp(points / scoreDenominator)
	}

	if id.Vehicle != "" && strings.Contains(lower, strings.ToLower(id.Vehicle)) {
		points += 3
	}
	if id.Class == ClassFrequentBatch && id.BatchGroup != "" && strings.Contains(lower, strings.ToLower(id.BatchGroup)) {
		points += 5
	}
	if id.Class == ClassNamedPayload && id.Payload != "" && strings.Contains(lower, strings.ToLower(id.Payload)) {
		points += 4
	}

	// Minor bonuses for generic live-coverage keywords.
	if strings.Contains(lower, "launch") {
		points++
	}
	if strings.Contains(lower, "live") {
		points++
	}

	return clamp(points / scoreDenominator)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
