// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package models

import "testing"

func TestStatusFromProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     LaunchStatus
	}{
		{"Go", StatusGo},
		{"Go for Launch", StatusGo},
		{"TBD", StatusTBD},
		{"To Be Determined", StatusTBD},
		{"TBC", StatusTBC},
		{"To Be Confirmed", StatusTBC},
		{"Success", StatusSuccess},
		{"Launch Successful", StatusSuccess},
		{"Failure", StatusFailure},
		{"Launch Failure", StatusFailure},
		{"Partial Failure", StatusPartialFailure},
		{"Hold", StatusPending},
		{"", StatusPending},
	}

	for _, tt := range tests {
		if got := StatusFromProvider(tt.provider); got != tt.want {
			t.Errorf("StatusFromProvider(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestStatusClassification(t *testing.T) {
	terminal := []LaunchStatus{StatusSuccess, StatusFailure, StatusPartialFailure, StatusArchived}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%q should be terminal", s)
		}
	}

	open := []LaunchStatus{StatusPending, StatusGo, StatusTBD, StatusTBC}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}

	if !StatusTBD.IsUncertain() || !StatusTBC.IsUncertain() {
		t.Error("tbd and tbc should be uncertain")
	}
	if StatusGo.IsUncertain() || StatusPending.IsUncertain() {
		t.Error("go and pending should not be uncertain")
	}
}

func TestStreamMarkerKey(t *testing.T) {
	if got := StreamMarkerKey("abc"); got != "streams:abc" {
		t.Errorf("StreamMarkerKey = %q", got)
	}
}
