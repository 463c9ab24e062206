// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package models defines the core data structures shared across LaunchWindow:
// launches, stream associations, sync markers, and the API response envelope.
package models

import "time"

// LaunchStatus is the internal status vocabulary for a launch.
// Provider-specific status strings are mapped into this enumeration by
// StatusFromProvider.
type LaunchStatus string

const (
	// StatusPending is the default status when the provider reports nothing usable.
	StatusPending LaunchStatus = "pending"

	// StatusGo means the launch is confirmed for its scheduled window.
	StatusGo LaunchStatus = "go"

	// StatusTBD means the schedule is not yet determined.
	StatusTBD LaunchStatus = "tbd"

	// StatusTBC means the schedule is set but awaiting confirmation.
	StatusTBC LaunchStatus = "tbc"

	// StatusSuccess is a terminal status for a successful launch.
	StatusSuccess LaunchStatus = "success"

	// StatusFailure is a terminal status for a failed launch.
	StatusFailure LaunchStatus = "failure"

	// StatusPartialFailure is a terminal status for a partially failed launch.
	StatusPartialFailure LaunchStatus = "partial_failure"

	// StatusArchived marks a past launch retained for retrospective lookups.
	StatusArchived LaunchStatus = "archived"
)

// IsTerminal reports whether the status is final. Terminal launches are never
// scrub-checked again.
func (s LaunchStatus) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusPartialFailure, StatusArchived:
		return true
	default:
		return false
	}
}

// IsUncertain reports whether the status indicates an unconfirmed schedule.
func (s LaunchStatus) IsUncertain() bool {
	return s == StatusTBD || s == StatusTBC
}

// StatusFromProvider maps a manifest-provider status string into the internal
// vocabulary. Unknown strings map to StatusPending so a provider vocabulary
// change degrades gracefully instead of dropping records.
func StatusFromProvider(name string) LaunchStatus {
	switch name {
	case "Go", "Go for Launch":
		return StatusGo
	case "TBD", "To Be Determined":
		return StatusTBD
	case "TBC", "To Be Confirmed":
		return StatusTBC
	case "Success", "Launch Successful":
		return StatusSuccess
	case "Failure", "Launch Failure":
		return StatusFailure
	case "Partial Failure":
		return StatusPartialFailure
	default:
		return StatusPending
	}
}

// Vehicle describes the rocket flying a launch.
type Vehicle struct {
	Name          string `json:"name"`
	Configuration string `json:"configuration"`
}

// Mission describes the payload side of a launch.
type Mission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Orbit       string `json:"orbit"`
}

// Pad describes where a launch lifts off from.
type Pad struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Launch is one tracked rocket launch. Records are created and bulk-updated by
// the directory sync and conditionally updated by the scrub detector; the core
// never deletes them (retention is an external policy).
type Launch struct {
	// ID is the external identifier assigned by the manifest provider.
	ID string `json:"id"`

	Name        string       `json:"name"`
	ScheduledAt time.Time    `json:"scheduled_at"`
	Status      LaunchStatus `json:"status"`
	Vehicle     Vehicle      `json:"vehicle"`
	Mission     Mission      `json:"mission"`
	Pad         Pad          `json:"pad"`
	Provider    string       `json:"provider"`
	Image       string       `json:"image,omitempty"`
	WebcastLive bool         `json:"webcast_live"`

	// UpdatedAt is the last time this record was written locally.
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncMarker records when a cached resource was last refreshed. One marker
// exists per tracked resource: the global launch directory, or one launch's
// stream set.
type SyncMarker struct {
	Key           string    `json:"key"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

// Marker keys for the resources tracked by the staleness gate.
const (
	// MarkerDirectory is the marker key for the global launch directory.
	MarkerDirectory = "directory"

	// markerStreamPrefix prefixes per-launch stream set marker keys.
	markerStreamPrefix = "streams:"
)

// StreamMarkerKey returns the sync marker key for one launch's stream set.
func StreamMarkerKey(launchID string) string {
	return markerStreamPrefix + launchID
}
