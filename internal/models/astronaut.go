// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package models

import "time"

// Astronaut is the stored personnel record for one astronaut, fetched on
// demand from the manifest provider and cached with its own freshness
// window. The provider keys astronauts by integer ID, unlike launches.
type Astronaut struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Nationality  string `json:"nationality"`
	ProfileImage string `json:"profile_image"`
	Bio          string `json:"bio"`
	Status       string `json:"status"`

	Agency Agency `json:"agency"`

	TimeInSpace     string `json:"time_in_space"`
	EVATime         string `json:"eva_time"`
	FlightsCount    int    `json:"flights_count"`
	LandingsCount   int    `json:"landings_count"`
	SpacewalksCount int    `json:"spacewalks_count"`
	InSpace         bool   `json:"in_space"`

	FirstFlight time.Time `json:"first_flight"`
	LastFlight  time.Time `json:"last_flight"`

	Wiki      string `json:"wiki"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	// FetchedAt drives the staleness gate for this record.
	FetchedAt time.Time `json:"fetched_at"`
}

// Agency is the employing agency embedded in an astronaut record.
type Agency struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Abbreviation string `json:"abbreviation"`
}
