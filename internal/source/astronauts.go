// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"context"
	"fmt"
	"time"

	"github.com/launchwindow/server/internal/models"
)

// AstronautRecord is the manifest provider's wire shape for one astronaut in
// detailed mode. The nested status and agency objects are pointers because
// the provider omits them for some records.
type AstronautRecord struct {
	ID           int                    `json:"id"`
	Name         string                 `json:"name"`
	Nationality  string                 `json:"nationality"`
	ProfileImage string                 `json:"profile_image"`
	Bio          string                 `json:"bio"`
	Status       *astronautStatusRecord `json:"status"`
	Agency       *agencyRecord          `json:"agency"`

	TimeInSpace     string `json:"time_in_space"`
	EVATime         string `json:"eva_time"`
	FlightsCount    int    `json:"flights_count"`
	LandingsCount   int    `json:"landings_count"`
	SpacewalksCount int    `json:"spacewalks_count"`
	InSpace         bool   `json:"in_space"`

	FirstFlight time.Time `json:"first_flight"`
	LastFlight  time.Time `json:"last_flight"`

	Wiki      string `json:"wiki"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
}

type astronautStatusRecord struct {
	Name string `json:"name"`
}

type agencyRecord struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Abbreviation string `json:"abbreviation"`
}

// Normalize converts a wire record into the internal astronaut model,
// stamping it with the fetch time that drives its freshness window.
func (r *AstronautRecord) Normalize(now time.Time) *models.Astronaut {
	astro := &models.Astronaut{
		ID:              r.ID,
		Name:            r.Name,
		Nationality:     r.Nationality,
		ProfileImage:    r.ProfileImage,
		Bio:             r.Bio,
		Status:          unknownField,
		Agency:          models.Agency{Name: unknownField},
		TimeInSpace:     r.TimeInSpace,
		EVATime:         r.EVATime,
		FlightsCount:    r.FlightsCount,
		LandingsCount:   r.LandingsCount,
		SpacewalksCount: r.SpacewalksCount,
		InSpace:         r.InSpace,
		FirstFlight:     r.FirstFlight,
		LastFlight:      r.LastFlight,
		Wiki:            r.Wiki,
		Twitter:         r.Twitter,
		Instagram:       r.Instagram,
		FetchedAt:       now,
	}

	if r.Status != nil && r.Status.Name != "" {
		astro.Status = r.Status.Name
	}
	if r.Agency != nil {
		if r.Agency.Name != "" {
			astro.Agency.Name = r.Agency.Name
		}
		astro.Agency.Type = r.Agency.Type
		astro.Agency.Abbreviation = r.Agency.Abbreviation
	}

	return astro
}

// GetAstronaut fetches one astronaut's detailed record by provider ID.
// Returns ErrNotFound for 404s. Runs on the detail timeout since lookups
// sit inline on a user-facing read.
func (c *ManifestClient) GetAstronaut(ctx context.Context, id int) (*AstronautRecord, error) {
	reqURL := fmt.Sprintf("%s/astronaut/%d/?mode=detailed", c.baseURL, id)

	var record AstronautRecord
	if err := c.getJSON(ctx, c.detailClient, "astronaut detail", reqURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
