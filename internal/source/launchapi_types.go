// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"time"

	"github.com/launchwindow/server/internal/models"
)

// unknownField is the sentinel substituted for nested manifest fields the
// provider omitted.
const unknownField = "Unknown"

// LaunchRecord is the manifest provider's wire shape for one launch. Nested
// objects are pointers because the provider freely omits them.
type LaunchRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Net         time.Time       `json:"net"`
	Status      *statusRecord   `json:"status"`
	Rocket      *rocketRecord   `json:"rocket"`
	Mission     *missionRecord  `json:"mission"`
	Pad         *padRecord      `json:"pad"`
	Provider    *providerRecord `json:"launch_service_provider"`
	Image       string          `json:"image"`
	WebcastLive bool            `json:"webcast_live"`
}

type statusRecord struct {
	Name string `json:"name"`
}

type rocketRecord struct {
	Configuration *rocketConfiguration `json:"configuration"`
}

type rocketConfiguration struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type missionRecord struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Orbit       *orbitRecord `json:"orbit"`
}

type orbitRecord struct {
	Name string `json:"name"`
}

type padRecord struct {
	Name     string          `json:"name"`
	Location *locationRecord `json:"location"`
}

type locationRecord struct {
	Name string `json:"name"`
}

type providerRecord struct {
	Name string `json:"name"`
}

// launchPage is the paginated wrapper around upcoming launch results.
type launchPage struct {
	Count   int            `json:"count"`
	Results []LaunchRecord `json:"results"`
}

// Normalize converts a wire record into the internal launch model, defaulting
// every missing nested field to the unknown sentinel and mapping the provider
// status vocabulary into the internal enumeration.
func (r *LaunchRecord) Normalize(now time.Time) *models.Launch {
	launch := &models.Launch{
		ID:          r.ID,
		Name:        r.Name,
		ScheduledAt: r.Net,
		Status:      models.StatusPending,
		Vehicle:     models.Vehicle{Name: unknownField, Configuration: unknownField},
		Mission:     models.Mission{Orbit: unknownField},
		Pad:         models.Pad{Name: unknownField, Location: unknownField},
		Provider:    unknownField,
		Image:       r.Image,
		WebcastLive: r.WebcastLive,
		UpdatedAt:   now,
	}

	if r.Status != nil {
		launch.Status = models.StatusFromProvider(r.Status.Name)
	}
	if r.Rocket != nil && r.Rocket.Configuration != nil {
		if r.Rocket.Configuration.Name != "" {
			launch.Vehicle.Name = r.Rocket.Configuration.Name
		}
		if r.Rocket.Configuration.FullName != "" {
			launch.Vehicle.Configuration = r.Rocket.Configuration.FullName
		}
	}
	if r.Mission != nil {
		launch.Mission.Name = r.Mission.Name
		launch.Mission.Description = r.Mission.Description
		if r.Mission.Orbit != nil && r.Mission.Orbit.Name != "" {
			launch.Mission.Orbit = r.Mission.Orbit.Name
		}
	}
	if r.Pad != nil {
		if r.Pad.Name != "" {
			launch.Pad.Name = r.Pad.Name
		}
		if r.Pad.Location != nil && r.Pad.Location.Name != "" {
			launch.Pad.Location = r.Pad.Location.Name
		}
	}
	if r.Provider != nil && r.Provider.Name != "" {
		launch.Provider = r.Provider.Name
	}

	return launch
}
