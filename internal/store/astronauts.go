// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package store

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/models"
)

// PutAstronaut writes an astronaut record, creating or replacing it.
func (s *Store) PutAstronaut(astro *models.Astronaut) error {
	data, err := json.Marshal(astro)
	if err != nil {
		return fmt.Errorf("marshal astronaut %d: %w", astro.ID, err)
	}
	return s.set(astronautKeyPrefix+strconv.Itoa(astro.ID), data)
}

// GetAstronaut returns one astronaut by provider ID, or ErrNotFound.
func (s *Store) GetAstronaut(id int) (*models.Astronaut, error) {
	var astro models.Astronaut
	err := s.get(astronautKeyPrefix+strconv.Itoa(id), func(val []byte) error {
		return json.Unmarshal(val, &astro)
	})
	if err != nil {
		return nil, err
	}
	return &astro, nil
}
