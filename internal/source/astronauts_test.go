// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetAstronaut_PathAndDecode(t *testing.T) {
	var gotPath, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMode = r.URL.Query().Get("mode")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 276,
			"name": "Chris Hadfield",
			"nationality": "Canadian",
			"status": {"name": "Retired"},
			"agency": {"name": "Canadian Space Agency", "type": "Government", "abbreviation": "CSA"},
			"flights_count": 3,
			"spacewalks_count": 2,
			"in_space": false,
			"first_flight": "1995-11-12T12:30:43Z",
			"wiki": "https://en.wikipedia.org/wiki/Chris_Hadfield"
		}`))
	}))
	defer srv.Close()

	record, err := testManifestClient(srv.URL).GetAstronaut(context.Background(), 276)
	if err != nil {
		t.Fatalf("GetAstronaut failed: %v", err)
	}
	if gotPath != "/astronaut/276/" {
		t.Errorf("path = %q, want /astronaut/276/", gotPath)
	}
	if gotMode != "detailed" {
		t.Errorf("mode = %q, want detailed", gotMode)
	}
	if record.ID != 276 || record.Name != "Chris Hadfield" || record.FlightsCount != 3 {
		t.Errorf("record = %+v", record)
	}
	if record.FirstFlight.IsZero() {
		t.Error("first_flight not decoded")
	}
}

func TestGetAstronaut_NotFoundSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testManifestClient(srv.URL).GetAstronaut(context.Background(), 9999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAstronautNormalize(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rec := &AstronautRecord{
		ID:          276,
		Name:        "Chris Hadfield",
		Nationality: "Canadian",
		Status:      &astronautStatusRecord{Name: "Retired"},
		Agency:      &agencyRecord{Name: "Canadian Space Agency", Type: "Government", Abbreviation: "CSA"},
		InSpace:     false,
	}

	astro := rec.Normalize(now)
	if astro.Status != "Retired" || astro.Agency.Abbreviation != "CSA" {
		t.Errorf("normalized = %+v", astro)
	}
	if !astro.FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", astro.FetchedAt, now)
	}
}

func TestAstronautNormalize_SparseRecord(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rec := &AstronautRecord{ID: 42, Name: "Unknown Flyer"}

	astro := rec.Normalize(now)
	if astro.Status != unknownField {
		t.Errorf("Status = %q, want %q", astro.Status, unknownField)
	}
	if astro.Agency.Name != unknownField {
		t.Errorf("Agency.Name = %q, want %q", astro.Agency.Name, unknownField)
	}
}
