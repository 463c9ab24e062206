// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package match turns one launch into a scored list of candidate stream
// associations. It derives a canonical vehicle identity from the launch's
// free-text name via an ordered rule table, classifies the mission to pick a
// search strategy, queries the configured channel roster, and filters, dedupes
// and scores the results.
package match

import (
	"regexp"
	"strings"
)

// VehicleRule maps a substring pattern in a launch name to a canonical
// vehicle identity. Rules are evaluated in order; the first match wins, so
// more specific patterns (e.g. "falcon heavy") must precede broader ones
// ("falcon 9"). Adding a vehicle family is a data change, not a code change.
type VehicleRule struct {
	// Pattern is matched case-insensitively as a substring.
	Pattern string

	// Canonical is the vehicle name used for queries and scoring.
	Canonical string

	// HighProfile marks rare, high-interest vehicles that get wide,
	// permissive video matching.
	HighProfile bool

	// Regional marks vehicle families using the regional
	// "vehicle-variant | payload" naming convention.
	Regional bool
}

// DefaultVehicleRules is the built-in ordered rule table.
var DefaultVehicleRules = []VehicleRule{
	{Pattern: "pslv", Canonical: "PSLV", Regional: true},
	{Pattern: "gslv", Canonical: "GSLV", Regional: true},
	{Pattern: "lvm3", Canonical: "LVM3", Regional: true},
	{Pattern: "sslv", Canonical: "SSLV", Regional: true},
	{Pattern: "new glenn", Canonical: "New Glenn", HighProfile: true},
	{Pattern: "starship", Canonical: "Starship", HighProfile: true},
	{Pattern: "space launch system", Canonical: "SLS", HighProfile: true},
	{Pattern: "sls", Canonical: "SLS", HighProfile: true},
	{Pattern: "falcon heavy", Canonical: "Falcon Heavy", HighProfile: true},
	{Pattern: "ariane 6", Canonical: "Ariane 6", HighProfile: true},
	{Pattern: "vulcan", Canonical: "Vulcan", HighProfile: true},
	{Pattern: "falcon 9", Canonical: "Falcon 9"},
	{Pattern: "atlas v", Canonical: "Atlas V"},
	{Pattern: "electron", Canonical: "Electron"},
	{Pattern: "long march", Canonical: "Long March"},
}

// longMarchVariant captures the full variant, e.g. "Long March 2D".
var longMarchVariant = regexp.MustCompile(`(?i)Long March [\w/-]+`)

// findVehicle resolves the canonical vehicle for a launch name against the
// rule table. When no rule matches, the text before the first separator token
// is used as-is.
func findVehicle(rules []VehicleRule, launchName string) (VehicleRule, string) {
	lower := strings.ToLower(launchName)
	for _, rule := range rules {
		if !strings.Contains(lower, rule.Pattern) {
			continue
		}
		canonical := rule.Canonical
		// Long March flies as numbered variants; keep the variant.
		if rule.Canonical == "Long March" {
			if m := longMarchVariant.FindString(launchName); m != "" {
				canonical = m
			}
		}
		return rule, canonical
	}

	fallback := strings.TrimSpace(strings.SplitN(launchName, "|", 2)[0])
	return VehicleRule{}, fallback
}
