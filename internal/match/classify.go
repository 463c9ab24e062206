// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package match

import (
	"regexp"
	"strings"
)

// Class is the mission classification driving search strategy.
type Class string

const (
	// ClassHighProfile missions fly rare, high-interest vehicles. Any video
	// mentioning the vehicle is accepted (wide search).
	ClassHighProfile Class = "high_profile"

	// ClassFrequentBatch missions repeat at high cadence (satellite
	// constellation batches). Matching requires the exact batch identifier
	// because vehicle-name-only matching produces false positives at this
	// cadence.
	ClassFrequentBatch Class = "frequent_batch"

	// ClassRegional missions use the regional "vehicle-variant | payload"
	// naming convention and are matched on base vehicle and payload.
	ClassRegional Class = "regional"

	// ClassNamedPayload missions carry a named payload; matching requires
	// vehicle AND payload substrings.
	ClassNamedPayload Class = "named_payload"

	// ClassUnknown missions accept vehicle-name-only matches.
	ClassUnknown Class = "unknown"
)

// Identity is the canonical search identity extracted from one launch name.
type Identity struct {
	// Vehicle is the canonical vehicle name from the rule table.
	Vehicle string

	Class Class

	// BatchKeyword and BatchGroup identify a frequent-cadence batch mission,
	// e.g. keyword "starlink" and group "6-87".
	BatchKeyword string
	BatchGroup   string

	// FlightNumber is set for test-flight campaigns named "Flight N".
	FlightNumber string

	// Payload is the cleaned payload name for named-payload and regional
	// missions.
	Payload string

	// Variant is the full vehicle variant for regional missions,
	// e.g. "PSLV-DL".
	Variant string
}

var (
	batchGroup   = regexp.MustCompile(`(?i)Starlink Group ([\d-]+)`)
	flightNumber = regexp.MustCompile(`(?i)Flight (\d+)`)

	// payloadNoise strips trailing filler from payload names.
	payloadNoise = regexp.MustCompile(`(?i)\s+(and\s+others?|etc\.?)\s*$`)
)

// Extract derives the search identity from a launch's display name using the
// ordered vehicle rule table.
func Extract(rules []VehicleRule, launchName string) Identity {
	rule, vehicle := findVehicle(rules, launchName)
	id := Identity{Vehicle: vehicle, Class: ClassUnknown}
	lower := strings.ToLower(launchName)

	if rule.Regional {
		id.Class = ClassRegional
		id.Variant, id.Payload = splitRegionalName(launchName)
		return id
	}

	if m := batchGroup.FindStringSubmatch(launchName); m != nil {
		id.Class = ClassFrequentBatch
		id.BatchKeyword = "starlink"
		id.BatchGroup = m[1]
		return id
	}

	if rule.HighProfile {
		id.Class = ClassHighProfile
		if m := flightNumber.FindStringSubmatch(launchName); m != nil {
			id.FlightNumber = m[1]
		}
		return id
	}

	// "starlink" without a parsable group still gets the strict class so a
	// malformed name cannot fall back to permissive vehicle-only matching.
	if strings.Contains(lower, "starlink") {
		id.Class = ClassFrequentBatch
		id.BatchKeyword = "starlink"
		return id
	}

	if _, payload, found := strings.Cut(launchName, "|"); found {
		if cleaned := cleanPayload(payload); cleaned != "" {
			id.Class = ClassNamedPayload
			id.Payload = cleaned
		}
	}

	return id
}

// splitRegionalName parses the "vehicle-variant | payload" convention, e.g.
// "PSLV-DL | EOS-N1 and others" into variant "PSLV-DL" and payload "EOS-N1".
func splitRegionalName(launchName string) (variant, payload string) {
	before, after, found := strings.Cut(launchName, "|")
	variant = strings.TrimSpace(before)
	if found {
		payload = cleanPayload(after)
	}
	return variant, payload
}

// cleanPayload trims whitespace and filler suffixes from a payload name.
func cleanPayload(payload string) string {
	payload = strings.TrimSpace(payload)
	payload = payloadNoise.ReplaceAllString(payload, "")
	return strings.TrimSpace(payload)
}
