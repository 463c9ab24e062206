// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package models

import "time"

// StreamStatus is the lifecycle status of a stream association.
type StreamStatus string

const (
	// StreamUpcoming means the video is scheduled but has not gone live.
	StreamUpcoming StreamStatus = "upcoming"

	// StreamScrubbed means the associated launch slipped or regressed to an
	// uncertain status after the association was made.
	StreamScrubbed StreamStatus = "scrubbed"

	// StreamComplete means the associated launch reached a terminal status.
	StreamComplete StreamStatus = "complete"
)

// StreamAssociation links one candidate video to a launch, with the matcher's
// confidence score. Associations are created by the stream matcher, have their
// status mutated by the scrub detector, and are superseded wholesale when the
// stream cache for their launch is invalidated and re-populated.
//
// The owning launch is a soft reference: orphaned associations are tolerated
// and swept by the maintenance service, never treated as a constraint
// violation.
type StreamAssociation struct {
	// VideoID is the external video identifier, unique per platform.
	VideoID string `json:"video_id"`

	// LaunchID is the owning launch's external identifier.
	LaunchID string `json:"launch_id"`

	Platform       string       `json:"platform"`
	URL            string       `json:"url"`
	Title          string       `json:"title"`
	ChannelID      string       `json:"channel_id"`
	ChannelName    string       `json:"channel_name"`
	Thumbnail      string       `json:"thumbnail,omitempty"`
	ScheduledStart time.Time    `json:"scheduled_start"`
	Status         StreamStatus `json:"status"`

	// Score is the match confidence in [0,1].
	Score float64 `json:"score"`

	CreatedAt time.Time `json:"created_at"`
}

// PlatformYouTube is the platform tag for the YouTube search provider.
const PlatformYouTube = "youtube"
