// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package match

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/source"
)

// Matcher builds scored stream associations for one launch by querying a
// fixed roster of known space-coverage channels.
//
// The matcher does not persist anything; the caller owns persistence. A
// bounded per-invocation call budget caps total external search calls, and a
// single channel's failure never aborts the other channels.
type Matcher struct {
	videos   source.VideoSearchAPI
	channels []config.ChannelConfig
	budget   int
	rules    []VehicleRule
	now      func() time.Time
}

// NewMatcher creates a matcher over the configured channel roster.
func NewMatcher(videos source.VideoSearchAPI, cfg config.VideoConfig) *Matcher {
	return &Matcher{
		videos:   videos,
		channels: cfg.Channels,
		budget:   cfg.CallBudget,
		rules:    DefaultVehicleRules,
		now:      time.Now,
	}
}

// Match queries every channel in the roster (within the call budget) and
// returns a deduplicated association list ordered by score descending, then
// scheduled start ascending.
func (m *Matcher) Match(ctx context.Context, launch *models.Launch) []models.StreamAssociation {
	id := Extract(m.rules, launch.Name)
	log := logging.Ctx(ctx)

	log.Debug().
		Str("launch_id", launch.ID).
		Str("vehicle", id.Vehicle).
		Str("class", string(id.Class)).
		Msg("Matching streams")

	var candidates []source.Video
	calls := 0
	for _, channel := range m.channels {
		if calls >= m.budget {
			metrics.MatcherBudgetExhausted.Inc()
			log.Warn().Int("budget", m.budget).Msg("Search call budget exhausted, skipping remaining channels")
			break
		}

		query := buildQuery(id, channel)
		calls++

		videos, err := m.videos.SearchUpcoming(ctx, channel.ID, query)
		if err != nil {
			// A single channel's timeout or quota error must not abort the
			// others; return whatever was gathered.
			metrics.SourceCalls.WithLabelValues("video", "error").Inc()
			log.Warn().Err(err).Str("channel", channel.Name).Msg("Channel search failed, skipping")
			continue
		}
		metrics.SourceCalls.WithLabelValues("video", "ok").Inc()

		for _, video := range videos {
			if accepts(id, channel, video) {
				candidates = append(candidates, video)
			}
		}
	}

	assocs := m.toAssociations(launch, id, dedupe(candidates))
	metrics.MatcherCandidates.Observe(float64(len(assocs)))

	sort.SliceStable(assocs, func(i, j int) bool {
		if assocs[i].Score != assocs[j].Score {
			return assocs[i].Score > assocs[j].Score
		}
		return assocs[i].ScheduledStart.Before(assocs[j].ScheduledStart)
	})
	return assocs
}

// buildQuery derives the channel-specific search query from the identity.
func buildQuery(id Identity, channel config.ChannelConfig) string {
	// Regional agency channels title their coverage by payload, not vehicle.
	if channel.Regional && id.Class == ClassRegional {
		if id.Payload != "" {
			return id.Payload
		}
		return id.Vehicle
	}

	switch id.Class {
	case ClassHighProfile:
		return id.Vehicle
	case ClassFrequentBatch:
		return id.Vehicle + " " + id.BatchKeyword
	case ClassNamedPayload:
		return id.Vehicle + " " + id.Payload
	default:
		return id.Vehicle
	}
}

// accepts applies the classification-specific filter predicate against the
// candidate's combined title and description.
func accepts(id Identity, channel config.ChannelConfig, video source.Video) bool {
	combined := strings.ToLower(video.Title + " " + video.Description)
	vehicle := strings.ToLower(id.Vehicle)

	if channel.Regional && id.Class == ClassRegional {
		base := strings.Contains(combined, vehicle)
		payload := id.Payload != "" && strings.Contains(combined, strings.ToLower(id.Payload))
		// Either base vehicle plus payload, or a sufficiently unique payload
		// alone (agency channels omit the vehicle for flagship payloads).
		return (base && payload) || payload
	}

	switch id.Class {
	case ClassHighProfile:
		return strings.Contains(combined, vehicle)

	case ClassFrequentBatch:
		if !strings.Contains(combined, id.BatchKeyword) {
			return false
		}
		if id.BatchGroup == "" {
			return false
		}
		group := strings.ToLower(id.BatchGroup)
		return strings.Contains(combined, group) ||
			strings.Contains(combined, strings.ReplaceAll(group, "-", " "))

	case ClassRegional:
		base := strings.Contains(combined, vehicle)
		payload := id.Payload != "" && strings.Contains(combined, strings.ToLower(id.Payload))
		return (base && payload) || payload

	case ClassNamedPayload:
		payload := strings.ToLower(id.Payload)
		if !strings.Contains(payload, "unknown") {
			return strings.Contains(combined, payload)
		}
		return containsVehicleToken(combined, vehicle, channel)

	default:
		return containsVehicleToken(combined, vehicle, channel)
	}
}

// containsVehicleToken is the loosest predicate: the first token of the
// vehicle name must appear. Strict channels must carry the full vehicle name
// because they self-report unrelated launches under generic titles.
func containsVehicleToken(combined, vehicle string, channel config.ChannelConfig) bool {
	if channel.Strictness == "strict" {
		return strings.Contains(combined, vehicle)
	}
	first := strings.SplitN(vehicle, " ", 2)[0]
	return first != "" && strings.Contains(combined, first)
}

// dedupe drops candidates sharing an external video identifier, keeping the
// first occurrence. Guards against duplicate API pages and channels
// mis-self-reporting each other's videos.
func dedupe(videos []source.Video) []source.Video {
	seen := make(map[string]struct{}, len(videos))
	unique := videos[:0]
	for _, v := range videos {
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// toAssociations converts surviving candidates into scored associations.
func (m *Matcher) toAssociations(launch *models.Launch, id Identity, videos []source.Video) []models.StreamAssociation {
	now := m.now()
	assocs := make([]models.StreamAssociation, 0, len(videos))
	for _, v := range videos {
		assocs = append(assocs, models.StreamAssociation{
			VideoID:        v.ID,
			LaunchID:       launch.ID,
			Platform:       models.PlatformYouTube,
			URL:            "https://www.youtube.com/watch?v=" + v.ID,
			Title:          v.Title,
			ChannelID:      v.ChannelID,
			ChannelName:    v.ChannelTitle,
			Thumbnail:      v.Thumbnail,
			ScheduledStart: v.ScheduledStart,
			Status:         models.StreamUpcoming,
			Score:          Score(id, v.Title),
			CreatedAt:      now,
		})
	}
	return assocs
}
