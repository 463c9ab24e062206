// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package sync

import (
	"context"
	"time"

	"github.com/launchwindow/server/internal/config"
	"github.com/launchwindow/server/internal/logging"
	"github.com/launchwindow/server/internal/metrics"
	"github.com/launchwindow/server/internal/models"
	"github.com/launchwindow/server/internal/source"
)

// Scrub check outcomes, in precedence order. When a fresh record shows
// several changes at once, the highest-precedence outcome wins.
const (
	OutcomeComplete      = "complete"
	OutcomeScrubbed      = "scrubbed"
	OutcomeStatusChanged = "status_changed"
	OutcomeOnTime        = "on_time"
	OutcomeError         = "error"
	OutcomeRateLimited   = "rate_limited"
	OutcomeSkipped       = "skipped"
)

// ScrubDetector checks launches near their scheduled time for last-minute
// schedule changes. It is strictly best-effort: every failure path returns
// the last known launch record unchanged, so a provider outage minutes before
// liftoff degrades to serving slightly older data instead of an error page.
type ScrubDetector struct {
	manifest source.ManifestAPI
	storage  Storage
	limiter  Limiter
	cfg      config.SyncConfig
	now      Clock
}

// NewScrubDetector wires a detector. now may be nil, in which case time.Now
// is used.
func NewScrubDetector(manifest source.ManifestAPI, storage Storage, limiter Limiter, cfg config.SyncConfig, now Clock) *ScrubDetector {
	if now == nil {
		now = time.Now
	}
	return &ScrubDetector{
		manifest: manifest,
		storage:  storage,
		limiter:  limiter,
		cfg:      cfg,
		now:      now,
	}
}

// Check re-verifies one launch against the provider if it is inside the
// critical window around its scheduled time. It returns the freshest launch
// record available and the outcome label. It never returns an error: callers
// on the read path must always have something to serve.
func (s *ScrubDetector) Check(ctx context.Context, launch *models.Launch) (*models.Launch, string) {
	if launch.Status.IsTerminal() {
		return launch, OutcomeSkipped
	}

	now := s.now()
	if !s.inCriticalWindow(launch.ScheduledAt, now) {
		return launch, OutcomeSkipped
	}

	log := logging.Ctx(ctx)

	if !s.limiter.Acquire("launch:" + launch.ID) {
		metrics.RateLimitDenials.Inc()
		metrics.ScrubChecks.WithLabelValues(OutcomeRateLimited).Inc()
		log.Debug().Str("launch_id", launch.ID).Msg("scrub check skipped: rate limit exhausted")
		return launch, OutcomeRateLimited
	}

	record, err := s.manifest.GetLaunch(ctx, launch.ID)
	if err != nil {
		metrics.SourceCalls.WithLabelValues("manifest", "error").Inc()
		metrics.ScrubChecks.WithLabelValues(OutcomeError).Inc()
		log.Warn().Err(err).Str("launch_id", launch.ID).Msg("scrub check failed, serving last known data")
		return launch, OutcomeError
	}
	metrics.SourceCalls.WithLabelValues("manifest", "ok").Inc()

	fresh := record.Normalize(now)
	outcome := s.classify(ctx, launch, fresh)
	metrics.ScrubChecks.WithLabelValues(outcome).Inc()

	if err := s.storage.UpsertLaunch(fresh); err != nil {
		log.Error().Err(err).Str("launch_id", launch.ID).Msg("scrub check: persist launch")
		// The fresh record is still the best answer even if it did not
		// persist.
	}

	return fresh, outcome
}

// classify compares stored and fresh records and applies the side effects
// each outcome requires. Precedence: a launch that both slipped and
// completed is complete; a slip outranks a bare status change.
func (s *ScrubDetector) classify(ctx context.Context, prev, fresh *models.Launch) string {
	log := logging.Ctx(ctx)

	if fresh.Status.IsTerminal() {
		if err := s.storage.MarkStreamStatus(prev.ID, models.StreamComplete); err != nil {
			log.Error().Err(err).Str("launch_id", prev.ID).Msg("scrub check: mark streams complete")
		}
		log.Info().Str("launch_id", prev.ID).Str("status", string(fresh.Status)).Msg("launch reached terminal status")
		return OutcomeComplete
	}

	if s.scrubbed(prev, fresh) {
		if err := s.storage.InvalidateStreams(prev.ID); err != nil {
			log.Error().Err(err).Str("launch_id", prev.ID).Msg("scrub check: invalidate streams")
		} else {
			metrics.CacheInvalidations.WithLabelValues("scrub").Inc()
		}
		log.Info().
			Str("launch_id", prev.ID).
			Time("was", prev.ScheduledAt).
			Time("now", fresh.ScheduledAt).
			Msg("launch scrubbed, stream cache invalidated")
		return OutcomeScrubbed
	}

	if fresh.Status != prev.Status {
		if fresh.Status.IsUncertain() {
			// Confirmed streams for a launch that just lost its slot are
			// stale in spirit even when the clock has not moved yet.
			if err := s.storage.MarkStreamStatus(prev.ID, models.StreamScrubbed); err != nil {
				log.Error().Err(err).Str("launch_id", prev.ID).Msg("scrub check: mark streams scrubbed")
			}
		}
		log.Info().
			Str("launch_id", prev.ID).
			Str("was", string(prev.Status)).
			Str("now", string(fresh.Status)).
			Msg("launch status changed inside critical window")
		return OutcomeStatusChanged
	}

	return OutcomeOnTime
}

// scrubbed reports whether the fresh schedule constitutes a scrub: the time
// slipped past the in-window threshold, or the launch moved to another
// calendar day entirely.
func (s *ScrubDetector) scrubbed(prev, fresh *models.Launch) bool {
	delta := fresh.ScheduledAt.Sub(prev.ScheduledAt)
	if delta < 0 {
		delta = -delta
	}
	if delta > s.cfg.ScrubDelay {
		return true
	}
	py, pm, pd := prev.ScheduledAt.UTC().Date()
	fy, fm, fd := fresh.ScheduledAt.UTC().Date()
	return py != fy || pm != fm || pd != fd
}

// inCriticalWindow reports whether now falls inside the scrub-sensitive
// window around the scheduled time.
func (s *ScrubDetector) inCriticalWindow(scheduledAt, now time.Time) bool {
	open := scheduledAt.Add(-s.cfg.CriticalWindowBefore)
	until := scheduledAt.Add(s.cfg.CriticalWindowAfter)
	return !now.Before(open) && !now.After(until)
}
