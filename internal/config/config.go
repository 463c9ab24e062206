// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package config defines the LaunchWindow configuration model and loads it
// from defaults, an optional YAML file, and environment variables (koanf).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LaunchAPI LaunchAPIConfig `koanf:"launch_api"`
	Video     VideoConfig     `koanf:"video"`
	Store     StoreConfig     `koanf:"store"`
	Sync      SyncConfig      `koanf:"sync"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// AdminRateLimit bounds requests per minute to the admin route group.
	AdminRateLimit int `koanf:"admin_rate_limit" validate:"min=1"`

	// CORSOrigins lists allowed browser origins. Empty means no cross-origin
	// access.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LaunchAPIConfig configures the launch manifest provider client.
type LaunchAPIConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// PageSize bounds how many upcoming launches one directory fetch returns.
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// Timeout applies to directory fetches. Single-launch fetches run on the
	// shorter DetailTimeout since they sit inline on a read path.
	Timeout       time.Duration `koanf:"timeout"`
	DetailTimeout time.Duration `koanf:"detail_timeout"`

	// RetryAttempts caps full-catalog fetch retries (client errors never retry).
	RetryAttempts int           `koanf:"retry_attempts" validate:"min=1,max=10"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
}

// VideoConfig configures the video search provider and the channel roster the
// stream matcher consults. The roster is configuration, not code: adding a
// channel or changing its strictness is a config change.
type VideoConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// MaxResults bounds results per channel search call.
	MaxResults int `koanf:"max_results" validate:"min=1,max=50"`

	// CallBudget caps external search calls per matcher invocation.
	CallBudget int `koanf:"call_budget" validate:"min=1"`

	Channels []ChannelConfig `koanf:"channels" validate:"dive"`
}

// ChannelConfig describes one known space-coverage channel.
type ChannelConfig struct {
	ID   string `koanf:"id" validate:"required"`
	Name string `koanf:"name" validate:"required"`

	// Strictness is "strict" or "moderate". Strict channels self-report
	// unrelated launches, so their candidates face the exact-match predicate
	// regardless of mission classification.
	Strictness string `koanf:"strictness" validate:"oneof=strict moderate"`

	// Regional marks the channel as an agency channel using regional payload
	// naming; queries against it are built from the payload, not the vehicle.
	Regional bool `koanf:"regional"`
}

// StoreConfig configures the embedded BadgerDB store.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`

	// InMemory runs Badger without files. Used by tests.
	InMemory bool `koanf:"in_memory"`
}

// SyncConfig holds freshness windows and scrub detection policy.
type SyncConfig struct {
	// DirectoryTTL is how long the launch directory stays fresh.
	DirectoryTTL time.Duration `koanf:"directory_ttl"`

	// StreamTTL is how long one launch's stream set stays fresh.
	StreamTTL time.Duration `koanf:"stream_ttl"`

	// StreamHorizon skips stream matching for launches farther out than this.
	StreamHorizon time.Duration `koanf:"stream_horizon"`

	// SignificantDelay is the schedule shift that invalidates downstream
	// stream caches during a directory sync.
	SignificantDelay time.Duration `koanf:"significant_delay"`

	// CriticalWindowBefore/After bound the pre-liftoff window in which scrub
	// checks run inline on the read path.
	CriticalWindowBefore time.Duration `koanf:"critical_window_before"`
	CriticalWindowAfter  time.Duration `koanf:"critical_window_after"`

	// ScrubDelay is the schedule shift classified as a scrub inside the
	// critical window. Outside the window the SignificantDelay threshold
	// applies instead; both express the same judgment at different proximity.
	ScrubDelay time.Duration `koanf:"scrub_delay"`

	// AstronautTTL is how long a cached astronaut record stays fresh.
	AstronautTTL time.Duration `koanf:"astronaut_ttl"`

	// SweepInterval is how often the background directory sweep runs.
	// Zero disables the sweep.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// RateLimitConfig bounds calls to the manifest provider per resource key.
type RateLimitConfig struct {
	Window   time.Duration `koanf:"window"`
	MaxCalls int           `koanf:"max_calls" validate:"min=1"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. Struct tags cover field
// shapes; the cross-field checks below cover what tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	checks := []func() error{
		c.validateDurations,
		c.validateChannels,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDurations() error {
	if c.Sync.DirectoryTTL <= 0 {
		return fmt.Errorf("sync.directory_ttl must be positive")
	}
	if c.Sync.StreamTTL <= 0 {
		return fmt.Errorf("sync.stream_ttl must be positive")
	}
	if c.Sync.AstronautTTL <= 0 {
		return fmt.Errorf("sync.astronaut_ttl must be positive")
	}
	if c.Sync.ScrubDelay <= 0 || c.Sync.SignificantDelay <= 0 {
		return fmt.Errorf("scrub thresholds must be positive")
	}
	if c.Sync.ScrubDelay > c.Sync.SignificantDelay {
		return fmt.Errorf("sync.scrub_delay (critical window) must not exceed sync.significant_delay (background)")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	return nil
}

func (c *Config) validateChannels() error {
	seen := make(map[string]struct{}, len(c.Video.Channels))
	for _, ch := range c.Video.Channels {
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("video.channels: duplicate channel id %q", ch.ID)
		}
		seen[ch.ID] = struct{}{}
	}
	return nil
}
