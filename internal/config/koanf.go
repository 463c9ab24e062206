// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/launchwindow/config.yaml",
	"/etc/launchwindow/config.yml",
}

// ConfigPathEnvVar is the environment variable overriding the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults load
// first, then the config file, then environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Timeout:        30 * time.Second,
			AdminRateLimit: 30,
		},
		LaunchAPI: LaunchAPIConfig{
			BaseURL:       "https://ll.thespacedevs.com/2.2.0",
			PageSize:      50,
			Timeout:       30 * time.Second,
			DetailTimeout: 10 * time.Second,
			RetryAttempts: 3,
			RetryDelay:    1 * time.Second,
		},
		Video: VideoConfig{
			BaseURL:    "https://www.googleapis.com/youtube/v3",
			APIKey:     "",
			Timeout:    10 * time.Second,
			MaxResults: 10,
			CallBudget: 50,
			Channels:   defaultChannels(),
		},
		Store: StoreConfig{
			Path:     "/data/launchwindow",
			InMemory: false,
		},
		Sync: SyncConfig{
			DirectoryTTL:         1 * time.Hour,
			StreamTTL:            12 * time.Hour,
			StreamHorizon:        72 * time.Hour,
			SignificantDelay:     24 * time.Hour,
			CriticalWindowBefore: 1 * time.Hour,
			CriticalWindowAfter:  10 * time.Minute,
			ScrubDelay:           1 * time.Hour,
			AstronautTTL:         7 * 24 * time.Hour,
			SweepInterval:        10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Window:   60 * time.Minute,
			MaxCalls: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// defaultChannels is the built-in roster of known space-coverage channels.
// Operators can replace it wholesale from the config file.
func defaultChannels() []ChannelConfig {
	return []ChannelConfig{
		{ID: "UC6uKrU_WqJ1R2HMTY3LIx5Q", Name: "Everyday Astronaut", Strictness: "moderate"},
		{ID: "UCSUu1lih2RifWkKtDOJdsBA", Name: "NASASpaceflight", Strictness: "moderate"},
		{ID: "UCGCndz0n0NHmLHfd64FRjIA", Name: "The Launch Pad", Strictness: "moderate"},
		{ID: "UCoLdERT4-TJ82PJOHSrsZLQ", Name: "Spaceflight Now", Strictness: "moderate"},
		{ID: "UCVTomc35agH1SM6kCKzwW_g", Name: "VideoFromSpace", Strictness: "moderate"},
		{ID: "UC2_vpnza621Sa0cf_xhqJ8Q", Name: "Raw Space", Strictness: "moderate"},
		{ID: "UC9T3XwCjQdzpSp7IzGkbtJA", Name: "International Rocket Launches", Strictness: "strict"},
		{ID: "UCLA_DiR1FfKNvjuUpBHmylQ", Name: "NASA", Strictness: "moderate"},
		{ID: "UCw5hEVOTfz_AfzsNFWyNlNg", Name: "ISRO Official", Strictness: "moderate", Regional: true},
		{ID: "UCPkKkvT2DNoQt9LwjAE5LGQ", Name: "Launch Heaven", Strictness: "moderate"},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (first match in DefaultConfigPaths)
//  3. Environment variables: LW_ prefixed, highest priority
//
// Precedence: ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// LW_SERVER_PORT -> server.port, LW_SYNC_DIRECTORY_TTL -> sync.directory_ttl.
	// The first underscore separates the section; the rest stay joined so
	// multi-word field names survive the mapping.
	envProvider := env.Provider("LW_", ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// multiWordSections lists config sections whose names themselves contain an
// underscore, so the env mapping knows where the section ends.
var multiWordSections = []string{"launch_api", "rate_limit"}

// envTransform maps LW_SECTION_FIELD_NAME to section.field_name.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "LW_"))
	for _, section := range multiWordSections {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok {
			return section + "." + rest
		}
	}
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// findConfigFile searches for a config file in the default paths.
// Returns the path of the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
