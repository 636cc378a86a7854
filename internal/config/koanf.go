// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vibe/config.yaml",
	"/etc/vibe/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
// Config file values and then environment variables override these.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Catalog: CatalogConfig{
			Path:           "data/data_encoded.parquet",
			ReloadInterval: 0,
			Threads:        0, // 0 = runtime.NumCPU()
			MaxMemory:      "1GB",
		},
		Recommend: RecommendConfig{
			Seed:                   42,
			DefaultMaxArtists:      6,
			DefaultTracksPerArtist: 4,
			DefaultGenreWeight:     2.0,
			DefaultDiversity:       1.0,
			VibeStrength:           0.5,
			CandidatePool:          1000,
			MinTracksInPool:        2,
			NoiseScale:             0.1,
			ScoreScale:             100,
			RankOffset:             10,
			PopularityBiasStrength: 0.5,
			MaxArtists:             50,
			MaxTracksPerArtist:     20,
			MaxSeedArtists:         50,
			MaxSeedTracks:          200,
			MaxGenreWeight:         10,
			MaxDiversity:           10,
		},
		Analytics: AnalyticsConfig{
			Enabled:                 true,
			DBPath:                  "data/analytics.duckdb",
			QueueSize:               1024,
			BatchSize:               100,
			FlushInterval:           5 * time.Second,
			DedupeTTL:               30 * time.Second,
			DedupeThreshold:         10000,
			DedupeRetain:            5000,
			EventsPerSecond:         50,
			Burst:                   100,
			BreakerFailureThreshold: 3,
			BreakerTimeout:          30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence, and validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// findConfigFile returns the first config file that exists, CONFIG_PATH
// first, or "" when there is none.
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

// sliceConfigPaths lists config paths given as comma-separated strings in env vars.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated string values of known slice fields.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_request_timeout":  "server.request_timeout",

	// Catalog
	"catalog_path":            "catalog.path",
	"catalog_reload_interval": "catalog.reload_interval",
	"duckdb_threads":          "catalog.threads",
	"duckdb_max_memory":       "catalog.max_memory",

	// Recommendation engine
	"recommend_seed":                      "recommend.seed",
	"recommend_default_max_artists":       "recommend.default_max_artists",
	"recommend_default_tracks_per_artist": "recommend.default_tracks_per_artist",
	"recommend_default_genre_weight":      "recommend.default_genre_weight",
	"recommend_default_diversity":         "recommend.default_diversity",
	"recommend_vibe_strength":             "recommend.vibe_strength",
	"recommend_candidate_pool":            "recommend.candidate_pool",
	"recommend_min_tracks_in_pool":        "recommend.min_tracks_in_pool",
	"recommend_noise_scale":               "recommend.noise_scale",
	"recommend_score_scale":               "recommend.score_scale",
	"recommend_rank_offset":               "recommend.rank_offset",
	"recommend_popularity_bias_strength":  "recommend.popularity_bias_strength",
	"recommend_max_artists":               "recommend.max_artists",
	"recommend_max_tracks_per_artist":     "recommend.max_tracks_per_artist",
	"recommend_max_seed_artists":          "recommend.max_seed_artists",
	"recommend_max_seed_tracks":           "recommend.max_seed_tracks",
	"recommend_max_genre_weight":          "recommend.max_genre_weight",
	"recommend_max_diversity":             "recommend.max_diversity",

	// Analytics
	"analytics_enabled":                   "analytics.enabled",
	"analytics_db_path":                   "analytics.db_path",
	"analytics_queue_size":                "analytics.queue_size",
	"analytics_batch_size":                "analytics.batch_size",
	"analytics_flush_interval":            "analytics.flush_interval",
	"analytics_dedupe_ttl":                "analytics.dedupe_ttl",
	"analytics_dedupe_threshold":          "analytics.dedupe_threshold",
	"analytics_dedupe_retain":             "analytics.dedupe_retain",
	"analytics_events_per_second":         "analytics.events_per_second",
	"analytics_burst":                     "analytics.burst",
	"analytics_breaker_failure_threshold": "analytics.breaker_failure_threshold",
	"analytics_breaker_timeout":           "analytics.breaker_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_PATH -> catalog.path
//   - DISABLE_RATE_LIMIT -> security.rate_limit_disabled
//
// Unmapped variables return "" so unrelated environment does not leak into config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
// Callers reload with LoadWithKoanf and guard their own copy of the config.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
