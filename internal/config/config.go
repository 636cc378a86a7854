// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout bounds a single recommendation request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// CatalogConfig holds the encoded catalog location and the DuckDB settings
// used to read it.
//
// Environment Variables:
//   - CATALOG_PATH: Parquet file written by the ingest tool
//   - CATALOG_RELOAD_INTERVAL: How often to check the file for changes (0 disables)
//   - DUCKDB_THREADS / DUCKDB_MAX_MEMORY: Reader resources
type CatalogConfig struct {
	Path           string        `koanf:"path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	Threads        int           `koanf:"threads"`
	MaxMemory      string        `koanf:"max_memory"`
}

// RecommendConfig holds request defaults, ranking constants and limits for
// the recommendation engine.
type RecommendConfig struct {
	// Seed feeds the engine's random stream. Requests without their own seed
	// draw from it.
	Seed int64 `koanf:"seed"`

	DefaultMaxArtists      int     `koanf:"default_max_artists"`
	DefaultTracksPerArtist int     `koanf:"default_tracks_per_artist"`
	DefaultGenreWeight     float64 `koanf:"default_genre_weight"`
	DefaultDiversity       float64 `koanf:"default_diversity"`
	VibeStrength           float64 `koanf:"vibe_strength"`

	CandidatePool          int     `koanf:"candidate_pool"`
	MinTracksInPool        int     `koanf:"min_tracks_in_pool"`
	NoiseScale             float64 `koanf:"noise_scale"`
	ScoreScale             float64 `koanf:"score_scale"`
	RankOffset             float64 `koanf:"rank_offset"`
	PopularityBiasStrength float64 `koanf:"popularity_bias_strength"`

	MaxArtists         int     `koanf:"max_artists"`
	MaxTracksPerArtist int     `koanf:"max_tracks_per_artist"`
	MaxSeedArtists     int     `koanf:"max_seed_artists"`
	MaxSeedTracks      int     `koanf:"max_seed_tracks"`
	MaxGenreWeight     float64 `koanf:"max_genre_weight"`
	MaxDiversity       float64 `koanf:"max_diversity"`
}

// AnalyticsConfig holds the recommendation event recorder settings.
type AnalyticsConfig struct {
	Enabled bool `koanf:"enabled"`

	// DBPath is the DuckDB file events are written to. Empty keeps them in memory.
	DBPath string `koanf:"db_path"`

	QueueSize     int           `koanf:"queue_size"`
	BatchSize     int           `koanf:"batch_size"`
	FlushInterval time.Duration `koanf:"flush_interval"`

	DedupeTTL       time.Duration `koanf:"dedupe_ttl"`
	DedupeThreshold int           `koanf:"dedupe_threshold"`
	DedupeRetain    int           `koanf:"dedupe_retain"`

	EventsPerSecond float64 `koanf:"events_per_second"`
	Burst           int     `koanf:"burst"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
