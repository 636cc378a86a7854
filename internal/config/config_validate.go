// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks every section and returns all problems found, joined.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateCatalog(),
		c.validateRecommend(),
		c.validateAnalytics(),
		c.validateSecurity(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP read and write timeouts must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("HTTP_REQUEST_TIMEOUT must not be negative, got %v", c.Server.RequestTimeout))
	}
	return errors.Join(errs...)
}

func (c *Config) validateCatalog() error {
	var errs []error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		errs = append(errs, fmt.Errorf("CATALOG_PATH is required"))
	}
	if c.Catalog.ReloadInterval < 0 {
		errs = append(errs, fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative, got %v", c.Catalog.ReloadInterval))
	}
	if c.Catalog.Threads < 0 {
		errs = append(errs, fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Catalog.Threads))
	}
	return errors.Join(errs...)
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	var errs []error

	if r.CandidatePool < 1 {
		errs = append(errs, fmt.Errorf("recommend.candidate_pool must be at least 1, got %d", r.CandidatePool))
	}
	if r.MinTracksInPool < 1 {
		errs = append(errs, fmt.Errorf("recommend.min_tracks_in_pool must be at least 1, got %d", r.MinTracksInPool))
	}
	if r.MaxArtists < 1 || r.DefaultMaxArtists < 1 || r.DefaultMaxArtists > r.MaxArtists {
		errs = append(errs, fmt.Errorf("recommend.default_max_artists must be within [1, %d], got %d", r.MaxArtists, r.DefaultMaxArtists))
	}
	if r.MaxTracksPerArtist < 1 || r.DefaultTracksPerArtist < 1 || r.DefaultTracksPerArtist > r.MaxTracksPerArtist {
		errs = append(errs, fmt.Errorf("recommend.default_tracks_per_artist must be within [1, %d], got %d", r.MaxTracksPerArtist, r.DefaultTracksPerArtist))
	}
	if r.DefaultGenreWeight < 0 || r.DefaultGenreWeight > r.MaxGenreWeight {
		errs = append(errs, fmt.Errorf("recommend.default_genre_weight must be within [0, %g], got %g", r.MaxGenreWeight, r.DefaultGenreWeight))
	}
	if r.DefaultDiversity < 1 || r.DefaultDiversity > r.MaxDiversity {
		errs = append(errs, fmt.Errorf("recommend.default_diversity must be within [1, %g], got %g", r.MaxDiversity, r.DefaultDiversity))
	}
	if r.NoiseScale < 0 || r.PopularityBiasStrength < 0 || r.VibeStrength < 0 {
		errs = append(errs, fmt.Errorf("recommend noise_scale, popularity_bias_strength and vibe_strength must not be negative"))
	}
	if r.ScoreScale <= 0 || r.RankOffset <= 0 {
		errs = append(errs, fmt.Errorf("recommend score_scale and rank_offset must be positive"))
	}
	if r.MaxSeedArtists < 1 || r.MaxSeedTracks < 1 {
		errs = append(errs, fmt.Errorf("recommend max_seed_artists and max_seed_tracks must be at least 1"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateAnalytics() error {
	a := c.Analytics
	if !a.Enabled {
		return nil
	}

	var errs []error
	if a.QueueSize < 1 || a.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("ANALYTICS_QUEUE_SIZE and ANALYTICS_BATCH_SIZE must be at least 1"))
	}
	if a.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_FLUSH_INTERVAL must be positive, got %v", a.FlushInterval))
	}
	if a.DedupeTTL < 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_DEDUPE_TTL must not be negative, got %v", a.DedupeTTL))
	}
	if a.DedupeRetain > a.DedupeThreshold {
		errs = append(errs, fmt.Errorf("ANALYTICS_DEDUPE_RETAIN (%d) must not exceed ANALYTICS_DEDUPE_THRESHOLD (%d)", a.DedupeRetain, a.DedupeThreshold))
	}
	if a.EventsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_EVENTS_PER_SECOND must not be negative, got %g", a.EventsPerSecond))
	}
	if a.BreakerFailureThreshold == 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_BREAKER_FAILURE_THRESHOLD must be at least 1"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	var errs []error
	if c.Security.RateLimitReqs < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs))
	}
	if c.Security.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow))
	}
	return errors.Join(errs...)
}

// HasWildcardCORS reports whether any allowed origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	var errs []error
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
