// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"encoding/json"
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Defaults are applied to request parameters the caller leaves unset.
	Defaults DefaultsConfig `json:"defaults"`

	// Ranking contains the scoring constants of the ranking pipeline.
	Ranking RankingConfig `json:"ranking"`

	// Limits contains operational limits on request parameters.
	Limits LimitsConfig `json:"limits"`

	// Seed is the random seed for the diversity noise stream.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// DefaultsConfig holds per-request defaults.
type DefaultsConfig struct {
	// MaxArtists is the number of artists returned.
	// Default: 6.
	MaxArtists int `json:"max_artists"`

	// TracksPerArtist is the number of tracks returned and summed per artist.
	// Default: 4.
	TracksPerArtist int `json:"tracks_per_artist"`

	// GenreWeight multiplies the genre distance before combining it with
	// the audio distance.
	// Default: 2.0.
	GenreWeight float64 `json:"genre_weight"`

	// Diversity above 1 perturbs the ranking with Gumbel noise.
	// Default: 1.0.
	Diversity float64 `json:"diversity"`

	// VibeStrength scales every vibe slider adjustment.
	// Default: 0.5.
	VibeStrength float64 `json:"vibe_strength"`
}

// RankingConfig holds the constants of the scoring pipeline.
type RankingConfig struct {
	// CandidatePool is the number of nearest tracks considered.
	// Default: 1000.
	CandidatePool int `json:"candidate_pool"`

	// MinTracksInPool is the number of pool tracks an artist needs to qualify.
	// Default: 2.
	MinTracksInPool int `json:"min_tracks_in_pool"`

	// NoiseScale multiplies (diversity - 1) to give the Gumbel noise scale.
	// Default: 0.1.
	NoiseScale float64 `json:"noise_scale"`

	// ScoreScale is the numerator of the rank score when noise is on.
	// Default: 100.
	ScoreScale float64 `json:"score_scale"`

	// RankOffset is added to the rank in the noisy score denominator.
	// Default: 10.
	RankOffset float64 `json:"rank_offset"`

	// PopularityBiasStrength scales the popularity bias term.
	// Default: 0.5.
	PopularityBiasStrength float64 `json:"popularity_bias_strength"`
}

// LimitsConfig bounds request parameters.
type LimitsConfig struct {
	// MaxArtists is the largest accepted max_artists.
	// Default: 50.
	MaxArtists int `json:"max_artists"`

	// MaxTracksPerArtist is the largest accepted tracks_per_artist.
	// Default: 20.
	MaxTracksPerArtist int `json:"max_tracks_per_artist"`

	// MaxSeedArtists caps the number of seed artists per request.
	// Default: 50.
	MaxSeedArtists int `json:"max_seed_artists"`

	// MaxSeedTracks caps the number of seed track IDs per request.
	// Default: 200.
	MaxSeedTracks int `json:"max_seed_tracks"`

	// MaxGenreWeight is the largest accepted genre_weight.
	// Default: 10.
	MaxGenreWeight float64 `json:"max_genre_weight"`

	// MaxDiversity is the largest accepted diversity.
	// Default: 10.
	MaxDiversity float64 `json:"max_diversity"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			MaxArtists:      6,
			TracksPerArtist: 4,
			GenreWeight:     2.0,
			Diversity:       1.0,
			VibeStrength:    0.5,
		},
		Ranking: RankingConfig{
			CandidatePool:          1000,
			MinTracksInPool:        2,
			NoiseScale:             0.1,
			ScoreScale:             100,
			RankOffset:             10,
			PopularityBiasStrength: 0.5,
		},
		Limits: LimitsConfig{
			MaxArtists:         50,
			MaxTracksPerArtist: 20,
			MaxSeedArtists:     50,
			MaxSeedTracks:      200,
			MaxGenreWeight:     10,
			MaxDiversity:       10,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Ranking.CandidatePool < 1 {
		return fmt.Errorf("ranking.candidate_pool must be positive, got %d", c.Ranking.CandidatePool)
	}
	if c.Ranking.MinTracksInPool < 1 {
		return fmt.Errorf("ranking.min_tracks_in_pool must be positive, got %d", c.Ranking.MinTracksInPool)
	}
	if c.Ranking.NoiseScale < 0 {
		return fmt.Errorf("ranking.noise_scale must be non-negative, got %f", c.Ranking.NoiseScale)
	}
	if c.Ranking.ScoreScale <= 0 {
		return fmt.Errorf("ranking.score_scale must be positive, got %f", c.Ranking.ScoreScale)
	}
	if c.Ranking.RankOffset <= 0 {
		return fmt.Errorf("ranking.rank_offset must be positive, got %f", c.Ranking.RankOffset)
	}
	if c.Ranking.PopularityBiasStrength < 0 {
		return fmt.Errorf("ranking.popularity_bias_strength must be non-negative, got %f", c.Ranking.PopularityBiasStrength)
	}

	if c.Limits.MaxArtists < 1 {
		return fmt.Errorf("limits.max_artists must be positive, got %d", c.Limits.MaxArtists)
	}
	if c.Limits.MaxTracksPerArtist < 1 {
		return fmt.Errorf("limits.max_tracks_per_artist must be positive, got %d", c.Limits.MaxTracksPerArtist)
	}
	if c.Limits.MaxSeedArtists < 1 {
		return fmt.Errorf("limits.max_seed_artists must be positive, got %d", c.Limits.MaxSeedArtists)
	}
	if c.Limits.MaxSeedTracks < 1 {
		return fmt.Errorf("limits.max_seed_tracks must be positive, got %d", c.Limits.MaxSeedTracks)
	}
	if c.Limits.MaxGenreWeight < 0 {
		return fmt.Errorf("limits.max_genre_weight must be non-negative, got %f", c.Limits.MaxGenreWeight)
	}
	if c.Limits.MaxDiversity < 1 {
		return fmt.Errorf("limits.max_diversity must be >= 1, got %f", c.Limits.MaxDiversity)
	}

	if c.Defaults.MaxArtists < 1 || c.Defaults.MaxArtists > c.Limits.MaxArtists {
		return fmt.Errorf("defaults.max_artists must be in [1, %d], got %d", c.Limits.MaxArtists, c.Defaults.MaxArtists)
	}
	if c.Defaults.TracksPerArtist < 1 || c.Defaults.TracksPerArtist > c.Limits.MaxTracksPerArtist {
		return fmt.Errorf("defaults.tracks_per_artist must be in [1, %d], got %d", c.Limits.MaxTracksPerArtist, c.Defaults.TracksPerArtist)
	}
	if c.Defaults.GenreWeight < 0 || c.Defaults.GenreWeight > c.Limits.MaxGenreWeight {
		return fmt.Errorf("defaults.genre_weight must be in [0, %g], got %f", c.Limits.MaxGenreWeight, c.Defaults.GenreWeight)
	}
	if c.Defaults.Diversity < 0 || c.Defaults.Diversity > c.Limits.MaxDiversity {
		return fmt.Errorf("defaults.diversity must be in [0, %g], got %f", c.Limits.MaxDiversity, c.Defaults.Diversity)
	}
	if c.Defaults.VibeStrength < 0 {
		return fmt.Errorf("defaults.vibe_strength must be non-negative, got %f", c.Defaults.VibeStrength)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs hold value types only.
	return &Config{
		Defaults: c.Defaults,
		Ranking:  c.Ranking,
		Limits:   c.Limits,
		Seed:     c.Seed,
	}
}

// String returns a JSON representation of the configuration.
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
