// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"github.com/tomtom215/vibe/internal/config"
	"github.com/tomtom215/vibe/internal/recommend"
)

// buildEngineConfig maps the flat service configuration onto the engine's
// grouped configuration.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Defaults: recommend.DefaultsConfig{
			MaxArtists:      cfg.DefaultMaxArtists,
			TracksPerArtist: cfg.DefaultTracksPerArtist,
			GenreWeight:     cfg.DefaultGenreWeight,
			Diversity:       cfg.DefaultDiversity,
			VibeStrength:    cfg.VibeStrength,
		},
		Ranking: recommend.RankingConfig{
			CandidatePool:          cfg.CandidatePool,
			MinTracksInPool:        cfg.MinTracksInPool,
			NoiseScale:             cfg.NoiseScale,
			ScoreScale:             cfg.ScoreScale,
			RankOffset:             cfg.RankOffset,
			PopularityBiasStrength: cfg.PopularityBiasStrength,
		},
		Limits: recommend.LimitsConfig{
			MaxArtists:         cfg.MaxArtists,
			MaxTracksPerArtist: cfg.MaxTracksPerArtist,
			MaxSeedArtists:     cfg.MaxSeedArtists,
			MaxSeedTracks:      cfg.MaxSeedTracks,
			MaxGenreWeight:     cfg.MaxGenreWeight,
			MaxDiversity:       cfg.MaxDiversity,
		},
		Seed: cfg.Seed,
	}
}
