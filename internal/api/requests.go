// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"github.com/tomtom215/vibe/internal/models"
	"github.com/tomtom215/vibe/internal/recommend"
)

// engineRequest overlays the fields present in body onto the engine defaults.
func engineRequest(defaults recommend.Request, body *models.RecommendRequest) recommend.Request {
	req := defaults
	req.SeedArtists = body.Artists
	req.SeedTrackIDs = body.TrackIDs
	req.ExcludeArtists = body.ExcludeArtists
	req.Vibe = body.Vibe
	req.Debug = body.Debug

	if body.Diversity != nil {
		req.Diversity = *body.Diversity
	}
	if body.MaxArtists != nil {
		req.MaxArtists = *body.MaxArtists
	}
	if body.GenreWeight != nil {
		req.GenreWeight = *body.GenreWeight
	}
	if body.TracksPerArtist != nil {
		req.TracksPerArtist = *body.TracksPerArtist
	}
	if body.VibeStrength != nil {
		req.VibeStrength = *body.VibeStrength
	}
	if body.PopularityBias != nil {
		req.PopularityBias = *body.PopularityBias
	}
	if body.Seed != nil {
		req.RandomSeed = *body.Seed
	}
	return req
}
