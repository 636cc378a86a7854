// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package models

import (
	"time"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/recommend"
)

// RecommendRequest is the POST /api/v1/recommend body. Pointer fields are
// optional; nil takes the server default.
//
// The tags bound shapes only. Configured limits are enforced by the engine.
type RecommendRequest struct {
	Artists         []string           `json:"artists" validate:"max=1000,dive,notblank,max=512"`
	TrackIDs        []string           `json:"track_ids" validate:"max=1000,dive,notblank,max=128"`
	ExcludeArtists  []string           `json:"exclude_artists" validate:"max=1000,dive,max=512"`
	Diversity       *float64           `json:"diversity" validate:"omitempty,gte=0"`
	MaxArtists      *int               `json:"max_artists" validate:"omitempty,min=1"`
	GenreWeight     *float64           `json:"genre_weight" validate:"omitempty,gte=0"`
	TracksPerArtist *int               `json:"tracks_per_artist" validate:"omitempty,min=1"`
	Vibe            map[string]float64 `json:"vibe" validate:"max=8,dive,keys,vibe,endkeys"`
	VibeStrength    *float64           `json:"vibe_strength" validate:"omitempty,gte=0"`
	PopularityBias  *float64           `json:"popularity_bias" validate:"omitempty,gte=-1,lte=1"`
	Seed            *int64             `json:"seed"`
	Debug           bool               `json:"debug"`
	ClientID        string             `json:"client_id" validate:"max=128"`
}

// RecommendResponse is the data of a successful recommendation.
type RecommendResponse struct {
	Recommendations []recommend.ArtistResult `json:"recommendations"`
	Metadata        recommend.Metadata       `json:"metadata"`
}

// ArtistListResponse is the data of GET /api/v1/artists.
type ArtistListResponse struct {
	Artists []string `json:"artists"`
	Count   int      `json:"count"`
	Total   int      `json:"total"`
}

// ArtistTracksResponse is the data of GET /api/v1/artists/{name}/tracks.
type ArtistTracksResponse struct {
	Artist string          `json:"artist"`
	Tracks []catalog.Track `json:"tracks"`
	Count  int             `json:"count"`
}

// ArtistGenresResponse is the data of GET /api/v1/artists/{name}/genres.
type ArtistGenresResponse struct {
	Artist string               `json:"artist"`
	Genres []catalog.GenreShare `json:"genres"`
}

// HealthResponse is the data of the health endpoints.
type HealthResponse struct {
	Status        string     `json:"status"`
	Version       string     `json:"version,omitempty"`
	CatalogLoaded bool       `json:"catalog_loaded"`
	TracksLoaded  int        `json:"tracks_loaded"`
	ArtistsLoaded int        `json:"artists_loaded"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	Uptime        float64    `json:"uptime_seconds"`
}
