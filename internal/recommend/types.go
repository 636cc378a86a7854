// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"errors"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/genre"
)

// ErrInvalidRequest is returned when a request parameter is out of range.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// Request describes one recommendation query. Build it with
// Config.NewRequest so unset parameters carry the configured defaults.
type Request struct {
	// SeedArtists are artist names whose whole catalog forms part of the query.
	SeedArtists []string `json:"artists,omitempty"`

	// SeedTrackIDs are individual tracks forming part of the query.
	SeedTrackIDs []string `json:"track_ids,omitempty"`

	// ExcludeArtists are never returned.
	ExcludeArtists []string `json:"exclude_artists,omitempty"`

	// Diversity above 1 adds Gumbel noise to the ranking.
	Diversity float64 `json:"diversity"`

	// MaxArtists is the number of artists returned.
	MaxArtists int `json:"max_artists"`

	// GenreWeight multiplies the genre distance.
	GenreWeight float64 `json:"genre_weight"`

	// TracksPerArtist is the number of tracks returned per artist.
	TracksPerArtist int `json:"tracks_per_artist"`

	// Vibe maps slider names to values in [-1, 1].
	Vibe map[string]float64 `json:"vibe,omitempty"`

	// VibeStrength scales the vibe adjustments.
	VibeStrength float64 `json:"vibe_strength"`

	// PopularityBias in [-1, 1] favors popular (positive) or obscure
	// (negative) tracks. Zero disables it.
	PopularityBias float64 `json:"popularity_bias"`

	// RandomSeed, when non-zero, makes the diversity noise reproducible
	// for this request. Zero draws from the engine's stream.
	RandomSeed int64 `json:"seed,omitempty"`

	// Debug attaches raw features and profiles to the result.
	Debug bool `json:"debug"`
}

// HasSeeds reports whether the request names any seed at all.
func (r *Request) HasSeeds() bool {
	return len(r.SeedArtists) > 0 || len(r.SeedTrackIDs) > 0
}

// TrackResult is one recommended track.
type TrackResult struct {
	ID    string  `json:"track_id"`
	Name  string  `json:"track_name"`
	Year  int     `json:"year,omitempty"`
	Genre string  `json:"genre,omitempty"`
	Score float64 `json:"score"`

	// Features holds unweighted audio features; debug only.
	Features map[string]float64 `json:"features,omitempty"`
}

// ArtistResult is one recommended artist with its best tracks.
type ArtistResult struct {
	Artist string        `json:"artist"`
	Score  float64       `json:"score"`
	Tracks []TrackResult `json:"tracks"`

	// GenreProfile is the artist's genre profile; debug only.
	GenreProfile []catalog.GenreShare `json:"genre_profile,omitempty"`
}

// DebugInfo describes the query vectors.
type DebugInfo struct {
	// GenreProfile lists the non-zero genre dimensions of the query,
	// strongest first.
	GenreProfile []genre.Dimension `json:"genre_profile"`

	// AudioProfile holds the unweighted audio query after vibe adjustment.
	AudioProfile map[string]float64 `json:"audio_profile"`
}

// Metadata describes how a result was produced.
type Metadata struct {
	// HasMoreCandidates is true when more artists qualified than were returned.
	HasMoreCandidates bool `json:"has_more_candidates"`

	// SeedArtists and SeedTracks are the seeds that resolved in the catalog.
	SeedArtists []string `json:"seed_artists"`
	SeedTracks  []string `json:"seed_tracks"`

	// DroppedSeeds lists seeds that were not found.
	DroppedSeeds []string `json:"dropped_seeds,omitempty"`

	// CandidatePool is the number of nearest tracks considered.
	CandidatePool int `json:"candidate_pool"`

	// Noise reports whether diversity noise was applied.
	Noise bool `json:"noise"`

	Debug *DebugInfo `json:"debug,omitempty"`
}

// Result is an ordered list of recommended artists, best first.
type Result struct {
	Artists  []ArtistResult `json:"artists"`
	Metadata Metadata       `json:"metadata"`
}

// NewRequest returns a request carrying the configured defaults.
func (c *Config) NewRequest() Request {
	return Request{
		Diversity:       c.Defaults.Diversity,
		MaxArtists:      c.Defaults.MaxArtists,
		GenreWeight:     c.Defaults.GenreWeight,
		TracksPerArtist: c.Defaults.TracksPerArtist,
		VibeStrength:    c.Defaults.VibeStrength,
	}
}
