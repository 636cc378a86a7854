// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

// Column names of the track table.
const (
	ColumnArtist      = "artist_name"
	ColumnTrack       = "track_name"
	ColumnTrackID     = "track_id"
	ColumnGenre       = "genre"
	ColumnPopularity  = "popularity"
	ColumnReleaseYear = "release_year"
)

// RequiredColumns must be present for a catalog to load.
var RequiredColumns = []string{ColumnArtist, ColumnTrack, ColumnTrackID}

// Feature is an audio feature column and its distance weight.
type Feature struct {
	Name   string
	Weight float64
}

// AudioFeatures lists the known audio features in matrix column order.
// Perceptual features carry the most weight; popularity, year and duration
// the least.
var AudioFeatures = []Feature{
	{Name: "popularity", Weight: 0.6},
	{Name: "year", Weight: 0.6},
	{Name: "duration_ms", Weight: 0.4},
	{Name: "acousticness", Weight: 1.2},
	{Name: "danceability", Weight: 1.2},
	{Name: "energy", Weight: 1.2},
	{Name: "valence", Weight: 1.2},
	{Name: "instrumentalness", Weight: 1.2},
	{Name: "speechiness", Weight: 1.0},
	{Name: "loudness", Weight: 1.0},
	{Name: "tempo", Weight: 1.0},
	{Name: "liveness", Weight: 1.0},
}

// FeatureWeight returns the weight of a known audio feature.
func FeatureWeight(name string) (float64, bool) {
	for _, f := range AudioFeatures {
		if f.Name == name {
			return f.Weight, true
		}
	}
	return 0, false
}
