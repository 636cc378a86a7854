// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package catalogtest builds small in-memory track tables for tests.
package catalogtest

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/genre"
)

// Row describes one test track. Features are raw (unweighted) audio values;
// Genre is embedded with the default taxonomy.
type Row struct {
	ID         string
	Artist     string
	Name       string
	Genre      string
	Popularity float64
	Features   map[string]float64
}

// AudioColumns are the feature columns written by Frame.
var AudioColumns = []string{
	"popularity", "year", "duration_ms", "acousticness", "danceability", "energy",
	"valence", "instrumentalness", "speechiness", "loudness", "tempo", "liveness",
}

// Frame converts rows into a track table with genre embedding columns.
// Features missing from a row are written as NaN; popularity comes from
// Row.Popularity.
func Frame(rows []Row) *database.Frame {
	emb := genre.Build(genre.DefaultTaxonomy())
	f := database.NewFrame(len(rows))

	ids := make([]string, len(rows))
	artists := make([]string, len(rows))
	names := make([]string, len(rows))
	genres := make([]string, len(rows))
	for i, r := range rows {
		ids[i], artists[i], names[i], genres[i] = r.ID, r.Artist, r.Name, r.Genre
	}
	mustSet(f.SetText("track_id", ids))
	mustSet(f.SetText("artist_name", artists))
	mustSet(f.SetText("track_name", names))
	mustSet(f.SetText("genre", genres))

	for _, col := range AudioColumns {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			if col == "popularity" {
				vals[i] = r.Popularity
				continue
			}
			v, ok := r.Features[col]
			if !ok {
				v = math.NaN()
			}
			vals[i] = v
		}
		mustSet(f.SetNumeric(col, vals))
	}

	for j, name := range emb.ColumnNames() {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = emb.Vector(r.Genre)[j]
		}
		mustSet(f.SetNumeric(name, vals))
	}
	return f
}

// syntheticGenres are cycled across synthetic artists.
var syntheticGenres = []string{"rock", "alt-rock", "techno", "jazz", "hip-hop", "folk", "house", "metal", "pop", "ambient"}

// Synthetic generates artists*tracksPerArtist rows with reproducible
// features. Artist k is named "Artist k" and its tracks cluster around an
// artist-specific point so nearby artists are genuinely similar.
func Synthetic(artists, tracksPerArtist int, seed int64) []Row {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	rows := make([]Row, 0, artists*tracksPerArtist)

	for a := 0; a < artists; a++ {
		center := make(map[string]float64, len(AudioColumns))
		for _, col := range AudioColumns[1:] {
			center[col] = rng.Float64()
		}
		for t := 0; t < tracksPerArtist; t++ {
			features := make(map[string]float64, len(center))
			for _, col := range AudioColumns[1:] {
				features[col] = clamp01(center[col] + (rng.Float64()-0.5)*0.1)
			}
			rows = append(rows, Row{
				ID:         fmt.Sprintf("a%02d-t%03d", a, t),
				Artist:     fmt.Sprintf("Artist %d", a),
				Name:       fmt.Sprintf("Song %d-%d", a, t),
				Genre:      syntheticGenres[a%len(syntheticGenres)],
				Popularity: float64(tracksPerArtist-t) / float64(tracksPerArtist),
				Features:   features,
			})
		}
	}
	return rows
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func mustSet(err error) {
	if err != nil {
		panic(err)
	}
}
