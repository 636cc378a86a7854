// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/dedup"
	"github.com/tomtom215/vibe/internal/genre"
)

const (
	// genreProfileSize is the number of genres kept per artist profile.
	genreProfileSize = 3

	// genreProfileMinPercent drops genres at or below this share of an
	// artist's tracks.
	genreProfileMinPercent = 1.0
)

// Track is one catalog row.
type Track struct {
	Row         int     `json:"-"`
	ID          string  `json:"track_id"`
	Artist      string  `json:"artist_name"`
	Name        string  `json:"track_name"`
	Genre       string  `json:"genre,omitempty"`
	Popularity  float64 `json:"popularity"`
	ReleaseYear int     `json:"year,omitempty"`
}

// GenreShare is one entry of an artist's genre profile.
type GenreShare struct {
	Genre   string  `json:"genre"`
	Percent float64 `json:"percent"`
}

// Catalog is the immutable, indexed track table.
type Catalog struct {
	tracks  []Track
	idIndex map[string]int

	audio         *Matrix
	audioFeatures []Feature
	genre         *Matrix
	genreFamilies []string

	artists      []string
	artistsLower []string
	artistRows   map[string][]int
	profiles     map[string][]GenreShare

	loadedAt time.Time
}

// Build indexes a track table. Rows with an empty track ID or artist, and
// repeated track IDs after the first, are skipped and logged.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func Build(frame *database.Frame, logger zerolog.Logger) (*Catalog, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !frame.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	ids := stringColumn(frame, ColumnTrackID)
	artistNames := stringColumn(frame, ColumnArtist)
	trackNames := stringColumn(frame, ColumnTrack)
	genres := stringColumn(frame, ColumnGenre)
	popularity := numericColumn(frame, ColumnPopularity)
	years := numericColumn(frame, ColumnReleaseYear)

	keep := make([]int, 0, frame.Len())
	seen := make(map[string]struct{}, frame.Len())
	var invalid, duplicates int
	for i := 0; i < frame.Len(); i++ {
		if ids[i] == "" || artistNames[i] == "" {
			invalid++
			continue
		}
		if _, dup := seen[ids[i]]; dup {
			duplicates++
			continue
		}
		seen[ids[i]] = struct{}{}
		keep = append(keep, i)
	}
	if invalid > 0 || duplicates > 0 {
		logger.Warn().
			Int("invalid_rows", invalid).
			Int("duplicate_ids", duplicates).
			Msg("Skipped catalog rows")
	}

	c := &Catalog{
		tracks:     make([]Track, len(keep)),
		idIndex:    make(map[string]int, len(keep)),
		artistRows: make(map[string][]int),
		loadedAt:   time.Now().UTC(),
	}

	for row, src := range keep {
		t := Track{
			Row:    row,
			ID:     ids[src],
			Artist: artistNames[src],
			Name:   trackNames[src],
			Genre:  genres[src],
		}
		if p := popularity[src]; !math.IsNaN(p) {
			t.Popularity = p
		}
		if y := years[src]; !math.IsNaN(y) {
			t.ReleaseYear = int(y)
		}
		c.tracks[row] = t
		c.idIndex[t.ID] = row
		c.artistRows[t.Artist] = append(c.artistRows[t.Artist], row)
	}

	c.buildAudioMatrix(frame, keep)
	c.buildGenreMatrix(frame, keep)
	c.indexArtists()

	logger.Debug().
		Int("tracks", len(c.tracks)).
		Int("artists", len(c.artists)).
		Int("audio_features", len(c.audioFeatures)).
		Int("genre_dimensions", len(c.genreFamilies)).
		Msg("Catalog indexed")

	return c, nil
}

// stringColumn returns a column as text. Numeric columns are formatted and
// absent columns are all empty.
func stringColumn(frame *database.Frame, name string) []string {
	if vals, ok := frame.Text(name); ok {
		return vals
	}
	out := make([]string, frame.Len())
	if vals, ok := frame.Numeric(name); ok {
		for i, v := range vals {
			if !math.IsNaN(v) {
				out[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return out
}

// numericColumn returns a numeric column, or all NaN when it is absent or text.
func numericColumn(frame *database.Frame, name string) []float64 {
	if vals, ok := frame.Numeric(name); ok {
		return vals
	}
	out := make([]float64, frame.Len())
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func (c *Catalog) buildAudioMatrix(frame *database.Frame, keep []int) {
	var cols [][]float64
	for _, f := range AudioFeatures {
		if vals, ok := frame.Numeric(f.Name); ok {
			c.audioFeatures = append(c.audioFeatures, f)
			cols = append(cols, vals)
		}
	}

	c.audio = NewMatrix(len(keep), len(c.audioFeatures))
	for row, src := range keep {
		for j, f := range c.audioFeatures {
			if v := cols[j][src]; !math.IsNaN(v) {
				c.audio.set(row, j, v*f.Weight)
			}
		}
	}
}

func (c *Catalog) buildGenreMatrix(frame *database.Frame, keep []int) {
	var cols [][]float64
	for _, name := range frame.Columns() {
		if !strings.HasPrefix(name, genre.ColumnPrefix) {
			continue
		}
		vals, ok := frame.Numeric(name)
		if !ok {
			continue
		}
		c.genreFamilies = append(c.genreFamilies, strings.TrimPrefix(name, genre.ColumnPrefix))
		cols = append(cols, vals)
	}

	c.genre = NewMatrix(len(keep), len(cols))
	for row, src := range keep {
		for j := range cols {
			if v := cols[j][src]; !math.IsNaN(v) {
				c.genre.set(row, j, v)
			}
		}
	}
}

func (c *Catalog) indexArtists() {
	totals := make(map[string]float64, len(c.artistRows))
	c.profiles = make(map[string][]GenreShare, len(c.artistRows))

	for artist, rows := range c.artistRows {
		sort.SliceStable(rows, func(i, j int) bool {
			pi, pj := c.tracks[rows[i]].Popularity, c.tracks[rows[j]].Popularity
			if pi != pj {
				return pi > pj
			}
			return rows[i] < rows[j]
		})

		var sum float64
		for _, r := range rows {
			sum += c.tracks[r].Popularity
		}
		totals[artist] = sum
		c.profiles[artist] = c.genreProfile(rows)
	}

	c.artists = make([]string, 0, len(totals))
	for artist := range totals {
		c.artists = append(c.artists, artist)
	}
	sort.Slice(c.artists, func(i, j int) bool {
		ti, tj := totals[c.artists[i]], totals[c.artists[j]]
		if ti != tj {
			return ti > tj
		}
		return c.artists[i] < c.artists[j]
	})

	c.artistsLower = make([]string, len(c.artists))
	for i, a := range c.artists {
		c.artistsLower[i] = strings.ToLower(a)
	}
}

// genreProfile computes the top genres among rows with a genre label.
func (c *Catalog) genreProfile(rows []int) []GenreShare {
	counts := make(map[string]int)
	labeled := 0
	for _, r := range rows {
		if g := c.tracks[r].Genre; g != "" {
			counts[g]++
			labeled++
		}
	}
	if labeled == 0 {
		return nil
	}

	shares := make([]GenreShare, 0, len(counts))
	for g, n := range counts {
		pct := float64(n) / float64(labeled) * 100
		if pct > genreProfileMinPercent {
			shares = append(shares, GenreShare{Genre: g, Percent: math.Round(pct*10) / 10})
		}
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Genre < shares[j].Genre
	})
	if len(shares) > genreProfileSize {
		shares = shares[:genreProfileSize]
	}
	return shares
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Track returns the track at row i.
func (c *Catalog) Track(i int) Track {
	return c.tracks[i]
}

// TrackIndex resolves a track ID to its row index.
func (c *Catalog) TrackIndex(id string) (int, bool) {
	i, ok := c.idIndex[id]
	return i, ok
}

// HasArtist reports whether the catalog has tracks by artist.
func (c *Catalog) HasArtist(artist string) bool {
	_, ok := c.artistRows[artist]
	return ok
}

// ArtistRows returns the artist's row indices, most popular first. The slice
// is shared; callers must not modify it.
func (c *Catalog) ArtistRows(artist string) []int {
	return c.artistRows[artist]
}

// ArtistCount returns the number of distinct artists.
func (c *Catalog) ArtistCount() int {
	return len(c.artists)
}

// Artists returns artist names ordered by total popularity. A non-empty query
// keeps names containing it, case-insensitively. limit <= 0 means no limit.
func (c *Catalog) Artists(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	capacity := len(c.artists)
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	out := make([]string, 0, capacity)
	for i, a := range c.artists {
		if q != "" && !strings.Contains(c.artistsLower[i], q) {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ArtistTracks returns every track by artist sorted by popularity then name,
// with release variants collapsed.
func (c *Catalog) ArtistTracks(artist string) ([]Track, error) {
	rows, ok := c.artistRows[artist]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtistNotFound, artist)
	}

	tracks := make([]Track, len(rows))
	for i, r := range rows {
		tracks[i] = c.tracks[r]
	}
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Popularity != tracks[j].Popularity {
			return tracks[i].Popularity > tracks[j].Popularity
		}
		return tracks[i].Name < tracks[j].Name
	})

	return dedup.Deduplicate(tracks, func(t Track) dedup.Record {
		return dedup.Record{Name: t.Name, Artist: t.Artist, Popularity: t.Popularity, HasPopularity: true}
	}, dedup.DefaultOptions()), nil
}

// GenreProfile returns the artist's top genres by share of labeled tracks.
func (c *Catalog) GenreProfile(artist string) ([]GenreShare, error) {
	if _, ok := c.artistRows[artist]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtistNotFound, artist)
	}
	profile := c.profiles[artist]
	out := make([]GenreShare, len(profile))
	copy(out, profile)
	return out, nil
}

// Audio returns the weighted audio-feature matrix.
func (c *Catalog) Audio() *Matrix {
	return c.audio
}

// AudioFeatures returns the features present in the audio matrix, in column order.
func (c *Catalog) AudioFeatures() []Feature {
	out := make([]Feature, len(c.audioFeatures))
	copy(out, c.audioFeatures)
	return out
}

// Genre returns the genre-embedding matrix.
func (c *Catalog) Genre() *Matrix {
	return c.genre
}

// GenreFamilies returns the embedding dimension names in column order.
func (c *Catalog) GenreFamilies() []string {
	out := make([]string, len(c.genreFamilies))
	copy(out, c.genreFamilies)
	return out
}

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}
