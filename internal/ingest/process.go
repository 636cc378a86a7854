// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package ingest

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/dedup"
	"github.com/tomtom215/vibe/internal/genre"
)

// NumericColumns are parsed, gap-filled and min-max scaled when present.
// Only the catalog's audio features are written out; key and
// time_signature still take part in cleaning so their gaps do not skew
// downstream consumers of the raw file.
var NumericColumns = []string{
	"year", "key", "popularity", "acousticness", "danceability", "duration_ms",
	"energy", "instrumentalness", "liveness", "loudness", "speechiness", "tempo",
	"valence", "time_signature",
}

const (
	defaultYear       = 2020
	defaultPopularity = 25

	remixMarker = " remix"

	columnYear = "year"
)

// requiredColumns must be present in the raw input.
var requiredColumns = []string{catalog.ColumnArtist, catalog.ColumnTrack, catalog.ColumnTrackID, catalog.ColumnPopularity}

// indexColumns are unnamed index columns left behind by CSV exporters.
var indexColumns = []string{"Unnamed: 0", "", "column0"}

// Report summarizes one pipeline run.
type Report struct {
	InputRows      int      `json:"input_rows"`
	MergedRows     int      `json:"merged_rows,omitempty"`
	InvalidRows    int      `json:"invalid_rows"`
	DuplicateIDs   int      `json:"duplicate_ids"`
	RemixesRemoved int      `json:"remixes_removed"`
	VariantsMerged int      `json:"variants_merged"`
	ArtistsDropped int      `json:"artists_dropped"`
	RowsCapped     int      `json:"rows_capped"`
	OutputRows     int      `json:"output_rows"`
	Artists        int      `json:"artists"`
	GenreColumns   int      `json:"genre_columns"`
	UnknownGenres  []string `json:"unknown_genres,omitempty"`
}

// Process turns a raw track table into the encoded catalog table:
//
//  1. rows without an id or artist are dropped, and repeated ids keep the first row
//  2. remixes are dropped unless opts.KeepRemixes
//  3. numeric columns are parsed, gaps filled (year 2020, popularity 25,
//     otherwise the column mean) and scaled to [0, 1]
//  4. release variants of the same song by the same artist are merged
//  5. artists with fewer than opts.MinSongs tracks are dropped and the rest
//     capped at their opts.MaxSongs most popular tracks
//  6. genre embedding columns are attached; unknown genres get zeros
//
// The output is ordered by artist, then popularity descending.
func Process(in *database.Frame, opts Options, emb *genre.Embeddings) (*database.Frame, Report, error) {
	rep := Report{InputRows: in.Len()}

	var missing []string
	for _, col := range requiredColumns {
		if !in.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, rep, fmt.Errorf("%w: %s", catalog.ErrMissingColumns, strings.Join(missing, ", "))
	}

	frame := in.Take(filterRows(in, opts.KeepRemixes, &rep))
	if err := cleanNumeric(frame); err != nil {
		return nil, rep, err
	}

	order := selectTracks(frame, opts, &rep)
	frame = frame.Take(order)

	out, err := assemble(frame, emb, &rep)
	if err != nil {
		return nil, rep, err
	}
	rep.OutputRows = out.Len()
	return out, rep, nil
}

// filterRows returns the rows that survive step 1 and 2, in input order.
func filterRows(f *database.Frame, keepRemixes bool, rep *Report) []int {
	ids := textValues(f, catalog.ColumnTrackID)
	artists := textValues(f, catalog.ColumnArtist)
	names := textValues(f, catalog.ColumnTrack)

	rows := make([]int, 0, f.Len())
	seen := make(map[string]struct{}, f.Len())
	for i := 0; i < f.Len(); i++ {
		id, artist := strings.TrimSpace(ids[i]), strings.TrimSpace(artists[i])
		if id == "" || artist == "" {
			rep.InvalidRows++
			continue
		}
		if _, dup := seen[id]; dup {
			rep.DuplicateIDs++
			continue
		}
		seen[id] = struct{}{}
		if !keepRemixes && IsRemix(names[i]) {
			rep.RemixesRemoved++
			continue
		}
		rows = append(rows, i)
	}
	return rows
}

// IsRemix reports whether a track name marks a remix.
func IsRemix(name string) bool {
	return strings.Contains(strings.ToLower(name), remixMarker)
}

// cleanNumeric parses, fills and scales NumericColumns in place. The filled,
// unscaled year is kept as release_year for display.
func cleanNumeric(f *database.Frame) error {
	for _, col := range NumericColumns {
		if !f.Has(col) {
			continue
		}
		vals := parseNumeric(f, col)

		switch col {
		case columnYear:
			fillNaN(vals, defaultYear)
			year := make([]float64, len(vals))
			copy(year, vals)
			if err := f.SetNumeric(catalog.ColumnReleaseYear, year); err != nil {
				return err
			}
		case catalog.ColumnPopularity:
			fillNaN(vals, defaultPopularity)
		}
		fillNaN(vals, mean(vals))
		minMaxScale(vals)

		if err := f.SetNumeric(col, vals); err != nil {
			return err
		}
	}
	return nil
}

// parseNumeric returns a copy of col as numbers. Unparsable text is NaN.
func parseNumeric(f *database.Frame, col string) []float64 {
	if vals, ok := f.Numeric(col); ok {
		return append([]float64(nil), vals...)
	}
	text, _ := f.Text(col)
	out := make([]float64, len(text))
	for i, s := range text {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

func fillNaN(vals []float64, with float64) {
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = with
		}
	}
}

// mean of the non-NaN values, or 0 when there are none.
func mean(vals []float64) float64 {
	var sum float64
	var n int
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// minMaxScale maps vals onto [0, 1]. A constant column becomes all zeros.
func minMaxScale(vals []float64) {
	if len(vals) == 0 {
		return
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range vals {
		if span == 0 {
			vals[i] = 0
			continue
		}
		vals[i] = (v - lo) / span
	}
}

// selectTracks applies steps 4 and 5 and returns the kept rows in output order.
func selectTracks(f *database.Frame, opts Options, rep *Report) []int {
	raw := textValues(f, catalog.ColumnArtist)
	artists := make([]string, len(raw))
	for i, a := range raw {
		artists[i] = strings.TrimSpace(a)
	}
	names := textValues(f, catalog.ColumnTrack)
	popularity, _ := f.Numeric(catalog.ColumnPopularity)

	all := make([]int, f.Len())
	for i := range all {
		all[i] = i
	}
	distinct := dedup.Deduplicate(all, func(i int) dedup.Record {
		return dedup.Record{
			Name:          names[i],
			Artist:        artists[i],
			Popularity:    popularity[i],
			HasPopularity: true,
		}
	}, dedup.Options{GroupByArtist: true, PrioritizeOriginals: true})
	rep.VariantsMerged = len(all) - len(distinct)

	byArtist := make(map[string][]int)
	for _, i := range distinct {
		byArtist[artists[i]] = append(byArtist[artists[i]], i)
	}

	kept := make([]string, 0, len(byArtist))
	for a, rows := range byArtist {
		if len(rows) < opts.MinSongs {
			rep.ArtistsDropped++
			continue
		}
		kept = append(kept, a)
	}
	sort.Strings(kept)

	order := make([]int, 0, len(distinct))
	for _, a := range kept {
		rows := byArtist[a]
		sort.SliceStable(rows, func(x, y int) bool {
			return popularity[rows[x]] > popularity[rows[y]]
		})
		if opts.MaxSongs > 0 && len(rows) > opts.MaxSongs {
			rep.RowsCapped += len(rows) - opts.MaxSongs
			rows = rows[:opts.MaxSongs]
		}
		order = append(order, rows...)
	}
	rep.Artists = len(kept)
	return order
}

// assemble builds the output table: metadata, release year, audio features
// and genre embedding columns, in that order.
func assemble(f *database.Frame, emb *genre.Embeddings, rep *Report) (*database.Frame, error) {
	out := database.NewFrame(f.Len())

	for _, col := range []string{catalog.ColumnArtist, catalog.ColumnTrack, catalog.ColumnTrackID, catalog.ColumnGenre} {
		if !f.Has(col) {
			continue
		}
		vals := textValues(f, col)
		trimmed := make([]string, len(vals))
		for i, v := range vals {
			trimmed[i] = strings.TrimSpace(v)
		}
		if err := out.SetText(col, trimmed); err != nil {
			return nil, err
		}
	}

	numeric := make([]string, 0, len(catalog.AudioFeatures)+1)
	numeric = append(numeric, catalog.ColumnReleaseYear)
	for _, feat := range catalog.AudioFeatures {
		numeric = append(numeric, feat.Name)
	}
	for _, col := range numeric {
		if vals, ok := f.Numeric(col); ok {
			if err := out.SetNumeric(col, vals); err != nil {
				return nil, err
			}
		}
	}

	if !f.Has(catalog.ColumnGenre) {
		return out, nil
	}
	genres, _ := out.Text(catalog.ColumnGenre)
	columns := emb.ColumnNames()
	values := make([][]float64, len(columns))
	for d := range values {
		values[d] = make([]float64, f.Len())
	}

	unknown := make(map[string]struct{})
	cache := make(map[string][]float64)
	for i, g := range genres {
		if g == "" {
			continue
		}
		vec, ok := cache[g]
		if !ok {
			if !emb.Known(g) {
				unknown[g] = struct{}{}
			}
			vec = emb.Vector(g)
			cache[g] = vec
		}
		for d, w := range vec {
			values[d][i] = w
		}
	}
	for d, col := range columns {
		if err := out.SetNumeric(col, values[d]); err != nil {
			return nil, err
		}
	}

	rep.GenreColumns = len(columns)
	for g := range unknown {
		rep.UnknownGenres = append(rep.UnknownGenres, g)
	}
	sort.Strings(rep.UnknownGenres)
	return out, nil
}

// textValues returns a column as text whether it was read as text or numbers.
func textValues(f *database.Frame, col string) []string {
	if vals, ok := f.Text(col); ok {
		return vals
	}
	out := make([]string, f.Len())
	if vals, ok := f.Numeric(col); ok {
		for i, v := range vals {
			if !math.IsNaN(v) {
				out[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return out
}
