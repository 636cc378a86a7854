// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package ingest

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/genre"
)

var rawColumns = []string{"track_id", "artist_name", "track_name", "genre", "popularity", "year", "energy"}

// rawFrame builds an all-text frame the way the CSV reader does.
func rawFrame(t *testing.T, rows [][]string) *database.Frame {
	t.Helper()
	f := database.NewFrame(len(rows))
	for c, name := range rawColumns {
		vals := make([]string, len(rows))
		for r, row := range rows {
			vals[r] = row[c]
		}
		if err := f.SetText(name, vals); err != nil {
			t.Fatalf("SetText(%s): %v", name, err)
		}
	}
	return f
}

// fixtureRows exercises every filter step once.
var fixtureRows = [][]string{
	{"t1", "A", "Song One", "rock", "80", "2001", "0.5"},
	{"t2", "A", "Song One - Remastered 2011", "rock", "90", "2011", "0.6"},
	{"t3", "A", "Song Two (Club Remix)", "rock", "70", "2002", "0.8"},
	{"t4", "A", "Song Three", "rock", "", "", ""},
	{"t1", "B", "Repeated ID", "jazz", "50", "1999", "0.1"},
	{"", "B", "No ID", "jazz", "50", "1999", "0.1"},
	{"t5", "B", "Lonely", "jazz", "60", "1990", "0.2"},
	{"t6", "C", "Alpha", "not-a-genre", "10", "2005", "0.3"},
	{"t7", "C", "Beta", "not-a-genre", "20", "2006", "0.4"},
	{"t8", "C", "Gamma", "not-a-genre", "30", "2007", "0.9"},
}

func processFixture(t *testing.T) (*database.Frame, Report, *genre.Embeddings) {
	t.Helper()
	emb := genre.Build(genre.DefaultTaxonomy())
	opts := DefaultOptions()
	opts.MaxSongs = 2
	out, rep, err := Process(rawFrame(t, fixtureRows), opts, emb)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return out, rep, emb
}

func TestProcess_Report(t *testing.T) {
	t.Parallel()

	_, rep, emb := processFixture(t)

	want := Report{
		InputRows:      10,
		InvalidRows:    1,
		DuplicateIDs:   1,
		RemixesRemoved: 1,
		VariantsMerged: 1,
		ArtistsDropped: 1,
		RowsCapped:     1,
		OutputRows:     4,
		Artists:        2,
		GenreColumns:   len(emb.ColumnNames()),
		UnknownGenres:  []string{"not-a-genre"},
	}
	if !reflect.DeepEqual(rep, want) {
		t.Errorf("Report = %+v, want %+v", rep, want)
	}
}

func TestProcess_OrderAndColumns(t *testing.T) {
	t.Parallel()

	out, _, emb := processFixture(t)

	ids, _ := out.Text(catalog.ColumnTrackID)
	if want := []string{"t1", "t4", "t8", "t7"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("track ids = %v, want %v", ids, want)
	}

	cols := out.Columns()
	head := []string{"artist_name", "track_name", "track_id", "genre", "release_year", "popularity", "year", "energy"}
	if !reflect.DeepEqual(cols[:len(head)], head) {
		t.Errorf("leading columns = %v, want %v", cols[:len(head)], head)
	}
	if !reflect.DeepEqual(cols[len(head):], emb.ColumnNames()) {
		t.Errorf("genre columns = %v, want %v", cols[len(head):], emb.ColumnNames())
	}
	if out.IsNumeric(catalog.ColumnTrackID) {
		t.Error("track_id must stay text")
	}
}

func TestProcess_FillAndScale(t *testing.T) {
	t.Parallel()

	out, _, _ := processFixture(t)
	const tol = 1e-9

	popularity, _ := out.Numeric("popularity")
	releaseYear, _ := out.Numeric(catalog.ColumnReleaseYear)
	year, _ := out.Numeric("year")
	energy, _ := out.Numeric("energy")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"popularity scaled", popularity[0], 70.0 / 80.0},
		{"missing popularity filled with 25", popularity[1], 15.0 / 80.0},
		{"release year kept raw", releaseYear[0], 2001},
		{"missing release year filled with 2020", releaseYear[1], 2020},
		{"filled year is the maximum", year[1], 1},
		{"missing energy filled with mean", energy[1], (2.9/6 - 0.2) / 0.7},
		{"energy maximum", energy[2], 1},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > tol {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestProcess_GenreEmbedding(t *testing.T) {
	t.Parallel()

	out, _, emb := processFixture(t)

	rock := emb.Vector("rock")
	for d, col := range emb.ColumnNames() {
		vals, ok := out.Numeric(col)
		if !ok {
			t.Fatalf("column %s missing", col)
		}
		if vals[0] != rock[d] {
			t.Errorf("%s row 0 = %v, want %v", col, vals[0], rock[d])
		}
		if vals[2] != 0 {
			t.Errorf("%s row 2 (unknown genre) = %v, want 0", col, vals[2])
		}
	}
}

func TestProcess_KeepRemixes(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"r1", "A", "Anthem", "pop", "10", "2000", "0.1"},
		{"r2", "A", "Anthem Reworked Remix", "pop", "20", "2001", "0.2"},
	}
	emb := genre.Build(genre.DefaultTaxonomy())

	tests := []struct {
		name        string
		keepRemixes bool
		wantRows    int
		wantRemoved int
	}{
		{"remixes dropped", false, 0, 1},
		{"remixes kept", true, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := DefaultOptions()
			opts.KeepRemixes = tt.keepRemixes
			out, rep, err := Process(rawFrame(t, rows), opts, emb)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if out.Len() != tt.wantRows {
				t.Errorf("rows = %d, want %d", out.Len(), tt.wantRows)
			}
			if rep.RemixesRemoved != tt.wantRemoved {
				t.Errorf("RemixesRemoved = %d, want %d", rep.RemixesRemoved, tt.wantRemoved)
			}
		})
	}
}

func TestProcess_VariantsMergeAcrossArtistWhitespace(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"w1", "A", "Song", "rock", "50", "2000", "0.1"},
		{"w2", "A ", "Song (Live)", "rock", "40", "2001", "0.2"},
		{"w3", " A", "Other", "rock", "30", "2002", "0.3"},
	}
	out, rep, err := Process(rawFrame(t, rows), DefaultOptions(), genre.Build(genre.DefaultTaxonomy()))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if rep.VariantsMerged != 1 {
		t.Errorf("VariantsMerged = %d, want 1", rep.VariantsMerged)
	}
	if rep.Artists != 1 || rep.OutputRows != 2 {
		t.Errorf("Artists = %d, OutputRows = %d, want 1 and 2", rep.Artists, rep.OutputRows)
	}

	names, _ := out.Text(catalog.ColumnTrack)
	if want := []string{"Song", "Other"}; !reflect.DeepEqual(names, want) {
		t.Errorf("track names = %v, want %v", names, want)
	}
	artists, _ := out.Text(catalog.ColumnArtist)
	if want := []string{"A", "A"}; !reflect.DeepEqual(artists, want) {
		t.Errorf("artists = %v, want %v", artists, want)
	}
}

func TestProcess_MissingColumns(t *testing.T) {
	t.Parallel()

	f := database.NewFrame(1)
	if err := f.SetText(catalog.ColumnArtist, []string{"A"}); err != nil {
		t.Fatal(err)
	}
	_, _, err := Process(f, DefaultOptions(), genre.Build(genre.DefaultTaxonomy()))
	if !errors.Is(err, catalog.ErrMissingColumns) {
		t.Fatalf("Process() error = %v, want ErrMissingColumns", err)
	}
	for _, col := range []string{"track_name", "track_id", "popularity"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name %s", err, col)
		}
	}
}

func TestIsRemix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"Song (Club Remix)", true},
		{"Song - REMIX", true},
		{"Remix Culture", false},
		{"Song - Remastered", false},
		{"Song", false},
	}
	for _, tt := range tests {
		if got := IsRemix(tt.name); got != tt.want {
			t.Errorf("IsRemix(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMinMaxScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"range", []float64{2, 4, 6}, []float64{0, 0.5, 1}},
		{"constant", []float64{3, 3}, []float64{0, 0}},
		{"empty", []float64{}, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vals := append([]float64{}, tt.in...)
			minMaxScale(vals)
			if !reflect.DeepEqual(vals, tt.want) {
				t.Errorf("minMaxScale(%v) = %v, want %v", tt.in, vals, tt.want)
			}
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"defaults", func(*Options) {}, ""},
		{"no input", func(o *Options) { o.Input = "" }, "input path"},
		{"no output", func(o *Options) { o.Output = "" }, "output path"},
		{"zero min", func(o *Options) { o.MinSongs = 0 }, "min songs"},
		{"zero max", func(o *Options) { o.MaxSongs = 0 }, "max songs"},
		{"min above max", func(o *Options) { o.MinSongs, o.MaxSongs = 5, 3 }, "exceeds"},
		{"empty taxonomy", func(o *Options) { o.Taxonomy = genre.Taxonomy{} }, "no genres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
