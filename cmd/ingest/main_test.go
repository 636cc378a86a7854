// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEmbeddingsCmd_Text(t *testing.T) {
	out, err := execute(t, "embeddings", "rock", "techno")
	if err != nil {
		t.Fatalf("embeddings error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "2 genres, 22 dimensions") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "rock ") || !strings.Contains(lines[1], "rock=") {
		t.Errorf("rock line = %q", lines[1])
	}
}

func TestEmbeddingsCmd_JSON(t *testing.T) {
	out, err := execute(t, "embeddings", "--json", "punk")
	if err != nil {
		t.Fatalf("embeddings error = %v", err)
	}
	var rows []genreEmbedding
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Genre != "punk" {
		t.Fatalf("rows = %+v", rows)
	}
	dims := rows[0].Dimensions
	if len(dims) == 0 || dims[0].Family != "punk" {
		t.Errorf("strongest dimension = %+v, want punk first", dims)
	}
	for i := 1; i < len(dims); i++ {
		if dims[i].Weight > dims[i-1].Weight {
			t.Errorf("dimensions not sorted by weight: %+v", dims)
		}
	}
}

func TestEmbeddingsCmd_Errors(t *testing.T) {
	badTaxonomy := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(badTaxonomy, []byte("rock:\n  rock: 2.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown genre", []string{"embeddings", "polka-trance"}, "unknown genre"},
		{"invalid taxonomy", []string{"embeddings", "--taxonomy", badTaxonomy}, "weight"},
		{"missing taxonomy", []string{"embeddings", "--taxonomy", filepath.Join(t.TempDir(), "none.yaml")}, "none.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestProcessCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tracks.csv")
	csv := "artist_name,track_name,track_id,genre,popularity,year,energy\n" +
		"A,One,1,rock,10,2000,0.1\n" +
		"A,Two,2,rock,20,2001,0.2\n" +
		"B,Solo,3,jazz,30,2002,0.3\n"
	if err := os.WriteFile(input, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "catalog.parquet")

	out, err := execute(t, "process", "-i", input, "-o", output, "--threads", "1", "--report", "--log-format", "json")
	if err != nil {
		t.Fatalf("process error = %v", err)
	}
	var rep struct {
		OutputRows     int `json:"output_rows"`
		ArtistsDropped int `json:"artists_dropped"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.OutputRows != 2 || rep.ArtistsDropped != 1 {
		t.Errorf("report = %+v, want 2 rows and 1 dropped artist", rep)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}

	if _, err := execute(t, "process", "-i", input, "-o", output, "--min-songs", "0"); err == nil {
		t.Error("expected error for --min-songs 0")
	}
}
