// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package genre

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTaxonomy_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultTaxonomy().Validate(); err != nil {
		t.Fatalf("default taxonomy invalid: %v", err)
	}
}

func TestTaxonomy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tax     Taxonomy
		wantErr bool
	}{
		{name: "valid", tax: Taxonomy{"pop": {"pop": 1.0}}},
		{name: "empty", tax: Taxonomy{}, wantErr: true},
		{name: "zero weight", tax: Taxonomy{"pop": {"pop": 0}}, wantErr: true},
		{name: "weight above one", tax: Taxonomy{"pop": {"pop": 1.5}}, wantErr: true},
		{name: "negative weight", tax: Taxonomy{"pop": {"pop": -0.2}}, wantErr: true},
		{name: "blank family", tax: Taxonomy{"pop": {" ": 0.5}}, wantErr: true},
		{name: "blank genre", tax: Taxonomy{"": {"pop": 0.5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.tax.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTaxonomy) {
					t.Errorf("expected ErrInvalidTaxonomy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadTaxonomyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "taxonomy.yaml")
		content := "shoegaze:\n  alternative: 0.9\n  chill_ambient: 0.4\ndream-pop:\n  alternative: 0.7\n  pop: 0.5\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		tax, err := LoadTaxonomyFile(path)
		if err != nil {
			t.Fatalf("LoadTaxonomyFile: %v", err)
		}
		if got := tax["shoegaze"]["alternative"]; got != 0.9 {
			t.Errorf("shoegaze.alternative = %v, want 0.9", got)
		}
		want := []string{"alternative", "chill_ambient", "pop"}
		got := tax.Families()
		if len(got) != len(want) {
			t.Fatalf("Families() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Families()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("invalid weight", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("pop:\n  pop: 2\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadTaxonomyFile(path); !errors.Is(err, ErrInvalidTaxonomy) {
			t.Errorf("expected ErrInvalidTaxonomy, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTaxonomyFile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "malformed.yaml")
		if err := os.WriteFile(path, []byte("pop: [1, 2"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadTaxonomyFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
