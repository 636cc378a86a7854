// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/catalog/catalogtest"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// buildCatalog indexes rows or fails the test.
func buildCatalog(t *testing.T, rows []catalogtest.Row) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build(catalogtest.Frame(rows), zerolog.Nop())
	if err != nil {
		t.Fatalf("catalog.Build() error = %v", err)
	}
	return c
}

// uniform sets every non-popularity audio feature to v.
func uniform(v float64) map[string]float64 {
	out := make(map[string]float64, len(catalogtest.AudioColumns)-1)
	for _, col := range catalogtest.AudioColumns[1:] {
		out[col] = v
	}
	return out
}

// with returns a copy of features with overrides applied.
func with(features map[string]float64, overrides map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(features)+len(overrides))
	for k, v := range features {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// artistRows builds n identical tracks for artist.
func artistRows(artist, genreName string, n int, popularity float64, features map[string]float64) []catalogtest.Row {
	rows := make([]catalogtest.Row, n)
	for i := range rows {
		rows[i] = catalogtest.Row{
			ID:         fmt.Sprintf("%s-%d", artist, i),
			Artist:     artist,
			Name:       fmt.Sprintf("%s song %d", artist, i),
			Genre:      genreName,
			Popularity: popularity,
			Features:   features,
		}
	}
	return rows
}

func concatRows(groups ...[]catalogtest.Row) []catalogtest.Row {
	var out []catalogtest.Row
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func artistNames(res *Result) []string {
	names := make([]string, len(res.Artists))
	for i, a := range res.Artists {
		names[i] = a.Artist
	}
	return names
}
