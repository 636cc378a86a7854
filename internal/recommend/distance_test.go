// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"testing"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 0},
		{name: "scaled", a: []float64{1, 0}, b: []float64{5, 0}, want: 0},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 1},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: 2},
		{name: "zero query", a: []float64{0, 0}, b: []float64{1, 1}, want: 1},
		{name: "zero row", a: []float64{1, 1}, b: []float64{0, 0}, want: 1},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 1},
		{name: "empty", a: nil, b: nil, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CosineDistance(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("CosineDistance(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatrixDistances(t *testing.T) {
	rows := concatRows(
		artistRows("A", "techno", 1, 0, map[string]float64{"energy": 1}),
		artistRows("B", "", 1, 0, map[string]float64{"energy": 0.5}),
	)
	c := buildCatalog(t, rows)

	t.Run("euclidean", func(t *testing.T) {
		q := make([]float64, c.Audio().Cols())
		got := EuclideanDistances(q, c.Audio())
		// Only energy (weight 1.2) is non-zero.
		if !almostEqual(got[0], 1.2) || !almostEqual(got[1], 0.6) {
			t.Errorf("EuclideanDistances() = %v, want [1.2 0.6]", got)
		}
	})

	t.Run("cosine zero query is one everywhere", func(t *testing.T) {
		q := make([]float64, c.Genre().Cols())
		for i, d := range CosineDistances(q, c.Genre()) {
			if d != 1 {
				t.Errorf("row %d distance = %f, want 1", i, d)
			}
		}
	})

	t.Run("cosine unknown genre row is one", func(t *testing.T) {
		q := append([]float64(nil), c.Genre().Row(0)...)
		got := CosineDistances(q, c.Genre())
		if !almostEqual(got[0], 0) {
			t.Errorf("self distance = %f, want 0", got[0])
		}
		if got[1] != 1 {
			t.Errorf("unlabeled row distance = %f, want 1", got[1])
		}
	})
}
