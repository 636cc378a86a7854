// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package genre

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

func TestBuild_Normalization(t *testing.T) {
	t.Parallel()

	tax := DefaultTaxonomy()
	tax["placeholder"] = map[string]float64{}
	emb := Build(tax)

	for _, g := range emb.Genres() {
		n := Norm(emb.Vector(g))
		if len(tax[g]) == 0 {
			if n != 0 {
				t.Errorf("genre %q without families: norm = %v, want 0", g, n)
			}
			continue
		}
		if math.Abs(n-1) > tolerance {
			t.Errorf("genre %q: norm = %v, want 1", g, n)
		}
	}
}

func TestBuild_UnknownGenreIsZero(t *testing.T) {
	t.Parallel()

	emb := Build(DefaultTaxonomy())
	vec := emb.Vector("vaporwave")

	if len(vec) != emb.Dimensions() {
		t.Fatalf("len(vec) = %d, want %d", len(vec), emb.Dimensions())
	}
	if Norm(vec) != 0 {
		t.Errorf("expected zero vector for unknown genre, got %v", vec)
	}
	if emb.Known("vaporwave") {
		t.Error("Known(vaporwave) = true, want false")
	}
}

func TestBuild_SmallTaxonomy(t *testing.T) {
	t.Parallel()

	tax := Taxonomy{
		"a": {"x": 1.0},
		"b": {"x": 0.8, "y": 0.5},
	}
	raw := smear(tax, tax.Families())

	// a picks up y from b through the shared x: 1.0 * 0.8 * 0.5 * 0.5.
	wantA := []float64{1.0, 0.2}
	// b's own weights dominate anything a can propagate.
	wantB := []float64{0.8, 0.5}

	for i := range wantA {
		if math.Abs(raw["a"][i]-wantA[i]) > tolerance {
			t.Errorf("raw[a][%d] = %v, want %v", i, raw["a"][i], wantA[i])
		}
		if math.Abs(raw["b"][i]-wantB[i]) > tolerance {
			t.Errorf("raw[b][%d] = %v, want %v", i, raw["b"][i], wantB[i])
		}
	}

	emb := Build(tax)
	got := emb.Vector("a")
	norm := math.Sqrt(1.04)
	if math.Abs(got[0]-1/norm) > tolerance || math.Abs(got[1]-0.2/norm) > tolerance {
		t.Errorf("normalized a = %v", got)
	}
}

func TestBuild_DirectMembershipIsFloor(t *testing.T) {
	t.Parallel()

	tax := Taxonomy{
		"small": {"x": 0.1, "y": 1.0},
		"big":   {"y": 1.0, "x": 1.0},
	}
	raw := smear(tax, tax.Families())

	// Smearing from big lifts small.x to 1.0 * 1.0 * 1.0 * 0.5.
	if math.Abs(raw["small"][0]-0.5) > tolerance {
		t.Errorf("raw[small][x] = %v, want 0.5", raw["small"][0])
	}
	// Smearing never lowers a direct weight.
	if raw["small"][1] != 1.0 {
		t.Errorf("raw[small][y] = %v, want 1.0", raw["small"][1])
	}
}

func TestSmear_NeighborContributionBound(t *testing.T) {
	t.Parallel()

	tax := DefaultTaxonomy()
	families := tax.Families()
	raw := smear(tax, families)

	for g, memberships := range tax {
		for i, f2 := range families {
			bound := memberships[f2]
			for shared, wg := range memberships {
				for n, nm := range tax {
					wn, ok := nm[shared]
					if !ok || n == g {
						continue
					}
					maxN2 := 0.0
					for _, w := range nm {
						maxN2 = math.Max(maxN2, w)
					}
					bound = math.Max(bound, wg*wn*maxN2*SmearingDecay)
				}
			}
			if raw[g][i] > bound+tolerance {
				t.Errorf("%s[%s] = %v exceeds bound %v", g, f2, raw[g][i], bound)
			}
		}
	}
}

func TestBuild_RelatedGenresCloser(t *testing.T) {
	t.Parallel()

	emb := Build(DefaultTaxonomy())

	tests := []struct {
		anchor, near, far string
	}{
		{"rock", "alt-rock", "techno"},
		{"death-metal", "black-metal", "sleep"},
		{"deep-house", "chicago-house", "opera"},
		{"salsa", "samba", "grindcore"},
	}

	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			near := cosine(emb.Vector(tt.anchor), emb.Vector(tt.near))
			far := cosine(emb.Vector(tt.anchor), emb.Vector(tt.far))
			if near <= far {
				t.Errorf("sim(%s,%s)=%v should exceed sim(%s,%s)=%v",
					tt.anchor, tt.near, near, tt.anchor, tt.far, far)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	a := Build(DefaultTaxonomy())
	b := Build(DefaultTaxonomy())
	for _, g := range a.Genres() {
		va, vb := a.Vector(g), b.Vector(g)
		for i := range va {
			if va[i] != vb[i] {
				t.Fatalf("genre %q differs at %d: %v vs %v", g, i, va[i], vb[i])
			}
		}
	}
}

func TestEmbeddings_ColumnNames(t *testing.T) {
	t.Parallel()

	emb := Build(DefaultTaxonomy())
	cols := emb.ColumnNames()
	if len(cols) != 22 {
		t.Fatalf("expected 22 family dimensions, got %d", len(cols))
	}
	if cols[0] != "genre_acoustic_folk" {
		t.Errorf("cols[0] = %q, want genre_acoustic_folk", cols[0])
	}
	for i := 1; i < len(cols); i++ {
		if cols[i-1] >= cols[i] {
			t.Errorf("columns not sorted: %q before %q", cols[i-1], cols[i])
		}
	}
}

func TestEmbeddings_Describe(t *testing.T) {
	t.Parallel()

	emb := Build(DefaultTaxonomy())

	dims := emb.Describe("techno")
	if len(dims) == 0 {
		t.Fatal("expected dimensions for techno")
	}
	if dims[0].Family != "electronic_techno" {
		t.Errorf("strongest family = %q, want electronic_techno", dims[0].Family)
	}
	for i := 1; i < len(dims); i++ {
		if dims[i].Weight > dims[i-1].Weight {
			t.Errorf("dimensions not sorted at %d", i)
		}
	}

	if got := emb.Describe("unknown"); got != nil {
		t.Errorf("Describe(unknown) = %v, want nil", got)
	}
}

func TestVector_ReturnsCopy(t *testing.T) {
	t.Parallel()

	emb := Build(DefaultTaxonomy())
	v := emb.Vector("pop")
	v[0] = 42

	if emb.Vector("pop")[0] == 42 {
		t.Error("mutating the returned vector changed the embedding")
	}
}
