// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package genre

import (
	"math"
	"sort"
)

const (
	// SmearingDecay damps indirect affinities so broad, highly connected
	// genres do not absorb the traits of everything around them.
	SmearingDecay = 0.5

	// ColumnPrefix marks embedding dimensions in catalog files.
	ColumnPrefix = "genre_"
)

// ColumnName returns the catalog column name for a family dimension.
func ColumnName(family string) string {
	return ColumnPrefix + family
}

// Embeddings holds one L2-normalized vector per taxonomy genre.
// It is immutable after Build and safe for concurrent use.
type Embeddings struct {
	families []string
	vectors  map[string][]float64
}

// Build computes embeddings for every genre in the taxonomy.
func Build(t Taxonomy) *Embeddings {
	families := t.Families()
	raw := smear(t, families)

	vectors := make(map[string][]float64, len(raw))
	for g, vec := range raw {
		normalize(vec)
		vectors[g] = vec
	}
	return &Embeddings{families: families, vectors: vectors}
}

// smear returns the un-normalized vectors after direct membership and one
// hop of neighbor propagation.
func smear(t Taxonomy, families []string) map[string][]float64 {
	dim := make(map[string]int, len(families))
	for i, f := range families {
		dim[f] = i
	}

	// family -> genre -> weight
	members := make(map[string]map[string]float64, len(families))
	for g, memberships := range t {
		for f, w := range memberships {
			if members[f] == nil {
				members[f] = make(map[string]float64)
			}
			members[f][g] = w
		}
	}

	raw := make(map[string][]float64, len(t))
	for g, memberships := range t {
		vec := make([]float64, len(families))

		for f, w := range memberships {
			vec[dim[f]] = math.Max(vec[dim[f]], w)
		}

		for shared, wg := range memberships {
			for neighbor, wn := range members[shared] {
				if neighbor == g {
					continue
				}
				strength := wg * wn
				for target, wTarget := range t[neighbor] {
					i := dim[target]
					vec[i] = math.Max(vec[i], strength*wTarget*SmearingDecay)
				}
			}
		}
		raw[g] = vec
	}
	return raw
}

// normalize scales vec to unit L2 norm in place; a zero vector is left as is.
func normalize(vec []float64) {
	n := Norm(vec)
	if n == 0 {
		return
	}
	for i := range vec {
		vec[i] /= n
	}
}

// Norm returns the L2 norm of vec.
func Norm(vec []float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Families returns the dimension names in embedding order.
func (e *Embeddings) Families() []string {
	out := make([]string, len(e.families))
	copy(out, e.families)
	return out
}

// Dimensions returns the number of family dimensions.
func (e *Embeddings) Dimensions() int {
	return len(e.families)
}

// ColumnNames returns the prefixed column name of every dimension.
func (e *Embeddings) ColumnNames() []string {
	out := make([]string, len(e.families))
	for i, f := range e.families {
		out[i] = ColumnName(f)
	}
	return out
}

// Known reports whether the taxonomy defines genre.
func (e *Embeddings) Known(genre string) bool {
	_, ok := e.vectors[genre]
	return ok
}

// Vector returns a copy of the embedding for genre. Genres missing from the
// taxonomy get the zero vector, which ranking treats as "unknown genre".
func (e *Embeddings) Vector(genre string) []float64 {
	out := make([]float64, len(e.families))
	if vec, ok := e.vectors[genre]; ok {
		copy(out, vec)
	}
	return out
}

// Genres returns the sorted names of all embedded genres.
func (e *Embeddings) Genres() []string {
	out := make([]string, 0, len(e.vectors))
	for g := range e.vectors {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Dimension is one non-zero entry of an embedding.
type Dimension struct {
	Family string  `json:"family"`
	Weight float64 `json:"weight"`
}

// Describe lists the non-zero dimensions of genre's embedding, strongest first.
func (e *Embeddings) Describe(genre string) []Dimension {
	vec, ok := e.vectors[genre]
	if !ok {
		return nil
	}
	dims := make([]Dimension, 0, len(vec))
	for i, w := range vec {
		if w > 0 {
			dims = append(dims, Dimension{Family: e.families[i], Weight: w})
		}
	}
	sort.SliceStable(dims, func(i, j int) bool {
		if dims[i].Weight != dims[j].Weight {
			return dims[i].Weight > dims[j].Weight
		}
		return dims[i].Family < dims[j].Family
	})
	return dims
}
