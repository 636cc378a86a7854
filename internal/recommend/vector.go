// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"math"

	"github.com/tomtom215/vibe/internal/catalog"
)

// curvePoint maps an artist's track count to the number of tracks sampled.
type curvePoint struct {
	tracks  float64
	samples float64
}

// samplingCurve grows the sample sub-linearly so prolific artists do not
// dominate a query. Counts outside the curve clamp to its end points.
var samplingCurve = []curvePoint{
	{tracks: 5, samples: 5},
	{tracks: 20, samples: 12},
	{tracks: 50, samples: 25},
	{tracks: 80, samples: 30},
}

// SampleSize returns how many of an artist's n tracks represent the artist.
func SampleSize(n int) int {
	if n <= 0 {
		return 0
	}
	x := float64(n)
	var y float64
	switch {
	case x <= samplingCurve[0].tracks:
		y = samplingCurve[0].samples
	case x >= samplingCurve[len(samplingCurve)-1].tracks:
		y = samplingCurve[len(samplingCurve)-1].samples
	default:
		for i := 1; i < len(samplingCurve); i++ {
			lo, hi := samplingCurve[i-1], samplingCurve[i]
			if x <= hi.tracks {
				y = lo.samples + (x-lo.tracks)*(hi.samples-lo.samples)/(hi.tracks-lo.tracks)
				break
			}
		}
	}
	return min(int(y), n)
}

// ArtistVector averages the first SampleSize(len(rows)) rows of m. rows
// must be ordered most popular first. Returns nil for no rows.
func ArtistVector(m *catalog.Matrix, rows []int) []float64 {
	k := SampleSize(len(rows))
	if k == 0 {
		return nil
	}
	return meanRows(m, rows[:k])
}

// meanRows returns the column means of the given rows.
func meanRows(m *catalog.Matrix, rows []int) []float64 {
	out := make([]float64, m.Cols())
	for _, r := range rows {
		for j, v := range m.Row(r) {
			out[j] += v
		}
	}
	n := float64(len(rows))
	for j := range out {
		out[j] /= n
	}
	return out
}

// Seeds are the resolved inputs of a query.
type Seeds struct {
	// Artists are seed artists present in the catalog, deduplicated.
	Artists []string

	// TrackRows are seed track rows, deduplicated, in request order.
	TrackRows []int
}

// Empty reports whether no seed resolved.
func (s Seeds) Empty() bool {
	return len(s.Artists) == 0 && len(s.TrackRows) == 0
}

// weightedVector is one entity contributing to the query.
type weightedVector struct {
	vec    []float64
	weight float64
}

// RepresentativeVector combines seed artists and seed tracks into a single
// query vector over m. Each seed artist contributes its ArtistVector with
// weight 1. Seed tracks are grouped by artist; each group contributes its
// mean with weight sqrt(group size). An artist that is both a seed and has
// selected tracks has its whole-artist weight halved. Returns nil when no
// seed resolves.
func RepresentativeVector(c *catalog.Catalog, m *catalog.Matrix, seeds Seeds) []float64 {
	groups := make(map[string][]int)
	var order []string
	for _, r := range seeds.TrackRows {
		a := c.Track(r).Artist
		if _, ok := groups[a]; !ok {
			order = append(order, a)
		}
		groups[a] = append(groups[a], r)
	}

	entities := make([]weightedVector, 0, len(seeds.Artists)+len(order))
	for _, a := range seeds.Artists {
		vec := ArtistVector(m, c.ArtistRows(a))
		if vec == nil {
			continue
		}
		w := 1.0
		if _, ok := groups[a]; ok {
			w = 0.5
		}
		entities = append(entities, weightedVector{vec: vec, weight: w})
	}
	for _, a := range order {
		rows := groups[a]
		entities = append(entities, weightedVector{
			vec:    meanRows(m, rows),
			weight: math.Sqrt(float64(len(rows))),
		})
	}

	if len(entities) == 0 {
		return nil
	}

	out := make([]float64, m.Cols())
	var total float64
	for _, e := range entities {
		for j, v := range e.vec {
			out[j] += e.weight * v
		}
		total += e.weight
	}
	for j := range out {
		out[j] /= total
	}
	return out
}
