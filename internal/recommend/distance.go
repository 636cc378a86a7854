// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"math"

	"github.com/tomtom215/vibe/internal/catalog"
)

// EuclideanDistances returns the distance from q to every row of m.
func EuclideanDistances(q []float64, m *catalog.Matrix) []float64 {
	out := make([]float64, m.Rows())
	for i := range out {
		var sum float64
		for j, v := range m.Row(i) {
			d := v - q[j]
			sum += d * d
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// CosineDistances returns 1 - cos(q, row) for every row of m. A zero-norm
// query or row has distance 1.
func CosineDistances(q []float64, m *catalog.Matrix) []float64 {
	out := make([]float64, m.Rows())
	qn := norm(q)
	if qn == 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i := range out {
		row := m.Row(i)
		rn := norm(row)
		if rn == 0 {
			out[i] = 1
			continue
		}
		var dot float64
		for j, v := range row {
			dot += v * q[j]
		}
		out[i] = 1 - dot/(qn*rn)
	}
	return out
}

// CosineDistance returns 1 - cos(a, b), or 1 when either has zero norm.
func CosineDistance(a, b []float64) float64 {
	an, bn := norm(a), norm(b)
	if an == 0 || bn == 0 {
		return 1
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return 1 - dot/(an*bn)
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
