// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"math"
	"math/rand"
	"sort"
)

// candidate is a track row and its combined distance to the query.
type candidate struct {
	row      int
	distance float64
}

// closer orders by distance, then by row for a stable tie-break.
func closer(a, b candidate) bool {
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.row < b.row
}

// nearest returns the k rows with the smallest distance, nearest first.
// A bounded max-heap keeps the k best seen so far with the worst at the root.
func nearest(distances []float64, k int) []int {
	if k > len(distances) {
		k = len(distances)
	}
	if k <= 0 {
		return nil
	}

	h := make([]candidate, 0, k)
	for row, d := range distances {
		c := candidate{row: row, distance: d}
		if len(h) < k {
			h = append(h, c)
			siftUp(h, len(h)-1)
			continue
		}
		if closer(c, h[0]) {
			h[0] = c
			siftDown(h, 0)
		}
	}

	sort.Slice(h, func(i, j int) bool { return closer(h[i], h[j]) })
	rows := make([]int, len(h))
	for i, c := range h {
		rows[i] = c.row
	}
	return rows
}

// siftUp restores the max-heap property from index i toward the root.
func siftUp(h []candidate, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !closer(h[parent], h[i]) {
			return
		}
		h[parent], h[i] = h[i], h[parent]
		i = parent
	}
}

// siftDown restores the max-heap property from index i toward the leaves.
func siftDown(h []candidate, i int) {
	n := len(h)
	for {
		worst := i
		left, right := 2*i+1, 2*i+2
		if left < n && closer(h[worst], h[left]) {
			worst = left
		}
		if right < n && closer(h[worst], h[right]) {
			worst = right
		}
		if worst == i {
			return
		}
		h[i], h[worst] = h[worst], h[i]
		i = worst
	}
}

// gumbel draws a standard Gumbel variate.
func gumbel(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return -math.Log(-math.Log(u))
}
