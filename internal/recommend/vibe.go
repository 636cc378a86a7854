// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"fmt"
	"sort"

	"github.com/tomtom215/vibe/internal/catalog"
)

// VibeComponent is one feature nudged by a vibe slider.
type VibeComponent struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Vibes maps slider names to the audio features they move.
var Vibes = map[string][]VibeComponent{
	"mood": {
		{Feature: "valence", Weight: 1.0},
		{Feature: "danceability", Weight: 0.3},
	},
	"energy": {
		{Feature: "energy", Weight: 1.0},
		{Feature: "tempo", Weight: 0.4},
		{Feature: "loudness", Weight: 0.3},
	},
	"sound": {
		{Feature: "acousticness", Weight: -1.0},
		{Feature: "instrumentalness", Weight: -0.3},
	},
	"vocals": {
		{Feature: "speechiness", Weight: 0.6},
		{Feature: "instrumentalness", Weight: -0.8},
	},
}

// VibeNames returns the slider names in sorted order.
func VibeNames() []string {
	names := make([]string, 0, len(Vibes))
	for name := range Vibes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateVibe rejects unknown slider names.
func validateVibe(vibe map[string]float64) error {
	for name := range vibe {
		if _, ok := Vibes[name]; !ok {
			return fmt.Errorf("%w: unknown vibe %q", ErrInvalidRequest, name)
		}
	}
	return nil
}

// ApplyVibe shifts the audio query in place. Each slider value is clamped
// to [-1, 1] and adds value*weight*strength to each of its features.
// Features absent from the catalog are skipped.
func ApplyVibe(query []float64, features []catalog.Feature, vibe map[string]float64, strength float64) {
	if len(vibe) == 0 || strength == 0 {
		return
	}
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f.Name] = i
	}
	for _, name := range VibeNames() {
		value, ok := vibe[name]
		if !ok || value == 0 {
			continue
		}
		value = clamp(value, -1, 1)
		for _, c := range Vibes[name] {
			if j, ok := index[c.Feature]; ok {
				query[j] += value * c.Weight * strength
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
