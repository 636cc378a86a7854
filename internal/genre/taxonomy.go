// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package genre

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Taxonomy maps a genre name to its weighted family memberships.
// Weights are in (0, 1].
type Taxonomy map[string]map[string]float64

// ErrInvalidTaxonomy is returned when a taxonomy fails validation.
var ErrInvalidTaxonomy = errors.New("invalid genre taxonomy")

// Families returns the sorted union of every family referenced by any genre.
// This is the dimension order of every embedding built from the taxonomy.
func (t Taxonomy) Families() []string {
	seen := make(map[string]struct{})
	for _, memberships := range t {
		for family := range memberships {
			seen[family] = struct{}{}
		}
	}
	families := make([]string, 0, len(seen))
	for family := range seen {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// Genres returns the sorted genre names.
func (t Taxonomy) Genres() []string {
	genres := make([]string, 0, len(t))
	for g := range t {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Validate checks that every genre and family is named and every weight is
// in (0, 1].
func (t Taxonomy) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no genres defined", ErrInvalidTaxonomy)
	}
	var problems []string
	for _, g := range t.Genres() {
		if strings.TrimSpace(g) == "" {
			problems = append(problems, "empty genre name")
			continue
		}
		for family, w := range t[g] {
			if strings.TrimSpace(family) == "" {
				problems = append(problems, fmt.Sprintf("%s: empty family name", g))
			}
			if w <= 0 || w > 1 {
				problems = append(problems, fmt.Sprintf("%s.%s: weight %v outside (0, 1]", g, family, w))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidTaxonomy, strings.Join(problems, "; "))
	}
	return nil
}

// LoadTaxonomyFile reads a YAML taxonomy of the form
//
//	rock:
//	  rock: 0.8
//	  alternative: 0.5
func LoadTaxonomyFile(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTaxonomy returns the built-in genre definitions. Each genre belongs to
// one or a few of 22 family dimensions; related genres pick up each other's
// traits through smearing when embeddings are built. Regional and mixed
// genres carry low weights so they smear less.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		// Rock & alternative
		"rock":        {"rock": 0.8, "alternative": 0.5},
		"hard-rock":   {"rock": 0.8, "metal": 0.5},
		"rock-n-roll": {"rock": 0.5, "jazz_blues": 0.4, "pop": 0.2, "acoustic_folk": 0.2},
		"garage":      {"alternative": 0.5, "rock": 0.4, "punk": 0.3, "acoustic_folk": 0.3},
		"alt-rock":    {"alternative": 0.6, "rock": 0.5, "metal": 0.2},
		"psych-rock":  {"alternative": 0.5, "rock": 0.5, "chill_ambient": 0.3},
		"indie-pop":   {"alternative": 1.0, "pop": 0.5},

		// Metal & punk
		"metal":       {"metal": 0.8, "rock": 0.6, "punk": 0.3},
		"heavy-metal": {"metal": 1.0, "rock": 0.4, "world_regional": 0.2},
		"metalcore":   {"metal": 0.8, "punk": 0.5, "emo_pop_punk": 0.3},
		"death-metal": {"extreme_metal": 1.0, "metal": 0.6},
		"black-metal": {"extreme_metal": 1.0, "metal": 0.4},
		"grindcore":   {"extreme_metal": 1.0, "punk": 0.6},
		"punk":        {"punk": 0.8, "emo_pop_punk": 0.5, "rock": 0.3},
		"hardcore":    {"punk": 0.3, "hip_hop": 0.3, "metal": 0.1},
		"punk-rock":   {"punk": 0.5, "rock": 0.5, "alternative": 0.5},
		"emo":         {"emo_pop_punk": 0.8, "hip_hop": 0.4, "punk": 0.3},
		"power-pop":   {"emo_pop_punk": 0.7, "rock": 0.5, "pop": 0.4},

		// Pop & k-pop
		"pop":      {"pop": 1.0},
		"dance":    {"pop": 0.6, "electronic_house": 0.6},
		"party":    {"pop": 0.2, "electronic_house": 0.2, "world_regional": 0.2},
		"k-pop":    {"k_pop": 1.0, "pop": 0.4, "hip_hop": 0.2},
		"cantopop": {"k_pop": 0.5, "pop": 0.2, "world_regional": 0.3},

		// Hip-hop & R&B
		"hip-hop":  {"hip_hop": 1.0},
		"trip-hop": {"chill_ambient": 0.6, "electronic_house": 0.5, "hip_hop": 0.2},
		"soul":     {"rnb_soul": 1.0, "jazz_blues": 0.4, "pop": 0.2},
		"gospel":   {"rnb_soul": 0.6, "acoustic_folk": 0.4, "classical_cinematic": 0.2, "world_regional": 0.2},

		// Electronic
		"electronic":        {"electronic_house": 0.5, "electronic_techno": 0.4, "bass_music": 0.3, "chill_ambient": 0.2},
		"house":             {"electronic_house": 0.4, "hip_hop": 0.2, "pop": 0.2},
		"deep-house":        {"electronic_house": 0.9, "chill_ambient": 0.4, "rnb_soul": 0.2},
		"chicago-house":     {"electronic_house": 1.0, "rnb_soul": 0.4},
		"progressive-house": {"electronic_house": 0.8, "electronic_techno": 0.4},
		"disco":             {"electronic_house": 0.7, "rnb_soul": 0.6, "pop": 0.3},
		"club":              {"electronic_house": 0.5, "pop": 0.3},
		"edm":               {"electronic_house": 0.7, "pop": 0.4, "bass_music": 0.4, "alternative": 0.2},
		"techno":            {"electronic_techno": 1.0},
		"minimal-techno":    {"electronic_techno": 0.9, "chill_ambient": 0.4},
		"detroit-techno":    {"electronic_techno": 0.9, "rnb_soul": 0.3},
		"trance":            {"electronic_techno": 0.8, "electronic_house": 0.4},
		"hardstyle":         {"electronic_techno": 0.8, "extreme_metal": 0.3},
		"industrial":        {"electronic_techno": 0.8, "metal": 0.5},
		"dubstep":           {"bass_music": 1.0, "electronic_house": 0.3},
		"drum-and-bass":     {"bass_music": 1.0, "electronic_techno": 0.3},
		"breakbeat":         {"bass_music": 0.8, "electronic_house": 0.4},

		// Chill & ambient
		"ambient": {"chill_ambient": 0.8, "classical_cinematic": 0.4},
		"chill":   {"chill_ambient": 0.8, "hip_hop": 0.3, "pop": 0.3, "electronic_house": 0.2},
		"new-age": {"chill_ambient": 0.9, "world_regional": 0.3, "classical_cinematic": 0.2},
		"sleep":   {"chill_ambient": 1.0},

		// Acoustic, folk, country
		"acoustic":          {"acoustic_folk": 1.0},
		"folk":              {"acoustic_folk": 1.0, "rock": 0.3},
		"singer-songwriter": {"acoustic_folk": 0.9, "pop": 0.3},
		"songwriter":        {"acoustic_folk": 0.9, "pop": 0.3, "rock": 0.2},
		"country":           {"acoustic_folk": 0.8, "rock": 0.3, "pop": 0.2},
		"guitar":            {"acoustic_folk": 0.5, "rock": 0.5, "jazz_blues": 0.2},

		// Jazz & blues
		"jazz":  {"jazz_blues": 1.0},
		"blues": {"jazz_blues": 0.5, "rock": 0.5},

		// Latin
		"salsa":     {"latin_tropical": 1.0, "jazz_blues": 0.3},
		"samba":     {"latin_tropical": 1.0, "jazz_blues": 0.2},
		"afrobeat":  {"latin_tropical": 0.8, "alternative": 0.4, "rnb_soul": 0.2},
		"forro":     {"latin_regional": 1.0, "acoustic_folk": 0.4, "jazz_blues": 0.2},
		"sertanejo": {"latin_regional": 0.9, "acoustic_folk": 0.5, "pop": 0.3},
		"tango":     {"latin_regional": 1.0, "classical_cinematic": 0.4},

		// Reggae & dub
		"dancehall": {"reggae_dub": 0.8, "hip_hop": 0.5},
		"ska":       {"reggae_dub": 0.4, "latin_tropical": 0.4, "punk": 0.4},

		// Classical & cinematic
		"classical":  {"classical_cinematic": 1.0},
		"opera":      {"classical_cinematic": 1.0, "world_regional": 0.2},
		"piano":      {"classical_cinematic": 0.8, "acoustic_folk": 0.4, "chill_ambient": 0.3},
		"show-tunes": {"classical_cinematic": 0.6, "pop": 0.6},

		// World & regional
		"indian":  {"world_regional": 0.3, "classical_cinematic": 0.1, "pop": 0.1},
		"german":  {"world_regional": 0.3, "classical_cinematic": 0.3, "metal": 0.2, "electronic_techno": 0.2},
		"french":  {"world_regional": 0.3, "hip_hop": 0.2, "electronic_house": 0.2, "classical_cinematic": 0.1},
		"spanish": {"world_regional": 0.3, "latin_tropical": 0.2, "rock": 0.1, "pop": 0.1},
		"swedish": {"world_regional": 0.2, "pop": 0.1, "rock": 0.1},
		"romance": {"world_regional": 0.3, "classical_cinematic": 0.2, "acoustic_folk": 0.2},

		"comedy": {"comedy_spoken": 1.0},

		// Labels whose catalog content differs from the name.
		"dub":      {"bass_music": 0.8, "electronic_house": 0.2, "reggae_dub": 0.2},
		"electro":  {"pop": 0.6, "electronic_house": 0.5, "alternative": 0.4},
		"funk":     {"hip_hop": 0.6, "rnb_soul": 0.5, "latin_tropical": 0.2},
		"groove":   {"metal": 0.8, "electronic_house": 0.4},
		"goth":     {"metal": 0.7, "classical_cinematic": 0.4, "alternative": 0.3},
		"pop-film": {"world_regional": 1.0, "classical_cinematic": 0.4, "pop": 0.3},
		"sad":      {"latin_regional": 1.0, "latin_tropical": 0.3, "acoustic_folk": 0.2},
	}
}
