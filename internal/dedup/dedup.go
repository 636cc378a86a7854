// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package dedup collapses tracks that are release variants of the same song
// ("Song (Live at Wembley)", "Song - Remastered 2015") into one record.
//
// It is used by the ingest pipeline, per artist, and by the live per-artist
// track listing.
package dedup

import (
	"regexp"
	"strings"
)

// variantPattern matches a parenthetical variant marker anywhere in a name or
// a dash-qualified variant suffix at the end of it.
var variantPattern = regexp.MustCompile(`(?i)` +
	`\s*\([^)]*(?:live|remaster|acoustic|radio\s+edit|single\s+version|album\s+version|` +
	`extended|edit|mono|stereo|bonus|deluxe|explicit|clean|censored|original|` +
	`version|mix|instrumental|remix|demo|unplugged|stripped)[^)]*\)` +
	`|` +
	`\s*[-–—]\s*(?:\d{4}\s+)?(?:remaster(?:ed)?|live|acoustic(?:\s+version)?|` +
	`radio\s+edit|single\s+version|album\s+version|extended(?:\s+mix)?|` +
	`edit|instrumental|remix|demo)(?:\s+\d{4})?\s*$`)

// trailingSeparators are stripped from the end of normalized names.
const trailingSeparators = " -–—:;,."

// Record carries the fields deduplication looks at.
type Record struct {
	Name   string
	Artist string

	// Popularity is only consulted when HasPopularity is set. Records without
	// popularity lose ties against records that have it.
	Popularity    float64
	HasPopularity bool
}

// Options controls grouping and tie-breaking.
type Options struct {
	// GroupByArtist keys groups by (normalized name, artist) instead of the
	// normalized name alone. Use it for multi-artist collections.
	GroupByArtist bool

	// PrioritizeOriginals keeps a non-variant name over a variant even when
	// the variant is more popular.
	PrioritizeOriginals bool
}

// DefaultOptions prefers originals and groups globally, which suits a single
// artist's catalog.
func DefaultOptions() Options {
	return Options{PrioritizeOriginals: true}
}

// Normalize canonicalizes a track name for comparison.
func Normalize(name string) string {
	s := variantPattern.ReplaceAllString(strings.TrimSpace(name), "")
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimRight(s, trailingSeparators)
}

// IsVariant reports whether the unnormalized name carries a variant marker.
func IsVariant(name string) bool {
	return variantPattern.MatchString(name)
}

// groupKey falls back to the lowercased raw name when normalization strips
// everything, so "(Live)" and "(Demo)" stay distinct songs.
func groupKey(r Record, opts Options) string {
	key := Normalize(r.Name)
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(r.Name))
	}
	if opts.GroupByArtist {
		return key + "\x00" + r.Artist
	}
	return key
}

type candidate struct {
	index      int
	variant    bool
	popularity float64
	hasPop     bool
}

// better reports whether a should be kept over b.
func better(a, b candidate, prioritizeOriginals bool) bool {
	if prioritizeOriginals && a.variant != b.variant {
		return !a.variant
	}
	if a.hasPop != b.hasPop {
		return a.hasPop
	}
	if a.hasPop && a.popularity != b.popularity {
		return a.popularity > b.popularity
	}
	return a.index < b.index
}

// Deduplicate returns one item per group, chosen by the tie-break policy,
// in the order the kept items appeared in the input. fields extracts the
// comparison fields from an item. The operation is idempotent.
func Deduplicate[T any](items []T, fields func(T) Record, opts Options) []T {
	if len(items) == 0 {
		return items
	}

	winners := make(map[string]candidate, len(items))
	for i, item := range items {
		r := fields(item)
		c := candidate{
			index:      i,
			variant:    opts.PrioritizeOriginals && IsVariant(r.Name),
			popularity: r.Popularity,
			hasPop:     r.HasPopularity,
		}
		key := groupKey(r, opts)
		if cur, ok := winners[key]; !ok || better(c, cur, opts.PrioritizeOriginals) {
			winners[key] = c
		}
	}

	keep := make([]bool, len(items))
	for _, c := range winners {
		keep[c.index] = true
	}
	out := make([]T, 0, len(winners))
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out
}

// DeduplicateRecords is Deduplicate over plain records.
func DeduplicateRecords(records []Record, opts Options) []Record {
	return Deduplicate(records, func(r Record) Record { return r }, opts)
}
