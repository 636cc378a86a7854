// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package catalog loads the pre-embedded track table into memory and indexes it
for ranking.

A Catalog is built once from a Source and never mutated. It holds:

  - the track list, in file order
  - a weighted audio-feature matrix (one row per track)
  - a genre-embedding matrix built from every "genre_" column
  - a track ID to row index map
  - artists ordered by total popularity, with per-artist genre profiles

Rows of both matrices line up with the track list, so a row index is the only
handle ranking code needs. Because nothing changes after Build, any number of
goroutines can read a Catalog without locking.

Store holds the active Catalog behind an atomic pointer. Reload builds a new
Catalog from the source and swaps it in; requests already holding the old one
finish against it undisturbed.
*/
package catalog
