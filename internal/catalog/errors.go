// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

import "errors"

var (
	// ErrMissingColumns means the source lacks a required column. It is a
	// load-time precondition failure and aborts startup.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrArtistNotFound means the catalog has no tracks for the artist.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrNotLoaded means no catalog has been loaded into the store yet.
	ErrNotLoaded = errors.New("catalog not loaded")
)
