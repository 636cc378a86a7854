// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package models defines the JSON shapes of the HTTP API: the response
// envelope, request bodies and per-endpoint payloads. Domain types such as
// recommend.ArtistResult and catalog.Track are embedded as-is.
package models
