// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package ingest builds the encoded catalog Parquet file from a raw track CSV.
//
// Run does the file work through DuckDB; Process holds the cleaning,
// scaling, deduplication and genre embedding steps and works on an
// in-memory frame so it can be tested without files.
package ingest
