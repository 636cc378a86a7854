// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package analytics records served recommendations on a best-effort basis.
//
// Handlers call Recorder.Record, which never blocks: an event is skipped if
// the same client sent the same query within the dedupe TTL, if the global
// events-per-second budget is spent, or if the queue is full. Recorder.Run,
// supervised alongside the HTTP server, writes queued events in batches to a
// DuckDB table through a circuit breaker. Write failures are logged and
// counted, never surfaced to callers.
package analytics
