// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package analytics

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vibe/internal/database"
)

// EventStore persists batches of analytics events.
type EventStore interface {
	InsertEvents(ctx context.Context, events []*Event) error
}

const eventsTable = "recommendation_events"

const createEventsTable = `CREATE TABLE IF NOT EXISTS ` + eventsTable + ` (
	id               VARCHAR PRIMARY KEY,
	recorded_at      TIMESTAMP NOT NULL,
	client_id        VARCHAR NOT NULL,
	signature        VARCHAR NOT NULL,
	seed_artists     VARCHAR,
	seed_tracks      VARCHAR,
	exclude_artists  VARCHAR,
	params           VARCHAR,
	returned_artists VARCHAR,
	has_more         BOOLEAN,
	latency_ms       DOUBLE
)`

const insertEvent = `INSERT OR IGNORE INTO ` + eventsTable + `
	(id, recorded_at, client_id, signature, seed_artists, seed_tracks, exclude_artists,
	 params, returned_artists, has_more, latency_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// DuckDBStore writes events to a DuckDB table. List and parameter columns
// hold JSON text.
type DuckDBStore struct {
	db *database.DB
}

// NewDuckDBStore creates the events table if needed.
func NewDuckDBStore(ctx context.Context, db *database.DB) (*DuckDBStore, error) {
	if _, err := db.Conn().ExecContext(ctx, createEventsTable); err != nil {
		return nil, fmt.Errorf("create %s: %w", eventsTable, err)
	}
	return &DuckDBStore{db: db}, nil
}

// InsertEvents writes events in one transaction. Events whose ID is already
// stored are ignored.
func (s *DuckDBStore) InsertEvents(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin events insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertEvent)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare events insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range events {
		args, err := eventArgs(e)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events insert: %w", err)
	}
	return nil
}

// Count returns the number of stored events.
func (s *DuckDBStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT count(*) FROM "+eventsTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func eventArgs(e *Event) ([]any, error) {
	encoded := make([]any, 0, 5)
	for _, v := range []any{e.SeedArtists, e.SeedTracks, e.ExcludeArtists, e.Params, e.ReturnedArtists} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		encoded = append(encoded, string(data))
	}
	args := []any{e.ID, e.RecordedAt, e.ClientID, e.Signature()}
	args = append(args, encoded...)
	args = append(args, e.HasMore, float64(e.Latency.Microseconds())/1000)
	return args, nil
}
