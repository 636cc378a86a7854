// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/vibe/internal/database/query"
)

const (
	defaultSummaryLimit = 10
	maxSummaryLimit     = 100
)

// Filter selects the events a summary covers. Zero fields do not filter.
type Filter struct {
	Since     *time.Time
	Until     *time.Time
	ClientIDs []string

	// Limit bounds each top-artist list. Zero uses 10; values above 100 are clamped.
	Limit int
}

// ArtistCount is one entry of a top-artist list.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int64  `json:"count"`
}

// Summary aggregates stored recommendation events.
type Summary struct {
	Events         int64         `json:"events"`
	Clients        int64         `json:"clients"`
	AvgLatencyMS   float64       `json:"avg_latency_ms"`
	P95LatencyMS   float64       `json:"p95_latency_ms"`
	HasMoreRate    float64       `json:"has_more_rate"`
	TopSeedArtists []ArtistCount `json:"top_seed_artists"`
	TopRecommended []ArtistCount `json:"top_recommended_artists"`
	Since          *time.Time    `json:"since,omitempty"`
	Until          *time.Time    `json:"until,omitempty"`
}

func (f Filter) where() (string, []any) {
	return query.NewWhereBuilder().
		AddTimeRange("recorded_at", f.Since, f.Until).
		AddIn("client_id", f.ClientIDs).
		BuildWithPrefix()
}

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultSummaryLimit
	case f.Limit > maxSummaryLimit:
		return maxSummaryLimit
	default:
		return f.Limit
	}
}

// Summary aggregates the events matching f.
func (s *DuckDBStore) Summary(ctx context.Context, f Filter) (*Summary, error) {
	where, args := f.where()

	out := &Summary{Since: f.Since, Until: f.Until}
	totals := `SELECT
		count(*),
		count(DISTINCT client_id),
		coalesce(avg(latency_ms), 0),
		coalesce(quantile_cont(latency_ms, 0.95), 0),
		coalesce(avg(CASE WHEN has_more THEN 1.0 ELSE 0.0 END), 0)
	FROM ` + eventsTable + ` ` + where
	err := s.db.Conn().QueryRowContext(ctx, totals, args...).
		Scan(&out.Events, &out.Clients, &out.AvgLatencyMS, &out.P95LatencyMS, &out.HasMoreRate)
	if err != nil {
		return nil, fmt.Errorf("summarize events: %w", err)
	}

	if out.TopSeedArtists, err = s.topArtists(ctx, "seed_artists", where, args, f.limit()); err != nil {
		return nil, err
	}
	if out.TopRecommended, err = s.topArtists(ctx, "returned_artists", where, args, f.limit()); err != nil {
		return nil, err
	}
	return out, nil
}

// topArtists counts the artists in a JSON list column.
func (s *DuckDBStore) topArtists(ctx context.Context, column, where string, args []any, limit int) ([]ArtistCount, error) {
	q := `SELECT artist, count(*) AS n FROM (
		SELECT unnest(from_json(` + column + `, '["VARCHAR"]')) AS artist
		FROM ` + eventsTable + ` ` + where + `
	) GROUP BY artist ORDER BY n DESC, artist LIMIT ?`

	rows, err := s.db.Conn().QueryContext(ctx, q, append(append([]any{}, args...), limit)...)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	out := []ArtistCount{}
	for rows.Next() {
		var ac ArtistCount
		if err := rows.Scan(&ac.Artist, &ac.Count); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}
	return out, nil
}
