// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package query builds parameterized SQL WHERE clauses for the DuckDB
// analytics queries.
//
// Values are always bound as arguments; only column names are interpolated,
// and those come from code, never from requests:
//
//	wb := query.NewWhereBuilder()
//	wb.AddTimeRange("recorded_at", filter.Since, filter.Until)
//	wb.AddIn("client_id", filter.ClientIDs)
//	where, args := wb.BuildWithPrefix()
//	rows, err := conn.QueryContext(ctx, "SELECT count(*) FROM recommendation_events "+where, args...)
package query
