// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddTimeRange("recorded_at", since, until)
//	wb.AddIn("client_id", []string{"web", "cli"})
//	whereClause, args := wb.Build()
//	// recorded_at >= ? AND recorded_at < ? AND client_id IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []any{},
	}
}

// AddClause adds a raw condition such as "has_more = ?" with its arguments.
// Column names in clause are not quoted.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddTimeRange filters column to [start, end). Nil bounds are skipped.
func (wb *WhereBuilder) AddTimeRange(column string, start, end *time.Time) *WhereBuilder {
	if start != nil {
		wb.clauses = append(wb.clauses, column+" >= ?")
		wb.args = append(wb.args, *start)
	}
	if end != nil {
		wb.clauses = append(wb.clauses, column+" < ?")
		wb.args = append(wb.args, *end)
	}
	return wb
}

// AddIn adds "column IN (?, ...)". An empty values slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build joins the clauses with AND. An empty builder yields ("1=1", []).
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clause has been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
