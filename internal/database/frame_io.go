// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/vibe/internal/logging"
)

// numericTypePrefixes are DuckDB type names read as float64 columns.
var numericTypePrefixes = []string{
	"TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
	"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
	"FLOAT", "REAL", "DOUBLE", "DECIMAL", "NUMERIC",
}

func isNumericType(typeName string) bool {
	upper := strings.ToUpper(typeName)
	for _, p := range numericTypePrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// columnInfo is one row of DESCRIBE output.
type columnInfo struct {
	name     string
	typeName string
}

func (db *DB) describe(ctx context.Context, relation string) ([]columnInfo, error) {
	rows, err := db.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+relation)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", relation, err)
	}
	defer closeWithLog(rows, "rows")

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var cols []columnInfo
	for rows.Next() {
		vals := make([]sql.NullString, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan describe row: %w", err)
		}
		cols = append(cols, columnInfo{name: vals[0].String, typeName: vals[1].String})
	}
	return cols, rows.Err()
}

// ReadRelation loads every row of a relation expression (a table name or a
// table function such as ParquetRelation) into a Frame. Numeric columns are
// read as DOUBLE and everything else as VARCHAR; columns listed in forceText
// are always read as text, which keeps IDs that happen to look numeric intact.
func (db *DB) ReadRelation(ctx context.Context, relation string, forceText ...string) (*Frame, error) {
	cols, err := db.describe(ctx, relation)
	if err != nil {
		return nil, err
	}

	textOnly := make(map[string]bool, len(forceText))
	for _, c := range forceText {
		textOnly[c] = true
	}

	numeric := make([]bool, len(cols))
	selects := make([]string, len(cols))
	for i, c := range cols {
		numeric[i] = !textOnly[c.name] && isNumericType(c.typeName)
		target := "VARCHAR"
		if numeric[i] {
			target = "DOUBLE"
		}
		selects[i] = fmt.Sprintf("CAST(%s AS %s)", QuoteIdent(c.name), target)
	}

	query := "SELECT " + strings.Join(selects, ", ") + " FROM " + relation
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relation, err)
	}
	defer closeWithLog(rows, "rows")

	textVals := make([][]string, len(cols))
	numVals := make([][]float64, len(cols))
	scanText := make([]sql.NullString, len(cols))
	scanNum := make([]sql.NullFloat64, len(cols))
	ptrs := make([]any, len(cols))
	for i := range cols {
		if numeric[i] {
			ptrs[i] = &scanNum[i]
		} else {
			ptrs[i] = &scanText[i]
		}
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", n, err)
		}
		for i := range cols {
			if numeric[i] {
				v := math.NaN()
				if scanNum[i].Valid {
					v = scanNum[i].Float64
				}
				numVals[i] = append(numVals[i], v)
			} else {
				textVals[i] = append(textVals[i], scanText[i].String)
			}
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", relation, err)
	}

	frame := NewFrame(n)
	for i, c := range cols {
		if numeric[i] {
			if numVals[i] == nil {
				numVals[i] = []float64{}
			}
			err = frame.SetNumeric(c.name, numVals[i])
		} else {
			if textVals[i] == nil {
				textVals[i] = []string{}
			}
			err = frame.SetText(c.name, textVals[i])
		}
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// WriteParquet materializes frame into a scratch table and copies it to a
// ZSTD-compressed Parquet file. Numeric columns are stored as DOUBLE; empty
// text and NaN are written as NULL.
func (db *DB) WriteParquet(ctx context.Context, frame *Frame, path string) error {
	const table = "vibe_export"
	cols := frame.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("write %s: frame has no columns", path)
	}

	defs := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		typ := "VARCHAR"
		if frame.IsNumeric(c) {
			typ = "DOUBLE"
		}
		defs[i] = QuoteIdent(c) + " " + typ
		placeholders[i] = "?"
	}

	if _, err := db.conn.ExecContext(ctx, fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)",
		table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create export table: %w", err)
	}
	defer func() {
		if _, err := db.conn.ExecContext(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+table); err != nil {
			logging.Warn().Err(err).Msg("Failed to drop export table")
		}
	}()

	if err := db.insertFrame(ctx, table, frame, cols, placeholders); err != nil {
		return err
	}

	copyStmt := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET, COMPRESSION ZSTD)", table, QuoteLiteral(path))
	if _, err := db.conn.ExecContext(ctx, copyStmt); err != nil {
		return fmt.Errorf("copy to %s: %w", path, err)
	}
	return nil
}

func (db *DB) insertFrame(ctx context.Context, table string, frame *Frame, cols, placeholders []string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		table, strings.Join(placeholders, ", ")))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare export insert: %w", err)
	}
	defer closeWithLog(stmt, "statement")

	args := make([]any, len(cols))
	for r := 0; r < frame.Len(); r++ {
		for i, c := range cols {
			if vals, ok := frame.Numeric(c); ok {
				if math.IsNaN(vals[r]) {
					args[i] = nil
				} else {
					args[i] = vals[r]
				}
				continue
			}
			vals, _ := frame.Text(c)
			if vals[r] == "" {
				args[i] = nil
			} else {
				args[i] = vals[r]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert export row %d: %w", r, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}
