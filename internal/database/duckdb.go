// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package database wraps DuckDB for Vibe: reading Parquet and CSV files into
// columnar Frames, writing Frames back out as Parquet, and holding the
// analytics event table.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/vibe/internal/logging"
)

// Config configures a DuckDB connection.
type Config struct {
	// Path is the database file. Empty or ":memory:" opens an in-memory database.
	Path string `koanf:"path"`

	// Threads is the DuckDB worker thread count.
	// Default: runtime.NumCPU()
	Threads int `koanf:"threads"`

	// MaxMemory caps DuckDB memory, e.g. "1GB".
	// Default: 1GB
	MaxMemory string `koanf:"max_memory"`
}

const memoryPath = ":memory:"

// DB wraps a DuckDB connection pool.
type DB struct {
	conn *sql.DB
	cfg  Config
}

// Open opens (and for file databases, creates) a DuckDB database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.MaxMemory == "" {
		cfg.MaxMemory = "1GB"
	}

	if cfg.Path == "" {
		cfg.Path = memoryPath
	}
	if cfg.Path != memoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s", cfg.Path, cfg.Threads, cfg.MaxMemory)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn, cfg: cfg}, nil
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// QuoteIdent quotes a SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ParquetRelation returns a relation expression reading a Parquet file.
func ParquetRelation(path string) string {
	return "read_parquet(" + QuoteLiteral(path) + ")"
}

// CSVRelation returns a relation expression reading a CSV file with a header
// row. Every column is read as text so IDs keep leading zeros; callers parse
// the numeric columns they know about. Compressed files (.gz, .zst) are
// detected by extension.
func CSVRelation(path string) string {
	return "read_csv_auto(" + QuoteLiteral(path) + ", header = true, all_varchar = true)"
}

// closeWithLog closes a resource and logs failures.
func closeWithLog(closer io.Closer, resource string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resource).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the original error
// is the one worth returning.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
