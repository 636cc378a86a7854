// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/vibe/internal/database"
)

// Source yields the raw track table a Catalog is built from.
type Source interface {
	Load(ctx context.Context) (*database.Frame, error)
}

// Versioned is implemented by sources that can report a cheap change token.
// Store.ReloadIfChanged skips the rebuild when the token has not moved.
type Versioned interface {
	Version(ctx context.Context) (string, error)
}

// ParquetSource reads the catalog from a Parquet file through an in-memory
// DuckDB instance that lives only for the duration of one load.
type ParquetSource struct {
	Path string
	DB   database.Config
}

// NewParquetSource returns a source for the file at path.
func NewParquetSource(path string, db database.Config) *ParquetSource {
	db.Path = ""
	return &ParquetSource{Path: path, DB: db}
}

// Load reads every row of the file.
func (s *ParquetSource) Load(ctx context.Context) (*database.Frame, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", s.Path, err)
	}

	db, err := database.Open(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	frame, err := db.ReadRelation(ctx, database.ParquetRelation(s.Path),
		ColumnTrackID, ColumnArtist, ColumnTrack, ColumnGenre)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return frame, nil
}

// Version returns the file's size and modification time.
func (s *ParquetSource) Version(_ context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("stat catalog %s: %w", s.Path, err)
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// String identifies the source in logs.
func (s *ParquetSource) String() string {
	return "parquet:" + s.Path
}

// FrameSource serves an already materialized frame. Tests and embedded
// callers use it to build catalogs without touching disk.
type FrameSource struct {
	Frame *database.Frame
}

// Load returns the wrapped frame.
func (s FrameSource) Load(_ context.Context) (*database.Frame, error) {
	if s.Frame == nil {
		return nil, fmt.Errorf("frame source: no frame")
	}
	return s.Frame, nil
}
