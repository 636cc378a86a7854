// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/genre"
)

// Options configures a pipeline run.
type Options struct {
	// Input is the raw track CSV. Compressed files (.gz, .zst) are accepted.
	Input string

	// Merge is an optional second CSV appended to Input. Its rows lose to
	// Input rows with the same track id.
	Merge string

	// Output is the Parquet file to write.
	Output string

	// MinSongs drops artists with fewer tracks.
	MinSongs int

	// MaxSongs keeps at most this many of an artist's most popular tracks.
	MaxSongs int

	// KeepRemixes disables the remix filter.
	KeepRemixes bool

	// Taxonomy defines the genre embedding. Nil uses genre.DefaultTaxonomy.
	Taxonomy genre.Taxonomy

	// DB configures the DuckDB instance used to read and write files.
	DB database.Config
}

// DefaultOptions returns the defaults of the ingest command.
func DefaultOptions() Options {
	return Options{
		Input:    "data.csv",
		Output:   "data/data_encoded.parquet",
		MinSongs: 2,
		MaxSongs: 50,
	}
}

// Validate checks the options before any file is touched.
func (o Options) Validate() error {
	var errs []error
	if o.Input == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if o.Output == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if o.MinSongs < 1 {
		errs = append(errs, fmt.Errorf("min songs must be at least 1, got %d", o.MinSongs))
	}
	if o.MaxSongs < 1 {
		errs = append(errs, fmt.Errorf("max songs must be at least 1, got %d", o.MaxSongs))
	}
	if o.MaxSongs >= 1 && o.MinSongs > o.MaxSongs {
		errs = append(errs, fmt.Errorf("min songs (%d) exceeds max songs (%d)", o.MinSongs, o.MaxSongs))
	}
	if o.Taxonomy != nil {
		if err := o.Taxonomy.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run reads the raw CSV (and the optional merge file), processes it and
// writes the encoded catalog to opts.Output.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func Run(ctx context.Context, opts Options, logger zerolog.Logger) (Report, error) {
	start := time.Now()
	logger = logger.With().Str("component", "ingest").Logger()

	if err := opts.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid options: %w", err)
	}
	for _, path := range []string{opts.Input, opts.Merge} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return Report{}, fmt.Errorf("input file: %w", err)
		}
	}

	taxonomy := opts.Taxonomy
	if taxonomy == nil {
		taxonomy = genre.DefaultTaxonomy()
	}
	emb := genre.Build(taxonomy)

	db, err := database.Open(ctx, opts.DB)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close DuckDB")
		}
	}()

	logger.Debug().Str("path", opts.Input).Msg("Loading tracks")
	frame, err := db.ReadRelation(ctx, database.CSVRelation(opts.Input))
	if err != nil {
		return Report{}, fmt.Errorf("read %s: %w", opts.Input, err)
	}
	dropIndexColumns(frame)

	merged := 0
	if opts.Merge != "" {
		logger.Debug().Str("path", opts.Merge).Msg("Merging additional tracks")
		extra, err := db.ReadRelation(ctx, database.CSVRelation(opts.Merge))
		if err != nil {
			return Report{}, fmt.Errorf("read %s: %w", opts.Merge, err)
		}
		dropIndexColumns(extra)
		merged = extra.Len()
		frame = frame.Concat(extra)
	}

	out, rep, err := Process(frame, opts, emb)
	if err != nil {
		return rep, err
	}
	rep.MergedRows = merged

	logger.Debug().
		Int("invalid", rep.InvalidRows).
		Int("duplicate_ids", rep.DuplicateIDs).
		Int("remixes", rep.RemixesRemoved).
		Int("variants", rep.VariantsMerged).
		Int("artists_dropped", rep.ArtistsDropped).
		Int("capped", rep.RowsCapped).
		Msg("Tracks filtered")
	if len(rep.UnknownGenres) > 0 {
		logger.Warn().Strs("genres", rep.UnknownGenres).Msg("Genres missing from taxonomy, embedded as zero")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o750); err != nil {
		return rep, fmt.Errorf("create output directory: %w", err)
	}
	if err := db.WriteParquet(ctx, out, opts.Output); err != nil {
		return rep, err
	}

	logger.Info().
		Int("input_rows", rep.InputRows).
		Int("output_rows", rep.OutputRows).
		Int("artists", rep.Artists).
		Int("genre_columns", rep.GenreColumns).
		Str("output", opts.Output).
		Dur("duration", time.Since(start)).
		Msg("Catalog written")
	return rep, nil
}

func dropIndexColumns(f *database.Frame) {
	for _, col := range indexColumns {
		f.Drop(col)
	}
}
