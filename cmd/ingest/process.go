// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vibe/internal/ingest"
	"github.com/tomtom215/vibe/internal/logging"
)

func newProcessCmd(root *rootFlags) *cobra.Command {
	opts := ingest.DefaultOptions()
	var report bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Build the encoded catalog Parquet file",
		Long: `Read the raw track CSV, drop remixes and invalid rows, fill and scale the
numeric columns, merge release variants per artist, keep artists with at
least --min-songs tracks capped at their --max-songs most popular, attach
genre embedding columns and write a ZSTD-compressed Parquet file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			taxonomy, err := root.loadTaxonomy()
			if err != nil {
				return err
			}
			opts.Taxonomy = taxonomy

			rep, err := ingest.Run(cmd.Context(), opts, logging.Logger())
			if err != nil {
				return err
			}
			if !report {
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Input, "input", "i", opts.Input, "Raw track CSV")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "Output Parquet file")
	f.StringVar(&opts.Merge, "merge", "", "Additional track CSV to append")
	f.IntVar(&opts.MinSongs, "min-songs", opts.MinSongs, "Drop artists with fewer tracks")
	f.IntVar(&opts.MaxSongs, "max-songs", opts.MaxSongs, "Keep at most this many tracks per artist")
	f.BoolVar(&opts.KeepRemixes, "keep-remixes", false, "Keep tracks whose name contains \" remix\"")
	f.IntVar(&opts.DB.Threads, "threads", 0, "DuckDB worker threads (0 = all cores)")
	f.StringVar(&opts.DB.MaxMemory, "max-memory", "", "DuckDB memory limit, e.g. 2GB")
	f.BoolVar(&report, "report", false, "Print the run report as JSON")
	return cmd
}
