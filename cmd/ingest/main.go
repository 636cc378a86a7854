// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package main provides the offline ingest CLI.
//
// Commands:
//
//	ingest process     build the encoded catalog Parquet file from a track CSV
//	ingest embeddings  print the genre embedding table
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/vibe/internal/genre"
	"github.com/tomtom215/vibe/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("ingest failed")
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	verbose   bool
	logFormat string
	taxonomy  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "ingest",
		Short: "Build and inspect the recommendation catalog",
		Long: `ingest prepares the catalog the recommendation server loads.

"process" cleans a raw track CSV, scales its audio features, merges release
variants and attaches genre embedding columns before writing Parquet.
"embeddings" prints the genre embedding table derived from the taxonomy.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg := logging.DefaultConfig()
			cfg.Format = flags.logFormat
			if flags.verbose {
				cfg.Level = "debug"
			}
			logging.Init(cfg)
		},
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "console", "Log format: console or json")
	root.PersistentFlags().StringVar(&flags.taxonomy, "taxonomy", "", "YAML taxonomy file (default: built-in taxonomy)")

	root.AddCommand(newProcessCmd(flags), newEmbeddingsCmd(flags))
	return root
}

// loadTaxonomy returns the taxonomy named by --taxonomy, or the built-in one.
func (f *rootFlags) loadTaxonomy() (genre.Taxonomy, error) {
	if f.taxonomy == "" {
		return genre.DefaultTaxonomy(), nil
	}
	return genre.LoadTaxonomyFile(f.taxonomy)
}
