// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vibe/internal/genre"
)

// genreEmbedding is one row of the JSON output.
type genreEmbedding struct {
	Genre      string            `json:"genre"`
	Dimensions []genre.Dimension `json:"dimensions"`
}

func newEmbeddingsCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "embeddings [genre...]",
		Short: "Print the genre embedding table",
		Long: `Print the non-zero dimensions of each genre's embedding, strongest first.
With arguments only the named genres are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			taxonomy, err := root.loadTaxonomy()
			if err != nil {
				return err
			}
			if err := taxonomy.Validate(); err != nil {
				return err
			}
			emb := genre.Build(taxonomy)

			names := args
			if len(names) == 0 {
				names = emb.Genres()
			}
			rows := make([]genreEmbedding, 0, len(names))
			for _, g := range names {
				if !emb.Known(g) {
					return fmt.Errorf("unknown genre %q", g)
				}
				rows = append(rows, genreEmbedding{Genre: g, Dimensions: emb.Describe(g)})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return writeEmbeddings(cmd.OutOrStdout(), emb.Dimensions(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func writeEmbeddings(w io.Writer, dims int, rows []genreEmbedding) error {
	if _, err := fmt.Fprintf(w, "%d genres, %d dimensions\n", len(rows), dims); err != nil {
		return err
	}
	for _, row := range rows {
		parts := make([]string, len(row.Dimensions))
		for i, d := range row.Dimensions {
			parts[i] = fmt.Sprintf("%s=%.3f", d.Family, d.Weight)
		}
		if _, err := fmt.Fprintf(w, "%-16s %s\n", row.Genre, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
