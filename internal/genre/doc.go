// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package genre builds dense genre embeddings from a sparse taxonomy.

A Taxonomy assigns each genre a handful of weighted family memberships
("rock" is 0.8 rock and 0.5 alternative). Build turns that into one vector
per genre over the sorted family dimensions:

 1. Direct membership seeds each owned family with its weight.
 2. Neighbor smearing: for every family f the genre g shares with another
    genre n, each family f2 of n receives w_g(f) * w_n(f) * w_n(f2) * 0.5.
 3. Entries combine by running maximum, never by sum.
 4. Each vector is L2-normalized; a genre with no families stays zero.

Embeddings are computed offline by the ingest pipeline and stored as
"genre_<family>" columns in the catalog file. The live service never
rebuilds them.

Usage:

	emb := genre.Build(genre.DefaultTaxonomy())
	vec := emb.Vector("alt-rock") // zero vector for unknown genres
*/
package genre
