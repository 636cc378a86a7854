// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package recommend ranks artists by their similarity to a set of seed
// artists and tracks.
//
// # Pipeline
//
// A query is built from two representative vectors, one over the weighted
// audio features and one over the genre embedding. Each seed artist is
// represented by the mean of its most popular tracks, with the sample size
// growing sub-linearly in the artist's catalog size (see SampleSize). Seed
// tracks are grouped by artist and weighted by the square root of the group
// size.
//
// Every track is then scored by
//
//	sqrt(euclidean(audio)^2 + (cosine(genre) * genre_weight)^2)
//
// optionally shifted by a popularity bias and perturbed by Gumbel noise when
// diversity is above 1. The nearest candidate_pool tracks are scored by rank,
// grouped by artist, and artists with at least two pool tracks are ranked by
// the sum of their best track scores.
//
// # Determinism
//
// With diversity at or below 1 the result depends only on the catalog and
// the request. Noise is drawn from a per-request source seeded either by the
// request or by the engine's own seeded stream.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	req := engine.NewRequest()
//	req.SeedArtists = []string{"Radiohead"}
//	res, err := engine.Recommend(ctx, store.Current(), req)
package recommend
