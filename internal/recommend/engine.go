// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/genre"
	"github.com/tomtom215/vibe/internal/metrics"
)

// Outcome labels recorded per request.
const (
	outcomeOK      = "ok"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Engine ranks artists against a catalog. It holds no catalog itself, so a
// reload never races a request in flight. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Random source for diversity noise (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	return NewEngineWithSource(cfg, logger, nil)
}

// NewEngineWithSource creates an engine drawing noise seeds from src. A nil
// src uses the configured seed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineWithSource(cfg *Config, logger zerolog.Logger, src rand.Source) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if src == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = 42
		}
		src = rand.NewSource(seed)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		rng:    rand.New(src), //nolint:gosec // math/rand is fine for ranking noise
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// NewRequest returns a request carrying the engine's defaults.
func (e *Engine) NewRequest() Request {
	return e.config.NewRequest()
}

// Validate checks a request against the configured limits.
func (e *Engine) Validate(req *Request) error {
	lim := e.config.Limits
	switch {
	case len(req.SeedArtists) > lim.MaxSeedArtists:
		return fmt.Errorf("%w: at most %d seed artists, got %d", ErrInvalidRequest, lim.MaxSeedArtists, len(req.SeedArtists))
	case len(req.SeedTrackIDs) > lim.MaxSeedTracks:
		return fmt.Errorf("%w: at most %d seed tracks, got %d", ErrInvalidRequest, lim.MaxSeedTracks, len(req.SeedTrackIDs))
	case req.MaxArtists < 1 || req.MaxArtists > lim.MaxArtists:
		return fmt.Errorf("%w: max_artists must be in [1, %d], got %d", ErrInvalidRequest, lim.MaxArtists, req.MaxArtists)
	case req.TracksPerArtist < 1 || req.TracksPerArtist > lim.MaxTracksPerArtist:
		return fmt.Errorf("%w: tracks_per_artist must be in [1, %d], got %d", ErrInvalidRequest, lim.MaxTracksPerArtist, req.TracksPerArtist)
	case !inRange(req.GenreWeight, 0, lim.MaxGenreWeight):
		return fmt.Errorf("%w: genre_weight must be in [0, %g], got %g", ErrInvalidRequest, lim.MaxGenreWeight, req.GenreWeight)
	case !inRange(req.Diversity, 0, lim.MaxDiversity):
		return fmt.Errorf("%w: diversity must be in [0, %g], got %g", ErrInvalidRequest, lim.MaxDiversity, req.Diversity)
	case !inRange(req.PopularityBias, -1, 1):
		return fmt.Errorf("%w: popularity_bias must be in [-1, 1], got %g", ErrInvalidRequest, req.PopularityBias)
	case !inRange(req.VibeStrength, 0, math.MaxFloat64):
		return fmt.Errorf("%w: vibe_strength must be non-negative, got %g", ErrInvalidRequest, req.VibeStrength)
	}
	for name, v := range req.Vibe {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: vibe %q is not a number", ErrInvalidRequest, name)
		}
	}
	return validateVibe(req.Vibe)
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Resolve splits the request seeds into those found in c and those dropped.
func (e *Engine) Resolve(c *catalog.Catalog, req *Request) (Seeds, []string) {
	var seeds Seeds
	var dropped []string

	seenArtist := make(map[string]bool, len(req.SeedArtists))
	for _, a := range req.SeedArtists {
		if a == "" || seenArtist[a] {
			continue
		}
		seenArtist[a] = true
		if c.HasArtist(a) {
			seeds.Artists = append(seeds.Artists, a)
		} else {
			dropped = append(dropped, a)
		}
	}

	seenTrack := make(map[string]bool, len(req.SeedTrackIDs))
	for _, id := range req.SeedTrackIDs {
		if id == "" || seenTrack[id] {
			continue
		}
		seenTrack[id] = true
		if row, ok := c.TrackIndex(id); ok {
			seeds.TrackRows = append(seeds.TrackRows, row)
		} else {
			dropped = append(dropped, id)
		}
	}
	return seeds, dropped
}

// Recommend ranks the artists of c closest to the request seeds. Seeds
// missing from c are dropped and logged; if none remain the result is empty.
func (e *Engine) Recommend(ctx context.Context, c *catalog.Catalog, req Request) (*Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		metrics.RecordRecommendation(outcomeError, 0, 0, time.Since(start))
		return nil, err
	}
	if c == nil {
		metrics.RecordRecommendation(outcomeError, 0, 0, time.Since(start))
		return nil, catalog.ErrNotLoaded
	}
	if err := e.Validate(&req); err != nil {
		metrics.RecordRecommendation(outcomeInvalid, 0, 0, time.Since(start))
		return nil, err
	}

	seeds, dropped := e.Resolve(c, &req)
	if len(dropped) > 0 {
		e.logger.Warn().
			Strs("dropped", dropped).
			Int("resolved_artists", len(seeds.Artists)).
			Int("resolved_tracks", len(seeds.TrackRows)).
			Msg("seeds not found in catalog")
	}

	result := &Result{
		Artists: []ArtistResult{},
		Metadata: Metadata{
			SeedArtists:  nonNil(seeds.Artists),
			SeedTracks:   e.seedTrackIDs(c, seeds),
			DroppedSeeds: dropped,
		},
	}
	if seeds.Empty() {
		metrics.RecordRecommendation(outcomeEmpty, 0, len(dropped), time.Since(start))
		return result, nil
	}

	audioQuery := RepresentativeVector(c, c.Audio(), seeds)
	genreQuery := RepresentativeVector(c, c.Genre(), seeds)
	features := c.AudioFeatures()
	ApplyVibe(audioQuery, features, req.Vibe, req.VibeStrength)

	total := e.combinedDistances(c, audioQuery, genreQuery, features, &req)

	if err := ctx.Err(); err != nil {
		metrics.RecordRecommendation(outcomeError, 0, len(dropped), time.Since(start))
		return nil, err
	}

	noisy := req.Diversity > 1
	if noisy {
		scale := e.config.Ranking.NoiseScale * (req.Diversity - 1)
		rng := e.requestRand(req.RandomSeed)
		for i := range total {
			total[i] += gumbel(rng) * scale
		}
	}

	pool := nearest(total, e.config.Ranking.CandidatePool)
	result.Metadata.CandidatePool = len(pool)
	result.Metadata.Noise = noisy

	excluded := make(map[string]bool, len(req.SeedArtists)+len(req.ExcludeArtists))
	for _, a := range req.SeedArtists {
		excluded[a] = true
	}
	for _, a := range req.ExcludeArtists {
		excluded[a] = true
	}

	ranked := e.aggregate(c, pool, excluded, noisy, req.TracksPerArtist)
	if len(ranked) > req.MaxArtists {
		result.Metadata.HasMoreCandidates = true
		ranked = ranked[:req.MaxArtists]
	}

	for _, ar := range ranked {
		out := ArtistResult{
			Artist: ar.artist,
			Score:  ar.score,
			Tracks: make([]TrackResult, len(ar.tracks)),
		}
		for i, st := range ar.tracks {
			t := c.Track(st.row)
			out.Tracks[i] = TrackResult{
				ID:    t.ID,
				Name:  t.Name,
				Year:  t.ReleaseYear,
				Genre: t.Genre,
				Score: st.score,
			}
			if req.Debug {
				out.Tracks[i].Features = unweighted(c.Audio().Row(st.row), features)
			}
		}
		if req.Debug {
			// The artist is in the catalog, so the lookup cannot fail.
			out.GenreProfile, _ = c.GenreProfile(ar.artist)
		}
		result.Artists = append(result.Artists, out)
	}

	if req.Debug {
		result.Metadata.Debug = &DebugInfo{
			GenreProfile: describe(genreQuery, c.GenreFamilies()),
			AudioProfile: unweighted(audioQuery, features),
		}
	}

	elapsed := time.Since(start)
	e.logger.Debug().
		Int("seed_artists", len(seeds.Artists)).
		Int("seed_tracks", len(seeds.TrackRows)).
		Int("pool", len(pool)).
		Int("artists", len(result.Artists)).
		Bool("has_more", result.Metadata.HasMoreCandidates).
		Dur("elapsed", elapsed).
		Msg("recommendation computed")

	metrics.RecordRecommendation(outcomeOK, len(result.Artists), len(dropped), elapsed)
	return result, nil
}

// combinedDistances returns sqrt(audio^2 + (genre*genreWeight)^2) per track,
// shifted by the popularity bias.
func (e *Engine) combinedDistances(c *catalog.Catalog, audioQuery, genreQuery []float64, features []catalog.Feature, req *Request) []float64 {
	audio := EuclideanDistances(audioQuery, c.Audio())
	genreDist := CosineDistances(genreQuery, c.Genre())

	total := make([]float64, len(audio))
	for i := range total {
		total[i] = math.Hypot(audio[i], genreDist[i]*req.GenreWeight)
	}

	if req.PopularityBias == 0 {
		return total
	}
	popIdx, popWeight := -1, 0.0
	for j, f := range features {
		if f.Name == catalog.ColumnPopularity {
			popIdx, popWeight = j, f.Weight
			break
		}
	}
	if popIdx < 0 || popWeight == 0 {
		return total
	}
	shift := req.PopularityBias * e.config.Ranking.PopularityBiasStrength
	for i := range total {
		p := c.Audio().At(i, popIdx) / popWeight
		total[i] -= shift * (p - 0.5)
	}
	return total
}

// requestRand returns the noise source for one request.
func (e *Engine) requestRand(seed int64) *rand.Rand {
	if seed == 0 {
		e.rngMu.Lock()
		seed = e.rng.Int63()
		e.rngMu.Unlock()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for ranking noise
}

// scoredTrack is a pool track and its rank score.
type scoredTrack struct {
	row   int
	score float64
}

// rankedArtist is a qualifying artist and its best tracks.
type rankedArtist struct {
	artist string
	score  float64
	tracks []scoredTrack
}

// aggregate groups pool tracks by artist and scores each artist by the sum
// of its best tracksPerArtist track scores. pool is nearest first, so each
// artist's tracks arrive best first.
func (e *Engine) aggregate(c *catalog.Catalog, pool []int, excluded map[string]bool, noisy bool, tracksPerArtist int) []rankedArtist {
	rk := e.config.Ranking
	byArtist := make(map[string][]scoredTrack)
	var order []string
	for rank, row := range pool {
		a := c.Track(row).Artist
		if excluded[a] {
			continue
		}
		var score float64
		if noisy {
			score = rk.ScoreScale / (float64(rank) + rk.RankOffset)
		} else {
			score = float64(len(pool) - rank)
		}
		if _, ok := byArtist[a]; !ok {
			order = append(order, a)
		}
		byArtist[a] = append(byArtist[a], scoredTrack{row: row, score: score})
	}

	ranked := make([]rankedArtist, 0, len(order))
	for _, a := range order {
		tracks := byArtist[a]
		if len(tracks) < rk.MinTracksInPool {
			continue
		}
		if len(tracks) > tracksPerArtist {
			tracks = tracks[:tracksPerArtist]
		}
		var sum float64
		for _, t := range tracks {
			sum += t.score
		}
		ranked = append(ranked, rankedArtist{artist: a, score: sum, tracks: tracks})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].artist < ranked[j].artist
	})
	return ranked
}

func (e *Engine) seedTrackIDs(c *catalog.Catalog, seeds Seeds) []string {
	ids := make([]string, len(seeds.TrackRows))
	for i, r := range seeds.TrackRows {
		ids[i] = c.Track(r).ID
	}
	return ids
}

// unweighted maps a weighted audio vector back to raw feature values.
func unweighted(vec []float64, features []catalog.Feature) map[string]float64 {
	out := make(map[string]float64, len(features))
	for j, f := range features {
		if f.Weight == 0 {
			continue
		}
		out[f.Name] = vec[j] / f.Weight
	}
	return out
}

// describe lists the non-zero dimensions of a genre vector, strongest first.
func describe(vec []float64, families []string) []genre.Dimension {
	dims := make([]genre.Dimension, 0, len(vec))
	for j, w := range vec {
		if w > 0 {
			dims = append(dims, genre.Dimension{Family: families[j], Weight: w})
		}
	}
	sort.SliceStable(dims, func(i, j int) bool {
		if dims[i].Weight != dims[j].Weight {
			return dims[i].Weight > dims[j].Weight
		}
		return dims[i].Family < dims[j].Family
	})
	return dims
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
