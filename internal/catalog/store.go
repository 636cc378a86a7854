// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/metrics"
)

// Load builds a Catalog from source.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func Load(ctx context.Context, source Source, logger zerolog.Logger) (*Catalog, error) {
	frame, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog source: %w", err)
	}
	return Build(frame, logger)
}

// Store holds the active Catalog and swaps in rebuilt ones.
type Store struct {
	source  Source
	logger  zerolog.Logger
	current atomic.Pointer[Catalog]

	// reloadMu serializes reloads; readers never take it.
	reloadMu sync.Mutex
	version  string
}

// NewStore creates an empty store for source. Call Reload before serving.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewStore(source Source, logger zerolog.Logger) *Store {
	return &Store{
		source: source,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Current returns the active catalog, or nil before the first load.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Get returns the active catalog or ErrNotLoaded.
func (s *Store) Get() (*Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return nil, ErrNotLoaded
}

// Reload builds a new catalog and makes it active. On failure the previous
// catalog stays active.
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Store) reloadLocked(ctx context.Context) (*Catalog, error) {
	version := ""
	if v, ok := s.source.(Versioned); ok {
		if token, err := v.Version(ctx); err == nil {
			version = token
		}
	}

	start := time.Now()
	c, err := Load(ctx, s.source, s.logger)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordCatalogLoad(0, 0, 0, elapsed, err)
		return nil, err
	}
	metrics.RecordCatalogLoad(c.Len(), c.ArtistCount(), len(c.genreFamilies), elapsed, nil)

	s.current.Store(c)
	s.version = version

	s.logger.Info().
		Int("tracks", c.Len()).
		Int("artists", c.ArtistCount()).
		Int("genre_dimensions", len(c.genreFamilies)).
		Dur("duration", elapsed).
		Msg("Catalog loaded")
	return c, nil
}

// ReloadIfChanged reloads only when the source reports a new version. Sources
// without versions are always reloaded. It reports whether a reload happened.
func (s *Store) ReloadIfChanged(ctx context.Context) (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if v, ok := s.source.(Versioned); ok && s.current.Load() != nil {
		token, err := v.Version(ctx)
		if err != nil {
			return false, err
		}
		if token == s.version {
			metrics.CatalogReloadsTotal.WithLabelValues("unchanged").Inc()
			return false, nil
		}
	}

	if _, err := s.reloadLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}
