// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tomtom215/vibe/internal/catalog/catalogtest"
	"github.com/tomtom215/vibe/internal/database"
)

// fakeSource is a versioned source whose frame and version tests can change.
type fakeSource struct {
	mu      sync.Mutex
	frame   *database.Frame
	version string
	err     error
	loads   int
}

func (s *fakeSource) Load(_ context.Context) (*database.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.frame, nil
}

func (s *fakeSource) Version(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func TestStore_NotLoaded(t *testing.T) {
	t.Parallel()

	s := NewStore(FrameSource{}, testLogger)
	if s.Current() != nil {
		t.Error("Current() should be nil before load")
	}
	if _, err := s.Get(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := s.Reload(context.Background()); err == nil {
		t.Error("expected error from empty frame source")
	}
}

func TestStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{frame: catalogtest.Frame(catalogtest.Synthetic(2, 3, 1)), version: "v1"}
	s := NewStore(src, testLogger)

	first, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if first.Len() != 6 {
		t.Errorf("Len() = %d, want 6", first.Len())
	}

	src.mu.Lock()
	src.err = errors.New("disk gone")
	src.mu.Unlock()

	if _, err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if s.Current() != first {
		t.Error("failed reload replaced the active catalog")
	}
}

func TestStore_ReloadIfChanged(t *testing.T) {
	t.Parallel()

	src := &fakeSource{frame: catalogtest.Frame(catalogtest.Synthetic(2, 3, 1)), version: "v1"}
	s := NewStore(src, testLogger)
	ctx := context.Background()

	reloaded, err := s.ReloadIfChanged(ctx)
	if err != nil || !reloaded {
		t.Fatalf("initial ReloadIfChanged = %v, %v", reloaded, err)
	}
	old := s.Current()

	reloaded, err = s.ReloadIfChanged(ctx)
	if err != nil || reloaded {
		t.Fatalf("unchanged ReloadIfChanged = %v, %v", reloaded, err)
	}
	if src.loads != 1 {
		t.Errorf("source loaded %d times, want 1", src.loads)
	}

	src.mu.Lock()
	src.frame = catalogtest.Frame(catalogtest.Synthetic(3, 3, 2))
	src.version = "v2"
	src.mu.Unlock()

	reloaded, err = s.ReloadIfChanged(ctx)
	if err != nil || !reloaded {
		t.Fatalf("changed ReloadIfChanged = %v, %v", reloaded, err)
	}
	if s.Current() == old || s.Current().Len() != 9 {
		t.Errorf("expected new catalog with 9 tracks, got %d", s.Current().Len())
	}
	// The old catalog is untouched for readers still holding it.
	if old.Len() != 6 {
		t.Errorf("old catalog mutated: Len() = %d", old.Len())
	}
}

func TestParquetSource_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.parquet")

	db, err := database.Open(ctx, database.Config{Threads: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.WriteParquet(ctx, catalogtest.Frame(catalogtest.Synthetic(3, 4, 7)), path); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	src := NewParquetSource(path, database.Config{Threads: 1})
	s := NewStore(src, testLogger)
	c, err := s.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if c.Len() != 12 || c.ArtistCount() != 3 {
		t.Errorf("loaded %d tracks / %d artists, want 12 / 3", c.Len(), c.ArtistCount())
	}
	if c.Genre().Cols() != 22 {
		t.Errorf("genre cols = %d, want 22", c.Genre().Cols())
	}
	if _, ok := c.TrackIndex("a01-t002"); !ok {
		t.Error("track a01-t002 not indexed")
	}

	v1, err := src.Version(ctx)
	if err != nil || v1 == "" {
		t.Errorf("Version() = %q, %v", v1, err)
	}

	missing := NewParquetSource(filepath.Join(t.TempDir(), "missing.parquet"), database.Config{})
	if _, err := missing.Load(ctx); err == nil {
		t.Error("expected error for missing file")
	}
}
