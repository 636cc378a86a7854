// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/analytics"
	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/catalog/catalogtest"
	"github.com/tomtom215/vibe/internal/models"
	"github.com/tomtom215/vibe/internal/recommend"
)

// mockRecorder captures recorded events.
type mockRecorder struct {
	mu     sync.Mutex
	events []*analytics.Event
}

func (m *mockRecorder) Record(e *analytics.Event) analytics.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return analytics.OutcomeAccepted
}

func (m *mockRecorder) recorded() []*analytics.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*analytics.Event(nil), m.events...)
}

type testServer struct {
	handler  http.Handler
	store    *catalog.Store
	recorder *mockRecorder
}

// newTestServer serves a synthetic catalog of 10 artists with 10 tracks
// each. load=false leaves the store empty.
func newTestServer(t *testing.T, load bool) *testServer {
	t.Helper()

	store := catalog.NewStore(catalog.FrameSource{Frame: catalogtest.Frame(catalogtest.Synthetic(10, 10, 1))}, zerolog.Nop())
	if load {
		if _, err := store.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rec := &mockRecorder{}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	router := NewRouter(NewHandler(store, engine, rec, Options{Version: "test"}), NewChiMiddleware(mwCfg))

	return &testServer{handler: router.Setup(), store: store, recorder: rec}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an API envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Fatalf("status = %q, want success (error %+v)", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		load        bool
		wantStatus  string
		wantLoaded  bool
		wantTracks  int
		wantArtists int
		wantReady   int
	}{
		{name: "before load", load: false, wantStatus: "degraded", wantReady: http.StatusServiceUnavailable},
		{name: "loaded", load: true, wantStatus: "healthy", wantLoaded: true, wantTracks: 100, wantArtists: 10, wantReady: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, tt.load)

			rec := s.do(http.MethodGet, "/api/v1/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("health status = %d, want 200", rec.Code)
			}
			var health models.HealthResponse
			decodeData(t, rec, &health)
			if health.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", health.Status, tt.wantStatus)
			}
			if health.CatalogLoaded != tt.wantLoaded {
				t.Errorf("CatalogLoaded = %v, want %v", health.CatalogLoaded, tt.wantLoaded)
			}
			if health.TracksLoaded != tt.wantTracks {
				t.Errorf("TracksLoaded = %d, want %d", health.TracksLoaded, tt.wantTracks)
			}
			if health.ArtistsLoaded != tt.wantArtists {
				t.Errorf("ArtistsLoaded = %d, want %d", health.ArtistsLoaded, tt.wantArtists)
			}
			if (health.LoadedAt != nil) != tt.wantLoaded {
				t.Errorf("LoadedAt = %v, want set = %v", health.LoadedAt, tt.wantLoaded)
			}
			if health.Version != "test" {
				t.Errorf("Version = %q, want test", health.Version)
			}

			if rec := s.do(http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
				t.Errorf("live status = %d, want 200", rec.Code)
			}
			if rec := s.do(http.MethodGet, "/api/v1/health/ready", ""); rec.Code != tt.wantReady {
				t.Errorf("ready status = %d, want %d", rec.Code, tt.wantReady)
			}
		})
	}
}

func TestHealthReady_AfterReload(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	if rec := s.do(http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before load = %d, want 503", rec.Code)
	}
	if _, err := s.store.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if rec := s.do(http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("ready after load = %d, want 200", rec.Code)
	}
}

func TestListArtists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantCode   int
		wantCount  int
		wantTotal  int
		wantArtist string
	}{
		{name: "default limit", query: "", wantCode: http.StatusOK, wantCount: 10, wantTotal: 10},
		{name: "limited", query: "?limit=3", wantCode: http.StatusOK, wantCount: 3, wantTotal: 10},
		{name: "filtered", query: "?q=artist%207", wantCode: http.StatusOK, wantCount: 1, wantTotal: 1, wantArtist: "Artist 7"},
		{name: "no match", query: "?q=nobody", wantCode: http.StatusOK},
		{name: "unparsable limit uses default", query: "?limit=abc", wantCode: http.StatusOK, wantCount: 10, wantTotal: 10},
		{name: "zero limit", query: "?limit=0", wantCode: http.StatusBadRequest},
		{name: "limit too large", query: "?limit=5000", wantCode: http.StatusBadRequest},
	}

	s := newTestServer(t, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(http.MethodGet, "/api/v1/artists"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				env := decodeEnvelope(t, rec)
				if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
					t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
				}
				return
			}

			var got models.ArtistListResponse
			decodeData(t, rec, &got)
			if got.Count != tt.wantCount || len(got.Artists) != tt.wantCount {
				t.Errorf("Count = %d (len %d), want %d", got.Count, len(got.Artists), tt.wantCount)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
			if tt.wantArtist != "" && (len(got.Artists) == 0 || got.Artists[0] != tt.wantArtist) {
				t.Errorf("Artists = %v, want [%s]", got.Artists, tt.wantArtist)
			}
		})
	}
}

func TestArtistLookups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{name: "tracks", path: "/api/v1/artists/Artist%203/tracks", wantCode: http.StatusOK},
		{name: "genres", path: "/api/v1/artists/Artist%203/genres", wantCode: http.StatusOK},
		{name: "unknown tracks", path: "/api/v1/artists/Nobody/tracks", wantCode: http.StatusNotFound},
		{name: "unknown genres", path: "/api/v1/artists/Nobody/genres", wantCode: http.StatusNotFound},
		{name: "encoded slash", path: "/api/v1/artists/AC%2FDC/tracks", wantCode: http.StatusNotFound},
	}

	s := newTestServer(t, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(http.MethodGet, tt.path, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusNotFound {
				env := decodeEnvelope(t, rec)
				if env.Error == nil || env.Error.Code != "NOT_FOUND" {
					t.Errorf("error = %+v, want NOT_FOUND", env.Error)
				}
			}
		})
	}
}

func TestArtistTracks_Body(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	rec := s.do(http.MethodGet, "/api/v1/artists/Artist%203/tracks", "")
	var got models.ArtistTracksResponse
	decodeData(t, rec, &got)

	if got.Artist != "Artist 3" {
		t.Errorf("Artist = %q, want Artist 3", got.Artist)
	}
	if got.Count != 10 || len(got.Tracks) != 10 {
		t.Fatalf("Count = %d (len %d), want 10", got.Count, len(got.Tracks))
	}
	for i := 1; i < len(got.Tracks); i++ {
		if got.Tracks[i].Popularity > got.Tracks[i-1].Popularity {
			t.Errorf("tracks not sorted by popularity at %d: %v > %v", i, got.Tracks[i].Popularity, got.Tracks[i-1].Popularity)
		}
	}
}

func TestArtistGenres_Body(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	rec := s.do(http.MethodGet, "/api/v1/artists/Artist%200/genres", "")
	var got models.ArtistGenresResponse
	decodeData(t, rec, &got)

	if len(got.Genres) == 0 {
		t.Fatal("Genres empty, want the artist's profile")
	}
	if got.Genres[0].Genre != "rock" {
		t.Errorf("Genres[0] = %q, want rock", got.Genres[0].Genre)
	}
}

func TestArtists_NotLoaded(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	for _, path := range []string{"/api/v1/artists", "/api/v1/artists/Artist%201/tracks"} {
		if rec := s.do(http.MethodGet, path, ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, rec.Code)
		}
	}
}

func TestRecommend_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "empty body", body: "", wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "malformed json", body: `{"artists":`, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "unknown field", body: `{"artists":["Artist 0"],"artist_count":3}`, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "no seeds", body: `{"max_artists":3}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "blank seed", body: `{"artists":["  "]}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "unknown vibe", body: `{"artists":["Artist 0"],"vibe":{"tempo":0.5}}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "popularity bias out of range", body: `{"artists":["Artist 0"],"popularity_bias":2}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "above configured max artists", body: `{"artists":["Artist 0"],"max_artists":500}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "diversity above limit", body: `{"artists":["Artist 0"],"diversity":11}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
	}

	s := newTestServer(t, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(http.MethodPost, "/api/v1/recommend", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.wantCode, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
		})
	}

	if n := len(s.recorder.recorded()); n != 0 {
		t.Errorf("recorded %d events for failed requests, want 0", n)
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	body := `{"artists":["Artist 0"],"max_artists":3,"tracks_per_artist":2,"client_id":"web-1","seed":7}`
	rec := s.do(http.MethodPost, "/api/v1/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	var got models.RecommendResponse
	decodeData(t, rec, &got)

	if len(got.Recommendations) != 3 {
		t.Fatalf("recommendations = %d, want 3", len(got.Recommendations))
	}
	if !got.Metadata.HasMoreCandidates {
		t.Error("HasMoreCandidates = false, want true with 9 qualifying artists")
	}
	for _, a := range got.Recommendations {
		if a.Artist == "Artist 0" {
			t.Error("seed artist returned")
		}
		if len(a.Tracks) == 0 || len(a.Tracks) > 2 {
			t.Errorf("%s has %d tracks, want 1..2", a.Artist, len(a.Tracks))
		}
	}
	for i := 1; i < len(got.Recommendations); i++ {
		if got.Recommendations[i].Score > got.Recommendations[i-1].Score {
			t.Errorf("recommendations not ordered by score at %d", i)
		}
	}

	events := s.recorder.recorded()
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	if events[0].ClientID != "web-1" {
		t.Errorf("event ClientID = %q, want web-1", events[0].ClientID)
	}
	if len(events[0].ReturnedArtists) != 3 {
		t.Errorf("event ReturnedArtists = %v, want 3 artists", events[0].ReturnedArtists)
	}
}

func TestRecommend_UnresolvedSeeds(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	rec := s.do(http.MethodPost, "/api/v1/recommend", `{"artists":["Nobody"],"track_ids":["missing"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	var got models.RecommendResponse
	decodeData(t, rec, &got)
	if len(got.Recommendations) != 0 {
		t.Errorf("recommendations = %d, want 0", len(got.Recommendations))
	}
	if len(got.Metadata.DroppedSeeds) != 2 {
		t.Errorf("DroppedSeeds = %v, want both seeds", got.Metadata.DroppedSeeds)
	}
}

func TestRecommend_ReproducibleWithSeed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	body := `{"artists":["Artist 4"],"diversity":3,"seed":99,"max_artists":5}`
	first := s.do(http.MethodPost, "/api/v1/recommend", body)
	second := s.do(http.MethodPost, "/api/v1/recommend", body)

	var a, b models.RecommendResponse
	decodeData(t, first, &a)
	decodeData(t, second, &b)

	if len(a.Recommendations) != len(b.Recommendations) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Recommendations), len(b.Recommendations))
	}
	for i := range a.Recommendations {
		if a.Recommendations[i].Artist != b.Recommendations[i].Artist {
			t.Errorf("position %d: %q vs %q", i, a.Recommendations[i].Artist, b.Recommendations[i].Artist)
		}
	}
}

func TestRecommend_NotLoaded(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/api/v1/recommend", `{"artists":["Artist 0"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestEngineRequest(t *testing.T) {
	t.Parallel()

	defaults := recommend.DefaultConfig().NewRequest()
	diversity, maxArtists, bias, seed := 2.5, 12, -0.5, int64(5)

	got := engineRequest(defaults, &models.RecommendRequest{
		Artists:        []string{"A"},
		TrackIDs:       []string{"t1"},
		Diversity:      &diversity,
		MaxArtists:     &maxArtists,
		PopularityBias: &bias,
		Seed:           &seed,
		Vibe:           map[string]float64{"mood": 1},
	})

	if got.Diversity != 2.5 || got.MaxArtists != 12 || got.PopularityBias != -0.5 || got.RandomSeed != 5 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.GenreWeight != defaults.GenreWeight {
		t.Errorf("GenreWeight = %v, want default %v", got.GenreWeight, defaults.GenreWeight)
	}
	if got.TracksPerArtist != defaults.TracksPerArtist {
		t.Errorf("TracksPerArtist = %v, want default %v", got.TracksPerArtist, defaults.TracksPerArtist)
	}
	if len(got.SeedArtists) != 1 || len(got.SeedTrackIDs) != 1 || got.Vibe["mood"] != 1 {
		t.Errorf("seeds or vibe not copied: %+v", got)
	}
}
