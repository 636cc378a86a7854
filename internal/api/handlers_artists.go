// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/logging"
	"github.com/tomtom215/vibe/internal/models"
)

// defaultArtistLimit is the page size when limit is not given.
const defaultArtistLimit = 100

// artistListQuery holds the validated query parameters of ListArtists.
type artistListQuery struct {
	Query string `json:"q" validate:"max=200"`
	Limit int    `json:"limit" validate:"min=1,max=1000"`
}

// ListArtists returns artist names ordered by popularity, optionally
// filtered by a case-insensitive substring.
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := artistListQuery{
		Query: r.URL.Query().Get("q"),
		Limit: getIntParam(r, "limit", defaultArtistLimit),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	c, ok := h.catalog(w)
	if !ok {
		return
	}

	matches := c.Artists(q.Query, 0)
	total := len(matches)
	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	respondSuccess(w, r, models.ArtistListResponse{
		Artists: matches,
		Count:   len(matches),
		Total:   total,
	}, start)
}

// ArtistTracks returns every track by an artist, most popular first.
func (h *Handler) ArtistTracks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	artist, ok := h.artistParam(w, r)
	if !ok {
		return
	}
	c, ok := h.catalog(w)
	if !ok {
		return
	}

	tracks, err := c.ArtistTracks(artist)
	if err != nil {
		h.respondArtistError(w, artist, err)
		return
	}

	respondSuccess(w, r, models.ArtistTracksResponse{
		Artist: artist,
		Tracks: tracks,
		Count:  len(tracks),
	}, start)
}

// ArtistGenres returns an artist's genre profile.
func (h *Handler) ArtistGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	artist, ok := h.artistParam(w, r)
	if !ok {
		return
	}
	c, ok := h.catalog(w)
	if !ok {
		return
	}

	genres, err := c.GenreProfile(artist)
	if err != nil {
		h.respondArtistError(w, artist, err)
		return
	}

	respondSuccess(w, r, models.ArtistGenresResponse{
		Artist: artist,
		Genres: genres,
	}, start)
}

// catalog returns the active catalog or writes a 503.
func (h *Handler) catalog(w http.ResponseWriter) (*catalog.Catalog, bool) {
	c, err := h.catalogs.Get()
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Catalog not loaded", nil)
		return nil, false
	}
	return c, true
}

// artistParam returns the {name} path parameter or writes a 400.
func (h *Handler) artistParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	artist, err := pathParam(r, "name")
	if err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid artist name", nil)
		return "", false
	}
	if artist == "" {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Artist name is required", nil)
		return "", false
	}
	return artist, true
}

func (h *Handler) respondArtistError(w http.ResponseWriter, artist string, err error) {
	if errors.Is(err, catalog.ErrArtistNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Artist not found: "+logging.Sanitize(artist), nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to look up artist", err)
}
