// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vibe/internal/models"
)

// Health reports service status and the size of the loaded catalog. It
// answers 200 even without a catalog so operators can see why the service
// is not ready.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := models.HealthResponse{
		Status:  "degraded",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	if c, err := h.catalogs.Get(); err == nil {
		loadedAt := c.LoadedAt()
		health.Status = "healthy"
		health.CatalogLoaded = true
		health.TracksLoaded = c.Len()
		health.ArtistsLoaded = c.ArtistCount()
		health.LoadedAt = &loadedAt
	}

	respondSuccess(w, r, health, start)
}

// HealthLive is the liveness probe: the process is up and serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady is the readiness probe: 503 until a catalog is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalogs.Get(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Catalog not loaded", nil)
		return
	}
	respondSuccess(w, r, map[string]string{"status": "ready"}, time.Now())
}
