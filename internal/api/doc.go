// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package api serves the recommendation engine and catalog lookups over HTTP.

Routes (chi):

	GET  /api/v1/health               Overall status and catalog size
	GET  /api/v1/health/live          Liveness probe, always 200
	GET  /api/v1/health/ready         Readiness probe, 503 until a catalog is loaded
	GET  /api/v1/artists?q=&limit=    Artist names by popularity, optionally filtered
	GET  /api/v1/artists/{name}/tracks
	GET  /api/v1/artists/{name}/genres
	POST /api/v1/recommend            Ranked similar artists with their best tracks
	GET  /api/v1/analytics/summary    Aggregates of recorded recommendations
	GET  /metrics                     Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine-readable code (BAD_REQUEST, VALIDATION_ERROR, NOT_FOUND,
SERVICE_UNAVAILABLE, TIMEOUT, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR).

The handler reads the catalog through a CatalogProvider on every request, so
a hot reload is picked up without coordination; a request keeps the catalog
it started with until it finishes.
*/
package api
