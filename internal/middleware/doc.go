// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package middleware holds the HTTP middleware shared by every route:
//
//   - RequestID: request and correlation IDs for logging
//   - Compression: gzip responses
//   - PrometheusMetrics: request metrics labeled by route pattern
//
// Each has the chi signature func(http.Handler) http.Handler.
package middleware
