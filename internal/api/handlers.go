// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vibe/internal/analytics"
	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/recommend"
)

// defaultRequestTimeout bounds a recommendation when no timeout is configured.
const defaultRequestTimeout = 10 * time.Second

// CatalogProvider returns the active catalog. *catalog.Store implements it.
type CatalogProvider interface {
	Get() (*catalog.Catalog, error)
}

// EventRecorder accepts served recommendations for analytics.
// *analytics.Recorder implements it.
type EventRecorder interface {
	Record(e *analytics.Event) analytics.Outcome
}

// AnalyticsQuerier aggregates stored events. *analytics.DuckDBStore
// implements it.
type AnalyticsQuerier interface {
	Summary(ctx context.Context, f analytics.Filter) (*analytics.Summary, error)
}

// Options holds optional handler settings.
type Options struct {
	// Version is reported by the health endpoint.
	Version string

	// RequestTimeout bounds a single recommendation. Zero uses 10s.
	RequestTimeout time.Duration

	// Analytics serves the summary endpoint. Nil answers it with 503.
	Analytics AnalyticsQuerier
}

// Handler serves the HTTP API.
type Handler struct {
	catalogs       CatalogProvider
	engine         *recommend.Engine
	recorder       EventRecorder
	analytics      AnalyticsQuerier
	version        string
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates a handler. recorder may be nil to disable analytics.
func NewHandler(catalogs CatalogProvider, engine *recommend.Engine, recorder EventRecorder, opts Options) *Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		catalogs:       catalogs,
		engine:         engine,
		recorder:       recorder,
		analytics:      opts.Analytics,
		version:        opts.Version,
		requestTimeout: timeout,
		startTime:      time.Now(),
	}
}
