// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CatalogReloader swaps in a fresh catalog when its source changed.
// *catalog.Store implements it.
type CatalogReloader interface {
	ReloadIfChanged(ctx context.Context) (bool, error)
}

// CatalogReloadService checks the catalog source on an interval and hot
// reloads it when it changed. A failed reload keeps the current catalog and
// is retried on the next tick.
type CatalogReloadService struct {
	store    CatalogReloader
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewCatalogReloadService creates the reload service. Each check is bounded
// by timeout; zero means the interval.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewCatalogReloadService(store CatalogReloader, interval, timeout time.Duration, logger zerolog.Logger) *CatalogReloadService {
	if timeout <= 0 {
		timeout = interval
	}
	return &CatalogReloadService{
		store:    store,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("service", "catalog-reload").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CatalogReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("catalog reload service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *CatalogReloadService) check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reloaded, err := s.store.ReloadIfChanged(checkCtx)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("catalog reload failed, keeping current catalog")
	case reloaded:
		s.logger.Info().Msg("catalog reloaded")
	default:
		s.logger.Debug().Msg("catalog unchanged")
	}
}

// String names the service in supervisor logs.
func (s *CatalogReloadService) String() string {
	return "catalog-reload"
}
