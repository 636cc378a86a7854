// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vibe/internal/analytics"
	"github.com/tomtom215/vibe/internal/config"
	"github.com/tomtom215/vibe/internal/database"
)

// AnalyticsComponents holds the event recorder, the store it writes to and
// the database behind both. All are nil when analytics is disabled.
type AnalyticsComponents struct {
	Recorder *analytics.Recorder
	Store    *analytics.DuckDBStore
	db       *database.DB
	logger   zerolog.Logger
}

// Close releases the analytics database.
func (c *AnalyticsComponents) Close() {
	if c.db == nil {
		return
	}
	if err := c.db.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Error closing analytics database")
	}
}

// buildRecorderConfig maps the service configuration onto the recorder's.
func buildRecorderConfig(cfg *config.AnalyticsConfig) analytics.Config {
	breaker := analytics.DefaultBreakerConfig()
	breaker.FailureThreshold = cfg.BreakerFailureThreshold
	breaker.Timeout = cfg.BreakerTimeout

	return analytics.Config{
		Enabled:         cfg.Enabled,
		QueueSize:       cfg.QueueSize,
		BatchSize:       cfg.BatchSize,
		FlushInterval:   cfg.FlushInterval,
		DedupeTTL:       cfg.DedupeTTL,
		DedupeThreshold: cfg.DedupeThreshold,
		DedupeRetain:    cfg.DedupeRetain,
		EventsPerSecond: cfg.EventsPerSecond,
		Burst:           cfg.Burst,
		Breaker:         breaker,
	}
}

// initAnalytics opens the analytics database and builds the recorder.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initAnalytics(ctx context.Context, cfg *config.AnalyticsConfig, logger zerolog.Logger) (*AnalyticsComponents, error) {
	components := &AnalyticsComponents{logger: logger}
	if !cfg.Enabled {
		logger.Info().Msg("Analytics disabled (ANALYTICS_ENABLED=false)")
		return components, nil
	}

	db, err := database.Open(ctx, database.Config{Path: cfg.DBPath, Threads: 1})
	if err != nil {
		return nil, err
	}
	store, err := analytics.NewDuckDBStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	recorderCfg := buildRecorderConfig(cfg)
	guarded := analytics.NewBreakerStore(store, recorderCfg.Breaker, logger)
	components.db = db
	components.Store = store
	components.Recorder = analytics.NewRecorder(recorderCfg, guarded, logger)

	logger.Info().
		Str("db_path", cfg.DBPath).
		Int("batch_size", cfg.BatchSize).
		Dur("flush_interval", cfg.FlushInterval).
		Msg("Analytics enabled")
	return components, nil
}
