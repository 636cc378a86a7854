// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/vibe/internal/api"
	"github.com/tomtom215/vibe/internal/catalog"
	"github.com/tomtom215/vibe/internal/config"
	"github.com/tomtom215/vibe/internal/database"
	"github.com/tomtom215/vibe/internal/logging"
	"github.com/tomtom215/vibe/internal/recommend"
	"github.com/tomtom215/vibe/internal/supervisor"
	"github.com/tomtom215/vibe/internal/supervisor/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().Str("version", Version).Msg("Starting Vibe with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	source := catalog.NewParquetSource(cfg.Catalog.Path, database.Config{
		Threads:   cfg.Catalog.Threads,
		MaxMemory: cfg.Catalog.MaxMemory,
	})
	store := catalog.NewStore(source, logging.Logger())
	loaded, err := store.Reload(ctx)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}
	logging.Info().
		Str("path", cfg.Catalog.Path).
		Int("tracks", loaded.Len()).
		Int("artists", loaded.ArtistCount()).
		Msg("Catalog loaded")

	// Engine
	engineCfg := buildEngineConfig(&cfg.Recommend)
	engine, err := recommend.NewEngine(engineCfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// Analytics
	analyticsComponents, err := initAnalytics(ctx, &cfg.Analytics, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize analytics")
	}
	defer analyticsComponents.Close()

	// HTTP
	opts := api.Options{
		Version:        Version,
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	var recorder api.EventRecorder
	if analyticsComponents.Recorder != nil {
		recorder = analyticsComponents.Recorder
		opts.Analytics = analyticsComponents.Store
	}
	handler := api.NewHandler(store, engine, recorder, opts)
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Supervisor tree
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Catalog.ReloadInterval > 0 {
		tree.AddDataService(services.NewCatalogReloadService(store, cfg.Catalog.ReloadInterval, 0, logging.WithComponent("catalog")))
		logging.Info().Dur("interval", cfg.Catalog.ReloadInterval).Msg("Catalog hot reload enabled")
	}
	if analyticsComponents.Recorder != nil {
		tree.AddDataService(services.NewAnalyticsWriterService(analyticsComponents.Recorder))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	watchLogLevel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// watchLogLevel applies logging level changes from the CONFIG_PATH file
// without a restart. Other settings need a restart.
func watchLogLevel() {
	path := os.Getenv(config.ConfigPathEnvVar)
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadWithKoanf()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level updated")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
		return
	}
	logging.Debug().Str("path", path).Msg("Watching config file for log level changes")
}
