// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package main is the entry point for the Vibe recommendation server.

The server loads the encoded catalog Parquet file written by the ingest tool,
serves artist lookups and recommendations over HTTP, and records each
recommendation to a DuckDB analytics table.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("vibe")
	├── DataSupervisor ("data-layer")
	│   ├── Catalog reload (CATALOG_RELOAD_INTERVAL > 0)
	│   └── Analytics writer (ANALYTICS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: the Parquet file is loaded before the server starts listening
 4. Engine: ranking constants and request defaults from config
 5. Analytics: DuckDB store behind a circuit breaker
 6. Supervisor Tree and HTTP Server

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=8000
	CATALOG_PATH=data/data_encoded.parquet
	CATALOG_RELOAD_INTERVAL=1m     # 0 disables hot reload
	ANALYTICS_ENABLED=true
	ANALYTICS_DB_PATH=data/analytics.duckdb
	LOG_LEVEL=info
	LOG_FORMAT=json
	CONFIG_PATH=config.yaml

When CONFIG_PATH names a file, edits to its logging level take effect
without a restart.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, pending analytics events are flushed and the DuckDB handles are
closed.
*/
package main
