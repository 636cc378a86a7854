// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package config loads and validates service configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, else config.yaml, config.yml, /etc/vibe/config.yaml
 3. Environment variables

Only the environment variables listed in envMappings are read. The most
common ones:

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8000)
  - HTTP_REQUEST_TIMEOUT: Per-recommendation deadline (default: 10s)

Catalog:
  - CATALOG_PATH: Encoded catalog Parquet file (default: data/data_encoded.parquet)
  - CATALOG_RELOAD_INTERVAL: Hot reload check interval, 0 disables (default: 0)
  - DUCKDB_THREADS, DUCKDB_MAX_MEMORY: Reader resources

Recommendations:
  - RECOMMEND_SEED: Engine random seed (default: 42)
  - RECOMMEND_DEFAULT_MAX_ARTISTS, RECOMMEND_DEFAULT_TRACKS_PER_ARTIST
  - RECOMMEND_DEFAULT_GENRE_WEIGHT, RECOMMEND_DEFAULT_DIVERSITY
  - RECOMMEND_CANDIDATE_POOL: Nearest tracks considered (default: 1000)

Analytics:
  - ANALYTICS_ENABLED: Record served recommendations (default: true)
  - ANALYTICS_DB_PATH: DuckDB file for events (default: data/analytics.duckdb)
  - ANALYTICS_DEDUPE_TTL: Window for ignoring repeated queries (default: 30s)

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file and line (default: false)

Validate reports every invalid value at once rather than stopping at the
first.
*/
package config
