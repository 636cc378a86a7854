// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package supervisor runs the service's long-lived components under suture v4.

	RootSupervisor ("vibe")
	├── DataSupervisor ("data-layer")
	│   ├── CatalogReloadService (if CATALOG_RELOAD_INTERVAL > 0)
	│   └── AnalyticsWriterService (if ANALYTICS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog on a slog.Logger, which cmd/server bridges to
zerolog with logging.NewSlogLogger.

The service wrappers live in the services subpackage.
*/
package supervisor
