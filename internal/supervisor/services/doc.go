// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package services adapts the service's long-running components to
// suture.Service. Each wrapper depends on a small interface so it can be
// tested without the real catalog, recorder or network listener.
package services
