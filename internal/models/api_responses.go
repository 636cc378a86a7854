// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Status is "success" with Data set, or "error" with Error set.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"artists": ["Portishead", "Massive Attack"]},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "artist not found"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a structured error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: malformed or out-of-range request
//   - NOT_FOUND: unknown artist
//   - SERVICE_UNAVAILABLE: no catalog loaded yet
//   - TIMEOUT: the request deadline passed
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
