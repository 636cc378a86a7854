// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/vibe/internal/analytics"
)

// analyticsSummaryQuery holds the validated query parameters of AnalyticsSummary.
type analyticsSummaryQuery struct {
	Since     string   `json:"since" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until     string   `json:"until" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ClientIDs []string `json:"client_id" validate:"max=50,dive,min=1,max=100"`
	Limit     int      `json:"limit" validate:"min=1,max=100"`
}

// AnalyticsSummary aggregates recorded recommendations. Query parameters:
// since and until (RFC 3339), client_id (repeatable or comma-separated)
// and limit for the top-artist lists.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.analytics == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Analytics is disabled", nil)
		return
	}

	params := r.URL.Query()
	q := analyticsSummaryQuery{
		Since:     params.Get("since"),
		Until:     params.Get("until"),
		ClientIDs: splitList(params["client_id"]),
		Limit:     getIntParam(r, "limit", 10),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	filter := analytics.Filter{ClientIDs: q.ClientIDs, Limit: q.Limit}
	filter.Since = parseTimeParam(q.Since)
	filter.Until = parseTimeParam(q.Until)
	if filter.Since != nil && filter.Until != nil && !filter.Until.After(*filter.Since) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "until must be after since", nil)
		return
	}

	summary, err := h.analytics.Summary(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to summarize analytics", err)
		return
	}
	respondSuccess(w, r, summary, start)
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseTimeParam parses an already validated RFC 3339 value. Empty is nil.
func parseTimeParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
