// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/vibe/internal/analytics"
	"github.com/tomtom215/vibe/internal/logging"
	"github.com/tomtom215/vibe/internal/models"
	"github.com/tomtom215/vibe/internal/recommend"
)

// Recommend ranks artists similar to the seed artists and tracks in the
// request body. Seeds missing from the catalog are dropped; when none
// resolve the response is 200 with no recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body models.RecommendRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+logging.Sanitize(err.Error()), nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if len(body.Artists) == 0 && len(body.TrackIDs) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "At least one seed artist or track id is required", nil)
		return
	}

	c, ok := h.catalog(w)
	if !ok {
		return
	}

	req := engineRequest(h.engine.NewRequest(), &body)

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.engine.Recommend(ctx, c, req)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", logging.Sanitize(err.Error()), nil)
		case errors.Is(err, context.DeadlineExceeded):
			respondError(w, http.StatusServiceUnavailable, "TIMEOUT", "Recommendation timed out", err)
		case errors.Is(err, context.Canceled):
			// Client went away; nothing useful to write.
			logging.Ctx(r.Context()).Debug().Msg("recommendation canceled")
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations", err)
		}
		return
	}

	latency := time.Since(start)
	if h.recorder != nil {
		outcome := h.recorder.Record(analytics.NewEvent(body.ClientID, &req, result, latency))
		logging.Ctx(r.Context()).Debug().Str("analytics", string(outcome)).Msg("recommendation event")
	}

	respondSuccess(w, r, models.RecommendResponse{
		Recommendations: result.Artists,
		Metadata:        result.Metadata,
	}, start)
}
