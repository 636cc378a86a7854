// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/artists", "200"))

	RecordAPIRequest("GET", "/api/v1/artists", "200", 3*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/artists", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("active = %v after inc, want %v", got, start+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v after dec, want %v", got, start)
	}
}

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues("ok"))
	droppedBefore := testutil.ToFloat64(RecommendSeedsDropped)

	RecordRecommendation("ok", 6, 2, 5*time.Millisecond)
	RecordRecommendation("ok", 3, 0, time.Millisecond)

	if got := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues("ok")); got != okBefore+2 {
		t.Errorf("ok = %v, want %v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(RecommendSeedsDropped); got != droppedBefore+2 {
		t.Errorf("seeds dropped = %v, want %v", got, droppedBefore+2)
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{name: "success", result: "success"},
		{name: "failure", err: errors.New("missing columns"), result: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues(tt.result))
			RecordCatalogLoad(100, 10, 22, time.Second, tt.err)
			if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues(tt.result)); got != before+1 {
				t.Errorf("reloads{%s} = %v, want %v", tt.result, got, before+1)
			}
		})
	}

	if got := testutil.ToFloat64(CatalogTracks); got != 100 {
		t.Errorf("catalog tracks = %v, want 100", got)
	}
}

func TestUpdateCircuitBreakerState(t *testing.T) {
	UpdateCircuitBreakerState("analytics", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("analytics")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
}
