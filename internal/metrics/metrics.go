// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "invalid"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_recommend_duration_seconds",
			Help:    "Time spent ranking one recommendation request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendSeedsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_recommend_seeds_dropped_total",
			Help: "Seed artists and track IDs ignored because they are not in the catalog",
		},
	)

	RecommendArtistsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_recommend_artists_returned",
			Help:    "Number of artists returned per recommendation",
			Buckets: []float64{0, 1, 2, 4, 6, 10, 20, 50},
		},
	)

	// Catalog Metrics
	CatalogTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_catalog_tracks",
			Help: "Tracks in the active catalog",
		},
	)

	CatalogArtists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_catalog_artists",
			Help: "Artists in the active catalog",
		},
	)

	CatalogGenreDimensions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_catalog_genre_dimensions",
			Help: "Genre embedding dimensions in the active catalog",
		},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_catalog_load_duration_seconds",
			Help:    "Time spent loading and indexing the catalog",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CatalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_catalog_reloads_total",
			Help: "Catalog load attempts by result",
		},
		[]string{"result"}, // "success", "failure", "unchanged"
	)

	CatalogLoadedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_catalog_loaded_timestamp_seconds",
			Help: "Unix time the active catalog was loaded",
		},
	)

	// Analytics Metrics
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_analytics_events_total",
			Help: "Analytics events by outcome",
		},
		[]string{"outcome"}, // "accepted", "deduplicated", "rate_limited", "dropped", "written", "failed"
	)

	AnalyticsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_analytics_queue_depth",
			Help: "Analytics events waiting to be written",
		},
	)

	AnalyticsFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_analytics_flush_duration_seconds",
			Help:    "Time spent writing one batch of analytics events",
			Buckets: prometheus.DefBuckets,
		},
	)

	DedupeCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_analytics_dedupe_cache_entries",
			Help: "Entries in the analytics dedupe cache",
		},
	)

	DedupeCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_analytics_dedupe_cache_evictions_total",
			Help: "Entries evicted from the analytics dedupe cache",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vibe_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_circuit_breaker_rejections_total",
			Help: "Calls rejected while a circuit breaker was open",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one ranking pass.
func RecordRecommendation(outcome string, artists int, seedsDropped int, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	RecommendArtistsReturned.Observe(float64(artists))
	if seedsDropped > 0 {
		RecommendSeedsDropped.Add(float64(seedsDropped))
	}
}

// RecordCatalogLoad records a catalog load attempt and, on success, the new
// catalog's size.
func RecordCatalogLoad(tracks, artists, genreDims int, duration time.Duration, err error) {
	CatalogLoadDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("success").Inc()
	CatalogTracks.Set(float64(tracks))
	CatalogArtists.Set(float64(artists))
	CatalogGenreDimensions.Set(float64(genreDims))
	CatalogLoadedTimestamp.Set(float64(time.Now().Unix()))
}

// RecordAnalyticsEvent counts an analytics event outcome.
func RecordAnalyticsEvent(outcome string) {
	AnalyticsEventsTotal.WithLabelValues(outcome).Inc()
}

// UpdateCircuitBreakerState publishes a breaker state (0 closed, 1 half-open, 2 open).
func UpdateCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
