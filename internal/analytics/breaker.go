// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vibe/internal/metrics"
)

// BreakerConfig configures the circuit breaker around event writes.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Consecutive failures before opening
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "analytics-store",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// BreakerStore guards an EventStore with a circuit breaker so a failing
// database is not hammered with every batch.
type BreakerStore struct {
	store EventStore
	cb    *gobreaker.CircuitBreaker[struct{}]
	name  string
}

// NewBreakerStore wraps store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerStore(store EventStore, cfg BreakerConfig, logger zerolog.Logger) *BreakerStore {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 1
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateCircuitBreakerState(name, int(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}
	metrics.UpdateCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return &BreakerStore{
		store: store,
		cb:    gobreaker.NewCircuitBreaker[struct{}](settings),
		name:  cfg.Name,
	}
}

// InsertEvents writes through the breaker. While open, calls fail fast
// with gobreaker.ErrOpenState.
func (b *BreakerStore) InsertEvents(ctx context.Context, events []*Event) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.store.InsertEvents(ctx, events)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRejections.WithLabelValues(b.name).Inc()
	}
	return err
}

// State returns the breaker state name.
func (b *BreakerStore) State() string {
	return b.cb.State().String()
}
