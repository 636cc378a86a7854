// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package analytics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vibe/internal/cache"
	"github.com/tomtom215/vibe/internal/metrics"
)

// Outcome is what Record did with an event.
type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeDeduplicated Outcome = "deduplicated"
	OutcomeRateLimited  Outcome = "rate_limited"
	OutcomeDropped      Outcome = "dropped"
	OutcomeDisabled     Outcome = "disabled"
)

// Config configures the recorder.
type Config struct {
	// Enabled turns event recording on.
	Enabled bool

	// QueueSize bounds the events waiting to be written.
	QueueSize int

	// BatchSize is the largest number of events written at once.
	BatchSize int

	// FlushInterval is the longest an accepted event waits before a write.
	FlushInterval time.Duration

	// DedupeTTL suppresses repeats of the same query from the same client.
	DedupeTTL time.Duration

	// DedupeThreshold and DedupeRetain bound the dedupe cache.
	DedupeThreshold int
	DedupeRetain    int

	// EventsPerSecond is the global accepted-event budget; Burst its bucket size.
	EventsPerSecond float64
	Burst           int

	Breaker BreakerConfig
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		QueueSize:       1024,
		BatchSize:       100,
		FlushInterval:   5 * time.Second,
		DedupeTTL:       30 * time.Second,
		DedupeThreshold: 10000,
		DedupeRetain:    5000,
		EventsPerSecond: 50,
		Burst:           100,
		Breaker:         DefaultBreakerConfig(),
	}
}

// RecorderStats holds runtime statistics for monitoring.
type RecorderStats struct {
	Accepted     int64
	Deduplicated int64
	RateLimited  int64
	Dropped      int64
	Written      int64
	Failed       int64
	Queued       int
}

// Recorder accepts events from request handlers without blocking and
// writes them in batches from Run. Every failure is absorbed: handlers never
// see an analytics error.
type Recorder struct {
	cfg     Config
	store   EventStore
	seen    *cache.DedupeCache
	limiter *rate.Limiter
	queue   chan *Event
	logger  zerolog.Logger

	accepted     atomic.Int64
	deduplicated atomic.Int64
	rateLimited  atomic.Int64
	dropped      atomic.Int64
	written      atomic.Int64
	failed       atomic.Int64
}

// NewRecorder creates a recorder writing to store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(cfg Config, store EventStore, logger zerolog.Logger) *Recorder {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	limit := rate.Inf
	if cfg.EventsPerSecond > 0 {
		limit = rate.Limit(cfg.EventsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.BatchSize
	}

	return &Recorder{
		cfg:   cfg,
		store: store,
		seen: cache.NewDedupeCache(cache.DedupeConfig{
			TTL:       cfg.DedupeTTL,
			Threshold: cfg.DedupeThreshold,
			Retain:    cfg.DedupeRetain,
			OnEvict: func(n int) {
				metrics.DedupeCacheEvictions.Add(float64(n))
			},
		}),
		limiter: rate.NewLimiter(limit, cfg.Burst),
		queue:   make(chan *Event, cfg.QueueSize),
		logger:  logger.With().Str("component", "analytics").Logger(),
	}
}

// Record offers an event for writing. It never blocks. A nil or disabled
// recorder ignores the event.
func (r *Recorder) Record(e *Event) Outcome {
	if r == nil || !r.cfg.Enabled || e == nil {
		return OutcomeDisabled
	}

	outcome := r.admit(e)
	metrics.RecordAnalyticsEvent(string(outcome))
	if outcome != OutcomeAccepted {
		r.logger.Debug().
			Str("client_id", e.ClientID).
			Str("outcome", string(outcome)).
			Msg("Analytics event skipped")
	}
	return outcome
}

// admit claims the event's dedupe key and releases it again when the event
// is not queued, so a retry of a rejected event is not reported as a repeat.
func (r *Recorder) admit(e *Event) Outcome {
	key := e.DedupeKey()
	isDup := r.seen.IsDuplicate(key)
	metrics.DedupeCacheEntries.Set(float64(r.seen.Len()))
	if isDup {
		r.deduplicated.Add(1)
		return OutcomeDeduplicated
	}
	if !r.limiter.Allow() {
		r.seen.Remove(key)
		r.rateLimited.Add(1)
		return OutcomeRateLimited
	}
	select {
	case r.queue <- e:
		r.accepted.Add(1)
		metrics.AnalyticsQueueDepth.Set(float64(len(r.queue)))
		return OutcomeAccepted
	default:
		r.seen.Remove(key)
		r.dropped.Add(1)
		return OutcomeDropped
	}
}

// Run writes queued events until ctx is canceled, then flushes what is
// left with a short grace period.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*Event, 0, r.cfg.BatchSize)
	for {
		select {
		case <-ctx.Done():
			batch = r.drain(batch)
			// The parent context is already canceled; give the final write its own deadline.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			r.flush(flushCtx, batch)
			cancel()
			return ctx.Err()

		case e := <-r.queue:
			batch = append(batch, e)
			metrics.AnalyticsQueueDepth.Set(float64(len(r.queue)))
			if len(batch) >= r.cfg.BatchSize {
				batch = r.flush(ctx, batch)
			}

		case <-ticker.C:
			batch = r.flush(ctx, batch)
		}
	}
}

// drain moves every queued event into batch without blocking.
func (r *Recorder) drain(batch []*Event) []*Event {
	for {
		select {
		case e := <-r.queue:
			batch = append(batch, e)
		default:
			metrics.AnalyticsQueueDepth.Set(0)
			return batch
		}
	}
}

// flush writes batch in chunks of BatchSize and returns the emptied batch.
// Failed events are counted and discarded.
func (r *Recorder) flush(ctx context.Context, batch []*Event) []*Event {
	for start := 0; start < len(batch); start += r.cfg.BatchSize {
		end := min(start+r.cfg.BatchSize, len(batch))
		chunk := batch[start:end]

		began := time.Now()
		err := r.store.InsertEvents(ctx, chunk)
		metrics.AnalyticsFlushDuration.Observe(time.Since(began).Seconds())

		if err != nil {
			r.failed.Add(int64(len(chunk)))
			metrics.AnalyticsEventsTotal.WithLabelValues("failed").Add(float64(len(chunk)))
			r.logger.Warn().Err(err).Int("events", len(chunk)).Msg("Failed to write analytics events")
			continue
		}
		r.written.Add(int64(len(chunk)))
		metrics.AnalyticsEventsTotal.WithLabelValues("written").Add(float64(len(chunk)))
	}
	return batch[:0]
}

// Stats returns a snapshot of the recorder counters.
func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		Accepted:     r.accepted.Load(),
		Deduplicated: r.deduplicated.Load(),
		RateLimited:  r.rateLimited.Load(),
		Dropped:      r.dropped.Load(),
		Written:      r.written.Load(),
		Failed:       r.failed.Load(),
		Queued:       len(r.queue),
	}
}
