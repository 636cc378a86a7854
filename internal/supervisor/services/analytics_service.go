// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package services

import (
	"context"
)

// EventWriter drains the analytics queue until its context ends.
// *analytics.Recorder implements it.
type EventWriter interface {
	Run(ctx context.Context) error
}

// AnalyticsWriterService supervises the analytics batch writer. If the
// writer returns early suture restarts it; queued events survive because
// the queue belongs to the recorder, not the goroutine.
type AnalyticsWriterService struct {
	writer EventWriter
}

// NewAnalyticsWriterService wraps writer.
func NewAnalyticsWriterService(writer EventWriter) *AnalyticsWriterService {
	return &AnalyticsWriterService{writer: writer}
}

// Serve implements suture.Service.
func (s *AnalyticsWriterService) Serve(ctx context.Context) error {
	return s.writer.Run(ctx)
}

// String names the service in supervisor logs.
func (s *AnalyticsWriterService) String() string {
	return "analytics-writer"
}
