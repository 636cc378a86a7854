// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Compile-time interface checks.
var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*CatalogReloadService)(nil)
	_ suture.Service = (*AnalyticsWriterService)(nil)
)

// mockHTTPServer blocks in ListenAndServe until Shutdown.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	started       chan struct{}
	stopCh        chan struct{}
	shutdownCalls atomic.Int32
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.started <- struct{}{}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(_ context.Context) error {
	m.shutdownCalls.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if got := server.shutdownCalls.Load(); got != 1 {
		t.Errorf("Shutdown calls = %d, want 1", got)
	}
}

func TestHTTPServerService_ListenError(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(server, 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.listenErr) {
		t.Errorf("Serve() = %v, want wrapped listen error", err)
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("shutdownTimeout = %v, want default 10s", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}

// mockReloader reports results from a fixed script, then "unchanged".
type mockReloader struct {
	calls   atomic.Int32
	results []error
}

func (m *mockReloader) ReloadIfChanged(ctx context.Context) (bool, error) {
	n := int(m.calls.Add(1))
	if _, ok := ctx.Deadline(); !ok {
		return false, errors.New("reload called without a deadline")
	}
	if n <= len(m.results) {
		err := m.results[n-1]
		return err == nil, err
	}
	return false, nil
}

func TestCatalogReloadService_ChecksOnInterval(t *testing.T) {
	t.Parallel()

	reloader := &mockReloader{results: []error{errors.New("parquet unreadable"), nil}}
	svc := NewCatalogReloadService(reloader, 10*time.Millisecond, 0, zerolog.Nop())

	if svc.timeout != 10*time.Millisecond {
		t.Errorf("timeout = %v, want the interval", svc.timeout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for reloader.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if got := reloader.calls.Load(); got < 3 {
		t.Errorf("ReloadIfChanged calls = %d, want at least 3 (a failure must not stop the loop)", got)
	}
}

// mockWriter records that Run saw the supervisor's context.
type mockWriter struct {
	ran atomic.Bool
}

func (m *mockWriter) Run(ctx context.Context) error {
	m.ran.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func TestAnalyticsWriterService(t *testing.T) {
	t.Parallel()

	writer := &mockWriter{}
	svc := NewAnalyticsWriterService(writer)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if !writer.ran.Load() {
		t.Error("writer Run not called")
	}
	if svc.String() != "analytics-writer" {
		t.Errorf("String() = %q, want analytics-writer", svc.String())
	}
}
