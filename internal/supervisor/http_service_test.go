// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// mockServer simulates an HTTP server for lifecycle testing.
type mockServer struct {
	listenErr   error
	shutdownErr error
	stopCh      chan struct{}
	shutdownCh  chan struct{}
}

func newMockServer() *mockServer {
	return &mockServer{
		stopCh:     make(chan struct{}),
		shutdownCh: make(chan struct{}, 1),
	}
}

func (m *mockServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockServer) Shutdown(ctx context.Context) error {
	m.shutdownCh <- struct{}{}
	close(m.stopCh)
	return m.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	mock := newMockServer()
	svc := NewHTTPService(mock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	// Give the goroutine time to start listening.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	select {
	case <-mock.shutdownCh:
	default:
		t.Error("Expected Shutdown to be called")
	}
}

func TestHTTPServiceListenFailure(t *testing.T) {
	mock := newMockServer()
	mock.listenErr = errors.New("address already in use")
	svc := NewHTTPService(mock, time.Second)

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("Expected error when listen fails")
	}
	if !errors.Is(err, mock.listenErr) {
		t.Errorf("Expected wrapped listen error, got %v", err)
	}
}

func TestHTTPServiceShutdownFailure(t *testing.T) {
	mock := newMockServer()
	mock.shutdownErr = errors.New("drain timeout")
	svc := NewHTTPService(mock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, mock.shutdownErr) {
			t.Errorf("Expected wrapped shutdown error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestHTTPServiceString(t *testing.T) {
	svc := NewHTTPService(newMockServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("Unexpected service name %q", svc.String())
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("Expected threshold 5.0, got %v", cfg.FailureThreshold)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected shutdown timeout 10s, got %v", cfg.ShutdownTimeout)
	}
}
