// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package bacdive

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestCircuitBreakerFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":{"42":{"General":{"BacDive-ID":42}}}}`))
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(testClientConfig(server.URL))
	raw, err := cbc.FetchStrain(t.Context(), "42")
	if err != nil {
		t.Fatalf("FetchStrain failed: %v", err)
	}
	if raw == nil {
		t.Fatal("Expected a record through the breaker")
	}
}

func TestCircuitBreakerSentinelBypassesBreaker(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(testClientConfig(server.URL))
	raw, err := cbc.FetchStrain(t.Context(), "0")
	if err != nil || raw != nil {
		t.Errorf("Expected (nil, nil) for sentinel, got (%v, %v)", raw, err)
	}
	if requests.Load() != 0 {
		t.Errorf("Sentinel identifier reached the network: %d requests", requests.Load())
	}
	if counts := cbc.cb.Counts(); counts.Requests != 0 {
		t.Errorf("Sentinel identifier counted against the breaker: %d requests", counts.Requests)
	}
}

func TestCircuitBreakerPreservesPartialEnumeration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"count":4,"next":"%s?page=2","results":{"1":{},"2":{}}}`, r.URL.Path)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(testClientConfig(server.URL))
	ids, err := cbc.EnumerateGenus(t.Context(), "Bacillus")
	if err == nil {
		t.Fatal("Expected error from failing page")
	}
	if len(ids) != 2 {
		t.Errorf("Partial identifiers lost through breaker: got %d, want 2", len(ids))
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(testClientConfig(server.URL))

	// Trip threshold is >= 60% failures over >= 10 requests.
	for i := 0; i < 10; i++ {
		_, _ = cbc.FetchStrain(t.Context(), "5")
	}

	if state := cbc.cb.State(); state != gobreaker.StateOpen {
		t.Errorf("Expected open breaker after sustained failures, got %v", state)
	}

	// Rejected calls surface as errors, same as any fetch failure.
	if _, err := cbc.FetchStrain(t.Context(), "5"); err == nil {
		t.Error("Expected rejection error from open breaker")
	}
}

func TestStateConversions(t *testing.T) {
	if stateToString(gobreaker.StateClosed) != "closed" {
		t.Error("Unexpected closed label")
	}
	if stateToString(gobreaker.StateOpen) != "open" {
		t.Error("Unexpected open label")
	}
	if stateToFloat(gobreaker.StateHalfOpen) != 2 {
		t.Error("Unexpected half-open gauge value")
	}
}
