// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package bacdive

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/logging"
	"github.com/strainatlas/strainatlas/internal/metrics"
)

// CircuitBreakerClient wraps Client with the circuit breaker pattern so a
// dead or degraded upstream stops generating per-identifier request attempts
// quickly instead of timing out one by one across a long crawl range.
//
// Rejected calls surface as ordinary errors; the ingestion driver treats
// them exactly like any other fetch failure (logged, no record produced).
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for its
// interval and timeout calculations. Tests exercise the wrapped client
// directly rather than the breaker timing.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a BacDive client protected by a circuit
// breaker. Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens at >= 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg *config.BacDiveConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "bacdive-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // Need statistical significance before tripping
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// EnumerateGenus implements API with circuit breaker protection.
//
// The partial-result contract survives the breaker: identifiers collected
// before a page failure are returned alongside the error. A call rejected by
// an open breaker returns no identifiers.
func (cbc *CircuitBreakerClient) EnumerateGenus(ctx context.Context, genus string) ([]string, error) {
	var ids []string
	_, err := cbc.execute(func() (interface{}, error) {
		var innerErr error
		ids, innerErr = cbc.client.EnumerateGenus(ctx, genus)
		return nil, innerErr
	})
	return ids, err
}

// FetchStrain implements API with circuit breaker protection.
func (cbc *CircuitBreakerClient) FetchStrain(ctx context.Context, id string) (RawStrain, error) {
	if !ValidID(id) {
		// Keep sentinel rejection outside the breaker so invalid input
		// never counts against the upstream.
		return nil, nil
	}

	result, err := cbc.execute(func() (interface{}, error) {
		raw, err := cbc.client.FetchStrain(ctx, id)
		if err != nil {
			return nil, err
		}
		// Not-found is a successful upstream interaction.
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	raw, _ := result.(RawStrain)
	return raw, nil
}

// stateToString converts a gobreaker state to a string label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to the metric gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
