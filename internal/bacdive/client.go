// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

/*
client.go - Core BacDive API Client

This file provides the core Client struct and HTTP communication layer for
the BacDive strain database API.

Client Features:
  - HTTP client with configurable timeout
  - Session cookie authentication
  - Automatic HTTP 429 rate limit handling with exponential backoff
  - JSON response parsing via goccy/go-json
  - Context support for cancellation and timeouts

Resilience Mechanisms:
  - Rate Limiting: Exponential backoff (1s, 2s, 4s, 8s, 16s) on HTTP 429,
    honoring Retry-After when present
  - Retries: Max 5 attempts for rate-limited requests
  - Context: All methods accept context for cancellation

Related Files:
  - enumerator.go: Paginated per-genus identifier enumeration
  - fetcher.go: Per-identifier detail fetch
  - circuit_breaker.go: Circuit breaker wrapper for the client
*/
package bacdive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/metrics"
)

// maxErrorBodySize limits the amount of response body read for error
// reporting to keep memory bounded on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// API defines the upstream operations the ingestion pipeline depends on.
//
// It is implemented by Client for production use and by CircuitBreakerClient
// for fault-tolerant use; tests substitute mock implementations.
//
// All methods accept a context for cancellation and timeout support.
// Thread Safety: all implementations are safe for concurrent use.
type API interface {
	// EnumerateGenus returns all strain identifiers listed for a genus.
	// On a page request failure the identifiers collected so far are
	// returned together with the error; the caller decides whether the
	// partial result is usable.
	EnumerateGenus(ctx context.Context, genus string) ([]string, error)

	// FetchStrain returns the raw nested record for one identifier, or
	// (nil, nil) when the upstream has no record for it.
	FetchStrain(ctx context.Context, id string) (RawStrain, error)
}

// Client handles communication with the BacDive HTTP API.
//
// Every request carries the session credential as a Cookie header and asks
// for JSON. Requests hitting HTTP 429 are retried with exponential backoff.
//
// Thread Safety: safe for concurrent use; each request builds its own
// http.Request.
type Client struct {
	taxonBaseURL   string
	fetchBaseURL   string
	session        string
	client         *http.Client
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
	pageLimiter    *rate.Limiter // Paces listing page requests
}

// NewClient creates a new BacDive API client from the provided configuration.
func NewClient(cfg *config.BacDiveConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = 1 * time.Second
	}
	pageDelay := cfg.PageDelay
	if pageDelay <= 0 {
		pageDelay = 100 * time.Millisecond
	}

	return &Client{
		taxonBaseURL:   cfg.TaxonBaseURL,
		fetchBaseURL:   cfg.FetchBaseURL,
		session:        cfg.Session,
		client:         &http.Client{Timeout: timeout},
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		pageLimiter:    rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// doRequestWithRateLimit performs a GET request with automatic rate limit
// handling. Implements exponential backoff for HTTP 429 responses, honoring
// the Retry-After header (RFC 6585) when present. The context is used for
// cancellation during backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cookie", c.session)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Exponential backoff delay: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// getJSON performs a GET request against reqURL and decodes the JSON
// response body into result. The endpoint label is used for metrics.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to make %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestErrors.WithLabelValues(endpoint).Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	return nil
}
