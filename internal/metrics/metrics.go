// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package metrics provides Prometheus metrics for the crawl pipeline and the
// query API. Metrics are exposed at /metrics on the query server in
// Prometheus text format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream (BacDive API) metrics

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bacdive_request_duration_seconds",
			Help:    "Duration of upstream BacDive API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"}, // taxon, fetch
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bacdive_request_errors_total",
			Help: "Total number of failed upstream BacDive API requests",
		},
		[]string{"endpoint"},
	)

	// Crawl pipeline metrics

	CrawlIdentifiersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_identifiers_processed_total",
			Help: "Total number of identifiers processed, by outcome",
		},
		[]string{"outcome"}, // produced, not_found, fetch_failed, dropped
	)

	CrawlCheckpointWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_checkpoint_writes_total",
			Help: "Total number of checkpoint snapshots written",
		},
	)

	CrawlDatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawl_dataset_records",
			Help: "Current number of normalized records in the accumulator",
		},
	)

	EnumeratedIdentifiers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_enumerated_identifiers_total",
			Help: "Total number of identifiers collected during enumeration",
		},
		[]string{"genus"},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker, by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	// Query API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)
)
