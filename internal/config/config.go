// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package config provides layered configuration for StrainAtlas.
//
// Configuration is loaded via Koanf v2 with three layers (highest priority
// wins): environment variables, an optional YAML config file, and built-in
// defaults. Struct validation uses go-playground/validator tags plus
// hand-written cross-field rules in Validate.
package config

import (
	"time"
)

// Config is the root configuration for both the crawler and the query server.
type Config struct {
	BacDive BacDiveConfig `koanf:"bacdive"`
	Crawl   CrawlConfig   `koanf:"crawl"`
	Dataset DatasetConfig `koanf:"dataset"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// BacDiveConfig configures the upstream BacDive API client.
type BacDiveConfig struct {
	// TaxonBaseURL is the base of the per-genus listing endpoint.
	TaxonBaseURL string `koanf:"taxon_base_url" validate:"required,url"`

	// FetchBaseURL is the base of the per-identifier detail endpoint.
	FetchBaseURL string `koanf:"fetch_base_url" validate:"required,url"`

	// Session is the session credential sent as a Cookie header on every
	// upstream request. Required for crawling; checked once at startup
	// before any network activity (see RequireSession).
	Session string `koanf:"session"`

	// Timeout bounds a single upstream HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries limits retries on HTTP 429 responses.
	MaxRetries int `koanf:"max_retries" validate:"min=0,max=10"`

	// RetryBaseDelay is the base for exponential 429 backoff.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// PageDelay is the fixed pacing between listing page requests.
	PageDelay time.Duration `koanf:"page_delay"`
}

// CrawlConfig configures the ingestion driver.
type CrawlConfig struct {
	// Genera lists the taxonomic genera to enumerate.
	Genera []string `koanf:"genera"`

	// StartID and EndID bound the inclusive identifier range to crawl.
	StartID int64 `koanf:"start_id" validate:"min=0"`
	EndID   int64 `koanf:"end_id" validate:"min=0"`

	// CheckpointInterval is the number of identifiers processed between
	// checkpoint snapshots.
	CheckpointInterval int `koanf:"checkpoint_interval" validate:"min=1"`

	// FetchDelay is the fixed pacing between per-identifier detail
	// requests.
	FetchDelay time.Duration `koanf:"fetch_delay"`

	// CircuitBreaker enables the gobreaker wrapper around the client.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// DatasetConfig configures where crawl output is written and read.
type DatasetConfig struct {
	// Dir is the directory for checkpoint snapshots.
	Dir string `koanf:"dir" validate:"required"`

	// FinalFile is the path of the consolidated dataset, written by the
	// crawler and read by the query server at startup.
	FinalFile string `koanf:"final_file" validate:"required"`
}

// ServerConfig configures the query API HTTP server.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Timeout bounds request read/write; ShutdownTimeout bounds graceful
	// drain on termination.
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig configures query API behavior.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"min=1"`

	// SearchLimit caps genus/species search result sets.
	SearchLimit int `koanf:"search_limit" validate:"min=1"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures the zerolog pipeline.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
