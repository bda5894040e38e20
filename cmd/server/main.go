// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package main is the entry point for the StrainAtlas query server.
//
// The server loads the consolidated strain dataset produced by the
// crawler into memory and serves read-only queries over HTTP:
//
//   - GET /api/v1/strains            paginated listing
//   - GET /api/v1/strains/{id}       lookup by identifier
//   - GET /api/v1/strains/search     genus/species substring search
//   - GET /api/v1/stats              dataset-wide aggregates
//   - GET /healthz                   liveness probe
//   - GET /metrics                   Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, an optional config.yaml, and
// built-in defaults. The dataset path comes from DATASET_FINAL_FILE.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM, draining
// in-flight requests within the configured shutdown timeout. The HTTP
// server runs under a suture supervision tree so transient crashes
// restart it with backoff.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/strainatlas/strainatlas/internal/api"
	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/logging"
	"github.com/strainatlas/strainatlas/internal/metrics"
	"github.com/strainatlas/strainatlas/internal/store"
	"github.com/strainatlas/strainatlas/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("dataset", cfg.Dataset.FinalFile).
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting StrainAtlas query server")

	s, err := store.Load(cfg.Dataset.FinalFile)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load dataset")
	}
	stats := s.Stats()
	metrics.CrawlDatasetRecords.Set(float64(stats.TotalRecords))
	logging.Info().
		Int("records", stats.TotalRecords).
		Int("genera", stats.UniqueGenera).
		Int("species", stats.UniqueSpecies).
		Msg("Dataset loaded into memory")

	router := api.NewRouter(s, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree terminated with error")
		os.Exit(1)
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
