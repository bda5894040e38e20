// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/store"
)

// NewRouter builds the Chi router with middleware and all query routes.
func NewRouter(s *store.Store, cfg *config.Config) http.Handler {
	h := NewHandler(s, &cfg.API)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(prometheusMetrics)

	if len(cfg.API.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.API.CORSOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	window := cfg.API.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	r.Use(httprate.LimitByIP(cfg.API.RateLimitReqs, window))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/strains", h.Strains)
		r.Get("/strains/search", h.SearchStrains)
		r.Get("/strains/{id}", h.StrainByID)
		r.Get("/stats", h.Stats)
	})

	return r
}
