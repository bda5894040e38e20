// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/strainatlas/strainatlas/internal/metrics"
)

// metricsResponseWriter captures the status code for metric labels.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	mrw.statusCode = code
	mrw.ResponseWriter.WriteHeader(code)
}

// prometheusMetrics records request counts and durations per route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mrw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(mrw, r)

		// Use the route pattern rather than the raw path to keep
		// label cardinality bounded.
		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.APIRequestsTotal.WithLabelValues(
			r.Method, endpoint, strconv.Itoa(mrw.statusCode),
		).Inc()
		metrics.APIRequestDuration.WithLabelValues(
			r.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	})
}
