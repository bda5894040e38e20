// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/models"
	"github.com/strainatlas/strainatlas/internal/store"
)

// Handler serves the strain query endpoints over an immutable dataset.
type Handler struct {
	store *store.Store
	cfg   *config.APIConfig
}

// NewHandler creates an API handler over the given dataset.
func NewHandler(s *store.Store, cfg *config.APIConfig) *Handler {
	return &Handler{store: s, cfg: cfg}
}

// strainPage is the payload for paginated strain listings.
type strainPage struct {
	Strains    []models.StrainRecord `json:"strains"`
	Pagination models.PaginationInfo `json:"pagination"`
}

// searchResult is the payload for search responses.
type searchResult struct {
	Strains []models.StrainRecord `json:"strains"`
	Count   int                   `json:"count"`
}

// Strains handles GET /api/v1/strains with page/limit pagination.
func (h *Handler) Strains(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid pagination parameters")
		return
	}

	records, total := h.store.Page(req.Page, req.Limit)
	respondSuccess(w, strainPage{
		Strains: records,
		Pagination: models.PaginationInfo{
			Page:    req.Page,
			Limit:   req.Limit,
			Total:   total,
			HasMore: req.Page*req.Limit < total,
		},
	})
}

// StrainByID handles GET /api/v1/strains/{id}.
func (h *Handler) StrainByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Strain identifier is required")
		return
	}

	record, ok := h.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Strain not found")
		return
	}
	respondSuccess(w, record)
}

// SearchStrains handles GET /api/v1/strains/search?genus=&species=.
func (h *Handler) SearchStrains(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid search parameters")
		return
	}
	// No filters means the whole dataset, still capped at the search limit.
	records := h.store.Search(req.Genus, req.Species, h.cfg.SearchLimit)
	respondSuccess(w, searchResult{Strains: records, Count: len(records)})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.store.Stats())
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"records": h.store.Len(),
	})
}
