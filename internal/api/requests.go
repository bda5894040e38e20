// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// listRequest holds validated pagination parameters.
type listRequest struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1"`
}

// searchRequest holds validated search parameters. Both filters are
// optional; an unfiltered search falls back to the full dataset, capped
// at the configured search limit.
type searchRequest struct {
	Genus   string `validate:"omitempty,max=200"`
	Species string `validate:"omitempty,max=200"`
}

// parseListRequest extracts page and limit query parameters, applying
// defaults and clamping limit to the configured maximum.
func parseListRequest(r *http.Request, defaultLimit, maxLimit int) (listRequest, error) {
	req := listRequest{Page: 1, Limit: defaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		req.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		req.Limit = limit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

// parseSearchRequest extracts genus and species query parameters.
func parseSearchRequest(r *http.Request) (searchRequest, error) {
	req := searchRequest{
		Genus:   r.URL.Query().Get("genus"),
		Species: r.URL.Query().Get("species"),
	}
	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}
