// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/models"
	"github.com/strainatlas/strainatlas/internal/store"
)

func strPtr(s string) *string { return &s }

func testRecord(id, genus, species string) models.StrainRecord {
	return models.StrainRecord{
		Identifier: id,
		Taxonomy: models.Taxonomy{
			Genus:   strPtr(genus),
			Species: strPtr(species),
		},
		General: models.GeneralInfo{Keywords: []string{}},
		ExternalLinks: models.ExternalLinks{
			Literature: []string{},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:    "127.0.0.1",
			Port:    8225,
			Timeout: 30 * time.Second,
		},
		API: config.APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     100,
			SearchLimit:     100,
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
	}
}

func testRouter(records []models.StrainRecord) http.Handler {
	return NewRouter(store.New(records), testConfig())
}

func doRequest(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return rr, resp
}

func TestStrainsPagination(t *testing.T) {
	records := make([]models.StrainRecord, 25)
	for i := range records {
		records[i] = testRecord(strconv.Itoa(i+1), "Bacillus", "Bacillus subtilis")
	}
	handler := testRouter(records)

	rr, resp := doRequest(t, handler, "/api/v1/strains?page=2&limit=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if resp.Status != "success" {
		t.Errorf("Expected success status, got %q", resp.Status)
	}

	payload, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	var page strainPage
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("Failed to decode page payload: %v", err)
	}

	if len(page.Strains) != 10 {
		t.Errorf("Expected 10 strains on page 2, got %d", len(page.Strains))
	}
	if page.Pagination.Total != 25 {
		t.Errorf("Expected total 25, got %d", page.Pagination.Total)
	}
	if !page.Pagination.HasMore {
		t.Error("Expected has_more true on page 2 of 3")
	}
}

func TestStrainsPageBeyondEnd(t *testing.T) {
	handler := testRouter([]models.StrainRecord{testRecord("1", "Bacillus", "Bacillus subtilis")})

	rr, resp := doRequest(t, handler, "/api/v1/strains?page=99&limit=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for page beyond end, got %d", rr.Code)
	}

	payload, _ := json.Marshal(resp.Data)
	var page strainPage
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("Failed to decode page payload: %v", err)
	}
	if len(page.Strains) != 0 {
		t.Errorf("Expected empty page, got %d strains", len(page.Strains))
	}
	if page.Pagination.HasMore {
		t.Error("Expected has_more false beyond end")
	}
}

func TestStrainsLimitClamped(t *testing.T) {
	handler := testRouter([]models.StrainRecord{testRecord("1", "Bacillus", "Bacillus subtilis")})

	_, resp := doRequest(t, handler, "/api/v1/strains?limit=5000")
	payload, _ := json.Marshal(resp.Data)
	var page strainPage
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("Failed to decode page payload: %v", err)
	}
	if page.Pagination.Limit != 100 {
		t.Errorf("Expected limit clamped to 100, got %d", page.Pagination.Limit)
	}
}

func TestStrainsInvalidParams(t *testing.T) {
	handler := testRouter(nil)

	for _, path := range []string{
		"/api/v1/strains?page=0",
		"/api/v1/strains?page=abc",
		"/api/v1/strains?limit=-1",
	} {
		rr, resp := doRequest(t, handler, path)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rr.Code)
		}
		if resp.Error == nil || resp.Error.Code != ErrCodeValidation {
			t.Errorf("%s: expected validation error, got %+v", path, resp.Error)
		}
	}
}

func TestStrainByID(t *testing.T) {
	handler := testRouter([]models.StrainRecord{
		testRecord("42", "Bacillus", "Bacillus subtilis"),
	})

	rr, resp := doRequest(t, handler, "/api/v1/strains/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	payload, _ := json.Marshal(resp.Data)
	var rec models.StrainRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if rec.Identifier != "42" {
		t.Errorf("Expected identifier 42, got %q", rec.Identifier)
	}
}

func TestStrainByIDNotFound(t *testing.T) {
	handler := testRouter([]models.StrainRecord{
		testRecord("42", "Bacillus", "Bacillus subtilis"),
	})

	rr, resp := doRequest(t, handler, "/api/v1/strains/999")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("Expected NOT_FOUND error, got %+v", resp.Error)
	}
}

func TestSearchStrains(t *testing.T) {
	handler := testRouter([]models.StrainRecord{
		testRecord("1", "Bacillus", "Bacillus subtilis"),
		testRecord("2", "Bacillus", "Bacillus cereus"),
		testRecord("3", "Escherichia", "Escherichia coli"),
	})

	t.Run("by genus", func(t *testing.T) {
		rr, resp := doRequest(t, handler, "/api/v1/strains/search?genus=bacillus")
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}

		payload, _ := json.Marshal(resp.Data)
		var result searchResult
		if err := json.Unmarshal(payload, &result); err != nil {
			t.Fatalf("Failed to decode search result: %v", err)
		}
		if result.Count != 2 {
			t.Errorf("Expected 2 matches, got %d", result.Count)
		}
	})

	t.Run("by species substring", func(t *testing.T) {
		_, resp := doRequest(t, handler, "/api/v1/strains/search?species=coli")
		payload, _ := json.Marshal(resp.Data)
		var result searchResult
		if err := json.Unmarshal(payload, &result); err != nil {
			t.Fatalf("Failed to decode search result: %v", err)
		}
		if result.Count != 1 {
			t.Errorf("Expected 1 match, got %d", result.Count)
		}
	})

	t.Run("no filters returns full dataset capped", func(t *testing.T) {
		rr, resp := doRequest(t, handler, "/api/v1/strains/search")
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}

		payload, _ := json.Marshal(resp.Data)
		var result searchResult
		if err := json.Unmarshal(payload, &result); err != nil {
			t.Fatalf("Failed to decode search result: %v", err)
		}
		if result.Count != 3 {
			t.Errorf("Expected all 3 records without filters, got %d", result.Count)
		}
	})
}

func TestStats(t *testing.T) {
	handler := testRouter([]models.StrainRecord{
		testRecord("1", "Bacillus", "Bacillus subtilis"),
		testRecord("2", "Bacillus", "Bacillus cereus"),
		testRecord("3", "Escherichia", "Escherichia coli"),
	})

	rr, resp := doRequest(t, handler, "/api/v1/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	payload, _ := json.Marshal(resp.Data)
	var stats models.DatasetStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalRecords != 3 {
		t.Errorf("Expected 3 total records, got %d", stats.TotalRecords)
	}
	if stats.UniqueGenera != 2 {
		t.Errorf("Expected 2 unique genera, got %d", stats.UniqueGenera)
	}
	if stats.UniqueSpecies != 3 {
		t.Errorf("Expected 3 unique species, got %d", stats.UniqueSpecies)
	}
}

func TestHealth(t *testing.T) {
	handler := testRouter([]models.StrainRecord{
		testRecord("1", "Bacillus", "Bacillus subtilis"),
	})

	rr, resp := doRequest(t, handler, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if resp.Status != "success" {
		t.Errorf("Expected success status, got %q", resp.Status)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %q", rr.Header().Get("Content-Type"))
	}
}
