// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package store provides the in-memory read model for the query API.
//
// The store is loaded once at server startup from the final dataset file
// produced by the crawler and is immutable afterwards, so every query method
// is safe for concurrent use without locking.
package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/strainatlas/strainatlas/internal/logging"
	"github.com/strainatlas/strainatlas/internal/models"
)

// Store holds the fully loaded dataset in insertion order plus an
// identifier index for O(1) lookup.
type Store struct {
	records []models.StrainRecord
	byID    map[string]int
}

// New builds a store over the given records. Records with duplicate
// identifiers keep their first occurrence.
func New(records []models.StrainRecord) *Store {
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		if _, dup := byID[rec.Identifier]; dup {
			logging.Warn().Str("id", rec.Identifier).Msg("Duplicate identifier in dataset, keeping first occurrence")
			continue
		}
		byID[rec.Identifier] = i
	}
	return &Store{records: records, byID: byID}
}

// Load reads the final dataset file and builds the store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []models.StrainRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	logging.Info().Str("dataset", path).Int("records", len(records)).Msg("Dataset loaded")
	return New(records), nil
}

// Len returns the number of records in the dataset.
func (s *Store) Len() int {
	return len(s.records)
}

// Page returns the 1-based page of records and the dataset total.
// A page beyond the end yields an empty slice, not an error.
func (s *Store) Page(page, limit int) ([]models.StrainRecord, int) {
	total := len(s.records)
	if page < 1 || limit < 1 {
		return []models.StrainRecord{}, total
	}

	offset := (page - 1) * limit
	if offset >= total {
		return []models.StrainRecord{}, total
	}

	end := offset + limit
	if end > total {
		end = total
	}
	return s.records[offset:end], total
}

// Get returns the record for an identifier.
func (s *Store) Get(id string) (*models.StrainRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.records[i], true
}

// Search returns records whose genus and species contain the respective
// filters, case-insensitively, capped at limit. Empty filters match
// everything; records with a null value never match a non-empty filter.
func (s *Store) Search(genus, species string, limit int) []models.StrainRecord {
	genus = strings.ToLower(genus)
	species = strings.ToLower(species)

	out := make([]models.StrainRecord, 0)
	for _, rec := range s.records {
		if len(out) >= limit {
			break
		}
		if !matchField(rec.Taxonomy.Genus, genus) {
			continue
		}
		if !matchField(rec.Taxonomy.Species, species) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchField reports whether an optional field matches a lowercase
// substring filter.
func matchField(field *string, filter string) bool {
	if filter == "" {
		return true
	}
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), filter)
}

// Stats returns aggregate dataset statistics. Null genus and species
// values count as one shared distinct value, so a non-empty dataset never
// reports a zero distinct count.
func (s *Store) Stats() models.DatasetStats {
	genera := make(map[string]struct{})
	species := make(map[string]struct{})
	for _, rec := range s.records {
		genera[deref(rec.Taxonomy.Genus)] = struct{}{}
		species[deref(rec.Taxonomy.Species)] = struct{}{}
	}
	return models.DatasetStats{
		TotalRecords:  len(s.records),
		UniqueGenera:  len(genera),
		UniqueSpecies: len(species),
	}
}

// deref returns the field value, with null mapping to the empty string.
// Normalized fields are never the empty string, so no collision occurs.
func deref(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}
