// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/strainatlas/strainatlas/internal/models"
)

// ErrMissingIdentifier marks a raw record without an identifier in its
// general-info group. Such records are dropped, never retried.
var ErrMissingIdentifier = errors.New("raw record missing identifier in general group")

// identifierPath locates the strain identifier inside a raw record.
var identifierPath = []interface{}{"General", "BacDive-ID"}

// fieldKind selects the coercion applied to a source value.
type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindStringList
)

// fieldMapping binds one destination field to its source path. The table of
// mappings below IS the transformation specification: each destination field
// is independently optional-chained from the raw record, and a missing or
// malformed source at any depth yields null (or an empty list) instead of an
// error.
type fieldMapping struct {
	group  string // destination group name (JSON key)
	field  string // destination field name (JSON key)
	source []interface{}
	kind   fieldKind
}

// strainFieldTable maps the upstream's nested groups onto the flat
// normalized schema. Sequence-typed sources keep only their first entry
// (index 0) for scalar destinations.
var strainFieldTable = []fieldMapping{
	// general
	{"general", "dsm_number", []interface{}{"General", "DSM-Number"}, kindString},
	{"general", "description", []interface{}{"General", "description"}, kindString},
	{"general", "ncbi_tax_id", []interface{}{"General", "NCBI tax id", "NCBI tax id"}, kindInt},
	{"general", "keywords", []interface{}{"General", "keywords"}, kindStringList},

	// taxonomy
	{"taxonomy", "domain", []interface{}{"Name and taxonomic classification", "domain"}, kindString},
	{"taxonomy", "phylum", []interface{}{"Name and taxonomic classification", "phylum"}, kindString},
	{"taxonomy", "class", []interface{}{"Name and taxonomic classification", "class"}, kindString},
	{"taxonomy", "order", []interface{}{"Name and taxonomic classification", "order"}, kindString},
	{"taxonomy", "family", []interface{}{"Name and taxonomic classification", "family"}, kindString},
	{"taxonomy", "genus", []interface{}{"Name and taxonomic classification", "genus"}, kindString},
	{"taxonomy", "species", []interface{}{"Name and taxonomic classification", "species"}, kindString},
	{"taxonomy", "full_scientific_name", []interface{}{"Name and taxonomic classification", "full scientific name"}, kindString},
	{"taxonomy", "strain_designation", []interface{}{"Name and taxonomic classification", "strain designation"}, kindString},
	{"taxonomy", "type_strain", []interface{}{"Name and taxonomic classification", "type strain"}, kindString},

	// culture_conditions
	{"culture_conditions", "medium", []interface{}{"Culture and growth conditions", "culture medium", 0, "name"}, kindString},
	{"culture_conditions", "medium_growth", []interface{}{"Culture and growth conditions", "culture medium", 0, "growth"}, kindString},
	{"culture_conditions", "medium_link", []interface{}{"Culture and growth conditions", "culture medium", 0, "link"}, kindString},
	{"culture_conditions", "temperature", []interface{}{"Culture and growth conditions", "culture temp", 0, "temperature"}, kindString},
	{"culture_conditions", "temperature_range", []interface{}{"Culture and growth conditions", "culture temp", 0, "range"}, kindString},

	// physiology_and_metabolism
	{"physiology_and_metabolism", "oxygen_tolerance", []interface{}{"Physiology and metabolism", "oxygen tolerance", "oxygen tolerance"}, kindString},
	{"physiology_and_metabolism", "spore_formation", []interface{}{"Physiology and metabolism", "spore formation", "spore formation"}, kindString},
	{"physiology_and_metabolism", "motility", []interface{}{"Morphology", "cell morphology", "motility"}, kindString},
	{"physiology_and_metabolism", "gram_stain", []interface{}{"Morphology", "cell morphology", "gram stain"}, kindString},
	{"physiology_and_metabolism", "cell_shape", []interface{}{"Morphology", "cell morphology", "cell shape"}, kindString},

	// biosafety
	{"biosafety", "biosafety_level", []interface{}{"Safety information", "risk assessment", "biosafety level"}, kindString},
	{"biosafety", "biosafety_comment", []interface{}{"Safety information", "risk assessment", "biosafety level comment"}, kindString},

	// sequence_information
	{"sequence_information", "sixteen_s_accession", []interface{}{"Sequence information", "16S sequences", 0, "accession"}, kindString},
	{"sequence_information", "sixteen_s_length", []interface{}{"Sequence information", "16S sequences", 0, "length"}, kindInt},
	{"sequence_information", "genome_accession", []interface{}{"Sequence information", "Genome sequences", 0, "accession"}, kindString},
	{"sequence_information", "gc_content", []interface{}{"Sequence information", "GC content"}, kindString},

	// external_links
	{"external_links", "culture_collection_numbers", []interface{}{"External links", "culture collection no."}, kindString},
	{"external_links", "straininfo_link", []interface{}{"External links", "straininfo link", "passport"}, kindString},
	{"external_links", "literature", []interface{}{"External links", "literature"}, kindStringList},
}

// Transform converts a raw nested record into a normalized StrainRecord.
//
// Pure function: identical input always yields identical output, and no I/O
// happens here. The only hard failure is a missing identifier in the
// general-info group (post fetcher injection); every other absence degrades
// to a null scalar or empty list in the output.
func Transform(raw map[string]interface{}) (*models.StrainRecord, error) {
	idVal, found := lookupPath(raw, identifierPath)
	if !found {
		return nil, ErrMissingIdentifier
	}
	id, ok := coerceString(idVal)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: uncoercible identifier %v", ErrMissingIdentifier, idVal)
	}

	out := map[string]interface{}{"identifier": id}
	for _, m := range strainFieldTable {
		val, found := lookupPath(raw, m.source)
		if !found {
			continue
		}

		var coerced interface{}
		var ok bool
		switch m.kind {
		case kindInt:
			coerced, ok = coerceInt(val)
		case kindStringList:
			coerced, ok = coerceStringList(val)
		default:
			coerced, ok = coerceString(val)
		}
		if !ok {
			continue
		}

		group, exists := out[m.group].(map[string]interface{})
		if !exists {
			group = make(map[string]interface{})
			out[m.group] = group
		}
		group[m.field] = coerced
	}

	// The normalized struct gives absent groups and fields their zero
	// (null) shape; decoding through it also guarantees no spurious keys
	// survive from the raw record.
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode normalized record %s: %w", id, err)
	}
	rec := &models.StrainRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode normalized record %s: %w", id, err)
	}

	// List fields are empty, never null
	if rec.General.Keywords == nil {
		rec.General.Keywords = []string{}
	}
	if rec.ExternalLinks.Literature == nil {
		rec.ExternalLinks.Literature = []string{}
	}

	return rec, nil
}
