// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package models defines data structures used throughout StrainAtlas.
// These models represent normalized strain records, dataset statistics,
// and API response wrappers.
package models

// StrainRecord is the normalized, flat-schema record for one bacterial strain.
//
// This is the stable output schema of the ingestion pipeline. Each record is
// produced once by the transformer, never mutated afterwards, and persisted
// verbatim to checkpoint and dataset files. The Identifier is always present
// and non-empty; every other scalar field is a pointer that is nil when the
// upstream record did not carry the value, and list fields are empty (never
// null) when absent.
//
// Group layout mirrors the upstream taxonomy of information without its
// nesting depth: each group is a fixed-shape struct of optional fields.
type StrainRecord struct {
	Identifier string `json:"identifier"`

	General             GeneralInfo         `json:"general"`
	Taxonomy            Taxonomy            `json:"taxonomy"`
	CultureConditions   CultureConditions   `json:"culture_conditions"`
	Physiology          Physiology          `json:"physiology_and_metabolism"`
	Biosafety           Biosafety           `json:"biosafety"`
	SequenceInformation SequenceInformation `json:"sequence_information"`
	ExternalLinks       ExternalLinks       `json:"external_links"`
}

// GeneralInfo holds descriptive fields about the strain deposit.
type GeneralInfo struct {
	DSMNumber   *string  `json:"dsm_number"`
	Description *string  `json:"description"`
	NCBITaxID   *int64   `json:"ncbi_tax_id"`
	Keywords    []string `json:"keywords"`
}

// Taxonomy holds the full taxonomic classification of the strain.
type Taxonomy struct {
	Domain             *string `json:"domain"`
	Phylum             *string `json:"phylum"`
	Class              *string `json:"class"`
	Order              *string `json:"order"`
	Family             *string `json:"family"`
	Genus              *string `json:"genus"`
	Species            *string `json:"species"`
	FullScientificName *string `json:"full_scientific_name"`
	StrainDesignation  *string `json:"strain_designation"`
	TypeStrain         *string `json:"type_strain"`
}

// CultureConditions holds growth medium and temperature information.
// Only the first reported medium and temperature entry is kept.
type CultureConditions struct {
	Medium           *string `json:"medium"`
	MediumGrowth     *string `json:"medium_growth"`
	MediumLink       *string `json:"medium_link"`
	Temperature      *string `json:"temperature"`
	TemperatureRange *string `json:"temperature_range"`
}

// Physiology holds physiological and morphological traits.
type Physiology struct {
	OxygenTolerance *string `json:"oxygen_tolerance"`
	SporeFormation  *string `json:"spore_formation"`
	Motility        *string `json:"motility"`
	GramStain       *string `json:"gram_stain"`
	CellShape       *string `json:"cell_shape"`
}

// Biosafety holds the risk assessment for the strain.
type Biosafety struct {
	BiosafetyLevel   *string `json:"biosafety_level"`
	BiosafetyComment *string `json:"biosafety_comment"`
}

// SequenceInformation holds accessions for deposited sequence data.
// Only the first reported 16S and genome sequence entry is kept.
type SequenceInformation struct {
	SixteenSAccession *string `json:"sixteen_s_accession"`
	SixteenSLength    *int    `json:"sixteen_s_length"`
	GenomeAccession   *string `json:"genome_accession"`
	GCContent         *string `json:"gc_content"`
}

// ExternalLinks holds references to culture collections and literature.
type ExternalLinks struct {
	CultureCollectionNumbers *string  `json:"culture_collection_numbers"`
	StrainInfoLink           *string  `json:"straininfo_link"`
	Literature               []string `json:"literature"`
}

// DatasetStats holds aggregate statistics over a loaded dataset.
type DatasetStats struct {
	TotalRecords  int `json:"total_records"`
	UniqueGenera  int `json:"unique_genera"`
	UniqueSpecies int `json:"unique_species"`
}
