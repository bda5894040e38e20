// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package bacdive

import (
	"github.com/goccy/go-json"
)

// RawStrain is the arbitrarily deep, heterogeneous record the upstream
// returns for one strain. It is consumed by the transformer immediately
// after fetching and never persisted.
type RawStrain map[string]interface{}

// generalGroup is the key of the general-info group inside a RawStrain.
const generalGroup = "General"

// identifierKey is the key of the strain identifier inside the general group.
const identifierKey = "BacDive-ID"

// taxonPage is one page of the per-genus listing endpoint.
//
// Results is keyed by strain identifier; the values carry summary data the
// enumerator does not need, so they are left undecoded. Next is the
// continuation pointer; its absence marks the last page. Count is the
// upstream-reported expected total and is informational only.
type taxonPage struct {
	Count   int                        `json:"count"`
	Next    *string                    `json:"next"`
	Results map[string]json.RawMessage `json:"results"`
}

// fetchResponse wraps the detail endpoint response. Results is keyed by the
// requested identifier; a missing key means the upstream has no record.
type fetchResponse struct {
	Results map[string]RawStrain `json:"results"`
}
