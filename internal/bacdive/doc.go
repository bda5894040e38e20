// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package bacdive implements the client for the upstream BacDive strain
// database API.
//
// Two endpoints are consumed, both authenticated with a session cookie:
//
//   - GET {taxon-base}/{genus}?page={n} - paginated listing of strain
//     identifiers per taxonomic genus (EnumerateGenus)
//   - GET {fetch-base}/{id} - full raw record for one identifier
//     (FetchStrain)
//
// The Client handles HTTP 429 rate limiting with exponential backoff and
// paces listing pages with a token-bucket limiter. CircuitBreakerClient
// layers sony/gobreaker on top so a dead upstream fails fast during long
// crawl ranges. Both implement the API interface consumed by the ingestion
// driver.
//
// Failure philosophy: a missing record is not an error (FetchStrain returns
// nil, nil), and enumeration failures return the identifiers collected so
// far. Callers treat all upstream errors as best-effort gaps, never as
// reasons to abort a crawl.
package bacdive
