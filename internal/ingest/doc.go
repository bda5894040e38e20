// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package ingest implements the ingestion pipeline: the record transformer
// and the driver that sequences fetch-transform-checkpoint across an
// identifier range.
//
// The transformer (Transform) is a pure function from the upstream's raw
// nested record to the flat normalized StrainRecord. Its behavior is defined
// entirely by strainFieldTable, a declarative destination-to-source mapping
// interpreted by a safe nested lookup; sparse source records degrade to null
// fields instead of errors. The single hard failure is a record without an
// identifier.
//
// The driver iterates identifiers in ascending order, one at a time, pacing
// requests with a token-bucket limiter. The in-memory accumulator is owned
// exclusively by the running crawl; SnapshotWriter persists it as periodic
// checkpoint files (named by identifier boundary) and one final consolidated
// dataset consumed by the query service. Crawls are best-effort: every
// per-identifier failure is logged and absorbed into CrawlStats, and
// completeness is judged by comparing range size to final record count.
package ingest
