// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"time"
)

// CrawlStats holds statistics about one crawl run.
type CrawlStats struct {
	// TotalIdentifiers is the size of the inclusive identifier range.
	TotalIdentifiers int64

	// Processed is the number of identifiers iterated (every outcome).
	Processed int64

	// Produced is the number of normalized records appended to the dataset.
	Produced int64

	// NotFound is the number of identifiers the upstream had no record for.
	NotFound int64

	// FetchFailed is the number of identifiers whose fetch request failed.
	FetchFailed int64

	// Dropped is the number of raw records rejected by the transformer.
	Dropped int64

	// Checkpoints is the number of checkpoint snapshots written.
	Checkpoints int64

	// StartTime is when the crawl started.
	StartTime time.Time

	// EndTime is when the crawl completed (zero if still running).
	EndTime time.Time

	// LastProcessedID is the most recent identifier iterated.
	LastProcessedID int64
}

// Duration returns the elapsed time of the crawl.
func (s *CrawlStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns crawl progress as a percentage (0-100).
func (s *CrawlStats) Progress() float64 {
	if s.TotalIdentifiers == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalIdentifiers) * 100
}

// RecordsPerSecond returns the identifier processing rate.
func (s *CrawlStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}
