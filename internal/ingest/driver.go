// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/strainatlas/strainatlas/internal/bacdive"
	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/logging"
	"github.com/strainatlas/strainatlas/internal/metrics"
	"github.com/strainatlas/strainatlas/internal/models"
)

// Fetcher is the subset of the upstream API the driver needs.
type Fetcher interface {
	FetchStrain(ctx context.Context, id string) (bacdive.RawStrain, error)
}

// outcome classifies what one identifier contributed to the run.
type outcome int

const (
	outcomeProduced outcome = iota
	outcomeNotFound
	outcomeFetchFailed
	outcomeDropped
)

// metricLabel returns the outcome's metrics label.
func (o outcome) metricLabel() string {
	switch o {
	case outcomeProduced:
		return "produced"
	case outcomeNotFound:
		return "not_found"
	case outcomeFetchFailed:
		return "fetch_failed"
	default:
		return "dropped"
	}
}

// Driver sequences the fetch-transform loop across an identifier range.
//
// Identifiers are processed strictly sequentially - there is never overlap
// between request N+1 and request N - so the upstream sees a stable,
// rate-limited cadence and the accumulator is owned by exactly one loop.
// Per-identifier failures are logged and skipped; no identifier can abort
// the range. The recovery point after an interruption is the last completed
// checkpoint file; resuming is by re-running a sub-range.
type Driver struct {
	fetcher  Fetcher
	writer   *SnapshotWriter
	interval int
	limiter  *rate.Limiter

	// State
	mu      sync.RWMutex
	running bool
	stats   *CrawlStats
}

// NewDriver creates an ingestion driver.
func NewDriver(cfg *config.CrawlConfig, dataset *config.DatasetConfig, fetcher Fetcher) *Driver {
	interval := cfg.CheckpointInterval
	if interval <= 0 {
		interval = 1000
	}
	fetchDelay := cfg.FetchDelay
	if fetchDelay <= 0 {
		fetchDelay = 5 * time.Millisecond
	}

	return &Driver{
		fetcher:  fetcher,
		writer:   NewSnapshotWriter(dataset),
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(fetchDelay), 1),
	}
}

// Run crawls the inclusive identifier range [startID, endID], writing
// periodic checkpoint snapshots and a final consolidated dataset.
//
// Returns the run statistics. The returned error is non-nil only for
// context cancellation, an invalid range, or a failed final write -
// per-identifier failures are absorbed into the statistics.
func (d *Driver) Run(ctx context.Context, startID, endID int64) (*CrawlStats, error) {
	if endID < startID {
		return nil, fmt.Errorf("invalid identifier range [%d, %d]", startID, endID)
	}

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil, fmt.Errorf("crawl already in progress")
	}
	d.running = true
	d.stats = &CrawlStats{
		TotalIdentifiers: endID - startID + 1,
		StartTime:        time.Now(),
	}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.stats.EndTime = time.Now()
		d.mu.Unlock()
	}()

	logging.Info().
		Int64("start_id", startID).
		Int64("end_id", endID).
		Int("checkpoint_interval", d.interval).
		Msg("Starting crawl")

	records := make([]models.StrainRecord, 0, endID-startID+1)
	sinceCheckpoint := 0

	for id := startID; id <= endID; id++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return d.GetStats(), err
		}

		rec, result := d.processOne(ctx, strconv.FormatInt(id, 10))
		if rec != nil {
			records = append(records, *rec)
		}
		d.recordOutcome(id, result, len(records))

		sinceCheckpoint++
		if sinceCheckpoint >= d.interval {
			sinceCheckpoint = 0
			d.checkpoint(records, id)
		}
	}

	if err := d.writer.WriteFinal(records); err != nil {
		return d.GetStats(), err
	}

	stats := d.GetStats()
	logging.Info().
		Int64("processed", stats.Processed).
		Int64("produced", stats.Produced).
		Int64("not_found", stats.NotFound).
		Int64("fetch_failed", stats.FetchFailed).
		Int64("dropped", stats.Dropped).
		Int64("checkpoints", stats.Checkpoints).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Str("dataset", d.writer.FinalPath()).
		Msg("Crawl completed")

	return stats, nil
}

// RunIDs crawls an explicit identifier list, typically the output of
// genus enumeration. Checkpoint and failure semantics match Run; the
// checkpoint boundary is the numeric value of the last identifier, or
// the sequence position for non-numeric identifiers.
func (d *Driver) RunIDs(ctx context.Context, ids []string) (*CrawlStats, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty identifier list")
	}

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil, fmt.Errorf("crawl already in progress")
	}
	d.running = true
	d.stats = &CrawlStats{
		TotalIdentifiers: int64(len(ids)),
		StartTime:        time.Now(),
	}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.stats.EndTime = time.Now()
		d.mu.Unlock()
	}()

	logging.Info().
		Int("identifiers", len(ids)).
		Int("checkpoint_interval", d.interval).
		Msg("Starting crawl over enumerated identifiers")

	records := make([]models.StrainRecord, 0, len(ids))
	sinceCheckpoint := 0

	for i, id := range ids {
		if err := d.limiter.Wait(ctx); err != nil {
			return d.GetStats(), err
		}

		numericID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			numericID = int64(i + 1)
		}

		rec, result := d.processOne(ctx, id)
		if rec != nil {
			records = append(records, *rec)
		}
		d.recordOutcome(numericID, result, len(records))

		sinceCheckpoint++
		if sinceCheckpoint >= d.interval {
			sinceCheckpoint = 0
			d.checkpoint(records, numericID)
		}
	}

	if err := d.writer.WriteFinal(records); err != nil {
		return d.GetStats(), err
	}

	stats := d.GetStats()
	logging.Info().
		Int64("processed", stats.Processed).
		Int64("produced", stats.Produced).
		Str("dataset", d.writer.FinalPath()).
		Msg("Crawl completed")

	return stats, nil
}

// processOne fetches and transforms a single identifier. Failures are
// logged here; the explicit outcome keeps the log-and-continue policy a
// driver decision rather than a side effect of error suppression.
func (d *Driver) processOne(ctx context.Context, id string) (*models.StrainRecord, outcome) {
	raw, err := d.fetcher.FetchStrain(ctx, id)
	if err != nil {
		logging.Warn().Err(err).Str("id", id).Msg("Fetch failed, skipping identifier")
		return nil, outcomeFetchFailed
	}
	if raw == nil {
		return nil, outcomeNotFound
	}

	rec, err := Transform(raw)
	if err != nil {
		logging.Warn().Err(err).Str("id", id).Msg("Transform failed, dropping record")
		return nil, outcomeDropped
	}
	return rec, outcomeProduced
}

// recordOutcome updates run statistics and metrics for one identifier.
func (d *Driver) recordOutcome(id int64, result outcome, datasetSize int) {
	metrics.CrawlIdentifiersProcessed.WithLabelValues(result.metricLabel()).Inc()
	metrics.CrawlDatasetRecords.Set(float64(datasetSize))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Processed++
	d.stats.LastProcessedID = id
	switch result {
	case outcomeProduced:
		d.stats.Produced++
	case outcomeNotFound:
		d.stats.NotFound++
	case outcomeFetchFailed:
		d.stats.FetchFailed++
	case outcomeDropped:
		d.stats.Dropped++
	}
}

// checkpoint persists the accumulator snapshot for the given boundary.
// A failed checkpoint write is logged and the crawl continues; the final
// write is the one that must succeed.
func (d *Driver) checkpoint(records []models.StrainRecord, boundary int64) {
	path, err := d.writer.WriteCheckpoint(records, boundary)
	if err != nil {
		logging.Warn().Err(err).Int64("boundary", boundary).Msg("Checkpoint write failed")
		return
	}

	metrics.CrawlCheckpointWrites.Inc()
	d.mu.Lock()
	d.stats.Checkpoints++
	stats := *d.stats
	d.mu.Unlock()

	logging.Info().
		Str("checkpoint", path).
		Int("records", len(records)).
		Float64("progress_percent", stats.Progress()).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Msg("Checkpoint written")
}

// GetStats returns a copy of the current crawl statistics.
func (d *Driver) GetStats() *CrawlStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stats == nil {
		return &CrawlStats{}
	}
	stats := *d.stats
	return &stats
}

// IsRunning reports whether a crawl is currently in progress.
func (d *Driver) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}
