// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

// Package main is the entry point for the StrainAtlas crawler.
//
// The crawler ingests bacterial strain records from the upstream BacDive
// API in two phases:
//
//  1. Enumeration: for each configured genus, page through the taxon
//     listing endpoint and collect strain identifiers.
//  2. Fetch: retrieve each identifier's full record, transform it into
//     the flat normalized schema, and accumulate the dataset.
//
// Alternatively, an explicit identifier range can be crawled directly
// with -start and -end, skipping enumeration.
//
// Progress is checkpointed periodically so an interrupted crawl loses at
// most one checkpoint interval of work. The final consolidated dataset
// file is what the query server loads at startup.
//
// A session credential (BACDIVE_SESSION) is required and verified before
// any network activity.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/strainatlas/strainatlas/internal/bacdive"
	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/ingest"
	"github.com/strainatlas/strainatlas/internal/logging"
)

func main() {
	startID := flag.Int64("start", 0, "first identifier of the range to crawl (overrides config)")
	endID := flag.Int64("end", 0, "last identifier of the range to crawl (overrides config)")
	genera := flag.String("genera", "", "comma-separated genera to enumerate (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if *startID > 0 {
		cfg.Crawl.StartID = *startID
	}
	if *endID > 0 {
		cfg.Crawl.EndID = *endID
	}
	if *genera != "" {
		cfg.Crawl.Genera = splitGenera(*genera)
	}

	// Fail fast before any network activity.
	if err := cfg.RequireSession(); err != nil {
		logging.Fatal().Err(err).Msg("Missing upstream credentials")
	}

	var client bacdive.API
	if cfg.Crawl.CircuitBreaker {
		client = bacdive.NewCircuitBreakerClient(&cfg.BacDive)
	} else {
		client = bacdive.NewClient(&cfg.BacDive)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := ingest.NewDriver(&cfg.Crawl, &cfg.Dataset, client)

	var stats *ingest.CrawlStats
	switch {
	case len(cfg.Crawl.Genera) > 0:
		ids, err := enumerate(ctx, client, cfg.Crawl.Genera)
		if err != nil && len(ids) == 0 {
			logging.Fatal().Err(err).Msg("Enumeration produced no identifiers")
		}
		if err != nil {
			logging.Warn().Err(err).Int("ids", len(ids)).Msg("Enumeration incomplete, crawling partial identifier list")
		}
		stats, err = driver.RunIDs(ctx, ids)
		if err != nil {
			exitOnRunError(err)
		}

	case cfg.Crawl.EndID >= cfg.Crawl.StartID && cfg.Crawl.EndID > 0:
		var err error
		stats, err = driver.Run(ctx, cfg.Crawl.StartID, cfg.Crawl.EndID)
		if err != nil {
			exitOnRunError(err)
		}

	default:
		logging.Fatal().Msg("Nothing to crawl: configure crawl.genera or a -start/-end identifier range")
	}

	if stats != nil {
		logging.Info().
			Int64("produced", stats.Produced).
			Str("duration", stats.Duration().String()).
			Msg("Crawler finished")
	}
}

// enumerate collects identifiers across all genera, deduplicated and in
// ascending numeric order. Per-genus failures are reported but do not
// discard identifiers already collected.
func enumerate(ctx context.Context, client bacdive.API, genera []string) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	var firstErr error

	for _, genus := range genera {
		genusIDs, err := client.EnumerateGenus(ctx, genus)
		if err != nil {
			logging.Warn().Err(err).Str("genus", genus).Msg("Genus enumeration failed")
			if firstErr == nil {
				firstErr = err
			}
		}
		for _, id := range genusIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})

	return ids, firstErr
}

func splitGenera(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// exitOnRunError distinguishes an interrupted crawl from a hard failure.
func exitOnRunError(err error) {
	if errors.Is(err, context.Canceled) {
		logging.Warn().Msg("Crawl interrupted, resume from the last checkpoint")
		os.Exit(130)
	}
	logging.Fatal().Err(err).Msg("Crawl failed")
}
