// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package bacdive

import (
	"context"
	"fmt"

	"github.com/strainatlas/strainatlas/internal/logging"
	"github.com/strainatlas/strainatlas/internal/metrics"
)

// EnumerateGenus walks the paginated taxon listing for a genus and collects
// every strain identifier it lists.
//
// Pages are requested starting at page 1 and incrementing by 1 until the
// response carries no continuation pointer. Page requests are paced by the
// client's page limiter. Identifiers are deduplicated; their order is not
// meaningful.
//
// On a page request failure the identifiers collected so far are returned
// together with the error. Enumeration is best-effort: callers log the error
// and treat the partial set as possibly incomplete rather than fatal.
func (c *Client) EnumerateGenus(ctx context.Context, genus string) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	expected := 0

	for page := 1; ; page++ {
		if err := c.pageLimiter.Wait(ctx); err != nil {
			return ids, err
		}

		reqURL := fmt.Sprintf("%s/%s?page=%d", c.taxonBaseURL, genus, page)

		var resp taxonPage
		if err := c.getJSON(ctx, "taxon", reqURL, &resp); err != nil {
			logging.Error().Err(err).Str("genus", genus).Int("page", page).Msg("Genus page request failed, returning partial identifier set")
			return ids, fmt.Errorf("enumerate genus %s page %d: %w", genus, page, err)
		}

		expected = resp.Count
		for id := range resp.Results {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		metrics.EnumeratedIdentifiers.WithLabelValues(genus).Add(float64(len(resp.Results)))

		logging.Debug().
			Str("genus", genus).
			Int("page", page).
			Int("page_ids", len(resp.Results)).
			Int("collected", len(ids)).
			Msg("Genus page collected")

		if resp.Next == nil || *resp.Next == "" {
			break
		}
	}

	logging.Info().
		Str("genus", genus).
		Int("collected", len(ids)).
		Int("expected", expected).
		Msg("Genus enumeration completed")

	return ids, nil
}
