// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package bacdive

import (
	"context"
	"fmt"

	"github.com/strainatlas/strainatlas/internal/logging"
)

// invalidID is the sentinel identifier the upstream never assigns. Requests
// for it (and for empty identifiers) are rejected without network activity.
const invalidID = "0"

// ValidID reports whether id may be sent to the detail endpoint.
func ValidID(id string) bool {
	return id != "" && id != invalidID
}

// FetchStrain retrieves the full raw record for one identifier.
//
// Returns (nil, nil) when the identifier is invalid or the upstream has no
// record for it; a missing record is not an error. A non-nil error means the
// request itself failed (network, HTTP status, malformed body) - the caller
// decides whether to log and continue.
//
// On success the record is guaranteed to carry its identifier inside the
// general-info group; the upstream omits it in some cases, so it is injected
// here before the record is handed to the transformer.
func (c *Client) FetchStrain(ctx context.Context, id string) (RawStrain, error) {
	if !ValidID(id) {
		logging.Debug().Str("id", id).Msg("Skipping invalid strain identifier")
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/%s", c.fetchBaseURL, id)

	var resp fetchResponse
	if err := c.getJSON(ctx, "fetch", reqURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch strain %s: %w", id, err)
	}

	raw, ok := resp.Results[id]
	if !ok || raw == nil {
		logging.Debug().Str("id", id).Msg("No strain record in upstream response")
		return nil, nil
	}

	injectIdentifier(raw, id)
	return raw, nil
}

// injectIdentifier ensures the record carries its own identifier inside the
// general-info group, creating the group when the upstream omitted it.
func injectIdentifier(raw RawStrain, id string) {
	general, ok := raw[generalGroup].(map[string]interface{})
	if !ok {
		general = make(map[string]interface{})
		raw[generalGroup] = general
	}
	if _, present := general[identifierKey]; !present {
		general[identifierKey] = id
	}
}
