// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Struct tag rules live on the
// Config types in config.go.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tag rules plus cross-field constraints that tags
// cannot express. It does NOT require the session credential; commands that
// talk to the upstream call RequireSession separately so the query server
// can run without one.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config field %s: failed %q rule", f.Namespace(), f.Tag())
		}
		return err
	}

	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) exceeds api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}

	if c.Crawl.EndID != 0 && c.Crawl.EndID < c.Crawl.StartID {
		return fmt.Errorf("crawl.end_id (%d) precedes crawl.start_id (%d)",
			c.Crawl.EndID, c.Crawl.StartID)
	}

	return nil
}

// ErrMissingSession is returned when a crawl is attempted without the
// upstream session credential.
var ErrMissingSession = errors.New("missing BacDive session credential: set BACDIVE_SESSION")

// RequireSession verifies the upstream session credential is present.
// Crawl commands call this once at startup, before any network activity,
// and exit non-zero when it fails.
func (c *Config) RequireSession() error {
	if c.BacDive.Session == "" {
		return ErrMissingSession
	}
	return nil
}
