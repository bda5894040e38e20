// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BacDive.TaxonBaseURL != "https://bacdive.dsmz.de/api/bacdive/taxon" {
		t.Errorf("Unexpected taxon base URL %q", cfg.BacDive.TaxonBaseURL)
	}
	if cfg.Crawl.CheckpointInterval != 1000 {
		t.Errorf("Expected checkpoint interval 1000, got %d", cfg.Crawl.CheckpointInterval)
	}
	if cfg.Server.Port != 8225 {
		t.Errorf("Expected port 8225, got %d", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 100 || cfg.API.MaxPageSize != 100 {
		t.Errorf("Unexpected page sizes %d/%d", cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	}
	if !cfg.Crawl.CircuitBreaker {
		t.Error("Expected circuit breaker enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BACDIVE_SESSION", "sessionid=abc123")
	t.Setenv("CRAWL_CHECKPOINT_INTERVAL", "500")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BacDive.Session != "sessionid=abc123" {
		t.Errorf("Session override not applied: %q", cfg.BacDive.Session)
	}
	if cfg.Crawl.CheckpointInterval != 500 {
		t.Errorf("Checkpoint interval override not applied: %d", cfg.Crawl.CheckpointInterval)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port override not applied: %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Log level override not applied: %q", cfg.Logging.Level)
	}
}

func TestLoadSliceFromEnv(t *testing.T) {
	t.Setenv("CRAWL_GENERA", "Bacillus, Escherichia ,Pseudomonas")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"Bacillus", "Escherichia", "Pseudomonas"}
	if !reflect.DeepEqual(cfg.Crawl.Genera, want) {
		t.Errorf("Expected genera %v, got %v", want, cfg.Crawl.Genera)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7777\ncrawl:\n  genera:\n    - Bacillus\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Config file port not applied: %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Crawl.Genera, []string{"Bacillus"}) {
		t.Errorf("Config file genera not applied: %v", cfg.Crawl.Genera)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"BACDIVE_SESSION", "bacdive.session"},
		{"BACDIVE_TAXON_BASE_URL", "bacdive.taxon_base_url"},
		{"CRAWL_CHECKPOINT_INTERVAL", "crawl.checkpoint_interval"},
		{"DATASET_FINAL_FILE", "dataset.final_file"},
		{"SERVER_PORT", "server.port"},
		{"API_MAX_PAGE_SIZE", "api.max_page_size"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestValidateCrossField(t *testing.T) {
	t.Run("default page size exceeds max", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.API.DefaultPageSize = 200
		cfg.API.MaxPageSize = 100
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error")
		}
	})

	t.Run("end precedes start", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Crawl.StartID = 100
		cfg.Crawl.EndID = 50
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error")
		}
	})

	t.Run("unset end id passes", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Crawl.StartID = 100
		cfg.Crawl.EndID = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("Unexpected validation error: %v", err)
		}
	})

	t.Run("invalid url rejected", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BacDive.TaxonBaseURL = "not a url"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for malformed URL")
		}
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Logging.Level = "verbose"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for unknown log level")
		}
	})
}

func TestRequireSession(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.RequireSession(); !errors.Is(err, ErrMissingSession) {
		t.Errorf("Expected ErrMissingSession, got %v", err)
	}

	cfg.BacDive.Session = "sessionid=abc"
	if err := cfg.RequireSession(); err != nil {
		t.Errorf("Expected nil with session set, got %v", err)
	}
}
