// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/strainatlas/config.yaml",
	"/etc/strainatlas/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		BacDive: BacDiveConfig{
			TaxonBaseURL:   "https://bacdive.dsmz.de/api/bacdive/taxon",
			FetchBaseURL:   "https://bacdive.dsmz.de/api/bacdive/fetch",
			Session:        "",
			Timeout:        30 * time.Second,
			MaxRetries:     5,
			RetryBaseDelay: 1 * time.Second,
			PageDelay:      100 * time.Millisecond,
		},
		Crawl: CrawlConfig{
			Genera:             []string{},
			StartID:            1,
			EndID:              0, // Must be set per run (flag or env)
			CheckpointInterval: 1000,
			FetchDelay:         5 * time.Millisecond,
			CircuitBreaker:     true,
		},
		Dataset: DatasetConfig{
			Dir:       "data",
			FinalFile: "data/strains.json",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8225,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     100,
			SearchLimit:     100,
			RateLimitReqs:   300,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if exists)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// BACDIVE_SESSION -> bacdive.session, CRAWL_CHECKPOINT_INTERVAL ->
	// crawl.checkpoint_interval, LOG_LEVEL -> logging.level, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; convert known slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"crawl.genera",
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envPrefixes maps environment variable prefixes to config sections.
// Unmatched variables are ignored so unrelated environment noise never
// lands in the config tree.
var envPrefixes = map[string]string{
	"BACDIVE_": "bacdive.",
	"CRAWL_":   "crawl.",
	"DATASET_": "dataset.",
	"SERVER_":  "server.",
	"API_":     "api.",
	"LOG_":     "logging.",
}

// envTransformFunc transforms environment variable names to koanf config
// paths.
//
// Examples:
//   - BACDIVE_SESSION -> bacdive.session
//   - BACDIVE_TAXON_BASE_URL -> bacdive.taxon_base_url
//   - CRAWL_CHECKPOINT_INTERVAL -> crawl.checkpoint_interval
//   - SERVER_PORT -> server.port
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	upper := strings.ToUpper(key)
	for prefix, section := range envPrefixes {
		if strings.HasPrefix(upper, prefix) {
			rest := strings.ToLower(strings.TrimPrefix(upper, prefix))
			if rest == "" {
				return ""
			}
			return section + rest
		}
	}
	return ""
}
