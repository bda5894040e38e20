// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/models"
)

// SnapshotWriter persists dataset snapshots as JSON arrays of normalized
// records.
//
// Checkpoint files are named by the identifier boundary they cover and live
// in the dataset directory; the final consolidated file is authoritative and
// checkpoints may be deleted once it exists. All writes are atomic (temp
// file + rename) so an interrupted run never truncates its recovery point.
type SnapshotWriter struct {
	dir       string
	finalPath string
}

// NewSnapshotWriter creates a writer for the configured dataset locations.
func NewSnapshotWriter(cfg *config.DatasetConfig) *SnapshotWriter {
	return &SnapshotWriter{
		dir:       cfg.Dir,
		finalPath: cfg.FinalFile,
	}
}

// CheckpointPath returns the checkpoint file path for an identifier boundary.
func (w *SnapshotWriter) CheckpointPath(boundary int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("strains_checkpoint_%d.json", boundary))
}

// FinalPath returns the consolidated dataset file path.
func (w *SnapshotWriter) FinalPath() string {
	return w.finalPath
}

// WriteCheckpoint persists the accumulator as the checkpoint for boundary.
func (w *SnapshotWriter) WriteCheckpoint(records []models.StrainRecord, boundary int64) (string, error) {
	path := w.CheckpointPath(boundary)
	if err := w.writeAtomic(path, records); err != nil {
		return "", fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return path, nil
}

// WriteFinal persists the accumulator as the consolidated dataset.
func (w *SnapshotWriter) WriteFinal(records []models.StrainRecord) error {
	if err := w.writeAtomic(w.finalPath, records); err != nil {
		return fmt.Errorf("write final dataset %s: %w", w.finalPath, err)
	}
	return nil
}

// writeAtomic writes records as a JSON array via a temp file and rename.
func (w *SnapshotWriter) writeAtomic(path string, records []models.StrainRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	// Marshal the slice, never nil, so an empty run still yields []
	if records == nil {
		records = []models.StrainRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
