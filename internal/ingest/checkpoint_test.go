// StrainAtlas - Bacterial Strain Ingestion and Query Service
// Copyright 2026 StrainAtlas contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/strainatlas/strainatlas

package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/strainatlas/strainatlas/internal/config"
	"github.com/strainatlas/strainatlas/internal/models"
)

func testWriter(t *testing.T) *SnapshotWriter {
	t.Helper()
	dir := t.TempDir()
	return NewSnapshotWriter(&config.DatasetConfig{
		Dir:       dir,
		FinalFile: filepath.Join(dir, "strains.json"),
	})
}

func readRecords(t *testing.T, path string) []models.StrainRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	var records []models.StrainRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return records
}

func TestWriteCheckpoint(t *testing.T) {
	w := testWriter(t)
	records := []models.StrainRecord{{Identifier: "1"}, {Identifier: "2"}}

	path, err := w.WriteCheckpoint(records, 2000)
	if err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}

	if !strings.HasSuffix(path, "strains_checkpoint_2000.json") {
		t.Errorf("Unexpected checkpoint name %s", path)
	}
	got := readRecords(t, path)
	if len(got) != 2 {
		t.Errorf("Expected 2 records, got %d", len(got))
	}
}

func TestCheckpointIsPrefixOfNext(t *testing.T) {
	w := testWriter(t)
	records := []models.StrainRecord{{Identifier: "1"}}

	first, err := w.WriteCheckpoint(records, 1000)
	if err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}

	records = append(records, models.StrainRecord{Identifier: "2"})
	second, err := w.WriteCheckpoint(records, 2000)
	if err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}

	a := readRecords(t, first)
	b := readRecords(t, second)
	if len(a) >= len(b) {
		t.Fatalf("Expected later checkpoint to be larger: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Identifier != b[i].Identifier {
			t.Errorf("Earlier checkpoint is not a prefix at %d: %s vs %s", i, a[i].Identifier, b[i].Identifier)
		}
	}
}

func TestWriteFinalEmptyDataset(t *testing.T) {
	w := testWriter(t)

	if err := w.WriteFinal(nil); err != nil {
		t.Fatalf("WriteFinal failed: %v", err)
	}

	data, err := os.ReadFile(w.FinalPath())
	if err != nil {
		t.Fatalf("Failed to read final file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("Expected empty JSON array, got %q", string(data))
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	w := testWriter(t)
	if _, err := w.WriteCheckpoint([]models.StrainRecord{{Identifier: "1"}}, 1); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Leftover temp file %s", e.Name())
		}
	}
}

func TestWriteFinalCreatesMissingDirectory(t *testing.T) {
	base := t.TempDir()
	w := NewSnapshotWriter(&config.DatasetConfig{
		Dir:       filepath.Join(base, "nested", "dir"),
		FinalFile: filepath.Join(base, "nested", "dir", "strains.json"),
	})

	if err := w.WriteFinal([]models.StrainRecord{{Identifier: "1"}}); err != nil {
		t.Fatalf("WriteFinal failed: %v", err)
	}
	if got := readRecords(t, w.FinalPath()); len(got) != 1 {
		t.Errorf("Expected 1 record, got %d", len(got))
	}
}
