// Package artifact persists the trained model set as one versioned gob file.
// Both models and the ID bridge are written together and reloaded together: a
// partial artifact set (say, a fresh factor matrix against a stale bridge)
// cannot exist on disk, and anything malformed is rejected at load time
// instead of producing silently wrong similarities.
package artifact

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mehdibargach/watchnext/internal/factor"
	"github.com/Mehdibargach/watchnext/internal/vectorspace"
)

// SchemaVersion is bumped whenever the on-disk layout changes; a mismatch
// fails the load.
const SchemaVersion = 1

// Set is the complete serving artifact: everything the engine needs, trained
// in one run and immutable afterwards.
type Set struct {
	SchemaVersion int
	TrainedAt     time.Time

	Content       *vectorspace.Model
	Collaborative *factor.Model
}

// Save writes the set atomically: gob to a temp file in the target directory,
// then rename. A crashed training run never leaves a half-written artifact.
func Save(path string, set *Set) error {
	if err := validate(set); err != nil {
		return fmt.Errorf("refusing to save invalid artifact set: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".watchnext-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(set); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

// Load reads and validates the artifact set, rebuilding the in-memory lookup
// indexes the gob encoding does not carry.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	var set Set
	if err := gob.NewDecoder(f).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := validate(&set); err != nil {
		return nil, fmt.Errorf("artifact %s rejected: %w", path, err)
	}

	set.Content.Reindex()
	set.Collaborative.Reindex()
	return &set, nil
}

func validate(set *Set) error {
	if set == nil {
		return fmt.Errorf("nil artifact set")
	}
	if set.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version %d, want %d", set.SchemaVersion, SchemaVersion)
	}

	cb := set.Content
	if cb == nil {
		return fmt.Errorf("missing content model")
	}
	if len(cb.Rows) == 0 || len(cb.Rows) != len(cb.IDs) {
		return fmt.Errorf("content model shape: %d rows vs %d ids", len(cb.Rows), len(cb.IDs))
	}
	if len(cb.Vocabulary) == 0 || len(cb.Vocabulary) != len(cb.IDF) {
		return fmt.Errorf("content vocabulary size %d vs %d idf weights", len(cb.Vocabulary), len(cb.IDF))
	}
	dims := len(cb.IDF)
	for i, row := range cb.Rows {
		if len(row.Indices) != len(row.Values) {
			return fmt.Errorf("content row %d: %d indices vs %d values", i, len(row.Indices), len(row.Values))
		}
		for _, col := range row.Indices {
			if col < 0 || col >= dims {
				return fmt.Errorf("content row %d: column %d out of %d dims", i, col, dims)
			}
		}
	}

	cf := set.Collaborative
	if cf == nil {
		return fmt.Errorf("missing collaborative model")
	}
	if cf.K < 1 {
		return fmt.Errorf("collaborative model has %d factors", cf.K)
	}
	if len(cf.Factors) == 0 || len(cf.Factors) != len(cf.MovieIDs) {
		return fmt.Errorf("collaborative model shape: %d factor rows vs %d movie ids", len(cf.Factors), len(cf.MovieIDs))
	}
	for i, vec := range cf.Factors {
		if len(vec) != cf.K {
			return fmt.Errorf("collaborative row %d has %d dims, want %d", i, len(vec), cf.K)
		}
	}
	if cf.Bridge == nil || len(cf.Bridge.MLToTMDB) == 0 || len(cf.Bridge.TMDBToML) == 0 {
		return fmt.Errorf("missing or empty id bridge")
	}
	return nil
}
