// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists devotional records as a bounded, date-deduplicated
// JSON history plus a latest-record snapshot.
//
// Layout under the storage directory:
//
//	devotionals.json  all records, newest first, at most MaxHistory entries
//	latest.json       the record written by the most recent run
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/devotional/pkg/types"
)

const (
	collectionFile = "devotionals.json"
	latestFile     = "latest.json"
)

// Observer receives the store's progress and warnings. *slog.Logger
// satisfies it.
type Observer interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Store reads and writes the history files in one directory. It assumes a
// single writer; concurrent runs against the same directory need external
// locking.
type Store struct {
	dir        string
	maxHistory int
	obs        Observer
}

// New returns a Store rooted at cfg.StoragePath. A non-positive MaxHistory
// falls back to the default of 365.
func New(cfg types.StoreConfig, obs Observer) *Store {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = types.DefaultMaxHistory
	}
	return &Store{
		dir:        cfg.StoragePath,
		maxHistory: maxHistory,
		obs:        obs,
	}
}

// CollectionPath returns the path of devotionals.json.
func (s *Store) CollectionPath() string {
	return filepath.Join(s.dir, collectionFile)
}

// LatestPath returns the path of latest.json.
func (s *Store) LatestPath() string {
	return filepath.Join(s.dir, latestFile)
}

// Load reads the stored history. A missing file yields an empty collection.
// An unreadable or unparseable file is reported to the observer and also
// yields an empty collection, so a damaged history never blocks a run.
// Duplicate dates left by older writers are dropped, keeping the first.
func (s *Store) Load() types.Collection {
	path := s.CollectionPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.warnCorrupt(path, err)
		}
		return types.Collection{}
	}

	var c types.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		s.warnCorrupt(path, err)
		return types.Collection{}
	}
	if c == nil {
		return types.Collection{}
	}

	return s.dedupe(c)
}

func (s *Store) warnCorrupt(path string, err error) {
	s.obs.Warn("error loading existing devotionals, starting from empty history",
		"kind", types.KindCorruptHistory,
		"path", path,
		"error", err.Error(),
	)
}

func (s *Store) dedupe(c types.Collection) types.Collection {
	seen := make(map[string]struct{}, len(c))
	out := make(types.Collection, 0, len(c))
	for _, d := range c {
		if _, ok := seen[d.Date]; ok {
			s.obs.Warn("dropping duplicate devotional from history", "date", d.Date)
			continue
		}
		seen[d.Date] = struct{}{}
		out = append(out, d)
	}
	return out
}

// LoadLatest reads latest.json.
func (s *Store) LoadLatest() (*types.Devotional, error) {
	data, err := os.ReadFile(s.LatestPath())
	if err != nil {
		return nil, fmt.Errorf("reading latest devotional: %w", err)
	}
	var d types.Devotional
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.LatestPath(), err)
	}
	return &d, nil
}

// Merge returns c with d merged in and reports whether d was inserted. A
// new date goes to the front; a known date replaces the first record with
// that date in place. The result never exceeds limit records. c is not
// modified.
func Merge(c types.Collection, d types.Devotional, limit int) (types.Collection, bool) {
	var out types.Collection
	inserted := false

	if i := c.Find(d.Date); i >= 0 {
		out = make(types.Collection, len(c))
		copy(out, c)
		out[i] = d
	} else {
		out = make(types.Collection, 0, len(c)+1)
		out = append(out, d)
		out = append(out, c...)
		inserted = true
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, inserted
}

// Save merges d into the stored history and writes both files. It returns
// the collection as written. Write failures carry KindPersistenceFailure.
func (s *Store) Save(d *types.Devotional) (types.Collection, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, types.NewError(types.KindPersistenceFailure,
			fmt.Sprintf("creating storage directory %s", s.dir), err)
	}

	merged, inserted := Merge(s.Load(), *d, s.maxHistory)
	if inserted {
		s.obs.Info("added new devotional", "date", d.Date, "total", len(merged))
	} else {
		s.obs.Info("updated existing devotional", "date", d.Date, "total", len(merged))
	}

	if err := writeJSON(s.CollectionPath(), merged); err != nil {
		return nil, err
	}
	if err := writeJSON(s.LatestPath(), d); err != nil {
		return nil, err
	}

	s.obs.Info("saved devotional data",
		"collection", s.CollectionPath(),
		"latest", s.LatestPath(),
	)
	return merged, nil
}

// writeJSON encodes v with two-space indentation and literal non-ASCII and
// HTML characters, then writes the complete buffer to a temporary file in
// the same directory and renames it over path.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return types.NewError(types.KindPersistenceFailure, fmt.Sprintf("encoding %s", path), err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return types.NewError(types.KindPersistenceFailure, fmt.Sprintf("writing %s", path), err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".devotional-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
