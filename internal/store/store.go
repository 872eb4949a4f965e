// Package store persists the deduplicated record collection as a JSON array
// on disk. Every write is a full read-modify-write rewrite of the collection,
// which is fine at the hundreds-of-records scale this crawler targets.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/record"
)

// Store serializes all access to one collection file. Concurrent merges from
// crawl workers are safe: the mutex makes each read-modify-write atomic, and
// the rename-after-write keeps a crash from truncating existing data.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// New returns a Store rooted at path. The file is created on first write.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the collection file location.
func (s *Store) Path() string {
	return s.path
}

// Merge appends rec unless an entry with the same URL already exists.
// First write wins: on conflict the incoming record is discarded and the
// stored fields stay unchanged. Insertion order is preserved.
func (s *Store) Merge(rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for _, existing := range records {
		if existing.URL == rec.URL {
			return nil
		}
	}
	records = append(records, rec)
	return s.write(records)
}

// Update overwrites the entry sharing rec's URL in place, appending if no
// entry exists. This is the enrichment merge-back path and deliberately
// differs from Merge's first-write-wins create semantics.
func (s *Store) Update(rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	replaced := false
	for i, existing := range records {
		if existing.URL == rec.URL {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return s.write(records)
}

// LoadAll returns the persisted collection in insertion order. An absent or
// unreadable file degrades to an empty collection.
func (s *Store) LoadAll() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveAll replaces the whole collection with records.
func (s *Store) SaveAll(records []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

// load must be called with the mutex held. Malformed or missing state is
// treated as empty rather than fatal; the next write replaces it.
func (s *Store) load() []record.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("store unreadable, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store corrupt, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return records
}

// write must be called with the mutex held. It writes to a temp file in the
// same directory and renames it over the collection.
func (s *Store) write(records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create store dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
