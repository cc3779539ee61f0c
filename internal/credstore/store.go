// Package credstore persists instance credentials as a single JSON file
// keyed by instance name. Writes are atomic (temp file + rename) and
// serialized by the store itself, so concurrent clone completions cannot
// corrupt the file. The store is a durable projection only: during a run
// the in-memory tracker is the source of truth.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Status markers recorded alongside credentials. An empty status means the
// instance is ready.
const (
	StatusFailed     = "failed"
	StatusIncomplete = "incomplete"
)

// Record is the persisted projection of one instance.
type Record struct {
	DBID          string `json:"db_id"`
	ConnectionURL string `json:"connection_url"`
	Username      string `json:"username"`
	Password      string `json:"password"`

	// Status and Error are only set for instances that did not reach a
	// ready state; RunID tags records written by an interrupted run so a
	// later add can detect and retry them.
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	RunID  string `json:"run_id,omitempty"`
}

// Store is a durable mapping from instance name to Record backed by one
// JSON file. All writes go through a read-modify-write cycle guarded by an
// internal mutex.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the given file path. The file does not
// need to exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the underlying file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the whole mapping. A missing or empty file is an empty
// mapping; a file that exists but cannot be parsed is an error.
func (s *Store) LoadAll() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Upsert writes one record, replacing any existing record with the same
// name. Calling it repeatedly with the same name is safe; the last write
// wins.
func (s *Store) Upsert(name string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}
	records[name] = rec
	return s.writeLocked(records)
}

// UpsertAll writes several records in one file update.
func (s *Store) UpsertAll(updates map[string]Record) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}
	for name, rec := range updates {
		records[name] = rec
	}
	return s.writeLocked(records)
}

// RemoveAll deletes every record whose name matches the predicate and
// returns how many were removed.
func (s *Store) RemoveAll(match func(name string) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return 0, err
	}
	removed := 0
	for name := range records {
		if match(name) {
			delete(records, name)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.writeLocked(records)
}

func (s *Store) loadLocked() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", s.path, err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return map[string]Record{}, nil
	}

	records := map[string]Record{}
	if strings.HasPrefix(content, "{") && strings.HasSuffix(content, "}") {
		if err := json.Unmarshal([]byte(content), &records); err != nil {
			return nil, fmt.Errorf("credentials file %s is not valid JSON: %w", s.path, err)
		}
		return records, nil
	}

	// Older tooling appended one {"name": {...}} fragment per line with
	// trailing commas. Stitch the fragments into an array and merge.
	stitched := "[" + strings.TrimRight(content, ",\n") + "]"
	var fragments []map[string]Record
	if err := json.Unmarshal([]byte(stitched), &fragments); err != nil {
		return nil, fmt.Errorf("credentials file %s is not valid JSON: %w", s.path, err)
	}
	for _, fragment := range fragments {
		for name, rec := range fragment {
			records[name] = rec
		}
	}
	return records, nil
}

// writeLocked replaces the whole file atomically. A failed write never
// leaves a truncated store behind.
func (s *Store) writeLocked(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp credentials file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set credentials file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
