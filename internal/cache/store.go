package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Payload is any cacheable document that reports when it was fetched.
// Freshness is judged from the document itself, not from file mtimes, so
// artifacts stay portable and human-diffable.
type Payload interface {
	FetchedAtUnix() int64
}

// Store persists JSON snapshot documents under a directory, one file per
// key. Concurrent writers to the same path are tolerated: last writer wins
// and the data is idempotent per run, so no locking is used.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read loads a cached document. Missing files and corrupt JSON are both
// reported as a plain miss.
func Read[T any](s *Store, key string) (T, bool) {
	var doc T
	if s == nil {
		return doc, false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return doc, false
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		var zero T
		return zero, false
	}
	return doc, true
}

// Write persists a document as indented JSON with a trailing newline.
func Write[T any](s *Store, key string, doc T) error {
	if s == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// GetOrRefresh returns the cached document for key if it is fresh within
// ttl, otherwise invokes fetch and persists the result. The persist is
// best-effort: a failed write never fails the call. With force set the
// freshness check is bypassed entirely.
func GetOrRefresh[T Payload](s *Store, key string, ttl time.Duration, force bool, fetch func() (T, error)) (T, error) {
	if s != nil && !force {
		if cached, ok := Read[T](s, key); ok && s.fresh(cached.FetchedAtUnix(), ttl) {
			return cached, nil
		}
	}

	fetched, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if s != nil {
		if err := Write(s, key, fetched); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return fetched, nil
}

func (s *Store) fresh(fetchedAt int64, ttl time.Duration) bool {
	if fetchedAt <= 0 {
		return false
	}
	age := s.now().Unix() - fetchedAt
	return age >= 0 && age <= int64(ttl.Seconds())
}
