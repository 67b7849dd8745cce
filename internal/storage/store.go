package storage

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/gofrs/flock"
)

const storeSection = "store"

// Store wraps a PathCache with durable persistence to a single snapshot
// file. Every mutation rewrites the snapshot unless a batch is open, in
// which case persistence is deferred until Commit.
//
// Durability is best-effort by design: a save failure is logged and the
// in-memory state stays usable for the rest of the process. The store
// assumes exclusive ownership of its backing file and enforces it with an
// advisory lock for the process lifetime.
type Store struct {
	path   string
	cache  *PathCache
	batch  bool
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore opens the store backed by path, loading a previously persisted
// snapshot if one exists. A snapshot that cannot be read is logged and
// skipped so that corrupt persistence never blocks startup.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock store file: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store file %s is locked by another process", path)
	}

	s := &Store{
		path:   path,
		cache:  NewPathCache(),
		lock:   lock,
		logger: logger,
	}

	sections, err := LoadSnapshot(path)
	switch {
	case err == nil:
		if cache, found := sections[storeSection]; found {
			s.cache = cache
		}
	case os.IsNotExist(err):
		// First run; start empty.
	default:
		logger.Warn("could not read store snapshot; starting empty", "path", path, "error", err)
	}
	return s, nil
}

// Save forces an immediate persist regardless of batch state. Failures are
// logged and swallowed; in-memory state remains correct.
func (s *Store) Save() {
	if err := SaveSnapshot(s.path, map[string]*PathCache{storeSection: s.cache}); err != nil {
		s.logger.Warn("could not save store snapshot", "path", s.path, "error", err)
	}
}

// Batch opens a deferred-persistence window. Idempotent if already open.
func (s *Store) Batch() {
	s.batch = true
}

// Commit persists once and closes the batch window. No-op without an open
// batch.
func (s *Store) Commit() {
	if !s.batch {
		return
	}
	s.Save()
	s.batch = false
}

// Set stores value at path and persists unless a batch is open.
func (s *Store) Set(path string, value any) error {
	if err := s.cache.Set(path, value); err != nil {
		return err
	}
	if !s.batch {
		s.Save()
	}
	return nil
}

// Get returns the value at path, or def when the path is absent.
func (s *Store) Get(path string, conv Convert, def any) (any, bool, error) {
	value, ok, err := s.cache.Get(path, conv)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return def, false, nil
	}
	return value, true, nil
}

// Clear removes the subtree at path and persists unless a batch is open.
func (s *Store) Clear(path string) {
	s.cache.Clear(path)
	if !s.batch {
		s.Save()
	}
}

// Reset removes every entry and persists unless a batch is open.
func (s *Store) Reset() {
	s.cache.Reset()
	if !s.batch {
		s.Save()
	}
}

// Close releases the store's file lock. The snapshot is not implicitly
// saved; non-batched mutations have already persisted.
func (s *Store) Close() error {
	return s.lock.Unlock()
}
