package catalog

import (
	"os"
	"sync"
	"time"

	"shopsight/internal/observability"
)

// Store caches the catalog loaded from a file for the life of the process.
//
// Readers get an immutable *Catalog snapshot. The snapshot is replaced only by
// Reload, or by Catalog when the file's size or modification time changed
// since the last load.
type Store struct {
	path string

	mu      sync.Mutex
	current *Catalog
	err     error
	modTime time.Time
	size    int64
	loaded  bool
}

// NewStore returns a store for the catalog file at path. Nothing is read
// until the first call to Catalog or Reload.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Catalog returns the cached catalog, loading it on first use or when the
// source changed. The error is the *LoadError of the load that produced the
// snapshot, if any; the catalog is never nil.
func (s *Store) Catalog() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !s.changedLocked() {
		return s.current, s.err
	}
	s.loadLocked()
	return s.current, s.err
}

// Reload forces a new load from the source file.
func (s *Store) Reload() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	return s.current, s.err
}

func (s *Store) changedLocked() bool {
	fi, err := os.Stat(s.path)
	if err != nil {
		// a vanished file only matters if the last load succeeded
		return s.err == nil
	}
	return !fi.ModTime().Equal(s.modTime) || fi.Size() != s.size
}

func (s *Store) loadLocked() {
	var modTime time.Time
	var size int64
	if fi, err := os.Stat(s.path); err == nil {
		modTime, size = fi.ModTime(), fi.Size()
	}

	c, err := Load(s.path)
	s.current, s.err = c, err
	s.modTime, s.size = modTime, size
	s.loaded = true

	observability.RecordCatalogLoad(c.Len(), c.Stats.RowsDropped, err)
}
