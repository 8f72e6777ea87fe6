package reminder

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists Prefs as a flat JSON file, the device-local analogue of
// the browser's localStorage keys.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the prefs file. A missing file yields zero-value prefs.
func (s *FileStore) Load() (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// Save writes the prefs file, creating parent directories as needed.
func (s *FileStore) Save(p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// MemStore is an in-memory PrefStore for tests.
type MemStore struct {
	mu    sync.Mutex
	prefs Prefs
}

// NewMemStore creates a MemStore seeded with the given prefs.
func NewMemStore(p Prefs) *MemStore {
	return &MemStore{prefs: p}
}

// Load returns the stored prefs.
func (s *MemStore) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, nil
}

// Save replaces the stored prefs.
func (s *MemStore) Save(p Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	return nil
}
