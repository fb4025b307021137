package defaults

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store persists Defaults to a YAML file on disk.
type Store struct {
	// path is the filesystem location of the defaults file.
	path string
	// mu protects concurrent access to the defaults file.
	mu sync.Mutex
}

// NewStore creates a store that reads/writes YAML at the provided path.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFilename
	}

	return &Store{
		path: filepath.Clean(path),
	}
}

// Load reads defaults from disk. A missing file yields initial values,
// which are persisted so later invocations see a stable file.
func (s *Store) Load() (*Defaults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := New()
			if err = s.write(d); err != nil {
				return nil, err
			}

			return d, nil
		}

		return nil, fmt.Errorf("read defaults file: %w", err)
	}

	d := New()
	if err = yaml.Unmarshal(contents, d); err != nil {
		return nil, fmt.Errorf("decode defaults file: %w", err)
	}

	return d, nil
}

// Save writes defaults to disk.
func (s *Store) Save(d *Defaults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(d)
}

// Reset restores initial values on disk and returns them.
func (s *Store) Reset() (*Defaults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := New()
	if err := s.write(d); err != nil {
		return nil, err
	}

	return d, nil
}

// write marshals and persists defaults; callers must hold the mutex.
func (s *Store) write(d *Defaults) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create defaults directory: %w", err)
		}
	}

	if err = os.WriteFile(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("write defaults file: %w", err)
	}

	return nil
}
