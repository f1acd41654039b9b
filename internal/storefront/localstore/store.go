package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists one JSON record per key under a state directory. It is the
// durable home of guest carts, wishlists and session tokens between runs.
// Persistence is best-effort: readers fall back to an empty record when a
// file is absent or corrupt, and writers report failures without treating
// them as fatal.
type Store struct {
	dir string
}

// New creates the state directory if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory backing the store.
func (s *Store) Dir() string { return s.dir }

// Load reads the record for key into v. It returns false when no usable
// record exists; a corrupt record is removed and treated as absent.
func (s *Store) Load(key string, v any) (bool, error) {
	path := s.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		// Discard the corrupt record so the next run starts clean.
		_ = os.Remove(path)
		return false, nil
	}
	return true, nil
}

// Save writes the record for key. The caller decides what a failure means;
// for guest state it is logged and ignored.
func (s *Store) Save(key string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Delete removes the record for key. Deleting an absent record is a no-op.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a record is present for key.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
