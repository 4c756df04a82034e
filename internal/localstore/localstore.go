// Package localstore provides durable key-value records on the local
// filesystem. Each key maps to one JSON file in the store directory, so
// records survive process restarts.
package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists small records under fixed keys.
type Store struct {
	dir string
}

// New creates the store directory if needed and returns a Store bound to it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s)> %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Read returns the record for key. A missing or unreadable record is
// reported as absent, not as an error: callers fall back to their defaults.
func (s *Store) Read(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Write replaces the record for key. The write goes through a temporary
// file and a rename so a crash never leaves a half-written record behind.
func (s *Store) Write(key string, data []byte) error {
	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp> %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s> %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s> %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("os.Rename(%s, %s)> %w", tmpName, path, err)
	}
	return nil
}

// Delete removes the record for key. Deleting an absent record is not an
// error.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove(%s)> %w", s.path(key), err)
	}
	return nil
}

func (s *Store) path(key string) string {
	// Keys are fixed, internal names, but keep them filesystem-safe anyway.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
