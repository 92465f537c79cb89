// Package config persists the UI's settings blob. The content is opaque: the
// store never parses it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quanthud/internal/apperr"
)

const fileName = "config.json"

type Store struct {
	dir string
}

// NewStore roots the store at <user config dir>/<app>.
func NewStore(app string) (*Store, error) {
	base, err := userConfigDir()
	if err != nil || base == "" {
		return nil, apperr.ErrConfigDirUnavailable
	}
	return &Store{dir: filepath.Join(base, app)}, nil
}

// NewStoreAt roots the store at dir as is.
func NewStoreAt(dir string) *Store { return &Store{dir: dir} }

var userConfigDir = os.UserConfigDir

func (s *Store) Dir() string  { return s.dir }
func (s *Store) Path() string { return filepath.Join(s.dir, fileName) }

// Load returns the stored text, or "{}" if nothing was saved yet.
func (s *Store) Load() (string, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "{}", nil
	}
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	return string(data), nil
}

func (s *Store) Save(text string) error {
	return saveAtomic(s.Path(), []byte(text), 0o600)
}

func saveAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	name := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(name)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		// Windows refuses to rename over a file another process holds open.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("replace config: %w", err)
		}
		if err := os.Rename(name, path); err != nil {
			return fmt.Errorf("replace config: %w", err)
		}
	}
	ok = true
	_ = os.Chmod(path, perm)
	return nil
}
