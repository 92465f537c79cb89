package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quanthud/internal/apperr"
)

func TestLoadMissingReturnsEmptyObject(t *testing.T) {
	s := NewStoreAt(filepath.Join(t.TempDir(), "QuantHUD"))
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != "{}" {
		t.Fatalf("Load() = %q, want {}", got)
	}
	if _, err := os.Stat(s.Dir()); err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
}

func TestSaveLoadOpaque(t *testing.T) {
	s := NewStoreAt(filepath.Join(t.TempDir(), "QuantHUD"))
	blobs := []string{
		`{"theme":"dark","modules":[1,2,3]}`,
		"not json at all\n\twith tabs",
		"",
	}
	for _, b := range blobs {
		if err := s.Save(b); err != nil {
			t.Fatalf("Save(%q) error: %v", b, err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if got != b {
			t.Fatalf("Load() = %q, want %q", got, b)
		}
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		t.Fatalf("leftover files: %v", entries)
	}
}

func TestNewStoreWithoutConfigDir(t *testing.T) {
	orig := userConfigDir
	t.Cleanup(func() { userConfigDir = orig })
	userConfigDir = func() (string, error) { return "", errors.New("no home") }

	if _, err := NewStore("QuantHUD"); !errors.Is(err, apperr.ErrConfigDirUnavailable) {
		t.Fatalf("err = %v, want ErrConfigDirUnavailable", err)
	}
}
