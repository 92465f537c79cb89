// Package shots lists, reads and opens the OS screenshot folder.
package shots

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quanthud/internal/ipcapi"
	"quanthud/internal/policy"
)

type Index struct {
	rules    policy.ShotRules
	log      *slog.Logger
	pictures func() (string, error)
}

func NewIndex(rules policy.ShotRules, log *slog.Logger) *Index {
	if log == nil {
		log = slog.Default()
	}
	return &Index{rules: rules, log: log.With("component", "shots"), pictures: picturesDir}
}

// Dir is <Pictures>/Screenshots. It does not have to exist.
func (x *Index) Dir() (string, error) {
	pics, err := x.pictures()
	if err != nil {
		return "", err
	}
	return filepath.Join(pics, x.rules.Folder), nil
}

func (x *Index) List() ([]ipcapi.OsScreenshot, error) {
	dir, err := x.Dir()
	if err != nil {
		return nil, err
	}
	return ListDir(dir, x.rules, x.log)
}

// ListDir returns the newest image files in dir, capped at rules.MaxEntries.
// A missing directory is an empty listing. A file whose metadata cannot be
// read is kept with Modified 0.
func ListDir(dir string, rules policy.ShotRules, log *slog.Logger) ([]ipcapi.OsScreenshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ipcapi.OsScreenshot{}, nil
		}
		return nil, fmt.Errorf("read screenshots dir: %w", err)
	}

	out := make([]ipcapi.OsScreenshot, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !rules.Allow(e.Name()) {
			continue
		}
		var modified int64
		if info, err := e.Info(); err != nil {
			if log != nil {
				log.Warn("screenshot metadata unavailable", "file", e.Name(), "err", err)
			}
		} else {
			modified = info.ModTime().Unix()
		}
		out = append(out, ipcapi.OsScreenshot{
			Path:     filepath.Join(dir, e.Name()),
			Filename: e.Name(),
			Modified: modified,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Modified != out[j].Modified {
			return out[i].Modified > out[j].Modified
		}
		return strings.Compare(out[i].Filename, out[j].Filename) < 0
	})
	if rules.MaxEntries > 0 && len(out) > rules.MaxEntries {
		out = out[:rules.MaxEntries]
	}
	return out, nil
}

// OpenFolder shows custom in the file manager, or the Screenshots folder
// (created if missing) when custom is empty.
func (x *Index) OpenFolder(custom *string) error {
	dir := ""
	if custom != nil {
		dir = strings.TrimSpace(*custom)
	}
	if dir == "" {
		var err error
		if dir, err = x.Dir(); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshots dir: %w", err)
		}
	}
	x.log.Debug("open folder", "dir", dir)
	return openFolder(dir)
}

// LaunchApp opens path with the shell's default verb.
func LaunchApp(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path")
	}
	return launch(path)
}
