//go:build !windows

package shots

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// picturesDir honours XDG_PICTURES_DIR, then user-dirs.dirs, then ~/Pictures.
func picturesDir() (string, error) {
	if p := os.Getenv("XDG_PICTURES_DIR"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find Pictures directory: %w", err)
	}
	if p := userDirsEntry(home, "XDG_PICTURES_DIR"); p != "" {
		return p, nil
	}
	return filepath.Join(home, "Pictures"), nil
}

func userDirsEntry(home, key string) string {
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		cfg = filepath.Join(home, ".config")
	}
	f, err := os.Open(filepath.Join(cfg, "user-dirs.dirs"))
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || k != key {
			continue
		}
		v = strings.Trim(v, `"`)
		return strings.Replace(v, "$HOME", home, 1)
	}
	return ""
}

func opener() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil
	}
	return "", errors.New("no shell opener on " + runtime.GOOS)
}

func openFolder(dir string) error { return launch(dir) }

func launch(path string) error {
	bin, err := opener()
	if err != nil {
		return err
	}
	if err := exec.Command(bin, path).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
