package shots

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quanthud/internal/policy"
)

func rules() policy.ShotRules { return policy.DefaultConfig().Shots }

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("Chtimes() error: %v", err)
	}
}

func TestListDirCapsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 73; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("shot-%02d.png", i)), base.Add(time.Duration(i)*time.Minute))
	}
	for _, name := range []string{"notes.txt", "a.gif", "b.webp", "README", "c.pngx"} {
		touch(t, filepath.Join(dir, name), base.Add(24*time.Hour))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("Mkdir() error: %v", err)
	}

	got, err := ListDir(dir, rules(), nil)
	if err != nil {
		t.Fatalf("ListDir() error: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	if got[0].Filename != "shot-72.png" {
		t.Fatalf("first = %q, want shot-72.png", got[0].Filename)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Modified >= got[i-1].Modified {
			t.Fatalf("not strictly newest-first at %d: %d then %d", i, got[i-1].Modified, got[i].Modified)
		}
	}
	for _, s := range got {
		if s.Filename == "shot-22.png" {
			t.Fatalf("51st newest file should be cut")
		}
		if filepath.Dir(s.Path) != dir {
			t.Fatalf("path %q not under %q", s.Path, dir)
		}
	}
	if got[49].Filename != "shot-23.png" {
		t.Fatalf("last = %q, want shot-23.png", got[49].Filename)
	}
}

func TestListDirExtensionsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for _, name := range []string{"a.PNG", "b.Jpg", "c.jpeg", "d.BMP", "e.tiff"} {
		touch(t, filepath.Join(dir, name), now)
	}
	got, err := ListDir(dir, rules(), nil)
	if err != nil {
		t.Fatalf("ListDir() error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4: %+v", len(got), got)
	}
}

func TestListDirMissingIsEmpty(t *testing.T) {
	got, err := ListDir(filepath.Join(t.TempDir(), "nope"), rules(), nil)
	if err != nil {
		t.Fatalf("ListDir() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil list", got)
	}
}

func TestIndexUsesPicturesScreenshots(t *testing.T) {
	pics := t.TempDir()
	x := NewIndex(rules(), nil)
	x.pictures = func() (string, error) { return pics, nil }

	dir, err := x.Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if dir != filepath.Join(pics, "Screenshots") {
		t.Fatalf("Dir() = %q", dir)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("Mkdir() error: %v", err)
	}
	touch(t, filepath.Join(dir, "one.png"), time.Now())

	got, err := x.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 1 || got[0].Filename != "one.png" {
		t.Fatalf("List() = %+v", got)
	}
}

func TestIndexPicturesError(t *testing.T) {
	x := NewIndex(rules(), nil)
	x.pictures = func() (string, error) { return "", fmt.Errorf("cannot find Pictures directory") }
	if _, err := x.List(); err == nil {
		t.Fatalf("List() error = nil")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max int
		ww, wh    int
	}{
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{80, 60, 100, 80, 60},
		{1000, 1, 100, 100, 1},
		{300, 300, 120, 120, 120},
		{300, 300, 0, 300, 300},
	}
	for _, tc := range tests {
		w, h := FitWithin(tc.w, tc.h, tc.max)
		if w != tc.ww || h != tc.wh {
			t.Fatalf("FitWithin(%d,%d,%d) = %d,%d want %d,%d", tc.w, tc.h, tc.max, w, h, tc.ww, tc.wh)
		}
	}
}

func TestThumbnailAndReadFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	full, err := ReadFull(path)
	if err != nil {
		t.Fatalf("ReadFull() error: %v", err)
	}
	if !bytes.Equal(full, buf.Bytes()) {
		t.Fatalf("ReadFull() returned different bytes")
	}

	thumb, err := Thumbnail(path, 100)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("DecodeConfig() error: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("thumbnail = %dx%d, want 100x50", cfg.Width, cfg.Height)
	}

	if _, err := ReadFull(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("ReadFull(missing) error = nil")
	}
}

func TestLaunchAppEmpty(t *testing.T) {
	if err := LaunchApp("  "); err == nil {
		t.Fatalf("LaunchApp(blank) error = nil")
	}
}
