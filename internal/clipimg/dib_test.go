package clipimg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"quanthud/internal/apperr"
)

func twoByTwo() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func TestEncodeBottomUpBGRA(t *testing.T) {
	d := Encode(twoByTwo())
	want := []byte{
		0, 0, 255, 255, 255, 255, 255, 255,
		0, 0, 255, 255, 0, 255, 0, 255,
	}
	if !bytes.Equal(d.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", d.Pixels, want)
	}
	h := d.Header
	if h.Size != 40 || h.Width != 2 || h.Height != 2 || h.Planes != 1 || h.BitCount != 32 || h.Compression != 0 || h.SizeImage != 16 {
		t.Fatalf("header = %+v", h)
	}
}

func TestEncodePixelOffsets(t *testing.T) {
	const n, m = 5, 3
	img := image.NewNRGBA(image.Rect(0, 0, n, m))
	for y := 0; y < m; y++ {
		for x := 0; x < n; x++ {
			img.Set(x, y, color.NRGBA{uint8(10*x + y), uint8(100 + x), uint8(200 + y), 255})
		}
	}
	d := Encode(img)
	if len(d.Pixels) != 4*n*m {
		t.Fatalf("len = %d, want %d", len(d.Pixels), 4*n*m)
	}
	for y := 0; y < m; y++ {
		for x := 0; x < n; x++ {
			off := 4 * (n*(m-1-y) + x)
			c := img.NRGBAAt(x, y)
			if got := d.Pixels[off : off+3]; got[0] != c.B || got[1] != c.G || got[2] != c.R {
				t.Fatalf("(%d,%d) = %v, want B,G,R of %v", x, y, got, c)
			}
		}
	}
}

func TestEncodeOffsetBounds(t *testing.T) {
	sub := twoByTwo().SubImage(image.Rect(1, 0, 2, 2))
	d := Encode(sub)
	// Column x=1: green on top, white below; bottom-up puts white first.
	want := []byte{255, 255, 255, 255, 0, 255, 0, 255}
	if !bytes.Equal(d.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", d.Pixels, want)
	}
}

func TestBytesLayout(t *testing.T) {
	d := Encode(twoByTwo())
	b := d.Bytes()
	if len(b) != 40+16 {
		t.Fatalf("len = %d", len(b))
	}
	le := binary.LittleEndian
	if le.Uint32(b[0:]) != 40 || int32(le.Uint32(b[8:])) != 2 || le.Uint16(b[14:]) != 32 || le.Uint32(b[20:]) != 16 {
		t.Fatalf("header bytes = %v", b[:40])
	}
	if !bytes.Equal(b[40:], d.Pixels) {
		t.Fatalf("pixels not appended after header")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	f, err := os.Create(good)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := png.Encode(f, twoByTwo()); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	_ = f.Close()

	img, err := Load(good)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	bad := filepath.Join(dir, "b.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, apperr.ErrImageDecodeFailed) {
		t.Fatalf("err = %v, want ErrImageDecodeFailed", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, apperr.ErrImageDecodeFailed) {
		t.Fatalf("missing err = %v", err)
	}
}
