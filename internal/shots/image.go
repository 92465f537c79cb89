package shots

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"quanthud/internal/clipimg"
)

func ReadFull(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return b, nil
}

// Thumbnail fits the image into maxDim×maxDim keeping its aspect ratio and
// returns PNG bytes. Images already inside the box are re-encoded as is.
func Thumbnail(path string, maxDim int) ([]byte, error) {
	src, err := clipimg.Load(path)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxDim)

	var out image.Image = src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Rect, src, b, draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func FitWithin(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || w <= 0 || h <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}
