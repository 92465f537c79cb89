package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"quanthud/internal/apperr"
	"quanthud/internal/geometry"
)

func fakeCapturer(desk geometry.Rect, got *image.Rectangle) *Capturer {
	c := New(func() (geometry.Rect, error) { return desk, nil }, nil)
	c.grab = func(r image.Rectangle) (*image.RGBA, error) {
		*got = r
		img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		img.Set(0, 0, color.RGBA{1, 2, 3, 255})
		return img, nil
	}
	return c
}

func TestCaptureRegion(t *testing.T) {
	var got image.Rectangle
	c := fakeCapturer(geometry.Rect{Width: 100, Height: 100}, &got)

	res, err := c.Capture(&[4]int{-10, 20, 30, 40})
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if got != image.Rect(-10, 20, 20, 60) {
		t.Fatalf("grabbed %v", got)
	}
	if res.Width != 30 || res.Height != 40 {
		t.Fatalf("size = %dx%d", res.Width, res.Height)
	}
	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("not standard base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Fatalf("pixel = %v", img.At(0, 0))
	}
}

func TestCaptureWholeDesktop(t *testing.T) {
	var got image.Rectangle
	c := fakeCapturer(geometry.Rect{X: 0, Y: -240, Width: 4480, Height: 1440}, &got)
	if _, err := c.Capture(nil); err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if got != image.Rect(0, -240, 4480, 1200) {
		t.Fatalf("grabbed %v", got)
	}
}

func TestCaptureRejectsEmptyRegion(t *testing.T) {
	var got image.Rectangle
	c := fakeCapturer(geometry.Rect{}, &got)
	if _, err := c.Capture(&[4]int{0, 0, 0, 10}); err == nil {
		t.Fatalf("Capture() error = nil for zero width")
	}
}

func TestVirtualDesktopNoMonitor(t *testing.T) {
	d := VirtualDesktop(func() ([]geometry.Monitor, error) { return nil, nil })
	if _, err := d(); !errors.Is(err, apperr.ErrNoMonitor) {
		t.Fatalf("err = %v, want ErrNoMonitor", err)
	}
}
