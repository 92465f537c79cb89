// Package capture grabs screen pixels and hands them to the UI as base64 PNG.
package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/kbinani/screenshot"

	"quanthud/internal/apperr"
	"quanthud/internal/geometry"
	"quanthud/internal/ipcapi"
)

// Desktop supplies the rectangle captured when no region is given.
type Desktop func() (geometry.Rect, error)

type Capturer struct {
	desktop Desktop
	grab    func(image.Rectangle) (*image.RGBA, error)
	log     *slog.Logger
}

func New(desktop Desktop, log *slog.Logger) *Capturer {
	if log == nil {
		log = slog.Default()
	}
	return &Capturer{desktop: desktop, grab: screenshot.CaptureRect, log: log.With("component", "capture")}
}

// VirtualDesktop is a Desktop that spans every monitor in ms().
func VirtualDesktop(ms func() ([]geometry.Monitor, error)) Desktop {
	return func() (geometry.Rect, error) {
		list, err := ms()
		if err != nil {
			return geometry.Rect{}, err
		}
		r, ok := geometry.VirtualDesktop(list)
		if !ok {
			return geometry.Rect{}, apperr.ErrNoMonitor
		}
		return r, nil
	}
}

// Capture grabs region ([x, y, w, h] in physical desktop pixels), or the
// whole virtual desktop when region is nil.
func (c *Capturer) Capture(region *[4]int) (ipcapi.CaptureResult, error) {
	var r geometry.Rect
	if region != nil {
		r = geometry.Rect{X: region[0], Y: region[1], Width: region[2], Height: region[3]}
	} else {
		d, err := c.desktop()
		if err != nil {
			return ipcapi.CaptureResult{}, err
		}
		r = d
	}
	if r.Width <= 0 || r.Height <= 0 {
		return ipcapi.CaptureResult{}, fmt.Errorf("invalid capture region %s", r)
	}

	img, err := c.grab(image.Rect(r.X, r.Y, r.Right(), r.Bottom()))
	if err != nil {
		return ipcapi.CaptureResult{}, fmt.Errorf("capture %s: %w", r, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ipcapi.CaptureResult{}, fmt.Errorf("encode capture: %w", err)
	}
	b := img.Bounds()
	c.log.Debug("captured", "rect", r.String(), "bytes", buf.Len())
	return ipcapi.CaptureResult{
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}
