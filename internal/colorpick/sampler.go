// Package colorpick samples the screen pixel under the cursor.
package colorpick

import (
	"fmt"
	"log/slog"
	"time"

	"quanthud/internal/apperr"
)

// invalidColor is what GetPixel returns on failure. It is not white.
const invalidColor = 0xFFFFFFFF

// Hex renders a native 0x00BBGGRR color as "#rrggbb".
func Hex(colorref uint32) string {
	r := colorref & 0xFF
	g := (colorref >> 8) & 0xFF
	b := (colorref >> 16) & 0xFF
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Screen is the OS side of a sample.
type Screen interface {
	Cursor() (x, y int, err error)
	Pixel(x, y int) (uint32, error)
}

type Sampler struct {
	screen Screen
	hide   func() error
	settle time.Duration
	sleep  func(time.Duration)
	log    *slog.Logger
}

// NewSampler returns a sampler that calls hide to get the picker overlay out
// of the way and then waits settle for the compositor to drop its surface.
func NewSampler(screen Screen, hide func() error, settle time.Duration, log *slog.Logger) *Sampler {
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{screen: screen, hide: hide, settle: settle, sleep: time.Sleep, log: log}
}

func (s *Sampler) Pick() (string, error) {
	if s.hide != nil {
		if err := s.hide(); err != nil {
			s.log.Warn("hide picker overlay", slog.Any("err", err))
		}
	}
	s.sleep(s.settle)

	if s.screen == nil {
		return "", apperr.Unsupported("pick_screen_color")
	}
	x, y, err := s.screen.Cursor()
	if err != nil {
		return "", err
	}
	c, err := s.screen.Pixel(x, y)
	if err != nil {
		return "", err
	}
	if c == invalidColor {
		return "", apperr.Native("GetPixel", fmt.Sprintf("at (%d, %d)", x, y), nil)
	}
	return Hex(c), nil
}
