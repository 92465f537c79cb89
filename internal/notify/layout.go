// Package notify draws a small native "toast" with an OK button, without
// going through the OS notification service.
package notify

import (
	"log/slog"

	"quanthud/internal/geometry"
	"quanthud/internal/policy"
)

var (
	background   = colorRef(0x1a, 0x1a, 0x20)
	buttonFace   = colorRef(0x44, 0x44, 0x44)
	buttonActive = colorRef(0x55, 0x55, 0x55)
	textColor    = colorRef(0xff, 0xff, 0xff)
)

// colorRef packs a colour the way GDI stores it: 0x00BBGGRR.
func colorRef(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Layout is in physical pixels. Text and Button are client coordinates.
type Layout struct {
	Window geometry.Rect
	Text   geometry.Rect
	Button geometry.Rect
}

// Compute anchors the popup at the bottom-right of a screenW×screenH screen.
func Compute(screenW, screenH int, p policy.PopupLayout) Layout {
	btnY := p.Height - p.ButtonBottom - p.ButtonHeight
	return Layout{
		Window: geometry.Rect{
			X:      screenW - p.Width - p.InsetRight,
			Y:      screenH - p.Height - p.InsetBottom,
			Width:  p.Width,
			Height: p.Height,
		},
		Text: geometry.Rect{Width: p.Width, Height: btnY},
		Button: geometry.Rect{
			X:      (p.Width - p.ButtonWidth) / 2,
			Y:      btnY,
			Width:  p.ButtonWidth,
			Height: p.ButtonHeight,
		},
	}
}

type Notifier struct {
	layout policy.PopupLayout
	log    *slog.Logger
}

func New(layout policy.PopupLayout, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{layout: layout, log: log.With("component", "notify")}
}

// Show pops a notification and returns immediately. Every popup runs its
// own message loop, so several may be on screen at once.
func (n *Notifier) Show(message string) {
	go func() {
		if err := n.ShowAndWait(message); err != nil {
			n.log.Warn("notification popup failed", "err", err)
		}
	}()
}
