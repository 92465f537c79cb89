package geometry

import "fmt"

// VirtualDesktop returns the bounding box of every monitor. ok is false for
// an empty list.
func VirtualDesktop(ms []Monitor) (r Rect, ok bool) {
	if len(ms) == 0 {
		return Rect{}, false
	}
	minX, minY := ms[0].X, ms[0].Y
	maxX, maxY := ms[0].X+ms[0].Width, ms[0].Y+ms[0].Height
	for _, m := range ms[1:] {
		minX = min(minX, m.X)
		minY = min(minY, m.Y)
		maxX = max(maxX, m.X+m.Width)
		maxY = max(maxY, m.Y+m.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// OverlayPlacement is where the color-picker overlay goes, plus the primary
// monitor's horizontal span inside it so the UI can center its hint text.
type OverlayPlacement struct {
	Bounds         Rect
	PrimaryOffsetX int
	PrimaryWidth   int
}

func ColorOverlay(ms []Monitor, primary Monitor) (OverlayPlacement, bool) {
	b, ok := VirtualDesktop(ms)
	if !ok {
		return OverlayPlacement{}, false
	}
	return OverlayPlacement{
		Bounds:         b,
		PrimaryOffsetX: primary.X - b.X,
		PrimaryWidth:   primary.Width,
	}, true
}

func (p OverlayPlacement) Route() string {
	return fmt.Sprintf("/color-picker-overlay?pmx=%d&pmw=%d", p.PrimaryOffsetX, p.PrimaryWidth)
}
