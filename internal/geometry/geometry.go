// Package geometry converts logical docking intent into physical rectangles on
// the virtual desktop. Every size constant here is in logical pixels; callers
// get physical pixels back.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

const (
	ContentWidth     = 320
	TriggerWidth     = 20
	TotalWidth       = ContentWidth + TriggerWidth
	HalfCircleHeight = 48
	TaskbarFallback  = 48
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a physical-pixel rectangle, absolute to the virtual desktop.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Overlap returns the area shared by r and o, 0 when disjoint.
func (r Rect) Overlap(o Rect) int {
	w := min(r.Right(), o.Right()) - max(r.X, o.X)
	h := min(r.Bottom(), o.Bottom()) - max(r.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// Monitor is one display as enumerated by the OS. Position may be negative.
type Monitor struct {
	Index       int
	Name        string
	X           int
	Y           int
	Width       int
	Height      int
	ScaleFactor float64
	Primary     bool
	Handle      uintptr
}

func (m Monitor) Bounds() Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// Scale converts a logical length to physical pixels for scale factor s.
func Scale(v int, s float64) int {
	if s <= 0 {
		s = 1
	}
	return int(math.Round(float64(v) * s))
}

func TriggerPx(s float64) int { return Scale(TriggerWidth, s) }
func TotalPx(s float64) int   { return Scale(TotalWidth, s) }

type Position string

const (
	Left  Position = "left"
	Right Position = "right"
)

// ParsePosition treats anything other than "right" as the left edge.
func ParsePosition(s string) Position {
	if strings.EqualFold(strings.TrimSpace(s), string(Right)) {
		return Right
	}
	return Left
}

type TriggerStyle string

const (
	TriggerColumn     TriggerStyle = "column"
	TriggerHalfCircle TriggerStyle = "halfcircle"
)

// ParseTriggerStyle defaults to the full-height column.
func ParseTriggerStyle(s *string) TriggerStyle {
	if s == nil {
		return TriggerColumn
	}
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(*s)) {
	case "halfcircle":
		return TriggerHalfCircle
	default:
		return TriggerColumn
	}
}

type Mode int

const (
	Shown Mode = iota
	TuckedColumn
	TuckedHalfCircle
)

func (m Mode) Tucked() bool { return m != Shown }

func (m Mode) String() string {
	switch m {
	case TuckedColumn:
		return "tucked-column"
	case TuckedHalfCircle:
		return "tucked-halfcircle"
	default:
		return "shown"
	}
}

// TuckMode maps a trigger style to the matching tucked mode.
func TuckMode(style TriggerStyle) Mode {
	if style == TriggerHalfCircle {
		return TuckedHalfCircle
	}
	return TuckedColumn
}

// DockRect computes where the dock sits on m. workHeight is the monitor's
// effective work-area height in physical pixels.
func DockRect(m Monitor, p Position, mode Mode, workHeight int) Rect {
	s := m.ScaleFactor
	r := Rect{Width: TotalPx(s), Height: workHeight, Y: m.Y}
	if mode.Tucked() {
		r.Width = TriggerPx(s)
	}
	if mode == TuckedHalfCircle {
		r.Height = Scale(HalfCircleHeight, s)
		r.Y = m.Y + (workHeight-r.Height)/2
	}
	r.X = m.X
	if p == Right {
		r.X = m.X + m.Width - r.Width
	}
	return r
}

// IsTucked reports whether an outer width is at or below the trigger width
// of a monitor with scale factor s.
func IsTucked(outerWidth int, s float64) bool {
	return outerWidth <= TriggerPx(s)
}
