// Package monitor enumerates displays and answers the questions the window
// code asks about them: which one, how big, how much of it is usable.
package monitor

import (
	"fmt"
	"log/slog"

	"quanthud/internal/apperr"
	"quanthud/internal/geometry"
	"quanthud/internal/ipcapi"
)

// Provider is the OS-facing half. Monitors come back in enumeration order
// with physical bounds; Primary is set only when the OS says so.
type Provider interface {
	Monitors() ([]geometry.Monitor, error)
	// WorkAreaHeight reports the primary work-area height in logical pixels.
	WorkAreaHeight() (int, bool)
}

type Geometry struct {
	p   Provider
	log *slog.Logger
}

func New(p Provider, log *slog.Logger) *Geometry {
	if log == nil {
		log = slog.Default()
	}
	return &Geometry{p: p, log: log.With(slog.String("component", "monitor"))}
}

// List returns every monitor with Index filled in and exactly one primary.
// When the OS flags none, the first one enumerated is assumed primary.
func (g *Geometry) List() ([]geometry.Monitor, error) {
	ms, err := g.p.Monitors()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}
	if len(ms) == 0 {
		return nil, apperr.ErrNoMonitor
	}
	primary := -1
	for i := range ms {
		ms[i].Index = i
		if ms[i].ScaleFactor <= 0 {
			ms[i].ScaleFactor = 1
		}
		if ms[i].Primary && primary < 0 {
			primary = i
		}
		ms[i].Primary = false
	}
	if primary < 0 {
		primary = 0
	}
	ms[primary].Primary = true
	return ms, nil
}

func (g *Geometry) Infos() ([]ipcapi.MonitorInfo, error) {
	ms, err := g.List()
	if err != nil {
		return nil, err
	}
	out := make([]ipcapi.MonitorInfo, 0, len(ms))
	for _, m := range ms {
		out = append(out, ipcapi.MonitorInfo{
			Index:     m.Index,
			Name:      DisplayName(m),
			OSName:    m.Name,
			Width:     m.Width,
			Height:    m.Height,
			IsPrimary: m.Primary,
		})
	}
	return out, nil
}

// DisplayName is the label the UI lists: "Display N (W×H)" with N counted
// from 1. The OS name travels separately as MonitorInfo.OSName.
func DisplayName(m geometry.Monitor) string {
	return fmt.Sprintf("Display %d (%d×%d)", m.Index+1, m.Width, m.Height)
}

func (g *Geometry) Primary() (geometry.Monitor, error) {
	ms, err := g.List()
	if err != nil {
		return geometry.Monitor{}, err
	}
	return primaryOf(ms), nil
}

// Resolve picks monitor index when given. Otherwise it picks the monitor that
// shares the most area with caller, the bounds of the asking window. A caller
// lying off every monitor, as a tucked strip can, gets the monitor nearest its
// centre; without a caller the primary is used.
func (g *Geometry) Resolve(index *int, caller *geometry.Rect) (geometry.Monitor, error) {
	ms, err := g.List()
	if err != nil {
		return geometry.Monitor{}, err
	}
	if index != nil {
		if *index < 0 || *index >= len(ms) {
			return geometry.Monitor{}, apperr.ErrMonitorIndexOutOfRange
		}
		return ms[*index], nil
	}
	if caller == nil {
		return primaryOf(ms), nil
	}
	best, bestArea := -1, 0
	for i, m := range ms {
		if a := m.Bounds().Overlap(*caller); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best >= 0 {
		return ms[best], nil
	}
	c := caller.Center()
	best, bestDist := 0, -1
	for i, m := range ms {
		if d := distSq(m.Bounds(), c); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	g.log.Debug("caller off every monitor", slog.String("caller", caller.String()), slog.Int("nearest", best))
	return ms[best], nil
}

func primaryOf(ms []geometry.Monitor) geometry.Monitor {
	for _, m := range ms {
		if m.Primary {
			return m
		}
	}
	return ms[0]
}

// distSq is the squared distance from p to the nearest point of r.
func distSq(r geometry.Rect, p geometry.Point) int {
	dx := max(r.X-p.X, 0, p.X-(r.Right()-1))
	dy := max(r.Y-p.Y, 0, p.Y-(r.Bottom()-1))
	return dx*dx + dy*dy
}

// WorkAreaHeight is the usable dock height on m in physical pixels. The OS
// work area is trusted only when it fits on the monitor; otherwise a
// 48-logical-pixel taskbar is assumed.
func (g *Geometry) WorkAreaHeight(m geometry.Monitor) int {
	if h, ok := g.p.WorkAreaHeight(); ok {
		wh := geometry.Scale(h, m.ScaleFactor)
		if wh > 0 && wh <= m.Height {
			return wh
		}
		g.log.Warn("work area rejected", slog.Int("logical", h), slog.Int("physical", wh), slog.Int("monitor_height", m.Height))
	}
	return m.Height - geometry.Scale(geometry.TaskbarFallback, m.ScaleFactor)
}
