//go:build !windows

package monitor

import (
	"log/slog"

	"github.com/kbinani/screenshot"

	"quanthud/internal/geometry"
)

// OSProvider reads display bounds through the capture library. Scale factors
// are not exposed there, so every monitor reports 1.0.
type OSProvider struct {
	log *slog.Logger
}

func NewOSProvider(log *slog.Logger) *OSProvider {
	if log == nil {
		log = slog.Default()
	}
	return &OSProvider{log: log}
}

func (p *OSProvider) Monitors() ([]geometry.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	out := make([]geometry.Monitor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, geometry.Monitor{
			X:           b.Min.X,
			Y:           b.Min.Y,
			Width:       b.Dx(),
			Height:      b.Dy(),
			ScaleFactor: 1,
			Primary:     b.Min.X == 0 && b.Min.Y == 0,
		})
	}
	return out, nil
}

func (p *OSProvider) WorkAreaHeight() (int, bool) { return 0, false }
