package policy

import (
	"path/filepath"
	"strings"
	"time"
)

const AppName = "QuantHUD"

type Config struct {
	AppName string
	Delays  Delays
	Shots   ShotRules
	Popup   PopupLayout

	// HelloTimeout bounds how long an overlay process may take to report in.
	HelloTimeout time.Duration
}

// Delays are compositor settle times measured on high-DPI multi-monitor
// setups. Lowering them brings back blank flashes and stale pixel reads.
type Delays struct {
	Show          time.Duration
	ReplaceSettle time.Duration
	PickSettle    time.Duration
}

type ShotRules struct {
	Folder     string
	Extensions []string
	MaxEntries int
}

func (r ShotRules) Allow(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, e := range r.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

type PopupLayout struct {
	Width        int
	Height       int
	InsetRight   int
	InsetBottom  int
	CornerRadius int
	ButtonWidth  int
	ButtonHeight int
	ButtonRadius int
	ButtonBottom int
	FontHeight   int
	FontFace     string
}

func DefaultConfig() *Config {
	return &Config{
		AppName: AppName,
		Delays: Delays{
			Show:          50 * time.Millisecond,
			ReplaceSettle: 100 * time.Millisecond,
			PickSettle:    150 * time.Millisecond,
		},
		Shots: ShotRules{
			Folder:     "Screenshots",
			Extensions: []string{"png", "jpg", "jpeg", "bmp"},
			MaxEntries: 50,
		},
		Popup: PopupLayout{
			Width:        340,
			Height:       100,
			InsetRight:   16,
			InsetBottom:  60,
			CornerRadius: 16,
			ButtonWidth:  70,
			ButtonHeight: 28,
			ButtonRadius: 10,
			ButtonBottom: 12,
			FontHeight:   -15,
			FontFace:     "Segoe UI",
		},
		HelloTimeout: 10 * time.Second,
	}
}

// InstanceMutexName is system-wide across user sessions.
func (c *Config) InstanceMutexName() string {
	return `Global\` + c.AppName + "_SingleInstance"
}

func (c *Config) AlreadyRunningMessage() string {
	return c.AppName + " is already running!"
}
