// Package tray runs the notification-area icon and the global toggle hotkey.
package tray

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/getlantern/systray"
)

type Dependencies struct {
	OnToggle func()
	OnQuit   func()
}

type Manager struct {
	deps    Dependencies
	tooltip string
	log     *slog.Logger
	once    sync.Once
	stop    chan struct{}
	stopped sync.Once
}

func NewManager(tooltip string, deps Dependencies, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{deps: deps, tooltip: tooltip, log: log.With("component", "tray"), stop: make(chan struct{})}
}

// iconCandidates lists where icon.ico may sit relative to the executable,
// for both installed and `wails dev` layouts.
func iconCandidates(exeDir string) []string {
	return []string{
		filepath.Join(exeDir, "icon.ico"),
		filepath.Join(exeDir, "..", "icon.ico"),
		filepath.Join(exeDir, "build", "windows", "icon.ico"),
		filepath.Join(exeDir, "..", "build", "windows", "icon.ico"),
	}
}

func findIcon(exeDir string) []byte {
	for _, p := range iconCandidates(exeDir) {
		data, err := os.ReadFile(filepath.Clean(p))
		if err == nil && len(data) > 0 {
			return data
		}
	}
	return nil
}

func (m *Manager) setTrayIcon() {
	exePath, err := os.Executable()
	if err != nil {
		return
	}
	if icon := findIcon(filepath.Dir(exePath)); icon != nil {
		systray.SetIcon(icon)
		return
	}
	m.log.Debug("no tray icon found")
}

func (m *Manager) Start() {
	m.once.Do(func() {
		go systray.Run(m.onReady, m.onExit)
		go m.hotkeyLoop(m.toggle)
	})
}

func (m *Manager) Stop() {
	m.stopped.Do(func() {
		close(m.stop)
		stopHotkey()
		systray.Quit()
	})
}

func (m *Manager) toggle() {
	if m.deps.OnToggle != nil {
		m.deps.OnToggle()
	}
}

func (m *Manager) onReady() {
	systray.SetTitle(m.tooltip)
	systray.SetTooltip(m.tooltip)

	m.setTrayIcon()

	itemToggle := systray.AddMenuItem("Show / Hide", "Show or hide the dock")
	systray.AddSeparator()
	itemQuit := systray.AddMenuItem("Quit", "Quit "+m.tooltip)

	go func() {
		for {
			select {
			case <-m.stop:
				return
			case <-itemToggle.ClickedCh:
				m.toggle()
			case <-itemQuit.ClickedCh:
				if m.deps.OnQuit != nil {
					m.deps.OnQuit()
				}
				m.Stop()
				return
			}
		}
	}()
}

func (m *Manager) onExit() {}
