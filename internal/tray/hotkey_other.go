//go:build !windows

package tray

func (m *Manager) hotkeyLoop(func()) {}

func stopHotkey() {}
