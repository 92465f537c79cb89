//go:build windows

package tray

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/windows"

	"quanthud/internal/winmsg"
)

const (
	MOD_ALT      = 0x0001
	MOD_CONTROL  = 0x0002
	MOD_NOREPEAT = 0x4000
	WM_HOTKEY    = 0x0312
	WM_QUIT      = 0x0012
	VK_H         = 0x48
	hotkeyID     = 0xA11
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")

	hotkeyThread atomic.Uint32
)

// hotkeyLoop registers Ctrl+Alt+H on its own thread and calls onPress for
// every press until stopHotkey posts WM_QUIT to that thread.
func (m *Manager) hotkeyLoop(onPress func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hotkeyThread.Store(windows.GetCurrentThreadId())
	defer hotkeyThread.Store(0)

	if r1, _, e1 := procRegisterHotKey.Call(0, hotkeyID, MOD_CONTROL|MOD_ALT|MOD_NOREPEAT, VK_H); r1 == 0 {
		m.log.Warn("register hotkey", "err", e1)
		return
	}
	defer procUnregisterHotKey.Call(0, hotkeyID)

	_ = winmsg.Run(func(msg *winmsg.Msg) {
		if msg.Message == WM_HOTKEY && msg.WParam == hotkeyID {
			onPress()
		}
	})
}

func stopHotkey() {
	if id := hotkeyThread.Load(); id != 0 {
		_, _, _ = procPostThreadMessageW.Call(uintptr(id), WM_QUIT, 0, 0)
	}
}
