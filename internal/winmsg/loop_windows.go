//go:build windows

package winmsg

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
)

type Point struct {
	X int32
	Y int32
}

// Msg mirrors the Win32 MSG structure.
type Msg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      Point
}

// Get blocks for the next message of the calling thread. It reports false on
// WM_QUIT and on failure.
func Get(m *Msg) (bool, error) {
	r1, _, e1 := procGetMessageW.Call(uintptr(unsafe.Pointer(m)), 0, 0, 0)
	if int32(r1) == -1 {
		return false, e1
	}
	return r1 != 0, nil
}

// Run pumps the calling thread's queue until WM_QUIT. seen, when non-nil,
// sees every message before it is dispatched. The caller must hold the OS
// thread.
func Run(seen func(*Msg)) error {
	var m Msg
	for {
		ok, err := Get(&m)
		if !ok {
			return err
		}
		if seen != nil {
			seen(&m)
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}
