//go:build windows

package winhost

import (
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"quanthud/internal/apperr"
	"quanthud/internal/geometry"
	"quanthud/internal/window"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procShowWindow          = user32.NewProc("ShowWindow")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetWindowLongPtrW   = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW   = user32.NewProc("SetWindowLongPtrW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
)

const (
	gwlStyle   = -16
	gwlExStyle = -20

	wsThickFrame   = 0x00040000
	wsCaption      = 0x00C00000
	wsExToolWindow = 0x00000080
	wsExAppWindow  = 0x00040000

	swpNoSize       = 0x0001
	swpNoMove       = 0x0002
	swpNoZOrder     = 0x0004
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020

	swHide   = 0
	swShowNA = 8

	hwndTopmost = ^uintptr(0)
)

type rect struct{ Left, Top, Right, Bottom int32 }

type hwndWindow struct {
	hwnd uintptr
}

var (
	enumOnce  sync.Once
	enumCb    uintptr
	enumMu    sync.Mutex
	enumPID   uint32
	enumTitle string
	enumFound windows.HWND
)

func enumProc(hwnd windows.HWND, _ uintptr) uintptr {
	var pid uint32
	_, _ = windows.GetWindowThreadProcessId(hwnd, &pid)
	if pid != enumPID {
		return 1
	}
	buf := make([]uint16, 256)
	n, _ := windows.GetWindowText(hwnd, &buf[0], int32(len(buf)))
	if windows.UTF16ToString(buf[:n]) == enumTitle {
		enumFound = hwnd
		return 0
	}
	return 1
}

// findNative returns the top-level window of this process titled title.
func findNative(title string) native {
	enumOnce.Do(func() { enumCb = windows.NewCallback(enumProc) })

	enumMu.Lock()
	defer enumMu.Unlock()
	enumPID = uint32(os.Getpid())
	enumTitle = title
	enumFound = 0
	// Stopping early makes EnumWindows report failure.
	_ = windows.EnumWindows(enumCb, nil)
	if enumFound == 0 {
		return nil
	}
	return &hwndWindow{hwnd: uintptr(enumFound)}
}

func setWindowPos(hwnd, after uintptr, x, y, w, h int, flags uintptr) error {
	r1, _, e1 := procSetWindowPos.Call(hwnd, after, uintptr(int32(x)), uintptr(int32(y)), uintptr(int32(w)), uintptr(int32(h)), flags)
	if r1 == 0 {
		return apperr.Native("SetWindowPos", "", e1)
	}
	return nil
}

func getWindowLong(hwnd uintptr, index int32) uintptr {
	r1, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(index))
	return r1
}

func setWindowLong(hwnd uintptr, index int32, v uintptr) {
	_, _, _ = procSetWindowLongPtrW.Call(hwnd, uintptr(index), v)
}

func (w *hwndWindow) setPosition(x, y int) error {
	return setWindowPos(w.hwnd, 0, x, y, 0, 0, swpNoSize|swpNoZOrder|swpNoActivate)
}

func (w *hwndWindow) setSize(width, height int) error {
	return setWindowPos(w.hwnd, 0, 0, 0, width, height, swpNoMove|swpNoZOrder|swpNoActivate)
}

// place clears the resize border and caption, then repositions with
// SWP_FRAMECHANGED so the compositor drops its invisible padding before the
// next paint.
func (w *hwndWindow) place(r geometry.Rect) error {
	style := getWindowLong(w.hwnd, gwlStyle)
	setWindowLong(w.hwnd, gwlStyle, style&^uintptr(wsThickFrame|wsCaption))
	return setWindowPos(w.hwnd, hwndTopmost, r.X, r.Y, r.Width, r.Height, swpFrameChanged|swpNoActivate)
}

func (w *hwndWindow) bounds() (geometry.Rect, error) {
	var rc rect
	r1, _, e1 := procGetWindowRect.Call(w.hwnd, uintptr(unsafe.Pointer(&rc)))
	if r1 == 0 {
		return geometry.Rect{}, apperr.Native("GetWindowRect", "", e1)
	}
	return geometry.Rect{
		X:      int(rc.Left),
		Y:      int(rc.Top),
		Width:  int(rc.Right - rc.Left),
		Height: int(rc.Bottom - rc.Top),
	}, nil
}

func (w *hwndWindow) show() error {
	_, _, _ = procShowWindow.Call(w.hwnd, swShowNA)
	return nil
}

func (w *hwndWindow) hide() error {
	_, _, _ = procShowWindow.Call(w.hwnd, swHide)
	return nil
}

func (w *hwndWindow) focus() error {
	_, _, _ = procSetForegroundWindow.Call(w.hwnd)
	return nil
}

func (w *hwndWindow) visible() bool {
	return windows.IsWindowVisible(windows.HWND(w.hwnd))
}

func (w *hwndWindow) applyStyle(spec window.Spec) error {
	if spec.SkipTaskbar {
		ex := getWindowLong(w.hwnd, gwlExStyle)
		setWindowLong(w.hwnd, gwlExStyle, (ex|wsExToolWindow)&^uintptr(wsExAppWindow))
	}
	if spec.AlwaysOnTop {
		return setWindowPos(w.hwnd, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	}
	return nil
}
