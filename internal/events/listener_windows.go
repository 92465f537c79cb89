//go:build windows

package events

import (
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"quanthud/internal/winmsg"
)

// listener owns a hidden top-level window. Message-only windows miss
// broadcasts such as WM_DISPLAYCHANGE, so this one has no parent.
type listener struct {
	emit func(SystemEvent)
}

func newListener(emit func(SystemEvent)) *listener {
	return &listener{emit: emit}
}

func (l *listener) Run(stopCh <-chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clsName, _ := windows.UTF16PtrFromString("QuantHUDEventListener")
	hInstance := getModuleHandle()

	wndProc := windows.NewCallback(func(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
		switch msg {
		case WM_CLIPBOARDUPDATE:
			l.emit(SystemEvent{Type: EventClipboardChanged, Timestamp: time.Now().UTC().UnixMilli()})
			return 0
		case WM_DISPLAYCHANGE:
			l.emit(SystemEvent{Type: EventDisplayChanged, Timestamp: time.Now().UTC().UnixMilli()})
			return 0
		case WM_DESTROY:
			_ = removeClipboardFormatListener(hwnd)
			postQuitMessage(0)
			return 0
		default:
			return defWindowProc(hwnd, msg, wParam, lParam)
		}
	})

	var wc WNDCLASSEXW
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	wc.LpfnWndProc = wndProc
	wc.HInstance = hInstance
	wc.LpszClassName = clsName
	_, _ = registerClassEx(&wc)

	hwnd := createWindowEx(
		WS_EX_TOOLWINDOW,
		clsName,
		clsName,
		0,
		0, 0, 0, 0,
		0,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return
	}
	_ = addClipboardFormatListener(hwnd)

	go func() {
		<-stopCh
		postMessage(hwnd, WM_CLOSE, 0, 0)
	}()

	_ = winmsg.Run(nil)
}

const (
	WM_DESTROY         = 0x0002
	WM_CLOSE           = 0x0010
	WM_DISPLAYCHANGE   = 0x007E
	WM_CLIPBOARDUPDATE = 0x031D
	WS_EX_TOOLWINDOW   = 0x00000080
)

type WNDCLASSEXW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     windows.Handle
	HIcon         windows.Handle
	HCursor       windows.Handle
	HbrBackground windows.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       windows.Handle
}

var (
	user32                            = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassExW              = user32.NewProc("RegisterClassExW")
	procCreateWindowExW               = user32.NewProc("CreateWindowExW")
	procDefWindowProcW                = user32.NewProc("DefWindowProcW")
	procPostMessageW                  = user32.NewProc("PostMessageW")
	procPostQuitMessage               = user32.NewProc("PostQuitMessage")
	procAddClipboardFormatListener    = user32.NewProc("AddClipboardFormatListener")
	procRemoveClipboardFormatListener = user32.NewProc("RemoveClipboardFormatListener")
)

func registerClassEx(wcx *WNDCLASSEXW) (uint16, error) {
	r1, _, e1 := procRegisterClassExW.Call(uintptr(unsafe.Pointer(wcx)))
	return uint16(r1), e1
}

func createWindowEx(exStyle uint32, className, windowName *uint16, style uint32, x, y, w, h int32, parent uintptr, menu uintptr, instance windows.Handle, param uintptr) uintptr {
	r1, _, _ := procCreateWindowExW.Call(
		uintptr(exStyle),
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(windowName)),
		uintptr(style),
		uintptr(x),
		uintptr(y),
		uintptr(w),
		uintptr(h),
		parent,
		menu,
		uintptr(instance),
		param,
	)
	return r1
}

func defWindowProc(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	r1, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wParam, lParam)
	return r1
}

func postMessage(hwnd uintptr, msg uint32, wParam, lParam uintptr) {
	_, _, _ = procPostMessageW.Call(hwnd, uintptr(msg), wParam, lParam)
}

func postQuitMessage(code int32) {
	_, _, _ = procPostQuitMessage.Call(uintptr(code))
}

func addClipboardFormatListener(hwnd uintptr) error {
	r1, _, e1 := procAddClipboardFormatListener.Call(hwnd)
	if r1 == 0 {
		return e1
	}
	return nil
}

func removeClipboardFormatListener(hwnd uintptr) error {
	r1, _, e1 := procRemoveClipboardFormatListener.Call(hwnd)
	if r1 == 0 {
		return e1
	}
	return nil
}

var (
	k32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = k32.NewProc("GetModuleHandleW")
)

func getModuleHandle() windows.Handle {
	r1, _, _ := procGetModuleHandleW.Call(0)
	return windows.Handle(r1)
}
