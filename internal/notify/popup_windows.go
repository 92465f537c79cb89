//go:build windows

package notify

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"quanthud/internal/apperr"
	"quanthud/internal/winmsg"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	kernel = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW   = user32.NewProc("RegisterClassExW")
	procUnregisterClassW   = user32.NewProc("UnregisterClassW")
	procCreateWindowExW    = user32.NewProc("CreateWindowExW")
	procDefWindowProcW     = user32.NewProc("DefWindowProcW")
	procDestroyWindow      = user32.NewProc("DestroyWindow")
	procShowWindow         = user32.NewProc("ShowWindow")
	procUpdateWindow       = user32.NewProc("UpdateWindow")
	procPostQuitMessage    = user32.NewProc("PostQuitMessage")
	procBeginPaint         = user32.NewProc("BeginPaint")
	procEndPaint           = user32.NewProc("EndPaint")
	procFillRect           = user32.NewProc("FillRect")
	procDrawTextW          = user32.NewProc("DrawTextW")
	procSetWindowRgn       = user32.NewProc("SetWindowRgn")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procMessageBeep        = user32.NewProc("MessageBeep")
	procLoadCursorW        = user32.NewProc("LoadCursorW")
	procCreateSolidBrush   = gdi32.NewProc("CreateSolidBrush")
	procCreateRoundRectRgn = gdi32.NewProc("CreateRoundRectRgn")
	procFillRgn            = gdi32.NewProc("FillRgn")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procSetTextColor       = gdi32.NewProc("SetTextColor")
	procSetBkMode          = gdi32.NewProc("SetBkMode")
	procCreateFontW        = gdi32.NewProc("CreateFontW")
	procGetModuleHandleW   = kernel.NewProc("GetModuleHandleW")
)

const (
	wsPopup       = 0x80000000
	wsChild       = 0x40000000
	wsVisible     = 0x10000000
	wsExTopmost   = 0x00000008
	wsExToolWin   = 0x00000080
	bsOwnerDraw   = 0x0000000B
	swShow        = 5
	wmDestroy     = 0x0002
	wmPaint       = 0x000F
	wmCommand     = 0x0111
	wmDrawItem    = 0x002B
	odsSelected   = 0x0001
	dtCenter      = 0x0001
	dtVCenter     = 0x0004
	dtSingleLine  = 0x0020
	bkTransparent = 1
	fwSemibold    = 600
	clearType     = 5
	mbIconAst     = 0x00000040
	smCxScreen    = 0
	smCyScreen    = 1
	idcArrow      = 32512
	idOK          = 1
)

type rect struct{ Left, Top, Right, Bottom int32 }

type wndClassExW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

type paintStruct struct {
	Hdc         uintptr
	FErase      int32
	RcPaint     rect
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

type drawItemStruct struct {
	CtlType    uint32
	CtlID      uint32
	ItemID     uint32
	ItemAction uint32
	ItemState  uint32
	HwndItem   uintptr
	HDC        uintptr
	RcItem     rect
	ItemData   uintptr
}

// popup is the state one window needs while its loop runs.
type popup struct {
	text   []uint16
	label  []uint16
	textRc rect
	font   uintptr
	bg     uintptr
	radius int32
}

var (
	classSeq atomic.Uint64

	wndProcOnce sync.Once
	wndProcPtr  uintptr

	mu     sync.Mutex
	popups = map[uintptr]*popup{}
)

func lookup(hwnd uintptr) *popup {
	mu.Lock()
	defer mu.Unlock()
	return popups[hwnd]
}

func toRect(x, y, w, h int) rect {
	return rect{Left: int32(x), Top: int32(y), Right: int32(x + w), Bottom: int32(y + h)}
}

// ShowAndWait blocks until the user presses OK.
func (n *Notifier) ShowAndWait(message string) error {
	done := make(chan error, 1)
	go func() {
		// The window and its message loop must stay on one OS thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		done <- n.run(message)
	}()
	return <-done
}

func (n *Notifier) run(message string) error {
	_ = EnablePerMonitorDPI()
	wndProcOnce.Do(func() { wndProcPtr = windows.NewCallback(wndProc) })

	hInstance, _, _ := procGetModuleHandleW.Call(0)
	class, _ := windows.UTF16PtrFromString(fmt.Sprintf("QuantHUDPopup%d", classSeq.Add(1)))
	text, err := windows.UTF16FromString(message)
	if err != nil {
		return err
	}
	label, _ := windows.UTF16FromString("OK")
	face, _ := windows.UTF16PtrFromString(n.layout.FontFace)

	sw, _, _ := procGetSystemMetrics.Call(smCxScreen)
	sh, _, _ := procGetSystemMetrics.Call(smCyScreen)
	lay := Compute(int(int32(sw)), int(int32(sh)), n.layout)

	bg, _, _ := procCreateSolidBrush.Call(uintptr(background))
	cursor, _, _ := procLoadCursorW.Call(0, idcArrow)

	var wc wndClassExW
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	wc.LpfnWndProc = wndProcPtr
	wc.HInstance = hInstance
	wc.HCursor = cursor
	wc.HbrBackground = bg
	wc.LpszClassName = class
	if r1, _, e1 := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r1 == 0 {
		procDeleteObject.Call(bg)
		return apperr.Native("RegisterClassExW", "", e1)
	}
	defer procUnregisterClassW.Call(uintptr(unsafe.Pointer(class)), hInstance)

	font, _, _ := procCreateFontW.Call(
		uintptr(int32(n.layout.FontHeight)), 0, 0, 0, fwSemibold,
		0, 0, 0, 1, 0, 0, clearType, 0,
		uintptr(unsafe.Pointer(face)),
	)

	w := lay.Window
	hwnd, _, e1 := procCreateWindowExW.Call(
		wsExTopmost|wsExToolWin,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(class)),
		wsPopup,
		uintptr(int32(w.X)), uintptr(int32(w.Y)), uintptr(int32(w.Width)), uintptr(int32(w.Height)),
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		procDeleteObject.Call(font)
		procDeleteObject.Call(bg)
		return apperr.Native("CreateWindowExW", "popup", e1)
	}

	mu.Lock()
	popups[hwnd] = &popup{
		text:   text,
		label:  label,
		textRc: toRect(lay.Text.X, lay.Text.Y, lay.Text.Width, lay.Text.Height),
		font:   font,
		bg:     bg,
		radius: int32(n.layout.ButtonRadius),
	}
	mu.Unlock()

	btnClass, _ := windows.UTF16PtrFromString("BUTTON")
	b := lay.Button
	procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(btnClass)),
		uintptr(unsafe.Pointer(&label[0])),
		wsChild|wsVisible|bsOwnerDraw,
		uintptr(int32(b.X)), uintptr(int32(b.Y)), uintptr(int32(b.Width)), uintptr(int32(b.Height)),
		hwnd, idOK, hInstance, 0,
	)

	// The window owns the region after SetWindowRgn succeeds.
	d := uintptr(2 * n.layout.CornerRadius)
	rgn, _, _ := procCreateRoundRectRgn.Call(0, 0, uintptr(w.Width+1), uintptr(w.Height+1), d, d)
	if r1, _, _ := procSetWindowRgn.Call(hwnd, rgn, 1); r1 == 0 {
		procDeleteObject.Call(rgn)
	}

	procMessageBeep.Call(mbIconAst)
	procShowWindow.Call(hwnd, swShow)
	procUpdateWindow.Call(hwnd)
	n.log.Debug("popup shown", "rect", w.String())

	return winmsg.Run(nil)
}

func wndProc(hwnd uintptr, m uint32, wParam, lParam uintptr) uintptr {
	p := lookup(hwnd)
	if p == nil {
		r1, _, _ := procDefWindowProcW.Call(hwnd, uintptr(m), wParam, lParam)
		return r1
	}
	switch m {
	case wmPaint:
		var ps paintStruct
		hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
		procSetBkMode.Call(hdc, bkTransparent)
		procSetTextColor.Call(hdc, uintptr(textColor))
		old, _, _ := procSelectObject.Call(hdc, p.font)
		rc := p.textRc
		procDrawTextW.Call(hdc, uintptr(unsafe.Pointer(&p.text[0])), ^uintptr(0), uintptr(unsafe.Pointer(&rc)), dtCenter|dtVCenter|dtSingleLine)
		procSelectObject.Call(hdc, old)
		procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
		return 0
	case wmDrawItem:
		di := (*drawItemStruct)(unsafe.Pointer(lParam))
		drawButton(p, di)
		return 1
	case wmCommand:
		if wParam&0xFFFF == idOK {
			procDestroyWindow.Call(hwnd)
		}
		return 0
	case wmDestroy:
		mu.Lock()
		delete(popups, hwnd)
		mu.Unlock()
		procDeleteObject.Call(p.font)
		procDeleteObject.Call(p.bg)
		procPostQuitMessage.Call(0)
		return 0
	}
	r1, _, _ := procDefWindowProcW.Call(hwnd, uintptr(m), wParam, lParam)
	return r1
}

// drawButton erases the default frame with the popup background, then
// fills a rounded face that lightens while pressed.
func drawButton(p *popup, di *drawItemStruct) {
	rc := di.RcItem
	procFillRect.Call(di.HDC, uintptr(unsafe.Pointer(&rc)), p.bg)

	face := buttonFace
	if di.ItemState&odsSelected != 0 {
		face = buttonActive
	}
	brush, _, _ := procCreateSolidBrush.Call(uintptr(face))
	d := uintptr(2 * p.radius)
	rgn, _, _ := procCreateRoundRectRgn.Call(uintptr(rc.Left), uintptr(rc.Top), uintptr(rc.Right+1), uintptr(rc.Bottom+1), d, d)
	procFillRgn.Call(di.HDC, rgn, brush)
	procDeleteObject.Call(rgn)
	procDeleteObject.Call(brush)

	procSetBkMode.Call(di.HDC, bkTransparent)
	procSetTextColor.Call(di.HDC, uintptr(textColor))
	old, _, _ := procSelectObject.Call(di.HDC, p.font)
	procDrawTextW.Call(di.HDC, uintptr(unsafe.Pointer(&p.label[0])), ^uintptr(0), uintptr(unsafe.Pointer(&rc)), dtCenter|dtVCenter|dtSingleLine)
	procSelectObject.Call(di.HDC, old)
}
