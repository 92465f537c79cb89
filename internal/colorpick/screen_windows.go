//go:build windows

package colorpick

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"quanthud/internal/apperr"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	gdi32            = windows.NewLazySystemDLL("gdi32.dll")
	procGetCursorPos = user32.NewProc("GetCursorPos")
	procGetDC        = user32.NewProc("GetDC")
	procReleaseDC    = user32.NewProc("ReleaseDC")
	procGetPixel     = gdi32.NewProc("GetPixel")
)

type point struct {
	X, Y int32
}

// OSScreen reads the cursor and screen pixels in physical pixels.
type OSScreen struct{}

func NewOSScreen() Screen { return OSScreen{} }

func (OSScreen) Cursor() (int, int, error) {
	var pt point
	r1, _, e1 := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r1 == 0 {
		return 0, 0, apperr.Native("GetCursorPos", "", e1)
	}
	return int(pt.X), int(pt.Y), nil
}

func (OSScreen) Pixel(x, y int) (uint32, error) {
	hdc, _, e1 := procGetDC.Call(0)
	if hdc == 0 {
		return 0, apperr.Native("GetDC", "for screen", e1)
	}
	c, _, _ := procGetPixel.Call(hdc, uintptr(int32(x)), uintptr(int32(y)))
	_, _, _ = procReleaseDC.Call(0, hdc)
	return uint32(c), nil
}

func CursorPosition() (int, int, error) { return OSScreen{}.Cursor() }
