//go:build windows

package clipimg

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"quanthud/internal/apperr"
)

const supported = true

const (
	cfDIB        = 8
	gmemMoveable = 0x0002
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procSetClipboardData = user32.NewProc("SetClipboardData")
	procGlobalAlloc      = kernel32.NewProc("GlobalAlloc")
	procGlobalFree       = kernel32.NewProc("GlobalFree")
	procGlobalLock       = kernel32.NewProc("GlobalLock")
	procGlobalUnlock     = kernel32.NewProc("GlobalUnlock")
)

// Publish replaces the clipboard contents with d under CF_DIB. Once
// OpenClipboard succeeds the clipboard is closed on every path, and the
// global block is freed unless the clipboard took ownership of it.
func Publish(d DIB) error {
	data := d.Bytes()

	// The clipboard belongs to the thread that opened it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if r1, _, _ := procOpenClipboard.Call(0); r1 == 0 {
		return apperr.ErrClipboardBusy
	}
	defer procCloseClipboard.Call()

	if r1, _, e1 := procEmptyClipboard.Call(); r1 == 0 {
		return apperr.Native("EmptyClipboard", "", e1)
	}

	hmem, _, _ := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if hmem == 0 {
		return apperr.ErrAllocationFailed
	}
	ptr, _, _ := procGlobalLock.Call(hmem)
	if ptr == 0 {
		procGlobalFree.Call(hmem)
		return apperr.Native("GlobalLock", "", apperr.ErrAllocationFailed)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(hmem)

	if r1, _, e1 := procSetClipboardData.Call(cfDIB, hmem); r1 == 0 {
		procGlobalFree.Call(hmem)
		return apperr.Native("SetClipboardData", "", e1)
	}
	return nil
}
