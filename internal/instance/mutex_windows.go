//go:build windows

package instance

import (
	"errors"

	"golang.org/x/sys/windows"
)

func createMutex(name string) (uintptr, bool, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, false, err
	}
	h, err := windows.CreateMutex(nil, false, p)
	if err != nil {
		if h != 0 {
			_ = windows.CloseHandle(h)
		}
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uintptr(h), true, nil
}

// Release is only used by tests; in the app the OS drops the handle at exit.
func (g *Gate) Release() {
	if g.handle != 0 {
		_ = windows.CloseHandle(windows.Handle(g.handle))
		g.handle = 0
	}
}
