//go:build windows

package shots

import (
	"fmt"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"

	"quanthud/internal/apperr"
)

var (
	shell32           = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteW = shell32.NewProc("ShellExecuteW")
)

const swShowNormal = 1

func picturesDir() (string, error) {
	p, err := windows.KnownFolderPath(windows.FOLDERID_Pictures, 0)
	if err != nil {
		return "", fmt.Errorf("cannot find Pictures directory: %w", err)
	}
	return p, nil
}

// openFolder asks the shell to explore dir through Shell.Application.
func openFolder(dir string) error {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oe, ok := err.(*ole.OleError); !ok || oe.Code() != 1 { // S_FALSE: already initialized
			return apperr.Native("CoInitializeEx", "", err)
		}
	}
	defer ole.CoUninitialize()

	obj, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return apperr.Native("CreateObject", "Shell.Application", err)
	}
	defer obj.Release()

	shell, err := obj.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return apperr.Native("QueryInterface", "Shell.Application", err)
	}
	defer shell.Release()

	if _, err := oleutil.CallMethod(shell, "Explore", dir); err != nil {
		return fmt.Errorf("failed to open folder: %w", err)
	}
	return nil
}

func launch(path string) error {
	verb, _ := windows.UTF16PtrFromString("open")
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	r1, _, e1 := procShellExecuteW.Call(0, uintptr(unsafe.Pointer(verb)), uintptr(unsafe.Pointer(file)), 0, 0, swShowNormal)
	// Values above 32 mean success.
	if r1 <= 32 {
		return apperr.Native("ShellExecuteW", fmt.Sprintf("code %d", r1), e1)
	}
	return nil
}
