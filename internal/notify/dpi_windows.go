//go:build windows

package notify

import "quanthud/internal/apperr"

var procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2
const perMonitorAwareV2 = ^uintptr(3)

// EnablePerMonitorDPI fails harmlessly when awareness was already set,
// e.g. by the application manifest.
func EnablePerMonitorDPI() error {
	if err := procSetProcessDpiAwarenessContext.Find(); err != nil {
		return err
	}
	if r1, _, e1 := procSetProcessDpiAwarenessContext.Call(perMonitorAwareV2); r1 == 0 {
		return apperr.Native("SetProcessDpiAwarenessContext", "", e1)
	}
	return nil
}
