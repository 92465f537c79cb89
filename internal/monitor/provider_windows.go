//go:build windows

package monitor

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/StackExchange/wmi"
	"golang.org/x/sys/windows"

	"quanthud/internal/geometry"
)

var (
	user32                           = windows.NewLazySystemDLL("user32.dll")
	shcore                           = windows.NewLazySystemDLL("shcore.dll")
	procEnumDisplayMonitors          = user32.NewProc("EnumDisplayMonitors")
	procEnumDisplayDevicesW          = user32.NewProc("EnumDisplayDevicesW")
	procGetMonitorInfoW              = user32.NewProc("GetMonitorInfoW")
	procSystemParametersInfoW        = user32.NewProc("SystemParametersInfoW")
	procSetThreadDpiAwarenessContext = user32.NewProc("SetThreadDpiAwarenessContext")
	procGetDpiForMonitor             = shcore.NewProc("GetDpiForMonitor")
)

const (
	spiGetWorkArea      = 0x0030
	monitorInfoFPrimary = 0x1
	mdtEffectiveDPI     = 0
	dpiContextUnaware   = ^uintptr(0) // DPI_AWARENESS_CONTEXT_UNAWARE (-1)
)

type rect32 struct {
	Left, Top, Right, Bottom int32
}

type monitorInfoExW struct {
	Size    uint32
	Monitor rect32
	Work    rect32
	Flags   uint32
	Device  [32]uint16
}

type displayDeviceW struct {
	Size       uint32
	DeviceName [32]uint16
	String     [128]uint16
	StateFlags uint32
	DeviceID   [128]uint16
	DeviceKey  [128]uint16
}

// EnumDisplayMonitors callbacks are created once; every enumeration shares
// enumCb under enumMu.
var (
	enumOnce sync.Once
	enumCb   uintptr
	enumMu   sync.Mutex
	enumOut  []enumerated
)

type enumerated struct {
	m        geometry.Monitor
	deviceID string
	label    string
}

func enumProc(hmon, _, _, _ uintptr) uintptr {
	var mi monitorInfoExW
	mi.Size = uint32(unsafe.Sizeof(mi))
	r1, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&mi)))
	if r1 == 0 {
		return 1
	}
	e := enumerated{m: geometry.Monitor{
		X:           int(mi.Monitor.Left),
		Y:           int(mi.Monitor.Top),
		Width:       int(mi.Monitor.Right - mi.Monitor.Left),
		Height:      int(mi.Monitor.Bottom - mi.Monitor.Top),
		ScaleFactor: scaleForMonitor(hmon),
		Primary:     mi.Flags&monitorInfoFPrimary != 0,
		Handle:      hmon,
	}}
	// The first device under an adapter is the attached monitor.
	var dd displayDeviceW
	dd.Size = uint32(unsafe.Sizeof(dd))
	if r1, _, _ := procEnumDisplayDevicesW.Call(uintptr(unsafe.Pointer(&mi.Device[0])), 0, uintptr(unsafe.Pointer(&dd)), 0); r1 != 0 {
		e.deviceID = windows.UTF16ToString(dd.DeviceID[:])
		e.label = windows.UTF16ToString(dd.String[:])
	}
	enumOut = append(enumOut, e)
	return 1
}

// OSProvider enumerates monitors through user32 and shcore.
type OSProvider struct {
	names *wmiNameCache
	log   *slog.Logger
}

func NewOSProvider(log *slog.Logger) *OSProvider {
	if log == nil {
		log = slog.Default()
	}
	return &OSProvider{names: newWMINameCache(), log: log}
}

// Monitors enumerates in EnumDisplayMonitors order. Name is the WMI friendly
// name matched by hardware id, else the driver's device string.
func (p *OSProvider) Monitors() ([]geometry.Monitor, error) {
	enumOnce.Do(func() { enumCb = windows.NewCallback(enumProc) })

	enumMu.Lock()
	enumOut = nil
	r1, _, e1 := procEnumDisplayMonitors.Call(0, 0, enumCb, 0)
	found := enumOut
	enumOut = nil
	enumMu.Unlock()
	if r1 == 0 {
		return nil, e1
	}

	ids := make([]string, len(found))
	for i, e := range found {
		ids[i] = e.deviceID
	}
	var names []string
	if rows, err := p.names.Lookup(); err != nil {
		p.log.Debug("monitor names unavailable", slog.Any("err", err))
	} else {
		names = matchNames(ids, rows)
	}

	out := make([]geometry.Monitor, len(found))
	for i, e := range found {
		out[i] = e.m
		out[i].Name = e.label
		if names != nil && names[i] != "" {
			out[i].Name = names[i]
		}
	}
	return out, nil
}

func scaleForMonitor(hmon uintptr) float64 {
	if procGetDpiForMonitor.Find() != nil {
		return 1
	}
	var dx, dy uint32
	r1, _, _ := procGetDpiForMonitor.Call(hmon, mdtEffectiveDPI, uintptr(unsafe.Pointer(&dx)), uintptr(unsafe.Pointer(&dy)))
	if r1 != 0 || dx == 0 {
		return 1
	}
	return float64(dx) / 96
}

// WorkAreaHeight asks for the primary work area from a DPI-unaware thread
// context so the answer comes back in logical pixels.
func (p *OSProvider) WorkAreaHeight() (int, bool) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if procSetThreadDpiAwarenessContext.Find() == nil {
		prev, _, _ := procSetThreadDpiAwarenessContext.Call(dpiContextUnaware)
		if prev != 0 {
			defer procSetThreadDpiAwarenessContext.Call(prev)
		}
	}
	var r rect32
	r1, _, _ := procSystemParametersInfoW.Call(spiGetWorkArea, 0, uintptr(unsafe.Pointer(&r)), 0)
	if r1 == 0 {
		return 0, false
	}
	return int(r.Bottom - r.Top), true
}

type wmiNameCache struct {
	mu   sync.Mutex
	rows []wmiMonitor
	at   time.Time
}

func newWMINameCache() *wmiNameCache { return &wmiNameCache{} }

// Lookup returns the connected Win32_DesktopMonitor rows, cached for 30s.
func (c *wmiNameCache) Lookup() ([]wmiMonitor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows != nil && time.Since(c.at) < 30*time.Second {
		return c.rows, nil
	}

	type Win32_DesktopMonitor struct {
		Name        *string
		PNPDeviceID *string
	}
	var dst []Win32_DesktopMonitor
	if err := wmi.Query("SELECT Name, PNPDeviceID FROM Win32_DesktopMonitor", &dst); err != nil {
		return nil, err
	}
	rows := make([]wmiMonitor, 0, len(dst))
	for _, m := range dst {
		// Disconnected outputs linger in WMI without a PnP id.
		if m.PNPDeviceID == nil || *m.PNPDeviceID == "" {
			continue
		}
		r := wmiMonitor{PNPDeviceID: *m.PNPDeviceID}
		if m.Name != nil {
			r.Name = *m.Name
		}
		rows = append(rows, r)
	}
	c.rows, c.at = rows, time.Now()
	return rows, nil
}
