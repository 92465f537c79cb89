package monitor

import "strings"

// wmiMonitor is one Win32_DesktopMonitor row that still has a PnP id.
type wmiMonitor struct {
	Name        string
	PNPDeviceID string
}

// hardwareID is the vendor and product code shared by a monitor's PnP id
// (DISPLAY\DEL41A6\5&...) and its display-device id (MONITOR\DEL41A6\{...}).
func hardwareID(id string) string {
	parts := strings.Split(id, `\`)
	if len(parts) < 2 {
		return ""
	}
	return strings.ToUpper(parts[1])
}

// matchNames pairs each display-device id with a WMI row of the same
// hardware id. Identical panels take rows in order. Unmatched ids get "".
func matchNames(deviceIDs []string, rows []wmiMonitor) []string {
	out := make([]string, len(deviceIDs))
	used := make([]bool, len(rows))
	for i, id := range deviceIDs {
		hw := hardwareID(id)
		if hw == "" {
			continue
		}
		for j, r := range rows {
			if used[j] || hardwareID(r.PNPDeviceID) != hw {
				continue
			}
			used[j] = true
			out[i] = r.Name
			break
		}
	}
	return out
}
