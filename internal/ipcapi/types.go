package ipcapi

import "time"

type CaptureResult struct {
	ImageBase64 string `json:"image_base64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type CursorPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MonitorInfo struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	IsPrimary bool   `json:"is_primary"`
	// OSName is the monitor's own name when the OS reports one.
	OSName    string `json:"osName,omitempty"`
}

type OsScreenshot struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Modified int64  `json:"modified"`
}

// StateSyncEvent asks every window to reload one UI module from config.
type StateSyncEvent struct {
	Module string `json:"module"`
	Sender string `json:"sender"`
}

type ClipboardChangedEvent struct {
	AtUTC int64 `json:"atUTC"`
}

type DisplayChangedEvent struct {
	Monitors []MonitorInfo `json:"monitors"`
	AtUTC    int64         `json:"atUTC"`
}

const (
	EventStateSync        = "state-sync"
	EventClipboardChanged = "clipboard-changed"
	EventDisplayChanged   = "display-changed"
	EventTrayToggle       = "tray-toggle"
)

func NowUTC() int64 { return time.Now().UTC().UnixMilli() }
