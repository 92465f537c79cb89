package commands

import (
	"encoding/json"

	"quanthud/internal/overlay"
)

// Argument shapes. Keys follow the UI's camelCase.

type CaptureArgs struct {
	Region *overlay.Region `json:"region"`
}

type ConfigArgs struct {
	Config string `json:"config"`
}

type DockArgs struct {
	Position     string  `json:"position"`
	MonitorIndex *int    `json:"monitorIndex"`
	TriggerStyle *string `json:"triggerStyle"`
}

type MonitorArgs struct {
	MonitorIndex *int `json:"monitorIndex"`
}

type RegionArgs struct {
	Region *overlay.Region `json:"region"`
}

type ColorArgs struct {
	Color *string `json:"color"`
}

type PathArgs struct {
	Path string `json:"path"`
}

type ThumbnailArgs struct {
	Path     string `json:"path"`
	MaxWidth int    `json:"maxWidth"`
}

type FolderArgs struct {
	CustomFolder *string `json:"customFolder"`
}

type MessageArgs struct {
	Message string `json:"message"`
}

type EmitArgs struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

type AutostartArgs struct {
	Enabled bool `json:"enabled"`
}

type SpeechArgs struct {
	Language *string `json:"language"`
}

type PickFileArgs struct {
	DefaultPath *string `json:"defaultPath"`
}
