// Package window places and lifecycles the dock and its overlay windows.
// Windows are addressed by role; each role has at most one live window.
package window

import (
	"context"
	"fmt"

	"quanthud/internal/geometry"
)

type Role string

const (
	RoleMain              Role = "main"
	RoleDualRight         Role = "dual-right"
	RoleRegionSelector    Role = "region-selector"
	RoleColorPicker       Role = "color-picker-overlay"
	RoleScreenshotPreview Role = "screenshot-preview"
	// RoleDualMain is the name the main dock goes by while a twin is open.
	RoleDualMain     Role = "dual-main"
	RoleNotification Role = "notification-popup"
)

var roles = []Role{
	RoleMain, RoleDualRight, RoleRegionSelector, RoleColorPicker,
	RoleScreenshotPreview, RoleDualMain, RoleNotification,
}

func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown window role %q", s)
}

// Canonical folds aliases onto the window that actually exists.
func (r Role) Canonical() Role {
	if r == RoleDualMain {
		return RoleMain
	}
	return r
}

// Dock reports whether r renders the dock UI.
func (r Role) Dock() bool {
	switch r.Canonical() {
	case RoleMain, RoleDualRight:
		return true
	}
	return false
}

// Spec describes a window at creation. Every window starts hidden.
type Spec struct {
	Route       string
	Title       string
	Fullscreen  bool
	Transparent bool
	AlwaysOnTop bool
	SkipTaskbar bool
	NoShadow    bool
	NoDrop      bool
}

// Window operations take physical pixels.
type Window interface {
	SetPosition(x, y int) error
	SetSize(w, h int) error
	// Place strips the native frame and puts the window top-most at r
	// without activating it.
	Place(r geometry.Rect) error
	Bounds() (geometry.Rect, error)
	Show() error
	Hide() error
	Focus() error
	Close() error
	IsVisible() (bool, error)
}

type Host interface {
	Get(role Role) (Window, bool)
	Create(ctx context.Context, role Role, spec Spec) (Window, error)
}
