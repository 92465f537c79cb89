//go:build !windows

package colorpick

import "quanthud/internal/apperr"

// NewOSScreen returns nil: sampling screen pixels needs the Windows GDI.
func NewOSScreen() Screen { return nil }

// CursorPosition has no portable source.
func CursorPosition() (int, int, error) {
	return 0, 0, apperr.Unsupported("get_cursor_position")
}
