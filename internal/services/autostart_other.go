//go:build !windows

package services

import "quanthud/internal/apperr"

func IsAutostartEnabled(string) bool { return false }

func SetAutostart(string, bool) error { return apperr.Unsupported("set_autostart") }
