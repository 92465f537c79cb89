// Package apperr holds the error taxonomy shared by every command. All of
// these are flattened to strings at the command boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMonitor implies no monitor could be resolved for the request.
	ErrNoMonitor = errors.New("no monitor found")

	// ErrMonitorIndexOutOfRange implies an explicit monitor index exceeded the enumerated list.
	ErrMonitorIndexOutOfRange = errors.New("monitor index out of range")

	// ErrConfigDirUnavailable implies the per-user config directory could not be resolved.
	ErrConfigDirUnavailable = errors.New("failed to get config directory")

	// ErrPlatformUnsupported implies the operation only exists on another OS.
	ErrPlatformUnsupported = errors.New("not supported on this platform")

	// ErrClipboardBusy implies OpenClipboard failed, usually because another process holds it.
	ErrClipboardBusy = errors.New("failed to open clipboard")

	// ErrAllocationFailed implies GlobalAlloc or GlobalLock returned NULL.
	ErrAllocationFailed = errors.New("failed to allocate global memory")

	// ErrImageDecodeFailed implies the image file could not be decoded.
	ErrImageDecodeFailed = errors.New("failed to open image")

	// ErrNotImplemented implies the command is declared but has no backend here.
	ErrNotImplemented = errors.New("not implemented")
)

// NativeError reports a failed OS call together with the context that makes
// it actionable, e.g. the coordinate handed to GetPixel.
type NativeError struct {
	API    string
	Detail string
	Err    error
}

func (e *NativeError) Error() string {
	msg := e.API + " failed"
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NativeError) Unwrap() error { return e.Err }

// Native builds a NativeError. Detail may be empty.
func Native(api, detail string, err error) error {
	return &NativeError{API: api, Detail: detail, Err: err}
}

// Unsupported names the operation in a PlatformUnsupported error.
func Unsupported(op string) error {
	return fmt.Errorf("%s is only supported on Windows: %w", op, ErrPlatformUnsupported)
}
