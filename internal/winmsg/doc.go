// Package winmsg is the Win32 message loop shared by every goroutine that
// owns a native window, a clipboard listener or a hotkey.
package winmsg
