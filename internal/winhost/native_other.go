//go:build !windows

package winhost

func findNative(string) native { return nil }
