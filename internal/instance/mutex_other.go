//go:build !windows

package instance

func createMutex(string) (uintptr, bool, error) { return 0, true, nil }

func (g *Gate) Release() {}
