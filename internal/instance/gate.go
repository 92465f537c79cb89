// Package instance keeps a second copy of the app from starting.
package instance

import "log/slog"

// Gate holds the named mutex for the life of the process.
type Gate struct {
	name   string
	handle uintptr
}

// Acquire reports whether this process is the first instance. Failing to
// create the mutex is treated as "another instance owns it".
func Acquire(name string, log *slog.Logger) (*Gate, bool) {
	if log == nil {
		log = slog.Default()
	}
	g := &Gate{name: name}
	h, first, err := createMutex(name)
	if err != nil {
		log.Warn("single instance mutex", "name", name, "err", err)
	}
	g.handle = h
	return g, first
}

func (g *Gate) Name() string { return g.name }
