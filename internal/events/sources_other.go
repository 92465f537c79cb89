//go:build !windows

package events

type osSources struct{}

func newOSSources(func(SystemEvent), <-chan struct{}) (*osSources, error) {
	return nil, ErrNotSupported
}

func (*osSources) start() error { return ErrNotSupported }
