//go:build windows

package events

import "sync"

type osSources struct {
	emit   func(SystemEvent)
	stopCh <-chan struct{}

	lst *listener

	wg sync.WaitGroup
}

func newOSSources(emit func(SystemEvent), stopCh <-chan struct{}) (*osSources, error) {
	return &osSources{emit: emit, stopCh: stopCh}, nil
}

func (w *osSources) start() error {
	w.lst = newListener(w.emit)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.lst.Run(w.stopCh)
	}()
	return nil
}
