package events

import (
	"errors"
	"sync"
)

type EventType string

const (
	EventClipboardChanged EventType = "clipboard_changed"
	EventDisplayChanged   EventType = "display_changed"
)

type SystemEvent struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestampUTC"`
}

// Bus fans OS notifications into one channel. Emit never blocks; when the
// reader falls behind, events are dropped.
type Bus struct {
	ch     chan SystemEvent
	stopCh chan struct{}
	once   sync.Once

	mu  sync.Mutex
	src *osSources
}

func NewBus(buffer int) *Bus {
	return &Bus{
		ch:     make(chan SystemEvent, buffer),
		stopCh: make(chan struct{}),
	}
}

func (b *Bus) Events() <-chan SystemEvent { return b.ch }

func (b *Bus) Emit(ev SystemEvent) {
	select {
	case b.ch <- ev:
	default:
	}
}

// Start begins listening to the OS. It returns ErrNotSupported where no
// listener exists; the bus then stays idle.
func (b *Bus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.src != nil {
		return nil
	}
	src, err := newOSSources(b.Emit, b.stopCh)
	if err != nil {
		return err
	}
	b.src = src
	return src.start()
}

func (b *Bus) Stop() {
	b.once.Do(func() {
		close(b.stopCh)
	})
}

// Stopped is closed once Stop has been called.
func (b *Bus) Stopped() <-chan struct{} { return b.stopCh }

var ErrNotSupported = errors.New("not supported")
