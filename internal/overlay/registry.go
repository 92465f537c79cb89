// Package overlay holds the transient results that overlay windows hand back
// to the dock: the selected region, the picked color and the preview path.
package overlay

import "sync"

// Slot is a single-value mailbox. The zero value is empty and ready to use.
type Slot[T any] struct {
	mu  sync.Mutex
	v   T
	set bool
}

// Put overwrites whatever the slot held.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	s.v, s.set = v, true
	s.mu.Unlock()
}

// Take returns the held value and empties the slot.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.v, s.set
	var zero T
	s.v, s.set = zero, false
	return v, ok
}

// Peek returns the held value without emptying the slot.
func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v, s.set
}

func (s *Slot[T]) Clear() {
	s.mu.Lock()
	var zero T
	s.v, s.set = zero, false
	s.mu.Unlock()
}

// Region is [x, y, w, h] in physical pixels on the virtual desktop.
type Region [4]int

// Registry is the process-wide set of slots. Color holds a nil pointer when
// the user cancelled the pick, and is empty when no pick is in progress.
type Registry struct {
	Region  Slot[Region]
	Color   Slot[*string]
	Preview Slot[string]
}

func NewRegistry() *Registry { return &Registry{} }

// TakeColor drains the color slot. Both "no session" and "cancelled" yield
// nil.
func (r *Registry) TakeColor() *string {
	v, ok := r.Color.Take()
	if !ok {
		return nil
	}
	return v
}

func (r *Registry) TakeRegion() *Region {
	v, ok := r.Region.Take()
	if !ok {
		return nil
	}
	return &v
}

func (r *Registry) PreviewPath() *string {
	v, ok := r.Preview.Peek()
	if !ok {
		return nil
	}
	return &v
}
