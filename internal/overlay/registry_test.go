package overlay

import (
	"sync"
	"testing"
)

func TestRegionTakeDrains(t *testing.T) {
	r := NewRegistry()
	r.Region.Put(Region{10, 20, 300, 200})

	first := r.TakeRegion()
	if first == nil || *first != (Region{10, 20, 300, 200}) {
		t.Fatalf("first take = %v", first)
	}
	if second := r.TakeRegion(); second != nil {
		t.Fatalf("second take = %v, want nil", *second)
	}
}

func TestColorCancelAndEmptyBothNil(t *testing.T) {
	r := NewRegistry()
	if got := r.TakeColor(); got != nil {
		t.Fatalf("empty slot take = %q", *got)
	}

	r.Color.Put(nil)
	if v, ok := r.Color.Peek(); !ok || v != nil {
		t.Fatalf("cancelled pick should be set with nil value, got %v %v", v, ok)
	}
	if got := r.TakeColor(); got != nil {
		t.Fatalf("cancelled take = %q", *got)
	}

	hex := "#332211"
	r.Color.Put(&hex)
	if got := r.TakeColor(); got == nil || *got != hex {
		t.Fatalf("take = %v, want %q", got, hex)
	}
	if _, ok := r.Color.Peek(); ok {
		t.Fatalf("slot not drained")
	}
}

func TestPreviewPeekIsNonDraining(t *testing.T) {
	r := NewRegistry()
	r.Preview.Put(`C:\shots\a.png`)
	for i := 0; i < 5; i++ {
		p := r.PreviewPath()
		if p == nil || *p != `C:\shots\a.png` {
			t.Fatalf("peek %d = %v", i, p)
		}
	}
	r.Preview.Clear()
	if p := r.PreviewPath(); p != nil {
		t.Fatalf("after clear = %q", *p)
	}
}

func TestPutOverwrites(t *testing.T) {
	var s Slot[int]
	s.Put(1)
	s.Put(2)
	if v, ok := s.Take(); !ok || v != 2 {
		t.Fatalf("take = %d %v, want 2 true", v, ok)
	}
}

func TestSlotConcurrentTakeOnce(t *testing.T) {
	var s Slot[int]
	s.Put(7)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Take(); ok {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if hits != 1 {
		t.Fatalf("value taken %d times, want 1", hits)
	}
}
