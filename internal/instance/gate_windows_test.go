//go:build windows

package instance

import (
	"fmt"
	"os"
	"testing"
)

func TestSecondAcquireFails(t *testing.T) {
	// Local namespace keeps the test from clashing with a running app.
	name := fmt.Sprintf(`Local\QuantHUDTest_%d`, os.Getpid())
	first, ok := Acquire(name, nil)
	if !ok {
		t.Fatalf("first Acquire() = false")
	}
	defer first.Release()

	if _, ok := Acquire(name, nil); ok {
		t.Fatalf("second Acquire() = true while first holds the mutex")
	}

	first.Release()
	again, ok := Acquire(name, nil)
	if !ok {
		t.Fatalf("Acquire() after release = false")
	}
	again.Release()
}
