package instance

import "testing"

func TestAcquireKeepsName(t *testing.T) {
	g, _ := Acquire(`Local\QuantHUDNameTest`, nil)
	defer g.Release()
	if g.Name() != `Local\QuantHUDNameTest` {
		t.Fatalf("Name() = %q", g.Name())
	}
}
