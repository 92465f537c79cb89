package policy

import "testing"

func TestShotRulesAllow(t *testing.T) {
	r := DefaultConfig().Shots
	cases := map[string]bool{
		"a.png":           true,
		"B.PNG":           true,
		"c.Jpeg":          true,
		"d.jpg":           true,
		"e.bmp":           true,
		"f.gif":           false,
		"notes.txt":       false,
		"noext":           false,
		"archive.png.zip": false,
	}
	for name, want := range cases {
		if got := r.Allow(name); got != want {
			t.Fatalf("Allow(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNames(t *testing.T) {
	c := DefaultConfig()
	if got := c.InstanceMutexName(); got != `Global\QuantHUD_SingleInstance` {
		t.Fatalf("mutex = %q", got)
	}
	if got := c.AlreadyRunningMessage(); got != "QuantHUD is already running!" {
		t.Fatalf("message = %q", got)
	}
}
