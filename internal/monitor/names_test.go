package monitor

import "testing"

func TestHardwareID(t *testing.T) {
	cases := []struct{ in, want string }{
		{`DISPLAY\DEL41A6\5&2E2FB5D&0&UID4352`, "DEL41A6"},
		{`MONITOR\del41a6\{4d36e96e-e325-11ce-bfc1-08002be10318}\0001`, "DEL41A6"},
		{`DISPLAY`, ""},
		{``, ""},
	}
	for _, c := range cases {
		if got := hardwareID(c.in); got != c.want {
			t.Errorf("hardwareID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatchNamesIgnoresWMIOrder(t *testing.T) {
	rows := []wmiMonitor{
		{Name: "LG ULTRAGEAR", PNPDeviceID: `DISPLAY\GSM5B7F\5&1&0&UID260`},
		{Name: "DELL U2720Q", PNPDeviceID: `DISPLAY\DEL41A6\5&1&0&UID256`},
	}
	ids := []string{
		`MONITOR\DEL41A6\{4d36e96e-e325-11ce-bfc1-08002be10318}\0001`,
		`MONITOR\GSM5B7F\{4d36e96e-e325-11ce-bfc1-08002be10318}\0002`,
	}
	got := matchNames(ids, rows)
	if got[0] != "DELL U2720Q" || got[1] != "LG ULTRAGEAR" {
		t.Fatalf("names = %q", got)
	}
}

func TestMatchNamesCountMismatch(t *testing.T) {
	rows := []wmiMonitor{
		{Name: "DELL U2720Q", PNPDeviceID: `DISPLAY\DEL41A6\a`},
		{Name: "DELL U2720Q #2", PNPDeviceID: `DISPLAY\DEL41A6\b`},
		{Name: "Old projector", PNPDeviceID: `DISPLAY\EPS0001\c`},
	}
	ids := []string{
		`MONITOR\DEL41A6\{x}\0001`,
		`MONITOR\DEL41A6\{x}\0002`,
		`MONITOR\SAM0F9C\{x}\0003`,
		``,
	}
	got := matchNames(ids, rows)
	want := []string{"DELL U2720Q", "DELL U2720Q #2", "", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %q, want %q", got, want)
		}
	}
}
