package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"quanthud/internal/apperr"
	"quanthud/internal/commands"
	"quanthud/internal/config"
	"quanthud/internal/events"
	"quanthud/internal/geometry"
	"quanthud/internal/ipcapi"
	"quanthud/internal/overlay"
	"quanthud/internal/window"
)

type fakeProvider struct{ ms []geometry.Monitor }

func (p fakeProvider) Monitors() ([]geometry.Monitor, error) {
	return append([]geometry.Monitor(nil), p.ms...), nil
}
func (fakeProvider) WorkAreaHeight() (int, bool) { return 0, false }

type emptyHost struct{}

func (emptyHost) Get(window.Role) (window.Window, bool) { return nil, false }
func (emptyHost) Create(context.Context, window.Role, window.Spec) (window.Window, error) {
	return nil, errors.New("no windows in tests")
}

type recorder struct {
	mu    sync.Mutex
	names []string
	data  []any
}

func (r *recorder) add(name string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.data = append(r.data, data)
}

type harness struct {
	svc       *Services
	d         *commands.Dispatcher
	local     *recorder
	broadcast *recorder
}

func newHarness(t *testing.T, store *config.Store) *harness {
	t.Helper()
	h := &harness{local: &recorder{}, broadcast: &recorder{}}
	h.svc = New(Options{
		Host: emptyHost{},
		Monitors: fakeProvider{ms: []geometry.Monitor{
			{X: 0, Y: 0, Width: 1920, Height: 1080, ScaleFactor: 1},
			{X: 1920, Y: -240, Width: 2560, Height: 1440, ScaleFactor: 1.25, Name: "DELL U2720Q"},
		}},
		Store: store,
	}, Dependencies{EmitEvent: h.local.add, Broadcast: h.broadcast.add})
	h.d = commands.NewDispatcher(nil)
	h.svc.Register(h.d)
	return h
}

func (h *harness) call(t *testing.T, role window.Role, name string, args any, out any) error {
	t.Helper()
	return commands.Local{D: h.d, Role: role}.Call(context.Background(), name, args, out)
}

func TestEveryCommandRegistered(t *testing.T) {
	h := newHarness(t, nil)
	want := []string{
		"capture_screen", "get_cursor_position", "get_available_monitors",
		"load_config", "save_config",
		"tuck_window", "show_window", "set_window_position", "setup_window_size", "is_window_tucked",
		"open_region_selector", "set_selected_region", "get_selected_region",
		"open_color_picker_overlay", "set_picked_color", "get_picked_color", "pick_screen_color",
		"list_os_screenshots", "read_screenshot_file", "read_screenshot_thumbnail",
		"open_screenshots_folder", "copy_screenshot_to_clipboard",
		"open_screenshot_preview", "get_screenshot_preview_path", "close_screenshot_preview",
		"create_dual_window", "close_dual_window",
		"show_notification_popup",
		"emit_event", "get_window_role", "get_autostart", "set_autostart",
		"launch_app", "pick_file", "start_speech_recognition", "stop_speech_recognition",
	}
	have := map[string]bool{}
	for _, n := range h.d.Names() {
		have[n] = true
	}
	for _, n := range want {
		if !have[n] {
			t.Errorf("command %q not registered", n)
		}
	}
	if len(have) != len(want) {
		t.Errorf("registered %d commands, want %d: %v", len(have), len(want), h.d.Names())
	}
}

func TestConfigRoundTrip(t *testing.T) {
	h := newHarness(t, config.NewStoreAt(t.TempDir()))

	var got string
	if err := h.call(t, window.RoleMain, "load_config", nil, &got); err != nil {
		t.Fatalf("load_config error: %v", err)
	}
	if got != "{}" {
		t.Fatalf("initial config = %q, want {}", got)
	}
	if err := h.call(t, window.RoleDualRight, "save_config", commands.ConfigArgs{Config: `{"a":1}`}, nil); err != nil {
		t.Fatalf("save_config error: %v", err)
	}
	if err := h.call(t, window.RoleMain, "load_config", nil, &got); err != nil {
		t.Fatalf("load_config error: %v", err)
	}
	if got != `{"a":1}` {
		t.Fatalf("config = %q", got)
	}
}

func TestConfigWithoutStore(t *testing.T) {
	h := newHarness(t, nil)
	err := h.call(t, window.RoleMain, "load_config", nil, nil)
	if !errors.Is(err, apperr.ErrConfigDirUnavailable) {
		t.Fatalf("err = %v, want ErrConfigDirUnavailable", err)
	}
}

func TestEmitEventReachesEveryWindow(t *testing.T) {
	h := newHarness(t, nil)
	args := map[string]any{"name": ipcapi.EventStateSync, "data": ipcapi.StateSyncEvent{Module: "notes", Sender: "dual-main"}}
	if err := h.call(t, window.RoleDualMain, "emit_event", args, nil); err != nil {
		t.Fatalf("emit_event error: %v", err)
	}
	for _, r := range []*recorder{h.local, h.broadcast} {
		if len(r.names) != 1 || r.names[0] != ipcapi.EventStateSync {
			t.Fatalf("events = %v", r.names)
		}
		raw, ok := r.data[0].(json.RawMessage)
		if !ok {
			t.Fatalf("data type = %T", r.data[0])
		}
		var ev ipcapi.StateSyncEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Module != "notes" || ev.Sender != "dual-main" {
			t.Fatalf("data = %s (%v)", raw, err)
		}
	}

	if err := h.call(t, window.RoleMain, "emit_event", map[string]any{}, nil); err == nil {
		t.Fatalf("emit_event without name should fail")
	}
}

func TestWindowRole(t *testing.T) {
	h := newHarness(t, nil)
	for _, role := range []window.Role{window.RoleMain, window.RoleDualMain, window.RoleColorPicker} {
		var got string
		if err := h.call(t, role, "get_window_role", nil, &got); err != nil {
			t.Fatalf("get_window_role error: %v", err)
		}
		if got != string(role) {
			t.Fatalf("get_window_role = %q, want %q", got, role)
		}
	}
}

func TestRegionTakeOnce(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.call(t, window.RoleRegionSelector, "set_selected_region", commands.RegionArgs{Region: &overlay.Region{1, 2, 3, 4}}, nil); err != nil {
		t.Fatalf("set_selected_region error: %v", err)
	}
	var first *overlay.Region
	if err := h.call(t, window.RoleMain, "get_selected_region", nil, &first); err != nil {
		t.Fatalf("get_selected_region error: %v", err)
	}
	if first == nil || *first != (overlay.Region{1, 2, 3, 4}) {
		t.Fatalf("first = %v", first)
	}
	var second *overlay.Region
	if err := h.call(t, window.RoleMain, "get_selected_region", nil, &second); err != nil {
		t.Fatalf("get_selected_region error: %v", err)
	}
	if second != nil {
		t.Fatalf("second = %v, want nil", *second)
	}
}

func TestPickedColorCancelIsNull(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.call(t, window.RoleColorPicker, "set_picked_color", commands.ColorArgs{}, nil); err != nil {
		t.Fatalf("set_picked_color error: %v", err)
	}
	got := "unchanged"
	out := &got
	if err := h.call(t, window.RoleMain, "get_picked_color", nil, &out); err != nil {
		t.Fatalf("get_picked_color error: %v", err)
	}
	if out == nil || *out != "unchanged" {
		t.Fatalf("cancelled pick should return null")
	}

	c := "#332211"
	if err := h.call(t, window.RoleColorPicker, "set_picked_color", commands.ColorArgs{Color: &c}, nil); err != nil {
		t.Fatalf("set_picked_color error: %v", err)
	}
	var picked string
	if err := h.call(t, window.RoleMain, "get_picked_color", nil, &picked); err != nil {
		t.Fatalf("get_picked_color error: %v", err)
	}
	if picked != c {
		t.Fatalf("picked = %q", picked)
	}
}

func TestPreviewPathPeek(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.Orchestrator().Registry().Preview.Put("C:/shots/a.png")
	for i := 0; i < 3; i++ {
		var p string
		if err := h.call(t, window.RoleScreenshotPreview, "get_screenshot_preview_path", nil, &p); err != nil {
			t.Fatalf("get_screenshot_preview_path error: %v", err)
		}
		if p != "C:/shots/a.png" {
			t.Fatalf("call %d = %q", i, p)
		}
	}
	if err := h.call(t, window.RoleScreenshotPreview, "close_screenshot_preview", nil, nil); err != nil {
		t.Fatalf("close_screenshot_preview error: %v", err)
	}
	if h.svc.Orchestrator().PreviewPath() != nil {
		t.Fatalf("preview path should be cleared")
	}
}

func TestMonitorsCommand(t *testing.T) {
	h := newHarness(t, nil)
	var got []ipcapi.MonitorInfo
	if err := h.call(t, window.RoleMain, "get_available_monitors", nil, &got); err != nil {
		t.Fatalf("get_available_monitors error: %v", err)
	}
	if len(got) != 2 || got[1].Index != 1 || got[1].Width != 2560 || !got[0].IsPrimary || got[1].IsPrimary {
		t.Fatalf("monitors = %+v", got)
	}
}

func TestSpeechNotImplemented(t *testing.T) {
	h := newHarness(t, nil)
	for _, name := range []string{"start_speech_recognition", "stop_speech_recognition"} {
		if err := h.call(t, window.RoleMain, name, nil, nil); !errors.Is(err, apperr.ErrNotImplemented) {
			t.Fatalf("%s err = %v, want ErrNotImplemented", name, err)
		}
	}
}

func TestOverlayOpenFailureIsWrapped(t *testing.T) {
	h := newHarness(t, nil)
	err := h.call(t, window.RoleMain, "open_region_selector", nil, nil)
	if err == nil || err.Error() != "failed to build window: no windows in tests" {
		t.Fatalf("err = %v", err)
	}
}

func TestDisplayChangedCarriesMonitors(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.handleSystemEvent(events.SystemEvent{Type: events.EventDisplayChanged, Timestamp: 42})
	h.svc.handleSystemEvent(events.SystemEvent{Type: events.EventClipboardChanged, Timestamp: 43})

	if len(h.local.names) != 2 || h.local.names[0] != ipcapi.EventDisplayChanged || h.local.names[1] != ipcapi.EventClipboardChanged {
		t.Fatalf("local events = %v", h.local.names)
	}
	ev, ok := h.local.data[0].(ipcapi.DisplayChangedEvent)
	if !ok || len(ev.Monitors) != 2 || ev.AtUTC != 42 {
		t.Fatalf("display event = %#v", h.local.data[0])
	}
	if ev.Monitors[1].OSName != "DELL U2720Q" || ev.Monitors[1].Name != "Display 2 (2560×1440)" {
		t.Fatalf("second monitor = %+v", ev.Monitors[1])
	}
	if len(h.broadcast.names) != 2 {
		t.Fatalf("broadcast events = %v", h.broadcast.names)
	}
}
