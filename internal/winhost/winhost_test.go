package winhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"quanthud/internal/bridge"
	"quanthud/internal/geometry"
	"quanthud/internal/window"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fakeWindow records every call in order.
type fakeWindow struct {
	mu      sync.Mutex
	ops     []string
	rect    geometry.Rect
	visible bool
}

func (w *fakeWindow) log(op string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ops = append(w.ops, op)
}

func (w *fakeWindow) Ops() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.ops...)
}

func (w *fakeWindow) SetPosition(x, y int) error {
	w.log(fmt.Sprintf("pos %d,%d", x, y))
	return nil
}
func (w *fakeWindow) SetSize(width, h int) error {
	w.log(fmt.Sprintf("size %dx%d", width, h))
	return nil
}
func (w *fakeWindow) Place(r geometry.Rect) error {
	w.log("place " + r.String())
	return nil
}
func (w *fakeWindow) Bounds() (geometry.Rect, error) { w.log("bounds"); return w.rect, nil }
func (w *fakeWindow) Show() error                    { w.log("show"); w.visible = true; return nil }
func (w *fakeWindow) Hide() error                    { w.log("hide"); w.visible = false; return nil }
func (w *fakeWindow) Focus() error                   { w.log("focus"); return nil }
func (w *fakeWindow) Close() error                   { w.log("close"); return nil }
func (w *fakeWindow) IsVisible() (bool, error)       { return w.visible, nil }

func TestChildHandlerDrivesWindow(t *testing.T) {
	w := &fakeWindow{rect: geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}}
	var events []string
	h := ChildHandler(w, func(name string, data any) {
		events = append(events, fmt.Sprintf("%s %s", name, data))
	})
	env := func(method string, payload any) bridge.Envelope {
		e := bridge.Envelope{Kind: bridge.KindRequest, Method: method}
		if payload != nil {
			e.Payload, _ = json.Marshal(payload)
		}
		return e
	}
	ctx := context.Background()
	steps := []bridge.Envelope{
		env(bridge.MethodSetPosition, bridge.Point{X: -5, Y: 7}),
		env(bridge.MethodSetSize, bridge.Size{W: 340, H: 1032}),
		env(bridge.MethodPlace, bridge.Rect{X: 0, Y: -240, W: 4480, H: 1440}),
		env(bridge.MethodShow, nil),
		env(bridge.MethodFocus, nil),
		env(bridge.MethodHide, nil),
		env(bridge.MethodClose, nil),
	}
	for _, e := range steps {
		if _, err := h(ctx, e); err != nil {
			t.Fatalf("%s error: %v", e.Method, err)
		}
	}
	want := []string{"pos -5,7", "size 340x1032", "place (0, -240, 4480, 1440)", "show", "focus", "hide", "close"}
	if got := w.Ops(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}

	res, err := h(ctx, env(bridge.MethodBounds, nil))
	if err != nil {
		t.Fatalf("bounds error: %v", err)
	}
	if res != (bridge.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Fatalf("bounds = %#v", res)
	}

	if _, err := h(ctx, env(bridge.MethodEvent, bridge.Event{Name: "state-sync", Data: json.RawMessage(`{"module":"todos"}`)})); err != nil {
		t.Fatalf("event error: %v", err)
	}
	if len(events) != 1 || events[0] != `state-sync {"module":"todos"}` {
		t.Fatalf("events = %v", events)
	}

	if _, err := h(ctx, env("window.spin", nil)); err == nil {
		t.Fatalf("unknown method should fail")
	}
}

func TestOverlayArgs(t *testing.T) {
	spec := window.Spec{
		Route:       "/color-picker-overlay?pmx=0&pmw=1920",
		Title:       "Pick Color",
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
	}
	got := OverlayArgs(window.RoleColorPicker, spec, "ws://127.0.0.1:1/bus", "tok")
	want := []string{
		"overlay",
		"--role", "color-picker-overlay",
		"--route", "/color-picker-overlay?pmx=0&pmw=1920",
		"--title", "Pick Color",
		"--bus", "ws://127.0.0.1:1/bus",
		"--token", "tok",
		"--transparent", "--always-on-top", "--skip-taskbar",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v\nwant   %v", got, want)
	}
}

// inProcess stands in for a child process: it dials the bus and says hello.
type inProcess struct {
	pid  int
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	client *bridge.Client
}

func (p *inProcess) attach(c *bridge.Client) {
	p.mu.Lock()
	p.client = c
	p.mu.Unlock()
}

func (p *inProcess) PID() int { return p.pid }
func (p *inProcess) Kill() error {
	p.once.Do(func() {
		p.mu.Lock()
		c := p.client
		p.mu.Unlock()
		if c != nil {
			_ = c.Close()
		}
		close(p.done)
	})
	return nil
}
func (p *inProcess) Wait() error { <-p.done; return nil }

func flagValue(args []string, name string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == name {
			return args[i+1]
		}
	}
	return ""
}

func newBus(t *testing.T) *bridge.Server {
	t.Helper()
	srv := bridge.NewServer(bridge.ServerOptions{Logger: quiet()})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestProcessHostCreateAndDrive(t *testing.T) {
	srv := newBus(t)
	child := &fakeWindow{}
	var launched []string
	var procs []*inProcess

	launch := func(args []string) (Process, error) {
		launched = args
		p := &inProcess{pid: 4242, done: make(chan struct{})}
		procs = append(procs, p)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			c, err := bridge.Dial(ctx, flagValue(args, "--bus"), flagValue(args, "--token"), ChildHandler(child, nil), quiet())
			if err != nil {
				return
			}
			p.attach(c)
			_ = c.Hello(ctx, flagValue(args, "--role"), p.pid)
		}()
		return p, nil
	}

	self := &fakeWindow{}
	host := NewProcessHost(HostOptions{Self: self, Server: srv, Launch: launch, HelloTimeout: 5 * time.Second, Logger: quiet()})
	t.Cleanup(host.Shutdown)

	if w, ok := host.Get(window.RoleDualMain); !ok || w != window.Window(self) {
		t.Fatalf("dual-main should resolve to the self window")
	}
	if _, ok := host.Get(window.RoleRegionSelector); ok {
		t.Fatalf("region selector should not exist yet")
	}

	w, err := host.Create(context.Background(), window.RoleRegionSelector, window.Spec{Route: "/region-selector", Title: "Select Region", Fullscreen: true})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if flagValue(launched, "--route") != "/region-selector" || launched[len(launched)-1] != "--fullscreen" {
		t.Fatalf("launched with %v", launched)
	}

	if err := w.SetPosition(10, 20); err != nil {
		t.Fatalf("SetPosition() error: %v", err)
	}
	if err := w.Show(); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if v, err := w.IsVisible(); err != nil || !v {
		t.Fatalf("IsVisible() = %v, %v", v, err)
	}
	if got, want := child.Ops(), []string{"pos 10,20", "show"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("child ops = %v, want %v", got, want)
	}

	if _, ok := host.Get(window.RoleRegionSelector); !ok {
		t.Fatalf("Get() after Create() = false")
	}
}

func TestProcessHostKillsSilentChild(t *testing.T) {
	srv := newBus(t)
	p := &inProcess{pid: 7, done: make(chan struct{})}
	host := NewProcessHost(HostOptions{
		Server:       srv,
		Launch:       func([]string) (Process, error) { return p, nil },
		HelloTimeout: 50 * time.Millisecond,
		Logger:       quiet(),
	})
	_, err := host.Create(context.Background(), window.RoleScreenshotPreview, window.Spec{})
	if err == nil {
		t.Fatalf("Create() error = nil for a child that never says hello")
	}
	select {
	case <-p.done:
	case <-time.After(time.Second):
		t.Fatalf("silent child was not killed")
	}
}

type fakeNative struct {
	fakeWindow
	styled int
}

func (n *fakeNative) setPosition(x, y int) error        { return n.SetPosition(x, y) }
func (n *fakeNative) setSize(w, h int) error            { return n.SetSize(w, h) }
func (n *fakeNative) place(r geometry.Rect) error       { return n.Place(r) }
func (n *fakeNative) bounds() (geometry.Rect, error)    { return n.Bounds() }
func (n *fakeNative) show() error                       { return n.Show() }
func (n *fakeNative) hide() error                       { return n.Hide() }
func (n *fakeNative) focus() error                      { return n.Focus() }
func (n *fakeNative) visible() bool                     { return n.fakeWindow.visible }
func (n *fakeNative) applyStyle(spec window.Spec) error { n.styled++; return nil }

func TestSelfPrefersNativeWindow(t *testing.T) {
	n := &fakeNative{}
	lookups := 0
	s := NewSelf(window.Spec{Title: "QuantHUD", SkipTaskbar: true}, quiet())
	s.find = func(title string) native {
		lookups++
		if title != "QuantHUD" {
			t.Fatalf("looked up %q", title)
		}
		return n
	}

	_ = s.SetSize(340, 1032)
	_ = s.SetPosition(0, 0)
	_ = s.Show()
	if v, _ := s.IsVisible(); !v {
		t.Fatalf("IsVisible() = false after Show()")
	}
	if lookups != 1 || n.styled != 1 {
		t.Fatalf("lookups = %d, styled = %d, want 1 and 1", lookups, n.styled)
	}
	if got, want := n.Ops(), []string{"size 340x1032", "pos 0,0", "show"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
}

func TestSelfWithoutRuntime(t *testing.T) {
	s := NewSelf(window.Spec{Title: "QuantHUD"}, quiet())
	s.find = func(string) native { return nil }
	if err := s.SetPosition(1, 1); !errors.Is(err, errNotAttached) {
		t.Fatalf("SetPosition() = %v, want errNotAttached", err)
	}
	if err := s.Close(); !errors.Is(err, errNotAttached) {
		t.Fatalf("Close() = %v, want errNotAttached", err)
	}
	if v, err := s.IsVisible(); err != nil || v {
		t.Fatalf("IsVisible() = %v, %v", v, err)
	}
}
