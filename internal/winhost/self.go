package winhost

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"quanthud/internal/geometry"
	"quanthud/internal/window"
)

var errNotAttached = errors.New("window runtime not started")

// native drives a top-level window directly, in physical pixels.
type native interface {
	setPosition(x, y int) error
	setSize(w, h int) error
	place(r geometry.Rect) error
	bounds() (geometry.Rect, error)
	show() error
	hide() error
	focus() error
	visible() bool
	applyStyle(spec window.Spec) error
}

// Self is the process's own web-view window. Where the native handle can be
// found it is driven directly; otherwise through the Wails runtime, whose
// coordinates may be DPI-scaled.
type Self struct {
	spec window.Spec
	log  *slog.Logger
	find func(title string) native

	mu    sync.Mutex
	ctx   context.Context
	nat   native
	shown bool
}

func NewSelf(spec window.Spec, log *slog.Logger) *Self {
	if log == nil {
		log = slog.Default()
	}
	return &Self{spec: spec, log: log.With(slog.String("component", "self-window")), find: findNative}
}

// Attach hands over the Wails runtime context once the app has started.
func (s *Self) Attach(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.native()
}

func (s *Self) Spec() window.Spec { return s.spec }

// native finds the HWND lazily; the runtime may create it after startup.
func (s *Self) native() native {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nat == nil && s.find != nil {
		if n := s.find(s.spec.Title); n != nil {
			if err := n.applyStyle(s.spec); err != nil {
				s.log.Warn("apply window style", slog.Any("err", err))
			}
			s.nat = n
		}
	}
	return s.nat
}

func (s *Self) runtimeCtx() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil, errNotAttached
	}
	return s.ctx, nil
}

func (s *Self) SetPosition(x, y int) error {
	if n := s.native(); n != nil {
		return n.setPosition(x, y)
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowSetPosition(ctx, x, y)
	return nil
}

func (s *Self) SetSize(w, h int) error {
	if n := s.native(); n != nil {
		return n.setSize(w, h)
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowSetSize(ctx, w, h)
	return nil
}

func (s *Self) Place(r geometry.Rect) error {
	if n := s.native(); n != nil {
		return n.place(r)
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowSetAlwaysOnTop(ctx, true)
	runtime.WindowSetPosition(ctx, r.X, r.Y)
	runtime.WindowSetSize(ctx, r.Width, r.Height)
	return nil
}

func (s *Self) Bounds() (geometry.Rect, error) {
	if n := s.native(); n != nil {
		return n.bounds()
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return geometry.Rect{}, err
	}
	x, y := runtime.WindowGetPosition(ctx)
	w, h := runtime.WindowGetSize(ctx)
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (s *Self) Show() error {
	if n := s.native(); n != nil {
		return s.mark(true, n.show())
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowShow(ctx)
	return s.mark(true, nil)
}

func (s *Self) Hide() error {
	if n := s.native(); n != nil {
		return s.mark(false, n.hide())
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowHide(ctx)
	return s.mark(false, nil)
}

func (s *Self) mark(shown bool, err error) error {
	if err == nil {
		s.mu.Lock()
		s.shown = shown
		s.mu.Unlock()
	}
	return err
}

func (s *Self) Focus() error {
	if n := s.native(); n != nil {
		return n.focus()
	}
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.WindowUnminimise(ctx)
	runtime.WindowShow(ctx)
	return nil
}

// Close quits this process's runtime.
func (s *Self) Close() error {
	ctx, err := s.runtimeCtx()
	if err != nil {
		return err
	}
	runtime.Quit(ctx)
	return nil
}

func (s *Self) IsVisible() (bool, error) {
	if n := s.native(); n != nil {
		return n.visible(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown, nil
}
