package winhost

import (
	"context"
	"fmt"

	"quanthud/internal/bridge"
	"quanthud/internal/geometry"
	"quanthud/internal/window"
)

// ChildHandler serves the dock's window requests on w inside an overlay
// process. Broadcast events are handed to emit.
func ChildHandler(w window.Window, emit func(name string, data any)) bridge.Handler {
	return func(_ context.Context, env bridge.Envelope) (any, error) {
		switch env.Method {
		case bridge.MethodSetPosition:
			var p bridge.Point
			if err := env.Decode(&p); err != nil {
				return nil, err
			}
			return nil, w.SetPosition(p.X, p.Y)
		case bridge.MethodSetSize:
			var s bridge.Size
			if err := env.Decode(&s); err != nil {
				return nil, err
			}
			return nil, w.SetSize(s.W, s.H)
		case bridge.MethodPlace:
			var r bridge.Rect
			if err := env.Decode(&r); err != nil {
				return nil, err
			}
			return nil, w.Place(geometry.Rect{X: r.X, Y: r.Y, Width: r.W, Height: r.H})
		case bridge.MethodBounds:
			b, err := w.Bounds()
			if err != nil {
				return nil, err
			}
			return bridge.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}, nil
		case bridge.MethodVisible:
			return w.IsVisible()
		case bridge.MethodShow:
			return nil, w.Show()
		case bridge.MethodHide:
			return nil, w.Hide()
		case bridge.MethodFocus:
			return nil, w.Focus()
		case bridge.MethodClose:
			return nil, w.Close()
		case bridge.MethodEvent:
			var ev bridge.Event
			if err := env.Decode(&ev); err != nil {
				return nil, err
			}
			if emit != nil {
				emit(ev.Name, ev.Data)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("unknown method %q", env.Method)
	}
}
