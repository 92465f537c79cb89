// Package winhost gives the window orchestrator real windows: the process's
// own web view, and overlay processes reached over the bus.
package winhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quanthud/internal/bridge"
	"quanthud/internal/geometry"
	"quanthud/internal/window"
)

// Remote is a window living in an overlay process.
type Remote struct {
	role    window.Role
	peer    *bridge.Peer
	timeout time.Duration
}

func NewRemote(role window.Role, peer *bridge.Peer, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{role: role, peer: peer, timeout: timeout}
}

func (r *Remote) do(method string, payload, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.peer.Request(ctx, method, payload, out); err != nil {
		return fmt.Errorf("%s %s: %w", r.role, method, err)
	}
	return nil
}

func (r *Remote) SetPosition(x, y int) error {
	return r.do(bridge.MethodSetPosition, bridge.Point{X: x, Y: y}, nil)
}

func (r *Remote) SetSize(w, h int) error {
	return r.do(bridge.MethodSetSize, bridge.Size{W: w, H: h}, nil)
}

func (r *Remote) Place(rc geometry.Rect) error {
	return r.do(bridge.MethodPlace, bridge.Rect{X: rc.X, Y: rc.Y, W: rc.Width, H: rc.Height}, nil)
}

func (r *Remote) Bounds() (geometry.Rect, error) {
	var b bridge.Rect
	if err := r.do(bridge.MethodBounds, nil, &b); err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Rect{X: b.X, Y: b.Y, Width: b.W, Height: b.H}, nil
}

func (r *Remote) Show() error  { return r.do(bridge.MethodShow, nil, nil) }
func (r *Remote) Hide() error  { return r.do(bridge.MethodHide, nil, nil) }
func (r *Remote) Focus() error { return r.do(bridge.MethodFocus, nil, nil) }

// Close asks the overlay to quit. A connection that drops before the reply
// arrives counts as closed.
func (r *Remote) Close() error {
	err := r.do(bridge.MethodClose, nil, nil)
	if errors.Is(err, bridge.ErrClosed) {
		return nil
	}
	return err
}

func (r *Remote) IsVisible() (bool, error) {
	var v bool
	err := r.do(bridge.MethodVisible, nil, &v)
	return v, err
}
