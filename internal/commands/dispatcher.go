// Package commands routes named UI commands to their handlers. The same
// table serves the dock's own window and, over the bus, every overlay.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"quanthud/internal/window"
)

// Handler runs one command. caller is the role of the window that asked.
type Handler func(ctx context.Context, caller window.Role, args json.RawMessage) (any, error)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      *slog.Logger
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{handlers: map[string]Handler{}, log: log.With(slog.String("component", "commands"))}
}

func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.handlers[name]; dup {
		panic("commands: duplicate registration of " + name)
	}
	d.handlers[name] = h
}

func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for n := range d.handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Invoke runs command for the window with role caller.
func (d *Dispatcher) Invoke(ctx context.Context, caller string, command string, args json.RawMessage) (any, error) {
	role, err := window.ParseRole(caller)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	h, ok := d.handlers[command]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command %q", command)
	}
	start := time.Now()
	res, err := h(ctx, role, args)
	if err != nil {
		d.log.Warn("command failed", slog.String("command", command), slog.String("caller", caller), slog.Any("err", err))
		return nil, err
	}
	d.log.Debug("command", slog.String("command", command), slog.String("caller", caller), slog.Duration("took", time.Since(start)))
	return res, nil
}

// Decode unmarshals args into T. Missing or null args yield the zero T.
func Decode[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("invalid arguments: %w", err)
	}
	return v, nil
}

// Typed adapts a handler taking decoded args.
func Typed[T any](f func(ctx context.Context, caller window.Role, args T) (any, error)) Handler {
	return func(ctx context.Context, caller window.Role, raw json.RawMessage) (any, error) {
		v, err := Decode[T](raw)
		if err != nil {
			return nil, err
		}
		return f(ctx, caller, v)
	}
}

// Caller is how a bound App reaches the command table, in process or over
// the bus.
type Caller interface {
	Call(ctx context.Context, command string, args any, out any) error
}

// Local calls the dispatcher directly as role.
type Local struct {
	D    *Dispatcher
	Role window.Role
}

// Call round-trips args and result through JSON so local and remote calls
// see identical values.
func (l Local) Call(ctx context.Context, command string, args any, out any) error {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s args: %w", command, err)
		}
		raw = b
	}
	res, err := l.D.Invoke(ctx, string(l.Role), command, raw)
	if err != nil || out == nil || res == nil {
		return err
	}
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode %s result: %w", command, err)
	}
	return json.Unmarshal(b, out)
}
