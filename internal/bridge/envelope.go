// Package bridge is the bus between the dock process and its overlay
// processes: JSON envelopes over a loopback websocket, with request/response
// pairing by id and fire-and-forget events.
package bridge

import (
	"encoding/json"
	"errors"
)

type Kind string

const (
	KindRequest  Kind = "request"
	KindResponse Kind = "response"
	KindEvent    Kind = "event"
)

// Envelope is the only frame type on the wire.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Kind    Kind            `json:"kind"`
	Method  string          `json:"method,omitempty"`
	Role    string          `json:"role,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 || v == nil {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

const (
	// overlay -> dock
	MethodHello  = "hello"
	MethodInvoke = "invoke"

	// dock -> overlay
	MethodShow        = "window.show"
	MethodHide        = "window.hide"
	MethodFocus       = "window.focus"
	MethodClose       = "window.close"
	MethodSetPosition = "window.set_position"
	MethodSetSize     = "window.set_size"
	MethodPlace       = "window.place"
	MethodBounds      = "window.bounds"
	MethodVisible     = "window.visible"
	MethodEvent       = "event"
)

type Hello struct {
	Role string `json:"role"`
	PID  int    `json:"pid"`
}

type Invoke struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

type Event struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

var ErrClosed = errors.New("bus connection closed")

// RemoteError is an error string returned by the other side.
type RemoteError struct {
	Method string
	Msg    string
}

func (e *RemoteError) Error() string { return e.Msg }
