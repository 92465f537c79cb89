package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Client is the overlay end of the bus.
type Client struct {
	peer *Peer
}

// Dial connects to the dock's bus. h serves the window operations the dock
// sends back.
func Dial(ctx context.Context, url, token string, h Handler, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, hdr)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("bus rejected token: %w", err)
		}
		return nil, fmt.Errorf("dial bus: %w", err)
	}
	p := newPeer(conn, log.With(slog.String("component", "bus")))
	p.start(h)
	return &Client{peer: p}, nil
}

func (c *Client) Hello(ctx context.Context, role string, pid int) error {
	c.peer.setIdentity(role, pid)
	return c.peer.Request(ctx, MethodHello, Hello{Role: role, PID: pid}, nil)
}

// Call runs command in the dock process and decodes its result into out.
func (c *Client) Call(ctx context.Context, command string, args any, out any) error {
	in := Invoke{Command: command}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s args: %w", command, err)
		}
		in.Args = raw
	}
	return c.peer.Request(ctx, MethodInvoke, in, out)
}

func (c *Client) Done() <-chan struct{} { return c.peer.Done() }

func (c *Client) Close() error { return c.peer.Close() }
