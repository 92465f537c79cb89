package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Handler serves one inbound request or event. The result of an event is
// dropped.
type Handler func(ctx context.Context, env Envelope) (any, error)

// Peer is one end of a bus connection. Inbound requests are served in
// arrival order by a single worker, except invokes, which run concurrently
// so a slow command cannot stall window operations.
type Peer struct {
	conn   *websocket.Conn
	handle Handler
	log    *slog.Logger

	wmu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Envelope
	role    string
	pid     int

	queue  chan Envelope
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newPeer(conn *websocket.Conn, log *slog.Logger) *Peer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Peer{
		conn:    conn,
		log:     log,
		pending: map[string]chan Envelope{},
		queue:   make(chan Envelope, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Peer) start(h Handler) {
	p.handle = h
	go p.readLoop()
	go p.worker()
}

func (p *Peer) Role() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.role
}

func (p *Peer) PID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *Peer) setIdentity(role string, pid int) {
	p.mu.Lock()
	p.role, p.pid = role, pid
	p.mu.Unlock()
}

func (p *Peer) Done() <-chan struct{} { return p.ctx.Done() }

func (p *Peer) Close() error {
	var err error
	p.once.Do(func() {
		p.cancel()
		p.wmu.Lock()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		p.wmu.Unlock()
		err = p.conn.Close()
	})
	return err
}

func (p *Peer) write(env Envelope) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteJSON(env)
}

func (p *Peer) readLoop() {
	defer func() {
		_ = p.Close()
		p.mu.Lock()
		for id, ch := range p.pending {
			close(ch)
			delete(p.pending, id)
		}
		p.mu.Unlock()
	}()
	for {
		var env Envelope
		if err := p.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.Debug("bus read ended", slog.String("peer", p.Role()), slog.Any("err", err))
			}
			return
		}
		switch env.Kind {
		case KindResponse:
			p.mu.Lock()
			ch, ok := p.pending[env.ID]
			delete(p.pending, env.ID)
			p.mu.Unlock()
			if ok {
				ch <- env
			}
		case KindRequest, KindEvent:
			if env.Method == MethodInvoke {
				go p.serve(env)
				continue
			}
			select {
			case p.queue <- env:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *Peer) worker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case env := <-p.queue:
			p.serve(env)
		}
	}
}

func (p *Peer) serve(env Envelope) {
	res, err := p.handle(p.ctx, env)
	if env.Kind != KindRequest {
		if err != nil {
			p.log.Warn("bus event failed", slog.String("method", env.Method), slog.Any("err", err))
		}
		return
	}
	out := Envelope{ID: env.ID, Kind: KindResponse, Method: env.Method}
	if err != nil {
		out.Error = err.Error()
	} else if res != nil {
		raw, mErr := json.Marshal(res)
		if mErr != nil {
			out.Error = mErr.Error()
		} else {
			out.Payload = raw
		}
	}
	if err := p.write(out); err != nil {
		p.log.Debug("bus reply dropped", slog.String("method", env.Method), slog.Any("err", err))
	}
}

// Request sends method with payload and waits for the matching response.
// The response payload is decoded into out when out is non-nil.
func (p *Peer) Request(ctx context.Context, method string, payload any, out any) error {
	env := Envelope{ID: uuid.NewString(), Kind: KindRequest, Method: method}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", method, err)
		}
		env.Payload = raw
	}
	ch := make(chan Envelope, 1)
	p.mu.Lock()
	if p.ctx.Err() != nil {
		p.mu.Unlock()
		return ErrClosed
	}
	p.pending[env.ID] = ch
	p.mu.Unlock()

	if err := p.write(env); err != nil {
		p.mu.Lock()
		delete(p.pending, env.ID)
		p.mu.Unlock()
		if p.ctx.Err() != nil {
			return ErrClosed
		}
		return fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.pending, env.ID)
		p.mu.Unlock()
		return ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != "" {
			return &RemoteError{Method: method, Msg: resp.Error}
		}
		if err := resp.Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", method, err)
		}
		return nil
	}
}

// Notify sends an event; nothing comes back.
func (p *Peer) Notify(method string, payload any) error {
	env := Envelope{Kind: KindEvent, Method: method}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Payload = raw
	}
	return p.write(env)
}
