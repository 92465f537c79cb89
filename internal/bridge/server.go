package bridge

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const Path = "/bus"

// Dispatcher runs a command on behalf of the window with the given role.
type Dispatcher interface {
	Invoke(ctx context.Context, caller string, command string, args json.RawMessage) (any, error)
}

type ServerOptions struct {
	Dispatcher Dispatcher
	Logger     *slog.Logger
	// OnGone runs after a registered peer disconnects.
	OnGone func(role string)
}

// Server is the dock end of the bus. Overlay processes dial it and
// identify themselves with a hello.
type Server struct {
	token    string
	disp     Dispatcher
	onGone   func(string)
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	peers   map[string]*Peer
	conns   map[*Peer]struct{}
	changed chan struct{}

	ln  net.Listener
	srv *http.Server
}

func NewServer(opts ServerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		token:  uuid.NewString(),
		disp:   opts.Dispatcher,
		onGone: opts.OnGone,
		log:    log.With(slog.String("component", "bus")),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			// Only loopback clients holding the token get this far.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers:   map[string]*Peer{},
		conns:   map[*Peer]struct{}{},
		changed: make(chan struct{}),
	}
}

func (s *Server) Token() string { return s.token }

// Start listens on a random loopback port.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("bus listen: %w", err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("bus serve", slog.Any("err", err))
		}
	}()
	s.log.Info("bus listening", slog.String("addr", ln.Addr().String()))
	return nil
}

func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "ws://" + s.ln.Addr().String() + Path
}

func (s *Server) Close() error {
	s.mu.Lock()
	peers := make([]*Peer, 0, len(s.conns))
	for p := range s.conns {
		peers = append(peers, p)
	}
	s.mu.Unlock()
	for _, p := range peers {
		_ = p.Close()
	}
	if s.srv != nil {
		return s.srv.Close()
	}
	return nil
}

func (s *Server) authorized(r *http.Request) bool {
	got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != Path {
		http.NotFound(w, r)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("bus upgrade", slog.Any("err", err))
		return
	}
	p := newPeer(conn, s.log)
	s.mu.Lock()
	s.conns[p] = struct{}{}
	s.mu.Unlock()
	p.start(func(ctx context.Context, env Envelope) (any, error) {
		return s.dispatch(ctx, p, env)
	})
	go s.reap(p)
}

func (s *Server) reap(p *Peer) {
	<-p.Done()
	role := p.Role()
	s.mu.Lock()
	delete(s.conns, p)
	gone := role != "" && s.peers[role] == p
	if gone {
		delete(s.peers, role)
	}
	s.mu.Unlock()
	if gone {
		s.log.Info("window left", slog.String("peer", role))
		if s.onGone != nil {
			s.onGone(role)
		}
	}
}

func (s *Server) dispatch(ctx context.Context, p *Peer, env Envelope) (any, error) {
	switch env.Method {
	case MethodHello:
		var h Hello
		if err := env.Decode(&h); err != nil || h.Role == "" {
			return nil, fmt.Errorf("bad hello")
		}
		s.register(p, h)
		return nil, nil
	case MethodInvoke:
		role := p.Role()
		if role == "" {
			return nil, fmt.Errorf("invoke before hello")
		}
		var in Invoke
		if err := env.Decode(&in); err != nil {
			return nil, fmt.Errorf("bad invoke: %w", err)
		}
		if s.disp == nil {
			return nil, fmt.Errorf("no dispatcher")
		}
		return s.disp.Invoke(ctx, role, in.Command, in.Args)
	default:
		return nil, fmt.Errorf("unknown method %q", env.Method)
	}
}

func (s *Server) register(p *Peer, h Hello) {
	p.setIdentity(h.Role, h.PID)
	s.mu.Lock()
	old := s.peers[h.Role]
	s.peers[h.Role] = p
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
	if old != nil && old != p {
		_ = old.Close()
	}
	s.log.Info("window joined", slog.String("peer", h.Role), slog.Int("pid", h.PID))
}

// Peer returns the live connection for role.
func (s *Server) Peer(role string) (*Peer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.peers[role]
	return p, ok
}

// WaitPeer blocks until role has said hello. A non-zero pid must match the
// process that said it, so a window that is still shutting down is not
// mistaken for its replacement.
func (s *Server) WaitPeer(ctx context.Context, role string, pid int) (*Peer, error) {
	for {
		s.mu.Lock()
		p, ok := s.peers[role]
		ch := s.changed
		s.mu.Unlock()
		if ok && (pid == 0 || p.PID() == pid) {
			return p, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("window %q did not start: %w", role, ctx.Err())
		case <-ch:
		}
	}
}

// Broadcast sends a UI event to every registered overlay process.
func (s *Server) Broadcast(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.log.Warn("broadcast encode", slog.String("event", name), slog.Any("err", err))
		return
	}
	s.mu.Lock()
	peers := make([]*Peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()
	for _, p := range peers {
		if err := p.Notify(MethodEvent, Event{Name: name, Data: raw}); err != nil {
			s.log.Debug("broadcast dropped", slog.String("peer", p.Role()), slog.Any("err", err))
		}
	}
}
