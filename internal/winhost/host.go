package winhost

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"quanthud/internal/bridge"
	"quanthud/internal/window"
)

// Process is a started overlay process.
type Process interface {
	PID() int
	Kill() error
	Wait() error
}

// Launcher starts the binary with args.
type Launcher func(args []string) (Process, error)

type execProcess struct{ cmd *exec.Cmd }

func (p execProcess) PID() int    { return p.cmd.Process.Pid }
func (p execProcess) Kill() error { return p.cmd.Process.Kill() }
func (p execProcess) Wait() error { return p.cmd.Wait() }

func ExecLauncher(exe string) Launcher {
	return func(args []string) (Process, error) {
		cmd := exec.Command(exe, args...)
		hideConsole(cmd)
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return execProcess{cmd: cmd}, nil
	}
}

// OverlayArgs is the command line an overlay process is started with.
func OverlayArgs(role window.Role, spec window.Spec, busURL, token string) []string {
	args := []string{
		"overlay",
		"--role", string(role),
		"--route", spec.Route,
		"--title", spec.Title,
		"--bus", busURL,
		"--token", token,
	}
	flags := []struct {
		on   bool
		name string
	}{
		{spec.Fullscreen, "--fullscreen"},
		{spec.Transparent, "--transparent"},
		{spec.AlwaysOnTop, "--always-on-top"},
		{spec.SkipTaskbar, "--skip-taskbar"},
		{spec.NoShadow, "--no-shadow"},
		{spec.NoDrop, "--no-drop"},
	}
	for _, f := range flags {
		if f.on {
			args = append(args, f.name)
		}
	}
	return args
}

type HostOptions struct {
	Self         window.Window
	Server       *bridge.Server
	Launch       Launcher
	HelloTimeout time.Duration
	CallTimeout  time.Duration
	Logger       *slog.Logger
}

// ProcessHost serves the dock process: main is its own window, every other
// role is an overlay process.
type ProcessHost struct {
	self         window.Window
	srv          *bridge.Server
	launch       Launcher
	helloTimeout time.Duration
	callTimeout  time.Duration
	log          *slog.Logger

	mu    sync.Mutex
	procs map[window.Role]Process
}

func NewProcessHost(opts HostOptions) *ProcessHost {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.HelloTimeout <= 0 {
		opts.HelloTimeout = 10 * time.Second
	}
	return &ProcessHost{
		self:         opts.Self,
		srv:          opts.Server,
		launch:       opts.Launch,
		helloTimeout: opts.HelloTimeout,
		callTimeout:  opts.CallTimeout,
		log:          log.With(slog.String("component", "winhost")),
		procs:        map[window.Role]Process{},
	}
}

func (h *ProcessHost) Get(role window.Role) (window.Window, bool) {
	role = role.Canonical()
	if role == window.RoleMain {
		return h.self, h.self != nil
	}
	p, ok := h.srv.Peer(string(role))
	if !ok {
		return nil, false
	}
	return NewRemote(role, p, h.callTimeout), true
}

// Create starts an overlay process for role and returns once it has said
// hello. The process is killed if it does not.
func (h *ProcessHost) Create(ctx context.Context, role window.Role, spec window.Spec) (window.Window, error) {
	role = role.Canonical()
	if role == window.RoleMain {
		return h.self, nil
	}
	if h.launch == nil {
		return nil, fmt.Errorf("no launcher for %q", role)
	}
	p, err := h.launch(OverlayArgs(role, spec, h.srv.URL(), h.srv.Token()))
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", role, err)
	}
	h.log.Info("overlay started", slog.String("role", string(role)), slog.Int("pid", p.PID()))

	h.mu.Lock()
	h.procs[role] = p
	h.mu.Unlock()
	go h.reap(role, p)

	wctx, cancel := context.WithTimeout(ctx, h.helloTimeout)
	defer cancel()
	peer, err := h.srv.WaitPeer(wctx, string(role), p.PID())
	if err != nil {
		_ = p.Kill()
		return nil, err
	}
	return NewRemote(role, peer, h.callTimeout), nil
}

func (h *ProcessHost) reap(role window.Role, p Process) {
	err := p.Wait()
	h.mu.Lock()
	if h.procs[role] == p {
		delete(h.procs, role)
	}
	h.mu.Unlock()
	h.log.Debug("overlay exited", slog.String("role", string(role)), slog.Int("pid", p.PID()), slog.Any("err", err))
}

// Shutdown kills overlay processes that are still running.
func (h *ProcessHost) Shutdown() {
	h.mu.Lock()
	procs := make([]Process, 0, len(h.procs))
	for _, p := range h.procs {
		procs = append(procs, p)
	}
	h.mu.Unlock()
	for _, p := range procs {
		_ = p.Kill()
	}
}
