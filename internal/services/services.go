package services

import (
	"context"
	"log/slog"
	"sync"

	"quanthud/internal/capture"
	"quanthud/internal/colorpick"
	"quanthud/internal/config"
	"quanthud/internal/events"
	"quanthud/internal/ipcapi"
	"quanthud/internal/monitor"
	"quanthud/internal/notify"
	"quanthud/internal/policy"
	"quanthud/internal/shots"
	"quanthud/internal/tray"
	"quanthud/internal/window"
)

// Dependencies are the runtime hooks the dock process supplies.
type Dependencies struct {
	// EmitEvent delivers to this process's own web view.
	EmitEvent func(name string, data any)
	// Broadcast delivers to every overlay process.
	Broadcast func(name string, data any)
	Quit      func()
	PickFile  func(ctx context.Context, defaultPath *string) (string, error)
}

type Options struct {
	Config   *policy.Config
	Host     window.Host
	Monitors monitor.Provider
	Screen   colorpick.Screen
	// Store may be nil when no config directory could be resolved.
	Store  *config.Store
	Logger *slog.Logger
	// Tray starts the notification-area icon and hotkey in Start.
	Tray bool
}

// Services owns every engine the command table calls into. It lives in the
// dock process only.
type Services struct {
	deps Dependencies
	cfg  *policy.Config
	log  *slog.Logger

	mon     *monitor.Geometry
	orch    *window.Orchestrator
	sampler *colorpick.Sampler
	shots   *shots.Index
	notes   *notify.Notifier
	store   *config.Store
	cap     *capture.Capturer

	ev       *events.Bus
	th       *tray.Manager
	withTray bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(opts Options, deps Dependencies) *Services {
	cfg := opts.Config
	if cfg == nil {
		cfg = policy.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	mon := monitor.New(opts.Monitors, log)
	orch := window.NewOrchestrator(window.Options{
		Host:     opts.Host,
		Monitors: mon,
		Delays:   cfg.Delays,
		Logger:   log,
	})
	hide := func() error { return orch.HideOverlay(window.RoleColorPicker) }

	return &Services{
		deps:     deps,
		cfg:      cfg,
		log:      log.With(slog.String("component", "services")),
		mon:      mon,
		orch:     orch,
		sampler:  colorpick.NewSampler(opts.Screen, hide, cfg.Delays.PickSettle, log),
		shots:    shots.NewIndex(cfg.Shots, log),
		notes:    notify.New(cfg.Popup, log),
		store:    opts.Store,
		cap:      capture.New(capture.VirtualDesktop(mon.List), log),
		ev:       events.NewBus(64),
		withTray: opts.Tray,
		stopCh:   make(chan struct{}),
	}
}

func (s *Services) Orchestrator() *window.Orchestrator { return s.orch }
func (s *Services) Monitors() *monitor.Geometry        { return s.mon }

func (s *Services) Start(ctx context.Context) {
	if s.withTray {
		s.th = tray.NewManager(s.cfg.AppName, tray.Dependencies{
			OnToggle: s.toggleMain,
			OnQuit: func() {
				s.Stop()
				if s.deps.Quit != nil {
					s.deps.Quit()
				}
			},
		}, s.log)
		s.th.Start()
	}

	go func() {
		if err := s.ev.Start(); err != nil {
			s.log.Info("os event sources unavailable", slog.Any("err", err))
		}
	}()

	go s.eventLoop()
}

func (s *Services) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.th != nil {
			s.th.Stop()
		}
		if s.ev != nil {
			s.ev.Stop()
		}
	})
}

func (s *Services) toggleMain() {
	if err := s.orch.ToggleMain(); err != nil {
		s.log.Warn("toggle dock", slog.Any("err", err))
		return
	}
	s.emit(ipcapi.EventTrayToggle, nil)
}

// emit reaches the dock's web view and every overlay.
func (s *Services) emit(name string, data any) {
	if s.deps.EmitEvent != nil {
		s.deps.EmitEvent(name, data)
	}
	if s.deps.Broadcast != nil {
		s.deps.Broadcast(name, data)
	}
}

func (s *Services) eventLoop() {
	for {
		select {
		case <-s.stopCh:
			return
		case ev := <-s.ev.Events():
			s.handleSystemEvent(ev)
		}
	}
}

func (s *Services) handleSystemEvent(ev events.SystemEvent) {
	switch ev.Type {
	case events.EventClipboardChanged:
		s.emit(ipcapi.EventClipboardChanged, ipcapi.ClipboardChangedEvent{AtUTC: ev.Timestamp})
	case events.EventDisplayChanged:
		infos, err := s.mon.Infos()
		if err != nil {
			s.log.Warn("display changed", slog.Any("err", err))
			return
		}
		s.emit(ipcapi.EventDisplayChanged, ipcapi.DisplayChangedEvent{Monitors: infos, AtUTC: ev.Timestamp})
	default:
	}
}
