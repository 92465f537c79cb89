package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/urfave/cli/v3"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"quanthud/internal/bridge"
	"quanthud/internal/colorpick"
	"quanthud/internal/commands"
	"quanthud/internal/config"
	"quanthud/internal/geometry"
	"quanthud/internal/instance"
	"quanthud/internal/logging"
	"quanthud/internal/monitor"
	"quanthud/internal/notify"
	"quanthud/internal/policy"
	"quanthud/internal/services"
	"quanthud/internal/window"
	"quanthud/internal/winhost"
)

var errNotStarted = errors.New("window runtime not started")

// runDock is the first process: it owns the dock window, the command table
// and the bus every overlay process dials.
func runDock(_ context.Context, _ *cli.Command) error {
	cfg := policy.DefaultConfig()
	if err := notify.EnablePerMonitorDPI(); err != nil {
		slog.Warn("per-monitor dpi awareness", slog.Any("err", err))
	}

	gate, first, log, closeLog := startDock(
		func(l *slog.Logger) (*instance.Gate, bool) { return instance.Acquire(cfg.InstanceMutexName(), l) },
		func() (*slog.Logger, func()) { return initLogging(window.RoleMain) },
	)
	defer closeLog()
	if !first {
		log.Info("already running", slog.String("mutex", gate.Name()))
		return notify.New(cfg.Popup, log).ShowAndWait(cfg.AlreadyRunningMessage())
	}
	defer gate.Release()

	store, err := config.NewStore(cfg.AppName)
	if err != nil {
		log.Warn("config store unavailable", slog.Any("err", err))
	}

	disp := commands.NewDispatcher(log)
	srv := bridge.NewServer(bridge.ServerOptions{
		Dispatcher: disp,
		Logger:     log,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start window bus: %w", err)
	}
	defer srv.Close()

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	spec := window.Spec{
		Route:       "/",
		Title:       cfg.AppName,
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		NoShadow:    true,
	}
	self := winhost.NewSelf(spec, log)
	host := winhost.NewProcessHost(winhost.HostOptions{
		Self:         self,
		Server:       srv,
		Launch:       winhost.ExecLauncher(exe),
		HelloTimeout: cfg.HelloTimeout,
		Logger:       log,
	})
	defer host.Shutdown()

	app := NewApp(window.RoleMain, spec.Route, commands.Local{D: disp, Role: window.RoleMain}, log)
	svc := services.New(services.Options{
		Config:   cfg,
		Host:     host,
		Monitors: monitor.NewOSProvider(log),
		Screen:   colorpick.NewOSScreen(),
		Store:    store,
		Logger:   log,
		Tray:     goruntime.GOOS == "windows",
	}, services.Dependencies{
		EmitEvent: app.emit,
		Broadcast: srv.Broadcast,
		Quit: func() {
			if ctx, ok := app.runtimeCtx(); ok {
				runtime.Quit(ctx)
			}
		},
		PickFile: func(_ context.Context, defaultPath *string) (string, error) {
			ctx, ok := app.runtimeCtx()
			if !ok {
				return "", errNotStarted
			}
			return runtime.OpenFileDialog(ctx, dialogOptions(defaultPath))
		},
	})
	svc.Register(disp)
	log.Info("dock starting", slog.String("bus", srv.URL()), slog.Int("commands", len(disp.Names())))

	opts := appOptions(spec, app, log, geometry.TotalWidth, 800)
	opts.OnStartup = func(ctx context.Context) {
		app.startup(ctx)
		self.Attach(ctx)
		svc.Start(ctx)
	}
	opts.OnShutdown = func(context.Context) {
		svc.Stop()
	}
	return wails.Run(opts)
}

// startDock takes the single-instance gate before the role log is opened, so
// a second launch never writes to the running dock's log file. It logs to
// stderr until the gate is held.
func startDock(acquire func(*slog.Logger) (*instance.Gate, bool), initLog func() (*slog.Logger, func())) (*instance.Gate, bool, *slog.Logger, func()) {
	log := logging.New(os.Stderr, logging.DefaultConfig())
	gate, first := acquire(log)
	if !first {
		return gate, false, log, func() {}
	}
	log, closeLog := initLog()
	return gate, true, log, closeLog
}

// dialogOptions opens the picker on defaultPath, which may name a folder or
// a file.
func dialogOptions(defaultPath *string) runtime.OpenDialogOptions {
	opts := runtime.OpenDialogOptions{Title: "Select file"}
	if defaultPath == nil || *defaultPath == "" {
		return opts
	}
	p := *defaultPath
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		opts.DefaultDirectory = p
		return opts
	}
	opts.DefaultDirectory = filepath.Dir(p)
	opts.DefaultFilename = filepath.Base(p)
	return opts
}
