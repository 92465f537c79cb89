package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"quanthud/internal/bridge"
	"quanthud/internal/notify"
	"quanthud/internal/window"
	"quanthud/internal/winhost"
)

const dialTimeout = 5 * time.Second

func overlayCommand() *cli.Command {
	return &cli.Command{
		Name:   "overlay",
		Usage:  "run one overlay window for a running dock",
		Hidden: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Required: true},
			&cli.StringFlag{Name: "route", Value: "/"},
			&cli.StringFlag{Name: "title"},
			&cli.StringFlag{Name: "bus", Required: true},
			&cli.StringFlag{Name: "token", Required: true},
			&cli.BoolFlag{Name: "fullscreen"},
			&cli.BoolFlag{Name: "transparent"},
			&cli.BoolFlag{Name: "always-on-top"},
			&cli.BoolFlag{Name: "skip-taskbar"},
			&cli.BoolFlag{Name: "no-shadow"},
			&cli.BoolFlag{Name: "no-drop"},
		},
		Action: runOverlay,
	}
}

// specFromFlags is the inverse of winhost.OverlayArgs.
func specFromFlags(cmd *cli.Command) window.Spec {
	return window.Spec{
		Route:       cmd.String("route"),
		Title:       cmd.String("title"),
		Fullscreen:  cmd.Bool("fullscreen"),
		Transparent: cmd.Bool("transparent"),
		AlwaysOnTop: cmd.Bool("always-on-top"),
		SkipTaskbar: cmd.Bool("skip-taskbar"),
		NoShadow:    cmd.Bool("no-shadow"),
		NoDrop:      cmd.Bool("no-drop"),
	}
}

// runOverlay hosts one overlay window. Its commands run in the dock, and
// the process quits when the dock goes away.
func runOverlay(ctx context.Context, cmd *cli.Command) error {
	role, err := window.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}
	spec := specFromFlags(cmd)

	log, closeLog := initLogging(role)
	defer closeLog()
	if err := notify.EnablePerMonitorDPI(); err != nil {
		log.Warn("per-monitor dpi awareness", slog.Any("err", err))
	}

	self := winhost.NewSelf(spec, log)
	app := NewApp(role, spec.Route, nil, log)

	dctx, cancel := context.WithTimeout(ctx, dialTimeout)
	client, err := bridge.Dial(dctx, cmd.String("bus"), cmd.String("token"), winhost.ChildHandler(self, app.emit), log)
	cancel()
	if err != nil {
		return fmt.Errorf("overlay %s: %w", role, err)
	}
	defer client.Close()
	app.caller = client

	stopping := make(chan struct{})
	opts := appOptions(spec, app, log, 800, 600)
	opts.OnStartup = func(ctx context.Context) {
		app.startup(ctx)
		self.Attach(ctx)
		go func() {
			if err := client.Hello(ctx, string(role), os.Getpid()); err != nil {
				log.Error("hello", slog.Any("err", err))
				runtime.Quit(ctx)
				return
			}
			select {
			case <-client.Done():
				log.Info("dock went away")
				runtime.Quit(ctx)
			case <-stopping:
			}
		}()
	}
	opts.OnShutdown = func(context.Context) {
		close(stopping)
	}
	return wails.Run(opts)
}
