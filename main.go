package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"quanthud/internal/logging"
	"quanthud/internal/policy"
	"quanthud/internal/window"
)

var version = "dev"

func main() {
	if err := rootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("quanthud exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:     "quanthud",
		Usage:    "edge-docked heads-up display",
		Version:  version,
		Action:   runDock,
		Commands: []*cli.Command{overlayCommand()},
	}
}

// initLogging falls back to stderr when the log file cannot be opened.
func initLogging(role window.Role) (*slog.Logger, func()) {
	log, closeFn, err := logging.Init(logging.DefaultConfig(), logging.InitOptions{
		App:     policy.AppName,
		Version: version,
		Role:    string(role),
	})
	if err != nil {
		log = logging.New(os.Stderr, logging.DefaultConfig())
		log.Warn("log file unavailable", slog.Any("err", err))
		return log, func() {}
	}
	return log, func() { _ = closeFn() }
}

// appOptions is the Wails configuration shared by the dock and overlays.
func appOptions(spec window.Spec, app *App, log *slog.Logger, width, height int) *options.App {
	bg := &options.RGBA{R: 0, G: 0, B: 0, A: 255}
	if spec.Transparent {
		bg = &options.RGBA{R: 0, G: 0, B: 0, A: 0}
	}
	opts := &options.App{
		Title:            spec.Title,
		Width:            width,
		Height:           height,
		Frameless:        true,
		StartHidden:      true,
		AlwaysOnTop:      spec.AlwaysOnTop,
		BackgroundColour: bg,
		AssetServer:      &assetserver.Options{Assets: assets},
		OnDomReady:       app.domReady,
		Bind:             []interface{}{app},
		Logger:           logging.WailsLogger{L: log},
		Windows: &windows.Options{
			WebviewIsTransparent:              spec.Transparent,
			WindowIsTranslucent:               false,
			DisableFramelessWindowDecorations: spec.NoShadow,
		},
		DragAndDrop: &options.DragAndDrop{
			EnableFileDrop:     false,
			DisableWebViewDrop: spec.NoDrop,
		},
	}
	if spec.Fullscreen {
		opts.WindowStartState = options.Fullscreen
	}
	return opts
}
