// Package logging configures the process-wide slog logger. Each process
// (dock or overlay) writes its own file so rotations never race.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type InitOptions struct {
	App     string
	Version string
	Role    string
	// Dir overrides the default log directory, mostly for tests.
	Dir string
}

// Init builds the logger from cfg plus env overrides, installs it as the slog
// default and returns it with a close func for the sink.
func Init(cfg Config, opts InitOptions) (*slog.Logger, func() error, error) {
	if opts.App == "" {
		opts.App = "QuantHUD"
	}
	if opts.Role == "" {
		opts.Role = "main"
	}
	cfg, err := cfg.WithEnv().Normalize()
	if err != nil {
		return nil, nil, err
	}
	w, closeFn, err := resolveWriter(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	logger := New(w, cfg).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("role", opts.Role),
	)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// New builds a bare logger over w without touching the slog default.
func New(w io.Writer, cfg Config) *slog.Logger {
	ho := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

func parseLevel(v string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg Config, opts InitOptions) (io.Writer, func() error, error) {
	switch cfg.Sink {
	case SinkNone:
		return io.Discard, func() error { return nil }, nil
	case SinkStderr:
		return os.Stderr, func() error { return nil }, nil
	case SinkFile, "":
		path, err := logPath(cfg, opts)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", cfg.Sink)
	}
}

func logPath(cfg Config, opts InitOptions) (string, error) {
	if cfg.File != "" {
		return cfg.File, nil
	}
	dir := opts.Dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("logging: resolve config dir: %w", err)
		}
		dir = filepath.Join(base, opts.App, "logs")
	}
	return filepath.Join(dir, opts.Role+".log"), nil
}
