package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "QUANTHUD_LOG_LEVEL"
	EnvLogFormat     = "QUANTHUD_LOG_FORMAT"
	EnvLogSink       = "QUANTHUD_LOG_SINK"
	EnvLogFile       = "QUANTHUD_LOG_FILE"
	EnvLogMaxSizeMB  = "QUANTHUD_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "QUANTHUD_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "QUANTHUD_LOG_MAX_AGE_DAYS"
)

type Config struct {
	Level  string
	Format Format
	Sink   Sink
	File   string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig logs to a rotating file: a windows-subsystem binary has no
// console to write to.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     FormatText,
		Sink:       SinkFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
	}
}

func (c Config) WithEnv() Config {
	return c.withLookup(os.Getenv)
}

func (c Config) withLookup(getenv func(string) string) Config {
	applyString := func(dst *string, env string) {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			*dst = v
		}
	}
	applyInt := func(dst *int, env string) {
		raw := strings.TrimSpace(getenv(env))
		if raw == "" {
			return
		}
		if n, err := strconv.Atoi(raw); err == nil {
			*dst = n
		}
	}

	format, sink := string(c.Format), string(c.Sink)
	applyString(&c.Level, EnvLogLevel)
	applyString(&format, EnvLogFormat)
	applyString(&sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	applyInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	c.Format, c.Sink = Format(format), Sink(sink)
	return c
}

func (c Config) Normalize() (Config, error) {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = Format(strings.ToLower(strings.TrimSpace(string(c.Format))))
	c.Sink = Sink(strings.ToLower(strings.TrimSpace(string(c.Sink))))
	c.File = strings.TrimSpace(c.File)
	c.MaxSizeMB = max(c.MaxSizeMB, 0)
	c.MaxBackups = max(c.MaxBackups, 0)
	c.MaxAgeDays = max(c.MaxAgeDays, 0)
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: invalid %q", c.Level)
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("logging.format: invalid %q", c.Format)
	}
	switch c.Sink {
	case "", SinkStderr, SinkFile, SinkNone:
	default:
		return fmt.Errorf("logging.sink: invalid %q", c.Sink)
	}
	return nil
}
