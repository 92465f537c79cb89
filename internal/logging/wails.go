package logging

import "log/slog"

// WailsLogger routes the web-view runtime's own log lines into slog. It
// satisfies github.com/wailsapp/wails/v2/pkg/logger.Logger.
type WailsLogger struct {
	L *slog.Logger
}

func (w WailsLogger) log() *slog.Logger {
	if w.L == nil {
		return slog.Default()
	}
	return w.L.With(slog.String("component", "wails"))
}

func (w WailsLogger) Print(message string)   { w.log().Info(message) }
func (w WailsLogger) Trace(message string)   { w.log().Debug(message) }
func (w WailsLogger) Debug(message string)   { w.log().Debug(message) }
func (w WailsLogger) Info(message string)    { w.log().Info(message) }
func (w WailsLogger) Warning(message string) { w.log().Warn(message) }
func (w WailsLogger) Error(message string)   { w.log().Error(message) }
func (w WailsLogger) Fatal(message string)   { w.log().Error(message, slog.Bool("fatal", true)) }
