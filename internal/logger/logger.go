package logger

import (
	"github.com/fatih/color" // Colored console output for the different log levels
)

// Logger is the small leveled logging surface handed to every component.
// Components receive it explicitly at construction time instead of reaching
// for package-level print functions, so tests can pass a silent logger and
// the color configuration lives in exactly one place.
type Logger interface {
	Info(format string, a ...any)
	Warn(format string, a ...any)
	Error(format string, a ...any)
	Debug(format string, a ...any)
}

// colorLogger prints each level through a fatih/color PrintfFunc.
type colorLogger struct {
	info  func(format string, a ...any)
	warn  func(format string, a ...any)
	err   func(format string, a ...any)
	debug func(format string, a ...any)
}

// New builds the standard console logger.
// Parameters:
// - enableDebug: boolean flag to turn debug messages on or off.
// Info is green (normal progress), Warn is bright magenta (caution without
// alarm), Error is red (immediate attention), Debug is cyan when enabled.
func New(enableDebug bool) Logger {
	l := &colorLogger{
		info: color.New(color.FgGreen).PrintfFunc(),
		warn: color.New(color.FgHiMagenta).PrintfFunc(),
		err:  color.New(color.FgRed).PrintfFunc(),
	}
	if enableDebug {
		l.debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		// No-op function so disabled debug logging carries no runtime cost.
		l.debug = func(format string, a ...any) {}
	}
	return l
}

func (l *colorLogger) Info(format string, a ...any)  { l.info(format, a...) }
func (l *colorLogger) Warn(format string, a ...any)  { l.warn(format, a...) }
func (l *colorLogger) Error(format string, a ...any) { l.err(format, a...) }
func (l *colorLogger) Debug(format string, a ...any) { l.debug(format, a...) }

// Discard returns a logger that drops everything. Used by tests that only
// care about behavior, not output.
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Info(format string, a ...any)  {}
func (discard) Warn(format string, a ...any)  {}
func (discard) Error(format string, a ...any) {}
func (discard) Debug(format string, a ...any) {}
