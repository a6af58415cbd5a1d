// Package logging provides the small leveled logger injected into every
// pipeline component. Components log through the Logger interface so tests
// can swap in a silent or recording implementation without touching global
// state.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger is the logging surface used by the pipeline stages.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	info *log.Logger
	warn *log.Logger
	err  *log.Logger
}

// New returns a Logger writing INFO/WARN lines to out and ERROR lines to
// errOut, each with date and time prefixes.
func New(out, errOut io.Writer) Logger {
	flags := log.Ldate | log.Ltime
	return &stdLogger{
		info: log.New(out, "INFO: ", flags),
		warn: log.New(out, "WARN: ", flags),
		err:  log.New(errOut, "ERROR: ", flags),
	}
}

// Default returns a Logger on stdout/stderr.
func Default() Logger { return New(os.Stdout, os.Stderr) }

func (l *stdLogger) Infof(format string, v ...any)  { l.info.Printf(format, v...) }
func (l *stdLogger) Warnf(format string, v ...any)  { l.warn.Printf(format, v...) }
func (l *stdLogger) Errorf(format string, v ...any) { l.err.Printf(format, v...) }

type nopLogger struct{}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
