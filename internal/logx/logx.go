// Package logx provides the level-filtered, tagged logger the orchestrator
// and its hooks use to report progress and failures. It wraps the standard
// log package rather than a structured-logging library: build output is
// read by a person watching a terminal, not parsed by a log aggregator.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is a tagged, level-filtered logger. A zero Logger is not usable;
// construct one with New.
type Logger struct {
	out   *log.Logger
	level Level
	tty   bool
}

// New returns a Logger writing to w, suppressing messages below level.
func New(w io.Writer, level Level) *Logger {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{
		out:   log.New(w, "", log.LstdFlags),
		level: level,
		tty:   tty,
	}
}

// Default returns a Logger writing to stderr at Info level, the orchestrator's
// default when the caller supplies none.
func Default() *Logger {
	return New(os.Stderr, Info)
}

// IsTerminal reports whether this logger's output stream is an interactive
// terminal, used to decide whether step headers get a bracketed kind
// label or a plain "KIND: detail" line suited to a log file or pipe.
func (l *Logger) IsTerminal() bool { return l.tty }

// Tagf logs a formatted message at level under tag, e.g.
// Tagf(logx.Info, "COMPILE", "%s -> %s", src, obj).
func (l *Logger) Tagf(level Level, tag, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("[%s] %s: %s", level, tag, msg)
}

// Step logs a one-line step header, bracketed by its kind label
// (e.g. "[COMPILE]") when writing to a terminal at Info or more verbose.
func (l *Logger) Step(kindLabel, detail string) {
	if l.level > Info {
		return
	}
	if l.tty {
		l.out.Printf("[%s] %s", kindLabel, detail)
		return
	}
	l.out.Printf("%s: %s", kindLabel, detail)
}
