// Package logx provides the minimal logging seam the pipeline uses to
// report warnings without depending on a specific logging backend
// (spec.md §7: "log unknown character once per session").
package logx

import (
	"log"
	"sync"
)

// Logger is the surface the rest of this module logs through. The
// reference corpus's own logging needs here are thin enough (a handful
// of warnings, no structured fields or levels) that wrapping the
// standard library's log.Logger is clearer than adopting a structured
// logging library for a single call site.
type Logger interface {
	Warnf(format string, args ...any)
}

// stdLogger adapts *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

// Default returns a Logger that writes to the standard library's
// default logger.
func Default() Logger {
	return &stdLogger{l: log.Default()}
}

func (s *stdLogger) Warnf(format string, args ...any) {
	s.l.Printf("WARN "+format, args...)
}

// NoOp discards every message. Useful for tests and library embedding
// where the host application owns logging.
type NoOp struct{}

// Warnf implements Logger.
func (NoOp) Warnf(string, ...any) {}

// UnknownCharWarner logs an unknown-character warning for a given rune
// at most once per session, per spec.md §7's "log once" requirement.
type UnknownCharWarner struct {
	log  Logger
	once sync.Map // rune -> *sync.Once
}

// NewUnknownCharWarner builds a warner backed by log.
func NewUnknownCharWarner(log Logger) *UnknownCharWarner {
	return &UnknownCharWarner{log: log}
}

// Warn logs that r was encountered outside the trained alphabet, the
// first time r is seen, and silently does nothing on later calls for the
// same r.
func (w *UnknownCharWarner) Warn(r rune) {
	onceAny, _ := w.once.LoadOrStore(r, &sync.Once{})
	onceAny.(*sync.Once).Do(func() {
		w.log.Warnf("encountered character %q outside the trained alphabet", r)
	})
}
