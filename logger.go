package ggchart

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggchart and its backends.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by ggchart:
//   - [slog.LevelDebug]: "ggchart: domain updated" (name, domain, source) on
//     every Update and gesture, "ggchart: linked update" when a Group copies
//     an index window, "ggchart: frame rendered" with the number of passes a
//     coalesced render needed, "ggchart: config loaded", and engine creation
//     inside the raster and term backends
//   - [slog.LevelInfo]: "ggchart: engine created" from Composer.Create
//   - [slog.LevelWarn]: "ggchart: render failed" when drawing or presenting a
//     frame fails, and failed raster draw operations
//
// Records carry the composer name, so several linked charts can share one
// handler.
//
// Example:
//
//	ggchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backend packages call this so they
// share the configuration without importing each other.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
