package csri

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by csri, the renderer backends and the
// provider adapter. Nothing is logged by default, nil restores that.
//
// Levels used:
//   - [slog.LevelDebug]: renderer selection, fallbacks, rejected formats
//   - [slog.LevelWarn]: renderer failures that leave a frame untouched
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger, safe for concurrent use
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
