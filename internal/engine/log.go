package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger engines use when opened without WithLogger.
// By default nothing is logged. Pass nil to restore that.
//
// Levels:
//   - [slog.LevelDebug]: routine rejections (locked layer, discarded tap)
//   - [slog.LevelInfo]: lifecycle (open, close, save)
//   - [slog.LevelWarn]: references to unknown layers or text elements
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package default logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
