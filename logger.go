package vignet

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so slog never
// builds the attributes of a disabled call.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// current is the package logger. A nil value means silent.
var current atomic.Pointer[slog.Logger]

// SetLogger routes the diagnostics of Resample, ResamplePixel and
// ApertureFlux to l. Calls that pass WithLogger use their own logger
// instead. A nil l silences the package again, which is the default.
//
// Records emitted:
//   - [slog.LevelDebug]: resampling window and scratch frame size, grids
//     that do not overlap, apertures falling off the raster
//   - [slog.LevelWarn]: an oversampling factor replaced by 1
//
// SetLogger may be called while other goroutines are resampling.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the package logger set by SetLogger, or a logger that
// discards everything.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
