// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wrench

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that drops every record.
// Its Enabled method reports false, so slog never builds the record and a
// silent wrench pays nothing for the log calls on the frame path.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger returns the logger installed when none is configured.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger. The renderer backend, the notifier and
// the API clients log from their own goroutines, so the pointer is swapped
// and read atomically rather than guarded by a mutex.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger shared by wrench and all its sub-packages
// (api, renderer, notify, extimage, recording, harness). By default nothing
// is logged; the commands install a charmbracelet/log handler through
// internal/cli.
//
// SetLogger is safe for concurrent use and takes effect for the next log
// call on every goroutine, including the renderer backend. Pass nil to
// restore the silent default.
//
// Log levels used by wrench:
//   - [slog.LevelDebug]: backend message tracing, submitted display lists,
//     scroll frames
//   - [slog.LevelInfo]: lifecycle (renderer created or closed, window opened,
//     GL version) and the periodic latency report in verbose mode
//   - [slog.LevelWarn]: frame-ready without a timing record, external image
//     lifecycle violations, display items naming unknown resources
//   - [slog.LevelError]: per-frame composite or recording failures
//
// Example:
//
//	// Text output to stderr, debug included:
//	wrench.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
//	// The handler the commands use:
//	wrench.SetLogger(slog.New(log.NewWithOptions(os.Stderr, log.Options{})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
//
// Sub-packages call Logger at each log site instead of caching the result,
// so a later SetLogger reaches code that is already running. Logger is safe
// for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
