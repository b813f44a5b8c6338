// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cli holds the setup shared by the harness commands.
package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/gogpu/wrench"
)

// NewLogger returns a terminal logger. Verbose lowers the level to debug.
func NewLogger(w io.Writer, prefix string, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Install routes wrench and gg logging through l.
func Install(l *log.Logger) {
	sl := slog.New(l)
	wrench.SetLogger(sl)
	gg.SetLogger(sl)
}
