// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package notify implements the render notifier: the renderer's callback
// object that pairs each ready frame with its submission timestamp and
// wakes the host event loop.
//
// The callbacks run on the renderer's goroutine. They only pop the timing
// channel, compute a latency and post a non-blocking wake, so the renderer
// is never held up by the host.
package notify

import (
	"time"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/timing"
)

// DefaultReportInterval is the number of frames between verbose latency
// reports.
const DefaultReportInterval = 600

// Waker interrupts the host's event loop. Wake must not block and must be
// safe to call from any goroutine.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// Option configures a Notifier.
type Option func(*Notifier)

// WithWaker sets the waker called after every ready frame.
func WithWaker(w Waker) Option {
	return func(n *Notifier) { n.waker = w }
}

// WithClock replaces time.Now for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithVerbose enables periodic latency logging.
func WithVerbose(v bool) Option {
	return func(n *Notifier) { n.verbose = v }
}

// WithReportInterval sets the verbose report period in frames.
// Values below 1 are ignored.
func WithReportInterval(frames int) Option {
	return func(n *Notifier) {
		if frames > 0 {
			n.interval = uint64(frames)
		}
	}
}

// Notifier is the render notifier. It is the single consumer of a timing
// channel: its callbacks must not run concurrently with each other, which
// the renderer guarantees by calling them from its backend goroutine.
type Notifier struct {
	rx       *timing.Receiver
	waker    Waker
	now      func() time.Time
	verbose  bool
	interval uint64
	stats    *Stats
}

// New creates a notifier consuming rx.
func New(rx *timing.Receiver, opts ...Option) *Notifier {
	n := &Notifier{
		rx:       rx,
		now:      time.Now,
		interval: DefaultReportInterval,
		stats:    newStats(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewFrameReady is called once per frame the renderer finished building.
// It pops the frame's timing record, records the latency, and wakes the
// host. A missing record is a protocol desync: it is reported and counted,
// and the host is still woken.
func (n *Notifier) NewFrameReady() {
	start, ok := n.rx.Pop()
	if ok {
		latency := n.now().Sub(start)
		frames := n.stats.observe(latency)
		if n.verbose && frames%n.interval == 0 {
			wrench.Logger().Info("frame latency",
				"latency", latency, "frames", frames, "mean", n.stats.Snapshot().Mean)
		}
	} else {
		n.stats.desyncs.Add(1)
		wrench.Logger().Warn("notified of frame, but no frame was ready?")
	}
	n.wake()
}

// NewScrollFrameReady wakes the host. compositeNeeded tells whether the
// frame needs a full composite; it does not affect timing.
func (n *Notifier) NewScrollFrameReady(compositeNeeded bool) {
	n.stats.scrolls.Add(1)
	wrench.Logger().Debug("scroll frame ready", "composite", compositeNeeded)
	n.wake()
}

// PipelineSizeChanged is part of the renderer's notifier contract and does
// nothing here.
func (n *Notifier) PipelineSizeChanged(displaylist.PipelineID, *displaylist.Size) {}

// Stats returns a snapshot of the notifier's counters.
func (n *Notifier) Stats() Snapshot {
	return n.stats.Snapshot()
}

func (n *Notifier) wake() {
	n.stats.wakes.Add(1)
	if n.waker != nil {
		n.waker.Wake()
	}
}
