// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/timing"
)

// fakeClock returns a fixed time that tests advance by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingWaker struct{ n atomic.Int64 }

func (w *countingWaker) Wake() { w.n.Add(1) }

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := wrench.Logger()
	t.Cleanup(func() { wrench.SetLogger(orig) })
	var buf bytes.Buffer
	wrench.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestSingleFrameLatency(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	waker := &countingWaker{}
	tx, rx := timing.New()
	n := New(rx, WithClock(clock.Now), WithWaker(waker))

	// Submit epoch 0, the renderer reports it 16ms later.
	tx.Push(clock.Now())
	clock.Advance(16 * time.Millisecond)
	n.NewFrameReady()

	s := n.Stats()
	if s.Frames != 1 {
		t.Errorf("Frames = %d, want 1", s.Frames)
	}
	if s.Last != 16*time.Millisecond {
		t.Errorf("Last = %v, want 16ms", s.Last)
	}
	if s.Desyncs != 0 {
		t.Errorf("Desyncs = %d, want 0", s.Desyncs)
	}
	if got := waker.n.Load(); got != 1 {
		t.Errorf("woken %d times, want exactly 1", got)
	}
}

func TestLatencyIsIdempotentUnderFixedClock(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tx, rx := timing.New()
	n := New(rx, WithClock(clock.Now))

	for _, d := range []time.Duration{time.Millisecond, 5 * time.Millisecond, 3 * time.Millisecond} {
		tx.Push(clock.Now())
		clock.Advance(d)
		n.NewFrameReady()
		if got := n.Stats().Last; got != d {
			t.Errorf("latency = %v, want %v", got, d)
		}
	}
	s := n.Stats()
	if s.Min != time.Millisecond || s.Max != 5*time.Millisecond {
		t.Errorf("Min/Max = %v/%v, want 1ms/5ms", s.Min, s.Max)
	}
	if s.Mean != 3*time.Millisecond {
		t.Errorf("Mean = %v, want 3ms", s.Mean)
	}
}

func TestFramesPairInSubmissionOrder(t *testing.T) {
	const frames = 50
	clock := &fakeClock{now: time.Unix(0, 0)}
	tx, rx := timing.New()
	n := New(rx, WithClock(clock.Now))

	// Submission i happens at t=i ms; every frame is reported at t=100ms,
	// so FIFO pairing gives latency (100-i) ms.
	for i := range frames {
		tx.Push(time.Unix(0, 0).Add(time.Duration(i) * time.Millisecond))
	}
	clock.Advance(100 * time.Millisecond)
	for i := range frames {
		n.NewFrameReady()
		want := time.Duration(100-i) * time.Millisecond
		if got := n.Stats().Last; got != want {
			t.Fatalf("frame %d latency = %v, want %v", i, got, want)
		}
	}
	s := n.Stats()
	if s.Frames != frames || s.Desyncs != 0 {
		t.Errorf("Frames=%d Desyncs=%d, want %d and 0", s.Frames, s.Desyncs, frames)
	}
	if rx.Len() != 0 {
		t.Errorf("%d timing records left over", rx.Len())
	}
}

func TestDesyncWarnsAndStillWakes(t *testing.T) {
	buf := captureLog(t)
	waker := &countingWaker{}
	_, rx := timing.New()
	n := New(rx, WithWaker(waker))

	n.NewFrameReady()

	s := n.Stats()
	if s.Desyncs != 1 || s.Frames != 0 {
		t.Errorf("Desyncs=%d Frames=%d, want 1 and 0", s.Desyncs, s.Frames)
	}
	if waker.n.Load() != 1 {
		t.Errorf("woken %d times, want 1", waker.n.Load())
	}
	if !strings.Contains(buf.String(), "no frame was ready") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("log = %q, want a warning about the missing frame", buf.String())
	}
}

func TestScrollFrameDoesNotTouchTiming(t *testing.T) {
	waker := &countingWaker{}
	tx, rx := timing.New()
	n := New(rx, WithWaker(waker))
	tx.Push(time.Now())

	n.NewScrollFrameReady(true)
	n.NewScrollFrameReady(false)

	if rx.Len() != 1 {
		t.Errorf("scroll frames consumed timing records: %d left, want 1", rx.Len())
	}
	s := n.Stats()
	if s.ScrollFrames != 2 || s.Frames != 0 {
		t.Errorf("ScrollFrames=%d Frames=%d, want 2 and 0", s.ScrollFrames, s.Frames)
	}
	if waker.n.Load() != 2 {
		t.Errorf("woken %d times, want 2", waker.n.Load())
	}
}

func TestPipelineSizeChangedIsNoop(t *testing.T) {
	waker := &countingWaker{}
	tx, rx := timing.New()
	n := New(rx, WithWaker(waker))
	tx.Push(time.Now())

	n.PipelineSizeChanged(displaylist.PipelineID{}, &displaylist.Size{Width: 10, Height: 10})
	n.PipelineSizeChanged(displaylist.PipelineID{}, nil)

	if rx.Len() != 1 || waker.n.Load() != 0 || n.Stats() != (Snapshot{}) {
		t.Error("PipelineSizeChanged had side effects")
	}
}

func TestVerboseReport(t *testing.T) {
	buf := captureLog(t)
	clock := &fakeClock{now: time.Unix(0, 0)}
	tx, rx := timing.New()
	n := New(rx, WithClock(clock.Now), WithVerbose(true), WithReportInterval(3))

	for range 7 {
		tx.Push(clock.Now())
		clock.Advance(time.Millisecond)
		n.NewFrameReady()
	}
	if got := strings.Count(buf.String(), "frame latency"); got != 2 {
		t.Errorf("verbose reports = %d, want 2 (frames 3 and 6)", got)
	}
}

func TestQuietByDefault(t *testing.T) {
	buf := captureLog(t)
	tx, rx := timing.New()
	n := New(rx, WithReportInterval(1))
	tx.PushNow()
	n.NewFrameReady()
	if strings.Contains(buf.String(), "frame latency") {
		t.Error("latency reported without verbose")
	}
}

func TestCallbacksFromRendererGoroutine(t *testing.T) {
	const frames = 200
	sig := NewSignal()
	tx, rx := timing.New()
	n := New(rx, WithWaker(sig))

	ready := make(chan struct{}, frames)
	done := make(chan struct{})
	go func() { // renderer goroutine
		defer close(done)
		for range ready {
			n.NewFrameReady()
		}
	}()

	for range frames {
		tx.PushNow()
		ready <- struct{}{}
	}
	close(ready)
	<-done

	s := n.Stats()
	if s.Frames != frames || s.Desyncs != 0 {
		t.Errorf("Frames=%d Desyncs=%d, want %d and 0", s.Frames, s.Desyncs, frames)
	}
	select {
	case <-sig.C():
	default:
		t.Error("signal has no pending wake")
	}
}

func TestSignalCoalesces(t *testing.T) {
	s := NewSignal()
	if s.Pending() {
		t.Fatal("new signal has a pending token")
	}
	s.Wake()
	s.Wake()
	s.Wake()
	if !s.Pending() {
		t.Fatal("Pending() = false after Wake")
	}
	if s.Pending() {
		t.Error("wakes did not coalesce into one token")
	}
}

func TestWakerFunc(t *testing.T) {
	called := 0
	var w Waker = WakerFunc(func() { called++ })
	w.Wake()
	if called != 1 {
		t.Errorf("WakerFunc called %d times, want 1", called)
	}
}

func BenchmarkNewFrameReady(b *testing.B) {
	tx, rx := timing.New()
	n := New(rx, WithWaker(NewSignal()))
	b.ReportAllocs()
	for b.Loop() {
		tx.PushNow()
		n.NewFrameReady()
	}
}
