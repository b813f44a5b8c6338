// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package timing carries frame-submission timestamps from the submitting
// goroutine to the render notifier.
//
// A channel has exactly two halves. The Sender is owned by the code that
// submits frames and pushes one timestamp per submission; the Receiver is
// owned by the notifier and pops one timestamp per frame-ready callback.
// Both operations are non-blocking, so the renderer goroutine that runs the
// notifier is never stalled by the submitter.
//
//	tx, rx := timing.New()
//	tx.PushNow()                 // begin frame
//	...
//	if start, ok := rx.Pop(); ok // frame ready
//		latency := time.Since(start)
package timing

import (
	"time"

	"github.com/gogpu/wrench/internal/lockfree"
)

// Sender is the producer half of a timing channel.
// It must be used from a single goroutine.
type Sender struct {
	q   *lockfree.Queue[time.Time]
	now func() time.Time
}

// Receiver is the consumer half of a timing channel.
// It must be used from a single goroutine at a time.
type Receiver struct {
	q *lockfree.Queue[time.Time]
}

// New creates a timing channel and returns its two halves.
func New() (*Sender, *Receiver) {
	q := lockfree.New[time.Time]()
	return &Sender{q: q, now: time.Now}, &Receiver{q: q}
}

// Push records a submission timestamp. It never blocks and never fails.
func (s *Sender) Push(t time.Time) {
	s.q.Push(t)
}

// PushNow records the current time as a submission timestamp.
func (s *Sender) PushNow() {
	s.q.Push(s.now())
}

// Len returns the approximate number of pending records.
func (s *Sender) Len() int {
	return s.q.Len()
}

// Pop returns the oldest pending timestamp. ok is false when no record is
// pending, which means a ready notification arrived without a matching
// submission.
func (r *Receiver) Pop() (t time.Time, ok bool) {
	return r.q.Pop()
}

// Len returns the approximate number of pending records.
func (r *Receiver) Len() int {
	return r.q.Len()
}
