// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lockfree provides a typed, non-blocking FIFO queue used to hand
// values across goroutine boundaries without locks.
//
// The queue itself is github.com/golang-design/lockfree's Michael-Scott
// queue; this package adds the element type and an ok result so callers
// never see the untyped nil that marks an empty queue.
package lockfree

import (
	"github.com/golang-design/lockfree"
)

// box wraps every value so that a nil T (for example a nil interface)
// cannot be mistaken for the empty-queue sentinel.
type box[T any] struct{ v T }

// Queue is an unbounded FIFO. Push and Pop may be called from any number of
// goroutines and neither ever blocks.
//
// The zero value is not usable; create queues with New.
type Queue[T any] struct {
	q *lockfree.Queue
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{q: lockfree.NewQueue()}
}

// Push appends v to the queue. It never blocks and never fails.
func (q *Queue[T]) Push(v T) {
	q.q.Enqueue(box[T]{v: v})
}

// Pop removes and returns the oldest value. The boolean is false when no
// value is available.
func (q *Queue[T]) Pop() (T, bool) {
	b, ok := q.q.Dequeue().(box[T])
	if !ok {
		var zero T
		return zero, false
	}
	return b.v, true
}

// Len returns the number of queued values. Under concurrent use it is a
// snapshot and may be stale by the time it is read.
func (q *Queue[T]) Len() int {
	return int(q.q.Length())
}
