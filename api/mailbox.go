// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package api

import (
	"sync/atomic"

	"github.com/gogpu/wrench/internal/lockfree"
)

// Mailbox carries messages from API clients to the renderer backend.
//
// Post never blocks: messages go into a lock-free queue and a wake token is
// offered on a one-slot channel. The backend drains the queue whenever the
// wake channel fires.
type Mailbox struct {
	q      *lockfree.Queue[Msg]
	wake   chan struct{}
	closed atomic.Bool
}

// NewMailbox creates an open mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		q:    lockfree.New[Msg](),
		wake: make(chan struct{}, 1),
	}
}

// Post enqueues msg. It reports false if the mailbox is closed.
// Post is safe for concurrent use.
func (m *Mailbox) Post(msg Msg) bool {
	if m.closed.Load() {
		return false
	}
	m.q.Push(msg)
	m.signal()
	return true
}

// Recv dequeues the oldest message. Only the backend goroutine may call it.
func (m *Mailbox) Recv() (Msg, bool) {
	return m.q.Pop()
}

// Wake returns the channel that fires after messages are posted or the
// mailbox is closed.
func (m *Mailbox) Wake() <-chan struct{} {
	return m.wake
}

// Pending returns the approximate number of queued messages.
func (m *Mailbox) Pending() int {
	return m.q.Len()
}

// Close stops accepting messages. Queued messages stay receivable.
func (m *Mailbox) Close() {
	if m.closed.CompareAndSwap(false, true) {
		m.signal()
	}
}

// Closed reports whether Close was called.
func (m *Mailbox) Closed() bool {
	return m.closed.Load()
}

func (m *Mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
