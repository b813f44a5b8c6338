// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package notify

// Signal is a message-passing Waker: Wake posts a token on a one-slot
// channel that the host loop selects on. Wakes that arrive while a token is
// pending coalesce into it.
type Signal struct {
	c chan struct{}
}

// NewSignal creates a Signal with no pending token.
func NewSignal() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Wake posts a token without blocking.
func (s *Signal) Wake() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

// C returns the channel that receives wake tokens.
func (s *Signal) C() <-chan struct{} {
	return s.c
}

// Pending reports whether a token is waiting, consuming it.
func (s *Signal) Pending() bool {
	select {
	case <-s.c:
		return true
	default:
		return false
	}
}

var _ Waker = (*Signal)(nil)
