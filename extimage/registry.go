// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package extimage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/wrench"
)

// Lifecycle errors.
var (
	ErrUnknownImage      = errors.New("extimage: unknown image")
	ErrAlreadyRegistered = errors.New("extimage: image already registered")
	ErrNotLocked         = errors.New("extimage: image not locked")
	ErrStillLocked       = errors.New("extimage: image still locked")
	ErrReleased          = errors.New("extimage: image released")
	ErrInvalidSource     = errors.New("extimage: invalid source")
)

// State is the lifecycle state of a registered handle.
type State uint8

const (
	StateAvailable State = iota
	StateLocked
	StateUnlocked
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Violation records a lifecycle call that broke the lock/unlock/release
// contract.
type Violation struct {
	ID    ID
	Op    string
	State State
	Err   error
}

func (v Violation) Error() string {
	return fmt.Sprintf("extimage: %s(%d) in state %s: %v", v.Op, v.ID, v.State, v.Err)
}

func (v Violation) Unwrap() error { return v.Err }

type entry struct {
	backing Image
	state   State
	locks   uint64
}

// MaxViolations is the number of recent violations a Registry keeps.
const MaxViolations = 256

// Registry is a Handler that resolves each handle to its current backing.
//
// The Handler methods never fail; contract violations are logged and the
// most recent MaxViolations are kept for inspection with Violations. The
// Try variants return them as errors.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	entries    map[ID]*entry
	violations []Violation
	violated   uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[ID]*entry)}
}

// Register adds id with its backing. A released id may be registered again
// and starts a new lifecycle.
func (r *Registry) Register(id ID, backing Image) error {
	if !backing.Source.IsValid() {
		return ErrInvalidSource
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok && e.state != StateReleased {
		return fmt.Errorf("%w: %d", ErrAlreadyRegistered, id)
	}
	r.entries[id] = &entry{backing: backing}
	return nil
}

// Replace swaps the backing of id. The next Lock returns the new backing;
// a lock in progress keeps sampling the old one.
func (r *Registry) Replace(id ID, backing Image) error {
	if !backing.Source.IsValid() {
		return ErrInvalidSource
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}
	if e.state == StateReleased {
		return fmt.Errorf("%w: %d", ErrReleased, id)
	}
	e.backing = backing
	return nil
}

// State returns the lifecycle state of id.
func (r *Registry) State(id ID) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// LockCount returns how many times id has been locked.
func (r *Registry) LockCount(id ID) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e.locks
	}
	return 0
}

// Len returns the number of registered handles, released ones included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Violations returns a copy of the most recent contract violations, oldest
// first.
func (r *Registry) Violations() []Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Violation(nil), r.violations...)
}

// ViolationCount returns the number of violations since the registry was
// created, including those no longer kept.
func (r *Registry) ViolationCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.violated
}

// TryLock marks id locked and returns its current backing.
func (r *Registry) TryLock(id ID) (Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return Image{}, err
	}
	if e.state == StateLocked {
		return Image{}, ErrStillLocked
	}
	e.state = StateLocked
	e.locks++
	return e.backing, nil
}

// TryUnlock marks id no longer sampled. The backing stays valid.
func (r *Registry) TryUnlock(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.state != StateLocked {
		return ErrNotLocked
	}
	e.state = StateUnlocked
	return nil
}

// TryRelease retires id. It fails while id is locked.
func (r *Registry) TryRelease(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	if e.state == StateLocked {
		return ErrStillLocked
	}
	e.state = StateReleased
	e.backing = Image{}
	return nil
}

func (r *Registry) lookup(id ID) (*entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrUnknownImage
	}
	if e.state == StateReleased {
		return nil, ErrReleased
	}
	return e, nil
}

// Lock implements Handler. A failed lock returns an invalid Image.
func (r *Registry) Lock(id ID) Image {
	img, err := r.TryLock(id)
	if err != nil {
		r.violate(id, "lock", err)
	}
	return img
}

// Unlock implements Handler.
func (r *Registry) Unlock(id ID) {
	if err := r.TryUnlock(id); err != nil {
		r.violate(id, "unlock", err)
	}
}

// Release implements Handler.
func (r *Registry) Release(id ID) {
	if err := r.TryRelease(id); err != nil {
		r.violate(id, "release", err)
	}
}

func (r *Registry) violate(id ID, op string, err error) {
	r.mu.Lock()
	var st State
	if e, ok := r.entries[id]; ok {
		st = e.state
	}
	v := Violation{ID: id, Op: op, State: st, Err: err}
	if len(r.violations) == MaxViolations {
		n := copy(r.violations, r.violations[1:])
		r.violations[n] = v
	} else {
		r.violations = append(r.violations, v)
	}
	r.violated++
	r.mu.Unlock()

	wrench.Logger().Warn("extimage: lifecycle violation",
		"id", uint64(id), "op", op, "state", st.String(), "err", err)
}

var _ Handler = (*Registry)(nil)
