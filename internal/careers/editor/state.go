// Package editor holds the server-side drafts a recruiter edits before
// saving: the theme editor and the section builder, grouped per company in
// a Registry.
//
// Both editors share one life cycle. A draft starts Clean (equal to the
// stored value), becomes Dirty on an edit, and is Saving while a write is in
// flight. A successful save returns to Clean; a failed one returns to Dirty
// with the error kept and the draft untouched.
//
// Every draft remembers the UpdatedAt of the company it last persisted or
// adopted. An upstream value that is not newer is ignored, so a late event
// cannot roll a Clean draft back.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	e "github.com/gartstein/careers/internal/careers/errors"
)

// State is the life-cycle state of a draft.
type State int

const (
	Clean State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state as its lowercase name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a point-in-time view of an editor.
type Status struct {
	State State `json:"state"`
	// Revision increases on every change of the draft.
	Revision uint64 `json:"revision"`
	// LastError is the message of the most recent failed save, cleared by
	// the next successful one.
	LastError string `json:"last_error,omitempty"`
	// Err is the error behind LastError.
	Err error `json:"-"`
}

// draft is the state machine shared by both editors.
type draft[T any] struct {
	mu        sync.Mutex
	persisted T
	version   time.Time // UpdatedAt of persisted; zero when unknown
	current   T
	state     State
	revision  uint64
	lastErr   error
	equal     func(a, b T) bool
	clone     func(T) T
}

func newDraft[T any](persisted T, version time.Time, equal func(a, b T) bool, clone func(T) T) *draft[T] {
	return &draft[T]{
		persisted: clone(persisted),
		version:   version,
		current:   clone(persisted),
		equal:     equal,
		clone:     clone,
	}
}

// edit applies fn to a copy of the current draft. fn returns the new value,
// or an error to leave the draft unchanged.
func (d *draft[T]) edit(fn func(T) (T, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := fn(d.clone(d.current))
	if err != nil {
		return err
	}
	if d.equal(next, d.current) {
		return nil
	}
	d.current = next
	d.revision++
	if d.state != Saving {
		d.settle()
	}
	return nil
}

// settle derives Clean or Dirty from the draft. Caller holds mu.
func (d *draft[T]) settle() {
	if d.equal(d.current, d.persisted) {
		d.state = Clean
	} else {
		d.state = Dirty
	}
}

// save persists the draft. prepare may normalise the draft before it is
// written; the normalised value becomes the draft. Saving a Clean draft is a
// no-op and a save while another is in flight fails with ErrSaveInProgress.
func (d *draft[T]) save(ctx context.Context, prepare func(T) T, persist func(context.Context, T) (T, time.Time, error)) (T, error) {
	d.mu.Lock()
	switch d.state {
	case Saving:
		d.mu.Unlock()
		var zero T
		return zero, e.ErrSaveInProgress
	case Clean:
		defer d.mu.Unlock()
		return d.clone(d.persisted), nil
	}

	if prepare != nil {
		prepared := prepare(d.clone(d.current))
		if !d.equal(prepared, d.current) {
			d.current = prepared
			d.revision++
		}
	}
	snapshot := d.clone(d.current)
	d.state = Saving
	d.mu.Unlock()

	stored, at, err := persist(ctx, snapshot)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = Dirty
		d.lastErr = err
		var zero T
		return zero, err
	}
	d.lastErr = nil
	d.persisted = d.clone(stored)
	if at.After(d.version) {
		d.version = at
	}
	if d.equal(d.current, snapshot) {
		// Nothing was edited while saving; adopt the stored form.
		if !d.equal(d.current, stored) {
			d.revision++
		}
		d.current = d.clone(stored)
	}
	d.settle()
	return d.clone(stored), nil
}

// refresh replaces the draft with an upstream value stored at at, but only
// while Clean and only when at is newer than what the draft already holds.
// It reports whether the draft was replaced.
func (d *draft[T]) refresh(value T, at time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Clean || d.stale(at) {
		return false
	}
	d.version = at
	if !d.equal(d.current, value) {
		d.revision++
	}
	d.persisted = d.clone(value)
	d.current = d.clone(value)
	return true
}

// stale reports whether a value stored at at is not newer than the draft.
// Caller holds mu.
func (d *draft[T]) stale(at time.Time) bool {
	return !d.version.IsZero() && !at.After(d.version)
}

func (d *draft[T]) value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clone(d.current)
}

func (d *draft[T]) status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Status{State: d.state, Revision: d.revision}
	if d.lastErr != nil {
		s.LastError = d.lastErr.Error()
		s.Err = d.lastErr
	}
	return s
}
