package session

import (
	"context"
	"errors"
)

// ErrBusy is returned when another session already holds OS input
// focus and the caller asked not to wait.
var ErrBusy = errors.New("another automation session is in progress")

// Lock is a process-wide single-owner token. OS input focus and the
// clipboard are machine-global, so at most one session may drive them
// at a time; a second session interleaving its key events with an
// in-flight one would corrupt both payloads.
type Lock struct {
	ch chan struct{}
}

// NewLock returns an unheld lock.
func NewLock() *Lock {
	l := &Lock{ch: make(chan struct{}, 1)}
	l.ch <- struct{}{}
	return l
}

// TryAcquire takes the lock without blocking. Returns false if another
// session holds it.
func (l *Lock) TryAcquire() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}

// Acquire blocks until the lock is free or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns the token. Must be called exactly once per
// successful acquisition; the runner does so via defer on every exit
// path.
func (l *Lock) Release() {
	select {
	case l.ch <- struct{}{}:
	default:
		panic("session: lock released while not held")
	}
}
