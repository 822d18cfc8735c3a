package mmapsync

import (
	"os"

	"golang.org/x/sys/unix"
)

// LockPolicy is a pluggable producer-exclusion strategy. It is the caller's
// responsibility not to mix policies across producers bound to the same
// prefix — doing so is unsafe and disables the lock check of whichever
// producer uses LockDisabled.
type LockPolicy interface {
	// Acquire attempts to take the write lock on f. It must be safe to call
	// repeatedly; once acquired within a process, subsequent calls succeed
	// idempotently. Returns ErrWriteLockConflict if another process holds
	// the lock.
	Acquire(f *os.File) error
}

// LockDisabled always succeeds. The caller promises, out-of-band, that
// only one producer process exists for this prefix.
type LockDisabled struct{}

// Acquire implements LockPolicy.
func (LockDisabled) Acquire(*os.File) error { return nil }

// SingleWriter obtains a non-blocking, exclusive advisory flock on the
// state file's descriptor the first time Acquire is called, and holds it
// until the descriptor is closed (the kernel releases flock locks on
// close). It is unix-only.
type SingleWriter struct {
	locked bool
}

// Acquire implements LockPolicy.
func (s *SingleWriter) Acquire(f *os.File) error {
	if s.locked {
		return nil
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return ErrWriteLockConflict
	}
	s.locked = true
	return nil
}
