package mmapsync

import (
	"errors"
	"time"
)

// Synchronizer is the public façade binding StateStore, DataStore and the
// configured LockPolicy into the publish/consume protocol described in
// spec.md §4.7: a single producer publishes snapshots of T, and
// arbitrarily many consumer processes observe them with zero-copy access
// and without blocking the producer or each other.
type Synchronizer[T any] struct {
	prefix string
	codec  Codec[T]

	state *StateStore
	data  *DataStore
	opts  options
	diag  diagnostics
}

// New constructs a Synchronizer for the given path prefix and codec, using
// LockDisabled and the default hasher/poll-interval unless overridden by
// Option values.
func New[T any](prefix string, codec Codec[T], opts ...Option) *Synchronizer[T] {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Synchronizer[T]{
		prefix: prefix,
		codec:  codec,
		state:  NewStateStore(prefix, o.lock),
		data:   NewDataStore(prefix),
		opts:   o,
		diag:   newDiagnostics(o.logger),
	}
}

// ReadView is a scoped view returned by Read. Callers must defer Close to
// release the underlying reader registration; the byte/value views are
// only valid until Close runs.
type ReadView[T any] struct {
	guard *ReadGuard

	// Value is the codec's zero-copy view over Bytes.
	Value T
	// Bytes is the raw snapshot window, exactly Version.Size() long.
	Bytes []byte
	// Switched reports whether the observed Version differs from the one
	// this Synchronizer last returned.
	Switched bool
}

// Close releases the scoped reader registration backing this view.
func (r *ReadView[T]) Close() error {
	return r.guard.Close()
}

// Write serializes value through the codec, validates the serialized
// bytes, and publishes them as a new snapshot. grace bounds how long the
// producer waits for the next slot's readers to drain before force-
// resetting their count (see spec.md §4.2/§9). A reader that is still live
// on that slot when the reset happens can then have its bytes overwritten
// by this write. It returns the number of bytes written and whether a
// reset occurred.
func (s *Synchronizer[T]) Write(value T, grace time.Duration) (int, bool, error) {
	data, err := s.codec.Serialize(value)
	if err != nil {
		return 0, false, ErrEntityWrite
	}
	if err := s.codec.Verify(data); err != nil {
		return 0, false, ErrEntityWrite
	}
	return s.writeBytes(data, grace)
}

// WriteRaw publishes already-serialized bytes as-is, skipping the codec's
// serialize/verify steps; the checksum is computed directly over data.
func (s *Synchronizer[T]) WriteRaw(data []byte, grace time.Duration) (int, bool, error) {
	return s.writeBytes(data, grace)
}

func (s *Synchronizer[T]) writeBytes(data []byte, grace time.Duration) (int, bool, error) {
	state, err := s.state.ForWrite()
	if err != nil {
		if errors.Is(err, ErrWriteLockConflict) {
			s.diag.writeLockConflict(s.prefix)
		}
		return 0, false, err
	}

	h := s.opts.newHasher()
	h.Write(data)
	checksum := h.Sum64()

	slot, reset := state.acquireWriteSlot(grace, s.opts.pollInterval)
	if reset {
		s.diag.readerCountReset(s.prefix, slot, grace.String())
	}

	newVersion, err := PackVersion(slot, len(data), checksum)
	if err != nil {
		return 0, reset, err
	}

	size, err := s.data.Write(data, newVersion)
	if err != nil {
		return 0, reset, err
	}

	state.publish(newVersion)
	return size, reset, nil
}

// Read returns a scoped view of the current snapshot. When verifyBytes is
// true, the codec's Verify self-check runs over the raw bytes before
// View is called, surfacing ErrEntityRead on failure; the reader
// registration is still released in that case.
func (s *Synchronizer[T]) Read(verifyBytes bool) (*ReadView[T], error) {
	state, err := s.state.ForRead()
	if err != nil {
		return nil, err
	}

	v, err := state.currentVersion()
	if err != nil {
		return nil, err
	}

	guard := newReadGuard(state, v)

	bytes, switched, err := s.data.Read(v)
	if err != nil {
		guard.Close()
		return nil, err
	}

	if verifyBytes {
		if err := s.codec.Verify(bytes); err != nil {
			guard.Close()
			return nil, ErrEntityRead
		}
	}

	value, err := s.codec.View(bytes)
	if err != nil {
		guard.Close()
		return nil, err
	}

	return &ReadView[T]{guard: guard, Value: value, Bytes: bytes, Switched: switched}, nil
}

// Version returns the current Version without performing a full read,
// useful for change-detection.
func (s *Synchronizer[T]) Version() (Version, error) {
	state, err := s.state.ForRead()
	if err != nil {
		return 0, err
	}
	return state.currentVersion()
}

// Close releases the memory mappings and file descriptors held by this
// Synchronizer's StateStore and DataStore.
func (s *Synchronizer[T]) Close() error {
	var err error
	if cerr := s.data.Close(); err == nil {
		err = cerr
	}
	if cerr := s.state.Close(); err == nil {
		err = cerr
	}
	return err
}
