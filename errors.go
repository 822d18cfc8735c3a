package mmapsync

import (
	"errors"
	"fmt"
)

// Sentinel errors a caller can match with errors.Is.
var (
	// ErrUninitialized is returned when the state word is still all-zero,
	// i.e. no producer has ever published a snapshot for this prefix.
	ErrUninitialized = errors.New("mmapsync: uninitialized state")

	// ErrInvalidVersionParams is returned by Pack when slot > 1 or size
	// would overflow the 39-bit size field.
	ErrInvalidVersionParams = errors.New("mmapsync: invalid version params")

	// ErrWriteLockConflict is returned by SingleWriter when another
	// process already holds the exclusive producer lock.
	ErrWriteLockConflict = errors.New("mmapsync: write blocked by conflicting lock")

	// ErrEntityWrite is returned when the codec's integrity self-check
	// fails on serialized output before publication.
	ErrEntityWrite = errors.New("mmapsync: error writing entity")

	// ErrEntityRead is returned when the on-disk data file is shorter than
	// the declared size, or the codec's verify step fails on read.
	ErrEntityRead = errors.New("mmapsync: error reading entity")

	// ErrDataWrite wraps an I/O failure while opening, growing, mapping or
	// flushing a data file on the producer path.
	ErrDataWrite = errors.New("mmapsync: error writing data file")

	// ErrDataRead wraps an I/O failure while opening, stat'ing or mapping a
	// data file on the consumer path.
	ErrDataRead = errors.New("mmapsync: error reading data file")

	// ErrStateRead wraps an I/O failure while opening, stat'ing, truncating
	// or mapping the state file.
	ErrStateRead = errors.New("mmapsync: error reading state file")
)

// wrapped I/O error constructors. Each wraps both a taxonomy sentinel and
// the underlying cause via Go's multi-%w support, so callers can match
// either with errors.Is.

func errDataWrite(cause error) error {
	return fmt.Errorf("mmapsync: error writing data file: %w: %w", ErrDataWrite, cause)
}

func errDataRead(cause error) error {
	return fmt.Errorf("mmapsync: error reading data file: %w: %w", ErrDataRead, cause)
}

func errStateRead(cause error) error {
	return fmt.Errorf("mmapsync: error reading state file: %w: %w", ErrStateRead, cause)
}
