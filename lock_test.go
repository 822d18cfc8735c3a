package mmapsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockDisabledAlwaysSucceeds(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "state")
	require.NoError(t, err)
	defer f.Close()

	var l LockDisabled
	require.NoError(t, l.Acquire(f))
	require.NoError(t, l.Acquire(f))
}

func TestSingleWriterIsIdempotentWithinProcess(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "state")
	require.NoError(t, err)
	defer f.Close()

	l := &SingleWriter{}
	require.NoError(t, l.Acquire(f))
	require.NoError(t, l.Acquire(f))
}

func TestSingleWriterSecondAcquirerConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	f1, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o660)
	require.NoError(t, err)
	defer f1.Close()
	f2, err := os.OpenFile(path, os.O_RDWR, 0o660)
	require.NoError(t, err)
	defer f2.Close()

	l1 := &SingleWriter{}
	l2 := &SingleWriter{}

	require.NoError(t, l1.Acquire(f1))
	require.ErrorIs(t, l2.Acquire(f2), ErrWriteLockConflict)

	// Releasing the first descriptor (closing it) frees the lock for a
	// subsequent acquirer.
	require.NoError(t, f1.Close())

	l3 := &SingleWriter{}
	require.NoError(t, l3.Acquire(f2))
}
