package mmapsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataStoreWriteReadRoundTrip(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "p")
	store := NewDataStore(prefix)
	defer store.Close()

	payload := []byte("hello world")
	v := mustVersion(t, 0, len(payload), 0)

	n, err := store.Write(payload, v)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	got, switched, err := store.Read(v)
	require.NoError(t, err)
	require.True(t, switched)
	require.Equal(t, payload, got)

	// A second read of the same version reports no switch.
	got2, switched2, err := store.Read(v)
	require.NoError(t, err)
	require.False(t, switched2)
	require.Equal(t, payload, got2)
}

func TestDataStoreGrowsFile(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "p")
	store := NewDataStore(prefix)
	defer store.Close()

	small := []byte("ab")
	vSmall := mustVersion(t, 0, len(small), 0)
	_, err := store.Write(small, vSmall)
	require.NoError(t, err)

	big := []byte("a much longer payload than before")
	vBig := mustVersion(t, 0, len(big), 0)
	_, err = store.Write(big, vBig)
	require.NoError(t, err)

	got, switched, err := store.Read(vBig)
	require.NoError(t, err)
	require.True(t, switched)
	require.Equal(t, big, got)
}

func TestDataStoreReadBeforeWriteFails(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "p")
	store := NewDataStore(prefix)
	defer store.Close()

	v := mustVersion(t, 0, 10, 0)
	_, _, err := store.Read(v)
	require.Error(t, err)
}

func TestDataStoreTruncatedFileFailsEntityRead(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "p")
	store := NewDataStore(prefix)
	defer store.Close()

	payload := []byte("short")
	v := mustVersion(t, 0, len(payload), 0)
	_, err := store.Write(payload, v)
	require.NoError(t, err)

	// Claim a size larger than what's actually on disk, simulating a
	// stale version word whose size references bytes past EOF.
	vLonger := mustVersion(t, 0, len(payload)+100, 0)
	_, _, err = store.Read(vLonger)
	require.ErrorIs(t, err, ErrEntityRead)
}

func TestDataStoreSameSlotDoublePublish(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "p")
	store := NewDataStore(prefix)
	defer store.Close()

	first := []byte("first payload")
	v1 := mustVersion(t, 0, len(first), 0)
	_, err := store.Write(first, v1)
	require.NoError(t, err)

	second := []byte("second payload, different content")
	v2 := mustVersion(t, 0, len(second), 1)
	_, err = store.Write(second, v2)
	require.NoError(t, err)

	got, switched, err := store.Read(v2)
	require.NoError(t, err)
	require.True(t, switched)
	require.Equal(t, second, got)

	_, err = os.Stat(v1.Path(prefix))
	require.NoError(t, err, "slot 0's data file must still exist after a second publish to it")
}
