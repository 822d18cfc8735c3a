package mmapsync

import (
	"os"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// stateSize is SharedState's on-disk and in-memory footprint: one u64
// version word followed by two u32 reader counts, natural alignment,
// native endianness. Not portable across architectures, which is
// acceptable given the single-host scope of this package.
const stateSize = int(unsafe.Sizeof(sharedState{}))

const stateSuffix = "_state"

// sharedState is the process-shared, memory-mapped layout described in
// spec.md §3. All three fields are accessed exclusively through the
// sync/atomic typed atomics below: never read or write them as plain
// Go fields, or sequential consistency between processes is lost.
type sharedState struct {
	version atomic.Uint64
	readers [2]atomic.Uint32
}

func init() {
	if stateSize != 16 {
		panic("mmapsync: sharedState size assumption violated on this platform")
	}
}

// asSharedState aliases a mapped byte slice as *sharedState. The mapping
// must be at least stateSize long and 8-byte aligned; mmap always returns
// page-aligned memory, so the version word's natural alignment is
// guaranteed on every platform this package supports.
func asSharedState(b []byte) *sharedState {
	if uintptr(unsafe.Pointer(&b[0]))%8 != 0 {
		panic("mmapsync: mapped state buffer is not 8-byte aligned")
	}
	return (*sharedState)(unsafe.Pointer(&b[0]))
}

func (s *sharedState) currentVersion() (Version, error) {
	return UnpackVersion(s.version.Load())
}

func (s *sharedState) registerReader(v Version) {
	s.readers[v.Slot()].Add(1)
}

func (s *sharedState) releaseReader(v Version) {
	s.readers[v.Slot()].Add(^uint32(0))
}

func (s *sharedState) publish(v Version) {
	s.version.Store(v.Raw())
}

// acquireWriteSlot computes the next slot to write to and blocks until no
// reader holds it, or until grace has elapsed, in which case it force-
// resets the reader count and reports reset=true. This is the only
// mechanism in the package that tolerates a consumer crashing mid-read;
// see spec.md §4.2/§9 for the safety trade-off this implies.
func (s *sharedState) acquireWriteSlot(grace, poll time.Duration) (slot int, reset bool) {
	next := 0
	if cur, err := s.currentVersion(); err == nil {
		next = (cur.Slot() + 1) % 2
	}

	counter := &s.readers[next]
	deadline := time.Now().Add(grace)
	for counter.Load() > 0 {
		if time.Now().After(deadline) {
			counter.Store(0)
			return next, true
		}
		time.Sleep(poll)
	}
	return next, false
}

// StateStore opens/creates the state file, maps it, bootstraps a zeroed
// SharedState on first use, and enforces the configured LockPolicy on the
// write path.
type StateStore struct {
	prefix string
	lock   LockPolicy

	file    *os.File
	mapping mmap.MMap
	state   *sharedState
}

// NewStateStore constructs a StateStore for the given prefix. Nothing is
// opened or mapped until ForWrite or ForRead is first called.
func NewStateStore(prefix string, lock LockPolicy) *StateStore {
	return &StateStore{prefix: prefix, lock: lock}
}

func (s *StateStore) path() string {
	return s.prefix + stateSuffix
}

// ensureMapped opens and maps the state file if it isn't already. When
// create is true, the file is created if missing. In either mode, a file
// whose length is not exactly stateSize is truncated to stateSize (a new
// file is thereby zero-filled — the zeros are a valid initial
// SharedState). When create is false, a missing file surfaces as a
// wrapped *os.PathError via ErrStateRead-style wrapping.
func (s *StateStore) ensureMapped(create bool) error {
	if s.mapping != nil {
		return nil
	}

	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(s.path(), flags, 0o660)
	if err != nil {
		return errStateRead(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return errStateRead(err)
	}
	if info.Size() != int64(stateSize) {
		if err := f.Truncate(int64(stateSize)); err != nil {
			f.Close()
			return errStateRead(err)
		}
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return errStateRead(err)
	}

	s.file = f
	s.mapping = m
	s.state = asSharedState(m)
	return nil
}

// ForWrite maps the state file (creating it if necessary) and acquires
// the write lock according to the configured LockPolicy. Every producer
// write path goes through the returned reference.
func (s *StateStore) ForWrite() (*sharedState, error) {
	if err := s.ensureMapped(true); err != nil {
		return nil, err
	}
	if err := s.lock.Acquire(s.file); err != nil {
		return nil, err
	}
	return s.state, nil
}

// ForRead maps the state file if needed but never creates it and never
// acquires the write lock — the atomics internal to SharedState make
// read-side locking unnecessary.
func (s *StateStore) ForRead() (*sharedState, error) {
	if err := s.ensureMapped(false); err != nil {
		return nil, err
	}
	return s.state, nil
}

// Close unmaps the state file and releases its descriptor (which also
// releases any SingleWriter flock held on it).
func (s *StateStore) Close() error {
	var err error
	if s.mapping != nil {
		err = s.mapping.Unmap()
		s.mapping = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.file = nil
	}
	return err
}
