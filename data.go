package mmapsync

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// DataStore opens/creates/grows the two payload files for a prefix, writes
// producer bytes into them, and maps read-only views for a consumer. A
// DataStore is consumer-local state: the cached mappings and the last
// observed Version belong to exactly one Synchronizer instance, matching
// spec.md §3's "consumer local state" — callers must not share one across
// goroutines without external synchronization (the package otherwise uses
// no intra-process mutex on its hot paths, per spec.md §5).
type DataStore struct {
	prefix      string
	lastVersion Version
	haveVersion bool
	mappings    [2]mmap.MMap
}

// NewDataStore constructs a DataStore for the given prefix.
func NewDataStore(prefix string) *DataStore {
	return &DataStore{prefix: prefix}
}

// Write opens (creating if missing) the data file for v's slot, grows it
// if payload is larger than its current length, copies payload into the
// file's first len(payload) bytes through a fresh read/write mapping, and
// flushes that mapping. Files are never shrunk. No fsync is issued: the
// flush pushes dirty pages to the kernel, sufficient for same-host
// consumers reading the same mapped pages (durability across an OS crash
// is out of scope).
func (d *DataStore) Write(payload []byte, v Version) (int, error) {
	f, err := os.OpenFile(v.Path(d.prefix), os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		return 0, errDataWrite(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, errDataWrite(err)
	}
	if int64(len(payload)) > info.Size() {
		if err := f.Truncate(int64(len(payload))); err != nil {
			return 0, errDataWrite(err)
		}
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return 0, errDataWrite(err)
	}
	defer m.Unmap()

	copy(m, payload)
	if err := m.Flush(); err != nil {
		return 0, errDataWrite(err)
	}

	return len(payload), nil
}

// Read ensures an up-to-date read-only mapping exists for v's slot — the
// file is opened and remapped only if no mapping exists yet, or the
// cached one is shorter than v.Size(). It returns the declared byte
// window and whether v differs from the last Version returned by this
// DataStore (i.e. whether the data changed since the last Read).
func (d *DataStore) Read(v Version) ([]byte, bool, error) {
	slot := v.Slot()
	need := v.Size()

	cached := d.mappings[slot]
	if cached == nil || len(cached) < need {
		f, err := os.Open(v.Path(d.prefix))
		if err != nil {
			return nil, false, errDataRead(err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, false, errDataRead(err)
		}
		if info.Size() < int64(need) {
			return nil, false, ErrEntityRead
		}

		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, false, errDataRead(err)
		}
		if d.mappings[slot] != nil {
			d.mappings[slot].Unmap()
		}
		d.mappings[slot] = m
		cached = m
	}

	switched := !d.haveVersion || v != d.lastVersion
	d.lastVersion = v
	d.haveVersion = true

	return cached[:need], switched, nil
}

// Close unmaps any cached read-only mappings held by this DataStore.
func (d *DataStore) Close() error {
	var err error
	for i, m := range d.mappings {
		if m == nil {
			continue
		}
		if cerr := m.Unmap(); err == nil {
			err = cerr
		}
		d.mappings[i] = nil
	}
	return err
}
