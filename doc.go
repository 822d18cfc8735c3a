// Package mmapsync is a wait-free inter-process data synchronizer built on
// memory-mapped files. A single producer process publishes snapshots of a
// typed value; arbitrarily many consumer processes on the same host
// observe snapshots with zero-copy access, without blocking the producer
// or each other.
//
// The synchronization protocol is a double-buffered read-copy-update
// scheme: each prefix owns two data files (slots 0 and 1) and one state
// file holding an atomic version word plus a per-slot atomic reader count.
// A producer writes the non-current slot, then atomically publishes a new
// version; a consumer increments the reader count for whatever slot the
// current version points at, maps that slot's file, and decrements the
// count when done. A producer never reuses a slot while its reader count
// is nonzero, except after an operator-configured grace period expires —
// see Synchronizer.Write for the trade-off this implies.
package mmapsync
