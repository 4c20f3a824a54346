// Package diag holds the access diagnostics counters shared by composite maps.
//
// Accesses to unmapped addresses are not errors; they are absorbed by the
// composite and only counted here. Counters are monotonic and are never reset
// by the maps themselves.
package diag

import (
	"fmt"
	"sync/atomic"
)

// Counters tracks unmapped accesses. The zero value is ready to use and is
// safe for concurrent use.
type Counters struct {
	unmappedReads  atomic.Uint64
	unmappedWrites atomic.Uint64
}

// Snapshot is a point-in-time copy of a Counters value.
type Snapshot struct {
	UnmappedReads  uint64
	UnmappedWrites uint64
}

func (s Snapshot) String() string {
	return fmt.Sprintf("unmapped reads: %d; unmapped writes: %d", s.UnmappedReads, s.UnmappedWrites)
}

var defaultCounters Counters

// Default returns the process-wide counters used by maps that were not given
// their own.
func Default() *Counters {
	return &defaultCounters
}

// AddUnmappedRead counts one unmapped read run.
func (c *Counters) AddUnmappedRead() { c.unmappedReads.Add(1) }

// AddUnmappedWrite counts one unmapped write run.
func (c *Counters) AddUnmappedWrite() { c.unmappedWrites.Add(1) }

// UnmappedReads returns the number of unmapped read runs so far.
func (c *Counters) UnmappedReads() uint64 { return c.unmappedReads.Load() }

// UnmappedWrites returns the number of unmapped write runs so far.
func (c *Counters) UnmappedWrites() uint64 { return c.unmappedWrites.Load() }

// Snapshot returns both counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		UnmappedReads:  c.unmappedReads.Load(),
		UnmappedWrites: c.unmappedWrites.Load(),
	}
}

// Reset zeroes both counters. Intended for test setup.
func (c *Counters) Reset() {
	c.unmappedReads.Store(0)
	c.unmappedWrites.Store(0)
}
