package regmap

import (
	"sort"

	"vregmap/regio"
)

// addrSpace is the exclusive top of the 32 bit address space.
const addrSpace = uint64(1) << 32

// region is one mapped address interval [base, base+size).
type region[C any] struct {
	base    uint32
	size    uint32
	content C
}

// end returns the exclusive end address. It is computed in 64 bits so a
// region ending exactly at the top of the address space does not wrap.
func (r *region[C]) end() uint64 {
	return uint64(r.base) + uint64(r.size)
}

func (r *region[C]) overlaps(base uint32, size uint32) bool {
	if uint64(base) >= r.end() {
		return false // lies after this region
	}
	if uint64(base)+uint64(size) <= uint64(r.base) {
		return false // lies before this region
	}
	return true
}

// table is an ordered registry of non-overlapping regions, sorted by base.
type table[C any] struct {
	regions []region[C]
}

// predecessor returns the index of the last region whose base is <= addr,
// or -1 when every region starts above addr.
func (t *table[C]) predecessor(addr uint32) int {
	return sort.Search(len(t.regions), func(i int) bool {
		return t.regions[i].base > addr
	}) - 1
}

// check validates a new region against the registry without modifying it.
// Both neighbours of the insertion point are checked.
func (t *table[C]) check(base, size uint32) error {
	if size == 0 {
		return regio.NewConfigError(regio.CodeZeroLength, "region at 0x%08X", base)
	}
	if uint64(base)+uint64(size) > addrSpace {
		return regio.NewConfigError(regio.CodeAddressRange, "region [0x%08X,0x%X)", base, uint64(base)+uint64(size))
	}
	i := t.predecessor(base)
	if i >= 0 {
		if r := &t.regions[i]; r.overlaps(base, size) {
			return overlapError(base, size, r)
		}
	}
	if i+1 < len(t.regions) {
		if r := &t.regions[i+1]; r.overlaps(base, size) {
			return overlapError(base, size, r)
		}
	}
	return nil
}

func overlapError[C any](base, size uint32, r *region[C]) error {
	return regio.NewConfigError(regio.CodeOverlap,
		"region [0x%08X,0x%X) collides with existing range [0x%08X,0x%X)",
		base, uint64(base)+uint64(size), r.base, r.end())
}

// insert adds a region that has already passed check.
func (t *table[C]) insert(base, size uint32, content C) {
	t.regions = append(t.regions, region[C]{base: base, size: size, content: content})
	// Inserts only happen while a map is being built, so a full sort is fine.
	sort.Slice(t.regions, func(i, j int) bool {
		return t.regions[i].base < t.regions[j].base
	})
}

// Interval is the public view of one region.
type Interval struct {
	Base uint32
	Size uint32
}

// End returns the exclusive end address.
func (iv Interval) End() uint64 { return uint64(iv.Base) + uint64(iv.Size) }

func (t *table[C]) intervals() []Interval {
	out := make([]Interval, len(t.regions))
	for i := range t.regions {
		out[i] = Interval{Base: t.regions[i].base, Size: t.regions[i].size}
	}
	return out
}

// run is one step of a request: either a slice of a mapped region or an
// unmapped gap (region == nil).
type run[C any] struct {
	region *region[C]
	addr   uint64 // absolute start address of the run
	local  uint32 // offset inside region
	n      int
}

// cursor walks the runs covering [addr, addr+n) in address order.
type cursor[C any] struct {
	t   *table[C]
	i   int
	pos uint64
	end uint64
}

func (t *table[C]) cover(addr uint32, n int) cursor[C] {
	i := t.predecessor(addr)
	if i < 0 {
		i = 0
	}
	return cursor[C]{t: t, i: i, pos: uint64(addr), end: uint64(addr) + uint64(n)}
}

// next returns the next run, or false once the request is consumed.
// Bytes above the 32 bit address space are never mapped and come back as a
// gap; addresses do not wrap around.
func (c *cursor[C]) next() (run[C], bool) {
	if c.pos >= c.end {
		return run[C]{}, false
	}
	regions := c.t.regions
	for c.i < len(regions) && regions[c.i].end() <= c.pos {
		c.i++
	}

	var r run[C]
	r.addr = c.pos
	if c.i < len(regions) && uint64(regions[c.i].base) <= c.pos {
		reg := &regions[c.i]
		r.region = reg
		r.local = uint32(c.pos - uint64(reg.base))
		r.n = int(min(reg.end(), c.end) - c.pos)
	} else {
		top := c.end
		if c.i < len(regions) {
			top = min(uint64(regions[c.i].base), c.end)
		}
		r.n = int(top - c.pos)
	}
	c.pos += uint64(r.n)
	return r, true
}
