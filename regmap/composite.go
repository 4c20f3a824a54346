// Package regmap implements the composite dispatch engine: a map made of
// non-overlapping address regions, each served by a leaf or a nested map.
//
// Every composite keeps two independent registries, one for read-capable
// regions and one for write-capable regions, so an address range may be
// readable, writable, both or neither. A request is split into runs that
// follow the region boundaries; runs that fall into gaps are unmapped: reads
// fill them with regio.UnmappedReadValue and writes drop them, each run
// incrementing the diagnostics counters.
//
// Regions are registered during a single-threaded construction phase. Once
// built, Read and Write may be called concurrently provided the leaves
// behind the regions tolerate it; there is no locking and no consistency
// across the regions touched by one request.
package regmap

import (
	"vregmap/common"
	"vregmap/regio"
)

// Direction selects one of a composite's two registries.
type Direction int

const (
	DirRead Direction = iota
	DirWrite
)

func (d Direction) String() string {
	if d == DirWrite {
		return "write"
	}
	return "read"
}

// SubjectComposite is a composite of subject-parameterized maps. The subject
// passed to Read and Write is forwarded unchanged to the owning region.
type SubjectComposite[S any] struct {
	read  table[regio.SubjectReader[S]]
	write table[regio.SubjectWriter[S]]
	opts  options
}

// NewSubject creates an empty subject-parameterized composite.
func NewSubject[S any](opts ...Option) *SubjectComposite[S] {
	return &SubjectComposite[S]{opts: newOptions(opts)}
}

// Insert maps m at [addr, addr+size) in both registries. If either registry
// rejects the region, neither is modified.
func (c *SubjectComposite[S]) Insert(addr, size uint32, m regio.SubjectMap[S]) error {
	if err := c.read.check(addr, size); err != nil {
		return err
	}
	if err := c.write.check(addr, size); err != nil {
		return err
	}
	c.read.insert(addr, size, m)
	c.write.insert(addr, size, m)
	c.traceInsert("rw", addr, size)
	return nil
}

// InsertReader maps r at [addr, addr+size) in the read registry only.
func (c *SubjectComposite[S]) InsertReader(addr, size uint32, r regio.SubjectReader[S]) error {
	if err := c.read.check(addr, size); err != nil {
		return err
	}
	c.read.insert(addr, size, r)
	c.traceInsert("r", addr, size)
	return nil
}

// InsertWriter maps w at [addr, addr+size) in the write registry only.
func (c *SubjectComposite[S]) InsertWriter(addr, size uint32, w regio.SubjectWriter[S]) error {
	if err := c.write.check(addr, size); err != nil {
		return err
	}
	c.write.insert(addr, size, w)
	c.traceInsert("w", addr, size)
	return nil
}

func (c *SubjectComposite[S]) traceInsert(access string, addr, size uint32) {
	if c.opts.log.Enabled(common.SeverityDebug) {
		c.opts.log.Debugf("regmap: insert %s [0x%08X,0x%X)", access, addr, uint64(addr)+uint64(size))
	}
}

// Read fills out from the read registry, starting at addr.
func (c *SubjectComposite[S]) Read(s S, addr uint32, out []byte, flags regio.Flags) {
	cur := c.read.cover(addr, len(out))
	for {
		r, ok := cur.next()
		if !ok {
			return
		}
		if r.region == nil {
			c.unmappedRead(r.addr, out[:r.n])
		} else {
			r.region.content.Read(s, r.local, out[:r.n], flags)
		}
		out = out[r.n:]
	}
}

// Write forwards in to the write registry, starting at addr.
func (c *SubjectComposite[S]) Write(s S, addr uint32, in []byte, flags regio.Flags) {
	cur := c.write.cover(addr, len(in))
	for {
		r, ok := cur.next()
		if !ok {
			return
		}
		if r.region == nil {
			c.unmappedWrite(r.addr, r.n)
		} else {
			r.region.content.Write(s, r.local, in[:r.n], flags)
		}
		in = in[r.n:]
	}
}

func (c *SubjectComposite[S]) unmappedRead(addr uint64, out []byte) {
	regio.FillUnmapped(out)
	c.opts.counters.AddUnmappedRead()
	if c.opts.log.Enabled(common.SeverityDebug) {
		c.opts.log.Debugf("regmap: unmapped read [0x%08X,0x%X)", addr, addr+uint64(len(out)))
	}
}

func (c *SubjectComposite[S]) unmappedWrite(addr uint64, n int) {
	c.opts.counters.AddUnmappedWrite()
	if c.opts.log.Enabled(common.SeverityDebug) {
		c.opts.log.Debugf("regmap: unmapped write [0x%08X,0x%X)", addr, addr+uint64(n))
	}
}

// Regions returns a snapshot of the intervals mapped in one registry, in
// address order.
func (c *SubjectComposite[S]) Regions(dir Direction) []Interval {
	if dir == DirWrite {
		return c.write.intervals()
	}
	return c.read.intervals()
}

// Len returns the number of regions in the given registry.
func (c *SubjectComposite[S]) Len(dir Direction) int {
	if dir == DirWrite {
		return len(c.write.regions)
	}
	return len(c.read.regions)
}

// Composite is a composite of plain maps.
type Composite struct {
	sc *SubjectComposite[struct{}]
}

// New creates an empty composite.
func New(opts ...Option) *Composite {
	return &Composite{sc: NewSubject[struct{}](opts...)}
}

// Insert maps m at [addr, addr+size) in both registries.
func (c *Composite) Insert(addr, size uint32, m regio.Map) error {
	return c.sc.Insert(addr, size, regio.Lift[struct{}](m))
}

// InsertReader maps r at [addr, addr+size) in the read registry only.
func (c *Composite) InsertReader(addr, size uint32, r regio.Reader) error {
	return c.sc.InsertReader(addr, size, liftedReader{r})
}

// InsertWriter maps w at [addr, addr+size) in the write registry only.
func (c *Composite) InsertWriter(addr, size uint32, w regio.Writer) error {
	return c.sc.InsertWriter(addr, size, liftedWriter{w})
}

func (c *Composite) Read(addr uint32, out []byte, flags regio.Flags) {
	c.sc.Read(struct{}{}, addr, out, flags)
}

func (c *Composite) Write(addr uint32, in []byte, flags regio.Flags) {
	c.sc.Write(struct{}{}, addr, in, flags)
}

// Regions returns a snapshot of the intervals mapped in one registry.
func (c *Composite) Regions(dir Direction) []Interval { return c.sc.Regions(dir) }

// Len returns the number of regions in the given registry.
func (c *Composite) Len(dir Direction) int { return c.sc.Len(dir) }

type liftedReader struct{ r regio.Reader }

func (l liftedReader) Read(_ struct{}, addr uint32, out []byte, flags regio.Flags) {
	l.r.Read(addr, out, flags)
}

type liftedWriter struct{ w regio.Writer }

func (l liftedWriter) Write(_ struct{}, addr uint32, in []byte, flags regio.Flags) {
	l.w.Write(addr, in, flags)
}
