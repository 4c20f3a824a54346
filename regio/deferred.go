package regio

import "vregmap/diag"

// Deferred presents m, a map over child subjects, as a map over parent
// subjects. On every access fetch extracts the child subject from the parent
// and the request is forwarded with it. When fetch reports no child (a nil
// nested pointer, say) the access is unmapped: reads are filled with
// UnmappedReadValue, writes are dropped, and counters records the run. A nil
// counters uses diag.Default.
func Deferred[P, C any](m SubjectMap[C], fetch func(parent P) (C, bool), counters *diag.Counters) SubjectMap[P] {
	if counters == nil {
		counters = diag.Default()
	}
	return &deferred[P, C]{m: m, fetch: fetch, counters: counters}
}

type deferred[P, C any] struct {
	m        SubjectMap[C]
	fetch    func(P) (C, bool)
	counters *diag.Counters
}

func (d *deferred[P, C]) Read(p P, addr uint32, out []byte, flags Flags) {
	c, ok := d.fetch(p)
	if !ok {
		FillUnmapped(out)
		d.counters.AddUnmappedRead()
		return
	}
	d.m.Read(c, addr, out, flags)
}

func (d *deferred[P, C]) Write(p P, addr uint32, in []byte, flags Flags) {
	c, ok := d.fetch(p)
	if !ok {
		d.counters.AddUnmappedWrite()
		return
	}
	d.m.Write(c, addr, in, flags)
}
