// Package regio defines the byte-level contract shared by every register map.
//
// A map serves address-indexed reads and writes of raw byte runs. Leaves
// (scalar accessors, text readers, raw handlers) and composites (region
// registries) implement the same interfaces, so maps nest freely.
//
// Two families exist:
//   - Reader / Writer / Map: the address alone identifies the target.
//   - SubjectReader / SubjectWriter / SubjectMap: an explicit subject (the
//     concrete instance being addressed) is threaded through every call, so
//     one map can serve many instances of the same shape.
//
// Bind turns a subject-parameterized map into a plain one by fixing the
// subject in place.
package regio

import "strings"

// Flags modifies how a single request is served.
type Flags uint32

const (
	// NoAddressIncrement makes a multi-element access reuse one address for
	// every element instead of advancing by the element width. It models
	// streaming or FIFO registers behind a single port address.
	NoAddressIncrement Flags = 1 << iota
)

// UnmappedReadValue fills every byte of a read that no region covers.
const UnmappedReadValue byte = 0xEE

// Has reports whether every bit of flag is set in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	if f.Has(NoAddressIncrement) {
		parts = append(parts, "NoAddressIncrement")
		f &^= NoAddressIncrement
	}
	if f != 0 {
		parts = append(parts, "Unknown")
	}
	return strings.Join(parts, "|")
}

// Reader serves reads of len(out) bytes starting at addr.
type Reader interface {
	Read(addr uint32, out []byte, flags Flags)
}

// Writer serves writes of len(in) bytes starting at addr.
type Writer interface {
	Write(addr uint32, in []byte, flags Flags)
}

// Map is a readable and writable register map.
type Map interface {
	Reader
	Writer
}

// SubjectReader serves reads against the subject s.
type SubjectReader[S any] interface {
	Read(s S, addr uint32, out []byte, flags Flags)
}

// SubjectWriter serves writes against the subject s.
type SubjectWriter[S any] interface {
	Write(s S, addr uint32, in []byte, flags Flags)
}

// SubjectMap is a readable and writable subject-parameterized map.
type SubjectMap[S any] interface {
	SubjectReader[S]
	SubjectWriter[S]
}
