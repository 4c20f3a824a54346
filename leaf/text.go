package leaf

import "vregmap/regio"

// SubjectText is a read-only leaf exposing a string one character per
// address, starting at region offset 0. Each character is truncated to its
// low byte. Addresses past the end of the text read as zero.
// Writes are ignored.
type SubjectText[S any] struct {
	get func(s S) string
}

// NewSubjectText creates a text leaf that fetches its string from the subject
// on every read.
func NewSubjectText[S any](get func(s S) string) *SubjectText[S] {
	return &SubjectText[S]{get: get}
}

func (t *SubjectText[S]) Read(s S, addr uint32, out []byte, _ regio.Flags) {
	copyText(t.get(s), addr, out)
}

func (t *SubjectText[S]) Write(S, uint32, []byte, regio.Flags) {}

// Text is the plain form of SubjectText.
type Text struct {
	get func() string
}

// NewText creates a text leaf that calls get on every read.
func NewText(get func() string) *Text {
	return &Text{get: get}
}

// NewStaticText creates a text leaf over a fixed string.
func NewStaticText(s string) *Text {
	return NewText(func() string { return s })
}

func (t *Text) Read(addr uint32, out []byte, _ regio.Flags) {
	copyText(t.get(), addr, out)
}

func (t *Text) Write(uint32, []byte, regio.Flags) {}

// copyText serves one character per address. Characters are truncated to
// their low byte, so a non-ASCII character still occupies a single address.
func copyText(text string, offset uint32, out []byte) {
	clear(out)
	pos := uint64(0)
	for _, r := range text {
		if pos >= uint64(offset) {
			i := pos - uint64(offset)
			if i >= uint64(len(out)) {
				return
			}
			out[i] = byte(r)
		}
		pos++
	}
}
