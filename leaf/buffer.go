package leaf

import (
	"sync"

	"vregmap/regio"
)

// Buffer is a leaf backed by a byte slice, addressed from region offset 0.
// Bytes past the end of the slice read as zero and are not writable. A
// read-only buffer ignores writes, modelling ROM contents.
//
// Buffer is safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	data     []byte
	readOnly bool
}

// NewBuffer creates a writable buffer leaf over data. The slice is used in
// place, not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewReadOnlyBuffer creates a buffer leaf whose writes are ignored.
func NewReadOnlyBuffer(data []byte) *Buffer {
	return &Buffer{data: data, readOnly: true}
}

// Len returns the number of backing bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns a copy of the current contents.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.data...)
}

func (b *Buffer) Read(addr uint32, out []byte, _ regio.Flags) {
	b.mu.RLock()
	n := 0
	if uint64(addr) < uint64(len(b.data)) {
		n = copy(out, b.data[addr:])
	}
	b.mu.RUnlock()
	clear(out[n:])
}

func (b *Buffer) Write(addr uint32, in []byte, _ regio.Flags) {
	if b.readOnly || uint64(addr) >= uint64(len(b.data)) {
		return
	}
	b.mu.Lock()
	copy(b.data[addr:], in)
	b.mu.Unlock()
}
