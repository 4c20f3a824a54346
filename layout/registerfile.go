package layout

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vregmap/common"
	"vregmap/leaf"
	"vregmap/regio"
	"vregmap/regmap"
)

// RegisterFile is the storage behind a built layout. Bus-side accesses go
// through Map (or the RegisterFile itself, which is a regio.Map); the
// device side uses Value and SetValue, which ignore the access flags.
//
// A RegisterFile is safe for concurrent use.
type RegisterFile struct {
	name string
	m    *regmap.Composite

	mu     sync.RWMutex
	regs   []*storage
	byName map[string]*storage
	mems   map[string]*leaf.Buffer
}

type storage struct {
	Register
	value []byte
}

func (s *storage) reset() {
	clear(s.value)
	var def [8]byte
	binary.LittleEndian.PutUint64(def[:], s.Default)
	copy(s.value, def[:])
}

// Build allocates storage for every register and memory block and maps them
// into a new composite. Overlapping or zero-length entries are configuration
// errors.
func (l *Layout) Build() (*RegisterFile, error) {
	f := &RegisterFile{
		name:   l.Name,
		m:      regmap.New(regmap.WithLogger(l.opts.log), regmap.WithCounters(l.opts.counters)),
		byName: make(map[string]*storage),
		mems:   make(map[string]*leaf.Buffer),
	}

	for _, r := range l.Registers {
		s := &storage{Register: r, value: make([]byte, r.Length)}
		s.reset()
		if err := f.m.Insert(r.Address, r.Length, f.registerLeaf(s)); err != nil {
			return nil, fmt.Errorf("layout: %s: register %s: %w", l.Name, r.Name, err)
		}
		f.regs = append(f.regs, s)
		f.byName[r.Name] = s
	}

	for _, mb := range l.Memory {
		data, err := l.memoryContents(mb)
		if err != nil {
			return nil, fmt.Errorf("layout: %s: memory %s: %w", l.Name, mb.Name, err)
		}
		buf := leaf.NewBuffer(data)
		if mb.ReadOnly {
			buf = leaf.NewReadOnlyBuffer(data)
		}
		if err := f.m.Insert(mb.Address, uint32(len(data)), buf); err != nil {
			return nil, fmt.Errorf("layout: %s: memory %s: %w", l.Name, mb.Name, err)
		}
		f.mems[mb.Name] = buf
	}

	if l.opts.log.Enabled(common.SeverityDebug) {
		for _, iv := range f.m.Regions(regmap.DirRead) {
			l.opts.log.Debugf("layout: %s: region [0x%08X,0x%X)", l.Name, iv.Base, iv.End())
		}
	}
	return f, nil
}

func (l *Layout) memoryContents(mb Memory) ([]byte, error) {
	if mb.File == "" {
		return make([]byte, mb.Length), nil
	}
	path := mb.File
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if mb.Length == 0 {
		return data, nil
	}
	if uint64(len(data)) > uint64(mb.Length) {
		return nil, regio.NewConfigError(regio.CodeBadLayout, "%s holds %d bytes, more than length %d", mb.File, len(data), mb.Length)
	}
	out := make([]byte, mb.Length)
	copy(out, data)
	return out, nil
}

// registerLeaf serves one register byte by byte. Read-only registers ignore
// writes and write-only registers read as zero.
func (f *RegisterFile) registerLeaf(s *storage) regio.Map {
	get := func(addr uint32) uint8 {
		if s.WriteOnly {
			return 0
		}
		f.mu.RLock()
		defer f.mu.RUnlock()
		return s.value[addr]
	}
	var set func(addr uint32, v uint8)
	if !s.ReadOnly {
		set = func(addr uint32, v uint8) {
			f.mu.Lock()
			s.value[addr] = v
			f.mu.Unlock()
		}
	}
	return leaf.NewFunc(get, set)
}

// Name returns the layout name.
func (f *RegisterFile) Name() string { return f.name }

// Map returns the composite serving the register file.
func (f *RegisterFile) Map() *regmap.Composite { return f.m }

func (f *RegisterFile) Read(addr uint32, out []byte, flags regio.Flags) {
	f.m.Read(addr, out, flags)
}

func (f *RegisterFile) Write(addr uint32, in []byte, flags regio.Flags) {
	f.m.Write(addr, in, flags)
}

// Registers returns the register descriptions in declaration order.
func (f *RegisterFile) Registers() []Register {
	out := make([]Register, len(f.regs))
	for i, s := range f.regs {
		out[i] = s.Register
	}
	return out
}

// Value returns the current value of a register, decoded little-endian from
// its first eight bytes at most.
func (f *RegisterFile) Value(name string) (uint64, bool) {
	s, ok := f.byName[name]
	if !ok {
		return 0, false
	}
	var b [8]byte
	f.mu.RLock()
	copy(b[:], s.value)
	f.mu.RUnlock()
	return binary.LittleEndian.Uint64(b[:]), true
}

// SetValue stores v in a register regardless of its access flags, as the
// device behind the register would. Bytes beyond the register length are
// dropped.
func (f *RegisterFile) SetValue(name string, v uint64) bool {
	s, ok := f.byName[name]
	if !ok {
		return false
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	f.mu.Lock()
	clear(s.value)
	copy(s.value, b[:])
	f.mu.Unlock()
	return true
}

// Memory returns the contents of a memory block.
func (f *RegisterFile) Memory(name string) ([]byte, bool) {
	buf, ok := f.mems[name]
	if !ok {
		return nil, false
	}
	return buf.Bytes(), true
}

// Reset restores every register to its default value. Memory blocks are left
// untouched.
func (f *RegisterFile) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.regs {
		s.reset()
	}
}
