// Package leaf provides the maps that sit at the bottom of a composite:
// scalar accessors backed by getter/setter functions, read-only text, and raw
// pass-through handlers.
package leaf

import "vregmap/regio"

// SubjectFunc serves a byte run as consecutive fixed-width elements, calling
// the getter or setter once per element with the subject and the element
// address. Unless NoAddressIncrement is set, the address advances by the
// element width after each element.
//
// A trailing partial element on read returns the low-order bytes of the
// getter's value; on write it is dropped because no full value was supplied.
type SubjectFunc[S any, T regio.Scalar] struct {
	get   func(s S, addr uint32) T
	set   func(s S, addr uint32, v T)
	codec regio.Codec[T]
}

// NewSubjectFunc creates a subject-parameterized scalar leaf. A nil set makes
// writes no-ops.
func NewSubjectFunc[S any, T regio.Scalar](get func(s S, addr uint32) T, set func(s S, addr uint32, v T)) *SubjectFunc[S, T] {
	if set == nil {
		set = func(S, uint32, T) {}
	}
	return &SubjectFunc[S, T]{get: get, set: set, codec: regio.CodecFor[T]()}
}

// NewSubjectReadOnlyFunc creates a leaf whose writes are no-ops.
func NewSubjectReadOnlyFunc[S any, T regio.Scalar](get func(s S, addr uint32) T) *SubjectFunc[S, T] {
	return NewSubjectFunc[S, T](get, nil)
}

// Width returns the element width in bytes.
func (f *SubjectFunc[S, T]) Width() int { return f.codec.Size() }

func (f *SubjectFunc[S, T]) Read(s S, addr uint32, out []byte, flags regio.Flags) {
	n := f.codec.Size()
	step := f.step(flags)
	for len(out) >= n {
		f.codec.Put(out, f.get(s, addr))
		out = out[n:]
		addr += step
	}
	if len(out) > 0 {
		var tail [8]byte
		f.codec.Put(tail[:], f.get(s, addr))
		copy(out, tail[:])
	}
}

func (f *SubjectFunc[S, T]) Write(s S, addr uint32, in []byte, flags regio.Flags) {
	n := f.codec.Size()
	step := f.step(flags)
	for len(in) >= n {
		f.set(s, addr, f.codec.Get(in))
		in = in[n:]
		addr += step
	}
}

func (f *SubjectFunc[S, T]) step(flags regio.Flags) uint32 {
	if flags.Has(regio.NoAddressIncrement) {
		return 0
	}
	return uint32(f.codec.Size())
}

// Func is the plain form of SubjectFunc: the getter and setter take only the
// element address.
type Func[T regio.Scalar] struct {
	f *SubjectFunc[struct{}, T]
}

// NewFunc creates a scalar leaf. A nil set makes writes no-ops.
func NewFunc[T regio.Scalar](get func(addr uint32) T, set func(addr uint32, v T)) *Func[T] {
	var wrapped func(struct{}, uint32, T)
	if set != nil {
		wrapped = func(_ struct{}, addr uint32, v T) { set(addr, v) }
	}
	return &Func[T]{f: NewSubjectFunc[struct{}, T](func(_ struct{}, addr uint32) T { return get(addr) }, wrapped)}
}

// NewReadOnlyFunc creates a scalar leaf from a getter; writes are no-ops.
func NewReadOnlyFunc[T regio.Scalar](get func(addr uint32) T) *Func[T] {
	return NewFunc[T](get, nil)
}

// Width returns the element width in bytes.
func (f *Func[T]) Width() int { return f.f.Width() }

func (f *Func[T]) Read(addr uint32, out []byte, flags regio.Flags) {
	f.f.Read(struct{}{}, addr, out, flags)
}

func (f *Func[T]) Write(addr uint32, in []byte, flags regio.Flags) {
	f.f.Write(struct{}{}, addr, in, flags)
}
