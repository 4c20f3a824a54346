package regio

import (
	"encoding/binary"
	"math"
	"reflect"
)

// Scalar is the set of fixed-width values a leaf can encode. Named types
// (enumerations) are encoded through their underlying representation.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Codec converts one scalar to and from its wire bytes.
// Multi-byte values are always little-endian, independent of the host.
type Codec[T Scalar] struct {
	size int
	put  func(b []byte, v T)
	get  func(b []byte) T
}

// CodecFor returns the codec for T.
func CodecFor[T Scalar]() Codec[T] {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Int8, reflect.Uint8:
		return Codec[T]{
			size: 1,
			put:  func(b []byte, v T) { b[0] = byte(v) },
			get:  func(b []byte) T { return T(b[0]) },
		}
	case reflect.Int16, reflect.Uint16:
		return Codec[T]{
			size: 2,
			put:  func(b []byte, v T) { binary.LittleEndian.PutUint16(b, uint16(v)) },
			get:  func(b []byte) T { return T(binary.LittleEndian.Uint16(b)) },
		}
	case reflect.Int32, reflect.Uint32:
		return Codec[T]{
			size: 4,
			put:  func(b []byte, v T) { binary.LittleEndian.PutUint32(b, uint32(v)) },
			get:  func(b []byte) T { return T(binary.LittleEndian.Uint32(b)) },
		}
	case reflect.Float32:
		return Codec[T]{
			size: 4,
			put:  func(b []byte, v T) { binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v))) },
			get:  func(b []byte) T { return T(math.Float32frombits(binary.LittleEndian.Uint32(b))) },
		}
	case reflect.Float64:
		return Codec[T]{
			size: 8,
			put:  func(b []byte, v T) { binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v))) },
			get:  func(b []byte) T { return T(math.Float64frombits(binary.LittleEndian.Uint64(b))) },
		}
	default: // Int64, Uint64
		return Codec[T]{
			size: 8,
			put:  func(b []byte, v T) { binary.LittleEndian.PutUint64(b, uint64(v)) },
			get:  func(b []byte) T { return T(binary.LittleEndian.Uint64(b)) },
		}
	}
}

// Size returns the encoded width in bytes.
func (c Codec[T]) Size() int { return c.size }

// Put encodes v into the first Size() bytes of b.
func (c Codec[T]) Put(b []byte, v T) { c.put(b, v) }

// Get decodes the first Size() bytes of b.
func (c Codec[T]) Get(b []byte) T { return c.get(b) }

// Encode returns the wire bytes of v.
func (c Codec[T]) Encode(v T) []byte {
	b := make([]byte, c.size)
	c.put(b, v)
	return b
}

// ReadValue reads one scalar from r at addr.
func ReadValue[T Scalar](r Reader, addr uint32) T {
	c := CodecFor[T]()
	buf := make([]byte, c.size)
	r.Read(addr, buf, 0)
	return c.get(buf)
}

// WriteValue writes one scalar to w at addr.
func WriteValue[T Scalar](w Writer, addr uint32, v T) {
	w.Write(addr, CodecFor[T]().Encode(v), 0)
}

// ReadSubjectValue reads one scalar from r for subject s at addr.
func ReadSubjectValue[T Scalar, S any](r SubjectReader[S], s S, addr uint32) T {
	c := CodecFor[T]()
	buf := make([]byte, c.size)
	r.Read(s, addr, buf, 0)
	return c.get(buf)
}

// WriteSubjectValue writes one scalar to w for subject s at addr.
func WriteSubjectValue[T Scalar, S any](w SubjectWriter[S], s S, addr uint32, v T) {
	w.Write(s, addr, CodecFor[T]().Encode(v), 0)
}
