// Package binding generates register maps from struct types.
//
// Fields carry their register declaration in a struct tag:
//
//	type UART struct {
//		Control uint32   `reg:"0x00"`
//		Status  Status   `reg:"0x04,len=1,ro"`
//		TxData  uint8    `reg:"0x08,len=1,wo"`
//		Model   string   `reg:"0x10,len=16"`
//		DMA     *Channel `reg:"0x100,len=0x40"`
//	}
//
// The map of a shape is generated once per Cache and shared by every
// instance of it; binding an instance only fixes the subject in place.
//
// Field kinds map as follows. Fixed-width integers and floats (and named
// types over them) get a scalar leaf of the same width; int, uint, uintptr
// and bool are served as 4-byte values. Byte arrays are raw storage, one
// element per address. Strings are read-only text, one character per
// address. A struct or pointer-to-struct field is mapped through the shape
// of its own type, with the field's region offset subtracted; a nil pointer
// reads as unmapped. Any other kind is a configuration error.
//
// A read-only or unexported field ignores writes. A write-only field reads as
// zero, never as its declared default. Command methods are the exception:
// they always read back their default.
package binding

import (
	"reflect"

	"vregmap/diag"
	"vregmap/regio"
	"vregmap/regmap"
)

// Shape is the generated map of T. Its subject is a pointer to the instance
// being accessed; a nil subject is unmapped.
type Shape[T any] struct {
	sh       *shape
	counters *diag.Counters
}

// For returns the shape of T from the default cache, generating it on first
// use.
func For[T any]() (*Shape[T], error) {
	return ForIn[T](DefaultCache())
}

// ForIn returns the shape of T from c.
func ForIn[T any](c *Cache) (*Shape[T], error) {
	sh, err := c.load(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return &Shape[T]{sh: sh, counters: c.opts.counters}, nil
}

func (s *Shape[T]) Read(v *T, addr uint32, out []byte, flags regio.Flags) {
	if v == nil {
		regio.FillUnmapped(out)
		s.counters.AddUnmappedRead()
		return
	}
	s.sh.m.Read(reflect.ValueOf(v).Elem(), addr, out, flags)
}

func (s *Shape[T]) Write(v *T, addr uint32, in []byte, flags regio.Flags) {
	if v == nil {
		s.counters.AddUnmappedWrite()
		return
	}
	s.sh.m.Write(reflect.ValueOf(v).Elem(), addr, in, flags)
}

// Bind returns a map serving v. It panics if v is nil.
func (s *Shape[T]) Bind(v *T) regio.Map {
	return regio.Bind[*T](s, v)
}

// Regions returns the regions of the shape's map in one direction.
func (s *Shape[T]) Regions(dir regmap.Direction) []regmap.Interval {
	return s.sh.m.Regions(dir)
}

// Bind returns a map serving v, using the default cache.
func Bind[T any](v *T) (regio.Map, error) {
	return BindIn(DefaultCache(), v)
}

// BindIn returns a map serving v, using c.
func BindIn[T any](c *Cache, v *T) (regio.Map, error) {
	if v == nil {
		return nil, regio.NewConfigError(regio.CodeUnsupportedMember, "nil *%s subject", reflect.TypeOf((*T)(nil)).Elem())
	}
	s, err := ForIn[T](c)
	if err != nil {
		return nil, err
	}
	return s.Bind(v), nil
}

// MustBind is like Bind but panics on error. It is meant for package level
// variables.
func MustBind[T any](v *T) regio.Map {
	m, err := Bind(v)
	if err != nil {
		panic(err)
	}
	return m
}

// BindValue is the untyped form of Bind: v must be a non-nil pointer to a
// struct.
func BindValue(v any) (regio.Map, error) {
	return DefaultCache().BindValue(v)
}

// BindValue returns a map serving v, which must be a non-nil pointer to a
// struct.
func (c *Cache) BindValue(v any) (regio.Map, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, regio.NewConfigError(regio.CodeUnsupportedMember, "need a non-nil pointer to a struct, got %T", v)
	}
	sh, err := c.load(rv.Elem().Type())
	if err != nil {
		return nil, err
	}
	return regio.Bind[reflect.Value](sh.m, rv.Elem()), nil
}

// InsertSubject binds v through the default cache and maps it at
// [addr, addr+size) of dst, in both directions.
func InsertSubject[T any](dst *regmap.Composite, addr, size uint32, v *T) error {
	m, err := Bind(v)
	if err != nil {
		return err
	}
	return dst.Insert(addr, size, m)
}

// InsertValue is the untyped form of InsertSubject, using c.
func (c *Cache) InsertValue(dst *regmap.Composite, addr, size uint32, v any) error {
	m, err := c.BindValue(v)
	if err != nil {
		return err
	}
	return dst.Insert(addr, size, m)
}
