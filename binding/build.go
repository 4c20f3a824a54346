package binding

import (
	"fmt"
	"reflect"

	"vregmap/common"
	"vregmap/leaf"
	"vregmap/regio"
	"vregmap/regmap"
)

// builder assembles the map of a single struct type.
type builder struct {
	c *Cache
	t reflect.Type
	m *regmap.SubjectComposite[reflect.Value]
}

// generate discovers the tagged fields and declared methods of t and inserts
// one region per member.
func (c *Cache) generate(t reflect.Type) (*regmap.SubjectComposite[reflect.Value], error) {
	if t.Kind() != reflect.Struct {
		return nil, regio.NewConfigError(regio.CodeUnsupportedMember, "%s is not a struct", t)
	}
	b := &builder{
		c: c,
		t: t,
		m: regmap.NewSubject[reflect.Value](regmap.WithLogger(c.opts.log), regmap.WithCounters(c.opts.counters)),
	}
	for _, f := range reflect.VisibleFields(t) {
		if err := b.field(f); err != nil {
			return nil, err
		}
	}
	if err := b.methods(); err != nil {
		return nil, err
	}
	c.opts.log.Infof("binding: built %s: %d read regions, %d write regions",
		typeName(t), b.m.Len(regmap.DirRead), b.m.Len(regmap.DirWrite))
	return b.m, nil
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func (b *builder) wrap(member string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("binding: %s.%s: %w", typeName(b.t), member, err)
}

func (b *builder) trace(member, kind string, d decl) {
	if b.c.opts.log.Enabled(common.SeverityDebug) {
		b.c.opts.log.Debugf("binding: %s.%s: %s at 0x%08X len 0x%X", typeName(b.t), member, kind, d.addr, d.length)
	}
}

func (b *builder) field(f reflect.StructField) error {
	tag, ok := f.Tag.Lookup(TagName)
	if !ok || tag == "-" {
		return nil
	}
	d, err := parseDecl(tag)
	if err != nil {
		return b.wrap(f.Name, err)
	}
	for i := 1; i < len(f.Index); i++ {
		if b.t.FieldByIndex(f.Index[:i]).Type.Kind() == reflect.Pointer {
			return b.wrap(f.Name, regio.NewConfigError(regio.CodeUnsupportedMember, "promoted through an embedded pointer"))
		}
	}

	m, err := b.fieldMap(f, d)
	if err != nil {
		return b.wrap(f.Name, err)
	}
	b.trace(f.Name, f.Type.String(), d)
	return b.wrap(f.Name, b.m.Insert(d.addr, d.length, m))
}

// fieldMap picks the leaf for a field from its kind. Named types map through
// their underlying kind, so enumerations need no special handling.
func (b *builder) fieldMap(f reflect.StructField, d decl) (regio.SubjectMap[reflect.Value], error) {
	idx := f.Index
	settable := f.IsExported() && !d.readOnly

	switch f.Type.Kind() {
	case reflect.Int8:
		return intField[int8](idx, d, settable), nil
	case reflect.Int16:
		return intField[int16](idx, d, settable), nil
	case reflect.Int32, reflect.Int:
		return intField[int32](idx, d, settable), nil
	case reflect.Int64:
		return intField[int64](idx, d, settable), nil
	case reflect.Uint8:
		return uintField[uint8](idx, d, settable), nil
	case reflect.Uint16:
		return uintField[uint16](idx, d, settable), nil
	case reflect.Uint32, reflect.Uint, reflect.Uintptr:
		return uintField[uint32](idx, d, settable), nil
	case reflect.Uint64:
		return uintField[uint64](idx, d, settable), nil
	case reflect.Float32:
		return floatField[float32](idx, d, settable), nil
	case reflect.Float64:
		return floatField[float64](idx, d, settable), nil
	case reflect.Bool:
		return scalarField(d, settable,
			func(s reflect.Value) uint32 {
				if s.FieldByIndex(idx).Bool() {
					return 1
				}
				return 0
			},
			func(s reflect.Value, v uint32) { s.FieldByIndex(idx).SetBool(v != 0) }), nil
	case reflect.Array:
		if f.Type.Elem().Kind() == reflect.Uint8 {
			return &byteArray{idx: idx, writeOnly: d.writeOnly, settable: settable}, nil
		}
	case reflect.String:
		return leaf.NewSubjectText(func(s reflect.Value) string {
			return s.FieldByIndex(idx).String()
		}), nil
	case reflect.Struct:
		if !f.IsExported() {
			return nil, unexportedNested(f)
		}
		return b.nested(f.Type, d, func(s reflect.Value) (reflect.Value, bool) {
			return s.FieldByIndex(idx), true
		})
	case reflect.Pointer:
		if f.Type.Elem().Kind() == reflect.Struct {
			if !f.IsExported() {
				return nil, unexportedNested(f)
			}
			return b.nested(f.Type.Elem(), d, func(s reflect.Value) (reflect.Value, bool) {
				p := s.FieldByIndex(idx)
				if p.IsNil() {
					return reflect.Value{}, false
				}
				return p.Elem(), true
			})
		}
	}
	return nil, regio.NewConfigError(regio.CodeUnsupportedMember, "type %s", f.Type)
}

// Nested subjects are mutated through reflection, which unexported fields
// do not allow.
func unexportedNested(f reflect.StructField) error {
	return regio.NewConfigError(regio.CodeUnsupportedMember, "unexported nested member of type %s", f.Type)
}

// nested maps a struct member through the shape of its own type.
func (b *builder) nested(t reflect.Type, d decl, fetch func(reflect.Value) (reflect.Value, bool)) (regio.SubjectMap[reflect.Value], error) {
	sh := b.c.construct(t)
	if sh.err != nil {
		return nil, sh.err
	}
	m := regio.Deferred[reflect.Value, reflect.Value](shapeRef{sh: sh, counters: b.c.opts.counters}, fetch, b.c.opts.counters)
	switch {
	case d.readOnly:
		return regio.SubjectReadOnly[reflect.Value](m), nil
	case d.writeOnly:
		return regio.SubjectWriteOnly[reflect.Value](m, 0), nil
	}
	return m, nil
}

// scalarField builds a fixed-width leaf over one field. A write-only field
// reads as zero rather than its declared default.
func scalarField[T regio.Scalar](d decl, settable bool, get func(reflect.Value) T, set func(reflect.Value, T)) regio.SubjectMap[reflect.Value] {
	getter := func(s reflect.Value, _ uint32) T { return get(s) }
	if d.writeOnly {
		getter = func(reflect.Value, uint32) T { return 0 }
	}
	var setter func(reflect.Value, uint32, T)
	if settable {
		setter = func(s reflect.Value, _ uint32, v T) { set(s, v) }
	}
	return leaf.NewSubjectFunc(getter, setter)
}

func intField[T int8 | int16 | int32 | int64](idx []int, d decl, settable bool) regio.SubjectMap[reflect.Value] {
	return scalarField(d, settable,
		func(s reflect.Value) T { return T(s.FieldByIndex(idx).Int()) },
		func(s reflect.Value, v T) { s.FieldByIndex(idx).SetInt(int64(v)) })
}

func uintField[T uint8 | uint16 | uint32 | uint64](idx []int, d decl, settable bool) regio.SubjectMap[reflect.Value] {
	return scalarField(d, settable,
		func(s reflect.Value) T { return T(s.FieldByIndex(idx).Uint()) },
		func(s reflect.Value, v T) { s.FieldByIndex(idx).SetUint(uint64(v)) })
}

func floatField[T float32 | float64](idx []int, d decl, settable bool) regio.SubjectMap[reflect.Value] {
	return scalarField(d, settable,
		func(s reflect.Value) T { return T(s.FieldByIndex(idx).Float()) },
		func(s reflect.Value, v T) { s.FieldByIndex(idx).SetFloat(float64(v)) })
}

// byteArray serves a [N]byte field as raw storage, element i at region
// offset i. Offsets past the array read as zero and drop writes.
type byteArray struct {
	idx       []int
	writeOnly bool
	settable  bool
}

func (a *byteArray) Read(s reflect.Value, addr uint32, out []byte, _ regio.Flags) {
	clear(out)
	if a.writeOnly {
		return
	}
	v := s.FieldByIndex(a.idx)
	for i := range out {
		j := uint64(addr) + uint64(i)
		if j >= uint64(v.Len()) {
			return
		}
		out[i] = byte(v.Index(int(j)).Uint())
	}
}

func (a *byteArray) Write(s reflect.Value, addr uint32, in []byte, _ regio.Flags) {
	if !a.settable {
		return
	}
	v := s.FieldByIndex(a.idx)
	for i, b := range in {
		j := uint64(addr) + uint64(i)
		if j >= uint64(v.Len()) {
			return
		}
		v.Index(int(j)).SetUint(uint64(b))
	}
}
