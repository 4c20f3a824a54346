package binding

import (
	"reflect"

	"vregmap/leaf"
	"vregmap/regio"
)

// Method declares one method of a shape as a register. Tag uses the same
// syntax as the reg struct tag.
//
// Two signatures are recognized:
//
//	func(v uint32)                                    // any integer type
//	func(addr uint32, buf []byte, flags regio.Flags)  // raw handler
//
// A single-argument method is a command register: writes call the method
// with the decoded value and reads return the declared default, even when
// the method is tagged wo. A raw handler
// receives whole byte runs and must be declared ro (it serves reads) or wo
// (it serves writes).
type Method struct {
	Name string
	Tag  string
}

// MethodDeclarer is implemented by shapes that expose methods as registers.
// RegisterMethods is called once, on a zero value, when the shape is built.
type MethodDeclarer interface {
	RegisterMethods() []Method
}

type rawHandler = func(addr uint32, buf []byte, flags regio.Flags)

var (
	declarerType   = reflect.TypeOf((*MethodDeclarer)(nil)).Elem()
	rawHandlerType = reflect.TypeOf((*rawHandler)(nil)).Elem()
)

func (b *builder) methods() error {
	pt := reflect.PointerTo(b.t)
	if !pt.Implements(declarerType) {
		return nil
	}
	zero := reflect.New(b.t)
	for _, md := range zero.Interface().(MethodDeclarer).RegisterMethods() {
		if err := b.method(zero, md); err != nil {
			return b.wrap(md.Name+"()", err)
		}
	}
	return nil
}

func (b *builder) method(zero reflect.Value, md Method) error {
	d, err := parseDecl(md.Tag)
	if err != nil {
		return err
	}
	m, ok := zero.Type().MethodByName(md.Name)
	if !ok {
		return regio.NewConfigError(regio.CodeBadMethod, "%s has no exported method %s", zero.Type(), md.Name)
	}
	idx := m.Index
	mt := zero.Method(idx).Type()

	if mt == rawHandlerType {
		handler := func(s reflect.Value) rawHandler {
			return s.Addr().Method(idx).Interface().(rawHandler)
		}
		switch {
		case d.readOnly:
			b.trace(md.Name+"()", "raw reader", d)
			return b.m.InsertReader(d.addr, d.length, leaf.SubjectReaderFunc[reflect.Value](
				func(s reflect.Value, addr uint32, out []byte, flags regio.Flags) {
					handler(s)(addr, out, flags)
				}))
		case d.writeOnly:
			b.trace(md.Name+"()", "raw writer", d)
			return b.m.InsertWriter(d.addr, d.length, leaf.SubjectWriterFunc[reflect.Value](
				func(s reflect.Value, addr uint32, in []byte, flags regio.Flags) {
					handler(s)(addr, in, flags)
				}))
		}
		return regio.NewConfigError(regio.CodeBadMethod, "raw handler needs ro or wo")
	}

	if mt.NumIn() != 1 || mt.NumOut() != 0 {
		return regio.NewConfigError(regio.CodeBadMethod, "unsupported signature %s", mt)
	}
	if d.readOnly {
		return regio.NewConfigError(regio.CodeBadMethod, "command register cannot be ro")
	}
	arg := mt.In(0)
	var cmd regio.SubjectMap[reflect.Value]
	switch arg.Kind() {
	case reflect.Int8, reflect.Uint8:
		cmd = command[uint8](idx, arg, d)
	case reflect.Int16, reflect.Uint16:
		cmd = command[uint16](idx, arg, d)
	case reflect.Int32, reflect.Uint32, reflect.Int, reflect.Uint:
		cmd = command[uint32](idx, arg, d)
	case reflect.Int64, reflect.Uint64:
		cmd = command[uint64](idx, arg, d)
	default:
		return regio.NewConfigError(regio.CodeBadMethod, "unsupported argument type %s", arg)
	}
	b.trace(md.Name+"()", "command "+arg.String(), d)
	return b.m.Insert(d.addr, d.length, cmd)
}

// command builds a write-triggered register. Reads always return the
// declared default; wo does not change that.
func command[T uint8 | uint16 | uint32 | uint64](idx int, arg reflect.Type, d decl) regio.SubjectMap[reflect.Value] {
	def := T(d.def)
	return leaf.NewSubjectFunc(
		func(reflect.Value, uint32) T { return def },
		func(s reflect.Value, _ uint32, v T) {
			s.Addr().Method(idx).Call([]reflect.Value{reflect.ValueOf(v).Convert(arg)})
		})
}
