package regio

import "reflect"

// Bind fixes subject s in place, presenting m as a plain Map.
// It panics if s is nil; a map bound to nothing can never serve a request.
func Bind[S any](m SubjectMap[S], s S) Map {
	mustSubject(s)
	return boundMap[S]{m: m, s: s}
}

// BindReader fixes subject s in place for a read-only subject map.
func BindReader[S any](r SubjectReader[S], s S) Reader {
	mustSubject(s)
	return boundReader[S]{r: r, s: s}
}

// BindWriter fixes subject s in place for a write-only subject map.
func BindWriter[S any](w SubjectWriter[S], s S) Writer {
	mustSubject(s)
	return boundWriter[S]{w: w, s: s}
}

func mustSubject(s any) {
	if s == nil {
		panic("regio: bind: nil subject")
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			panic("regio: bind: nil subject")
		}
	}
}

type boundMap[S any] struct {
	m SubjectMap[S]
	s S
}

func (b boundMap[S]) Read(addr uint32, out []byte, flags Flags) { b.m.Read(b.s, addr, out, flags) }
func (b boundMap[S]) Write(addr uint32, in []byte, flags Flags) { b.m.Write(b.s, addr, in, flags) }

type boundReader[S any] struct {
	r SubjectReader[S]
	s S
}

func (b boundReader[S]) Read(addr uint32, out []byte, flags Flags) { b.r.Read(b.s, addr, out, flags) }

type boundWriter[S any] struct {
	w SubjectWriter[S]
	s S
}

func (b boundWriter[S]) Write(addr uint32, in []byte, flags Flags) { b.w.Write(b.s, addr, in, flags) }

// Lift presents a plain map as a subject map that ignores its subject, so
// plain leaves can be mixed into a subject-parameterized composite.
func Lift[S any](m Map) SubjectMap[S] {
	return lifted[S]{m: m}
}

type lifted[S any] struct{ m Map }

func (l lifted[S]) Read(_ S, addr uint32, out []byte, flags Flags) { l.m.Read(addr, out, flags) }
func (l lifted[S]) Write(_ S, addr uint32, in []byte, flags Flags) { l.m.Write(addr, in, flags) }

// ReadOnly presents r as a Map whose writes are ignored.
func ReadOnly(r Reader) Map {
	return readOnly{r: r}
}

type readOnly struct{ r Reader }

func (m readOnly) Read(addr uint32, out []byte, flags Flags) { m.r.Read(addr, out, flags) }
func (readOnly) Write(uint32, []byte, Flags) {}

// WriteOnly presents w as a Map whose reads return fill in every byte.
func WriteOnly(w Writer, fill byte) Map {
	return writeOnly{w: w, fill: fill}
}

type writeOnly struct {
	w    Writer
	fill byte
}

func (m writeOnly) Read(_ uint32, out []byte, _ Flags) { fillBytes(out, m.fill) }
func (m writeOnly) Write(addr uint32, in []byte, flags Flags) {
	m.w.Write(addr, in, flags)
}

// SubjectReadOnly presents r as a SubjectMap whose writes are ignored.
func SubjectReadOnly[S any](r SubjectReader[S]) SubjectMap[S] {
	return subjectReadOnly[S]{r: r}
}

type subjectReadOnly[S any] struct{ r SubjectReader[S] }

func (m subjectReadOnly[S]) Read(s S, addr uint32, out []byte, flags Flags) {
	m.r.Read(s, addr, out, flags)
}
func (subjectReadOnly[S]) Write(S, uint32, []byte, Flags) {}

// SubjectWriteOnly presents w as a SubjectMap whose reads return fill.
func SubjectWriteOnly[S any](w SubjectWriter[S], fill byte) SubjectMap[S] {
	return subjectWriteOnly[S]{w: w, fill: fill}
}

type subjectWriteOnly[S any] struct {
	w    SubjectWriter[S]
	fill byte
}

func (m subjectWriteOnly[S]) Read(_ S, _ uint32, out []byte, _ Flags) { fillBytes(out, m.fill) }
func (m subjectWriteOnly[S]) Write(s S, addr uint32, in []byte, flags Flags) {
	m.w.Write(s, addr, in, flags)
}

// FillUnmapped sets every byte of out to UnmappedReadValue.
func FillUnmapped(out []byte) {
	fillBytes(out, UnmappedReadValue)
}

func fillBytes(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
