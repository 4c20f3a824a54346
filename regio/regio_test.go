package regio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vregmap/diag"
)

// memMap is a flat byte store used to exercise the adapters.
type memMap struct {
	mem    [16]byte
	writes int
}

func (m *memMap) Read(addr uint32, out []byte, _ Flags) { copy(out, m.mem[addr:]) }
func (m *memMap) Write(addr uint32, in []byte, _ Flags) {
	copy(m.mem[addr:], in)
	m.writes++
}

type counter struct{ n uint32 }

type counterMap struct{}

func (counterMap) Read(c *counter, _ uint32, out []byte, _ Flags) {
	CodecFor[uint32]().Put(out, c.n)
}

func (counterMap) Write(c *counter, _ uint32, in []byte, _ Flags) {
	c.n = CodecFor[uint32]().Get(in)
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		f    Flags
		want string
	}{
		{0, "None"},
		{NoAddressIncrement, "NoAddressIncrement"},
		{NoAddressIncrement | 0x80, "NoAddressIncrement|Unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Flags(%d).String() = %q, want %q", uint32(tt.f), got, tt.want)
		}
	}
}

func TestCodecLittleEndian(t *testing.T) {
	if diff := cmp.Diff([]byte{0x78, 0x56, 0x34, 0x12}, CodecFor[uint32]().Encode(0x12345678)); diff != "" {
		t.Errorf("uint32 encoding mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0xFE, 0xFF}, CodecFor[int16]().Encode(-2)); diff != "" {
		t.Errorf("int16 encoding mismatch (-want +got):\n%s", diff)
	}
	if got := CodecFor[float64]().Get(CodecFor[float64]().Encode(math.Pi)); got != math.Pi {
		t.Errorf("float64 round trip = %v, want %v", got, math.Pi)
	}
	type level uint16
	if got := CodecFor[level]().Size(); got != 2 {
		t.Errorf("named uint16 codec size = %d, want 2", got)
	}
}

func TestTypedHelpers(t *testing.T) {
	m := &memMap{}
	WriteValue[uint16](m, 2, 0xBEEF)
	if got := ReadValue[uint16](m, 2); got != 0xBEEF {
		t.Errorf("ReadValue = 0x%x, want 0xBEEF", got)
	}
	if got := ReadValue[uint8](m, 3); got != 0xBE {
		t.Errorf("high byte = 0x%x, want 0xBE", got)
	}

	c := &counter{}
	WriteSubjectValue[uint32](counterMap{}, c, 0, 42)
	if got := ReadSubjectValue[uint32](counterMap{}, c, 0); got != 42 {
		t.Errorf("ReadSubjectValue = %d, want 42", got)
	}
}

func TestBindFixesSubject(t *testing.T) {
	a, b := &counter{n: 1}, &counter{n: 2}
	ma, mb := Bind[*counter](counterMap{}, a), Bind[*counter](counterMap{}, b)

	WriteValue[uint32](ma, 0, 10)
	if a.n != 10 || b.n != 2 {
		t.Errorf("after write through a: a=%d b=%d, want a=10 b=2", a.n, b.n)
	}
	if got := ReadValue[uint32](mb, 0); got != 2 {
		t.Errorf("read through b = %d, want 2", got)
	}
	if got := ReadValue[uint32](BindReader[*counter](counterMap{}, a), 0); got != 10 {
		t.Errorf("BindReader = %d, want 10", got)
	}
	WriteValue[uint32](BindWriter[*counter](counterMap{}, b), 0, 7)
	if b.n != 7 {
		t.Errorf("BindWriter: b=%d, want 7", b.n)
	}
}

func TestBindNilSubjectPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Bind with nil subject did not panic")
		}
	}()
	var c *counter
	Bind[*counter](counterMap{}, c)
}

func TestReadOnlyWriteOnly(t *testing.T) {
	m := &memMap{}
	m.mem[0] = 0x11

	ro := ReadOnly(m)
	WriteValue[uint8](ro, 0, 0x22)
	if m.writes != 0 {
		t.Errorf("ReadOnly forwarded %d writes, want 0", m.writes)
	}
	if got := ReadValue[uint8](ro, 0); got != 0x11 {
		t.Errorf("ReadOnly read = 0x%x, want 0x11", got)
	}

	wo := WriteOnly(m, 0xA5)
	WriteValue[uint8](wo, 1, 0x33)
	if m.mem[1] != 0x33 {
		t.Errorf("WriteOnly did not forward write: mem[1]=0x%x", m.mem[1])
	}
	if got := ReadValue[uint16](wo, 0); got != 0xA5A5 {
		t.Errorf("WriteOnly read = 0x%x, want 0xA5A5", got)
	}
}

func TestSubjectCapabilityAdapters(t *testing.T) {
	c := &counter{n: 5}
	ro := SubjectReadOnly[*counter](counterMap{})
	WriteSubjectValue[uint32](ro, c, 0, 9)
	if c.n != 5 {
		t.Errorf("SubjectReadOnly write reached subject: n=%d", c.n)
	}
	wo := SubjectWriteOnly[*counter](counterMap{}, 0)
	WriteSubjectValue[uint32](wo, c, 0, 9)
	if c.n != 9 {
		t.Errorf("SubjectWriteOnly write lost: n=%d", c.n)
	}
	if got := ReadSubjectValue[uint32](wo, c, 0); got != 0 {
		t.Errorf("SubjectWriteOnly read = %d, want 0", got)
	}
}

func TestLiftIgnoresSubject(t *testing.T) {
	m := &memMap{}
	l := Lift[string](m)
	l.Write("anything", 4, []byte{1, 2}, 0)
	out := make([]byte, 2)
	l.Read("other", 4, out, 0)
	if diff := cmp.Diff([]byte{1, 2}, out); diff != "" {
		t.Errorf("Lift read mismatch (-want +got):\n%s", diff)
	}
}

type parent struct{ child *counter }

func TestDeferred(t *testing.T) {
	counters := &diag.Counters{}
	d := Deferred[*parent, *counter](counterMap{}, func(p *parent) (*counter, bool) {
		return p.child, p.child != nil
	}, counters)

	p := &parent{child: &counter{n: 3}}
	if got := ReadSubjectValue[uint32](d, p, 0); got != 3 {
		t.Errorf("Deferred read = %d, want 3", got)
	}
	WriteSubjectValue[uint32](d, p, 0, 8)
	if p.child.n != 8 {
		t.Errorf("Deferred write: child=%d, want 8", p.child.n)
	}

	orphan := &parent{}
	if got := ReadSubjectValue[uint32](d, orphan, 0); got != 0xEEEEEEEE {
		t.Errorf("read through nil child = 0x%x, want 0xEEEEEEEE", got)
	}
	WriteSubjectValue[uint32](d, orphan, 0, 1)
	want := diag.Snapshot{UnmappedReads: 1, UnmappedWrites: 1}
	if diff := cmp.Diff(want, counters.Snapshot()); diff != "" {
		t.Errorf("counters mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigError(t *testing.T) {
	err := fmt.Errorf("building: %w", NewConfigError(CodeOverlap, "region [0x%X,0x%X)", 4, 8))
	if !errors.Is(err, ErrOverlap) {
		t.Errorf("errors.Is(err, ErrOverlap) = false for %v", err)
	}
	if errors.Is(err, ErrZeroLength) {
		t.Errorf("errors.Is(err, ErrZeroLength) = true for %v", err)
	}
	var cfg *ConfigError
	if !errors.As(err, &cfg) || cfg.Code != CodeOverlap {
		t.Fatalf("errors.As did not extract the overlap code from %v", err)
	}
	for _, want := range []string{"0x0002", "ERR_OVERLAP", "region [0x4,0x8)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}
	if got := ErrCode(99).String(); got != "ErrCode(99)" {
		t.Errorf("unknown code String() = %q", got)
	}
}
