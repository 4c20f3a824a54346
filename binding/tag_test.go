package binding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vregmap/regio"
)

func TestParseDecl(t *testing.T) {
	tests := []struct {
		tag  string
		want decl
	}{
		{"0x10", decl{addr: 0x10, length: 4}},
		{"256,len=2", decl{addr: 256, length: 2}},
		{"0b1000, len=0x8, default=0xA5", decl{addr: 8, length: 8, def: 0xA5}},
		{"0x0,ro", decl{addr: 0, length: 4, readOnly: true}},
		{"0xFFFFFFFF,len=1,wo", decl{addr: 0xFFFFFFFF, length: 1, writeOnly: true}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := parseDecl(tt.tag)
			if err != nil {
				t.Fatalf("parseDecl(%q): %v", tt.tag, err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(decl{})); diff != "" {
				t.Errorf("parseDecl(%q) mismatch (-want +got):\n%s", tt.tag, diff)
			}
		})
	}
}

func TestParseDeclErrors(t *testing.T) {
	tests := []struct {
		tag  string
		want error
	}{
		{"", regio.ErrBadTag},
		{"ten", regio.ErrBadTag},
		{"0x100000000", regio.ErrBadTag},
		{"0x0,len", regio.ErrBadTag},
		{"0x0,len=-1", regio.ErrBadTag},
		{"0x0,default", regio.ErrBadTag},
		{"0x0,rw", regio.ErrBadTag},
		{"0x0,ro,wo", regio.ErrBadTag},
		{"0x0,len=0", regio.ErrZeroLength},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if _, err := parseDecl(tt.tag); !errors.Is(err, tt.want) {
				t.Errorf("parseDecl(%q) error = %v, want %v", tt.tag, err, tt.want)
			}
		})
	}
}
