package dump

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vregmap/regio"
)

const timerLayout = `name: timer0
version: v1.0.0
registers:
  - {name: load, address: 0x0, default: 0x100}
  - {name: value, address: 0x4, readOnly: true}
  - {name: ctrl, address: 0x8, length: 1, default: 0x3}
`

func writeLayout(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timer.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	path := writeLayout(t, timerLayout)
	var out bytes.Buffer
	err := Run(Config{LayoutPath: path, Address: 0, Length: 20, List: true, OutputWriter: &out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "Register Map Dump : reading layout " + path + "\n" +
		"Device timer0 (v1.0.0)\n" +
		"  load             0x00000000 len 4   rw default 0x100\n" +
		"  value            0x00000004 len 4   ro default 0x0\n" +
		"  ctrl             0x00000008 len 1   rw default 0x3\n" +
		"0x00000000: 00 01 00 00 00 00 00 00 03 EE EE EE EE EE EE EE\n" +
		"0x00000010: EE EE EE EE\n" +
		"unmapped reads: 1; unmapped writes: 0\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSpew(t *testing.T) {
	path := writeLayout(t, timerLayout)
	var out bytes.Buffer
	if err := Run(Config{LayoutPath: path, Spew: true, OutputWriter: &out}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		"([]layout.Register) (len=3) {",
		`Name: (string) (len=4) "load",`,
		"Address: (uint32) 8,",
		"Default: (uint64) 256,",
		"ReadOnly: (bool) true,",
		"([]layout.Memory) <nil>",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRunBadLayout(t *testing.T) {
	path := writeLayout(t, "name: timer0\nversion: v3.0.0\n")
	err := Run(Config{LayoutPath: path, OutputWriter: &bytes.Buffer{}})
	if !errors.Is(err, regio.ErrBadLayout) {
		t.Errorf("Run error = %v, want ErrBadLayout", err)
	}
}

func TestRunLogging(t *testing.T) {
	path := writeLayout(t, timerLayout)
	var out bytes.Buffer
	if err := Run(Config{LayoutPath: path, LogLevel: "debug", OutputWriter: &out}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		"INFO: layout: loaded timer0 v1.0.0 (yaml): 3 registers, 0 memory blocks",
		"DEBUG: regmap: insert rw [0x00000008,0x9)",
		"DEBUG: layout: timer0: region [0x00000004,0x8)",
	} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}

	if err := Run(Config{LayoutPath: path, LogLevel: "chatty", OutputWriter: &out}); err == nil {
		t.Error("Run with an unknown log level succeeded")
	}
}
