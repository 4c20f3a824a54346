// Package dump implements the regmap_dump command: it loads a layout file,
// builds the register map it describes and prints a range of it.
package dump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"vregmap/common"
	"vregmap/diag"
	"vregmap/layout"
)

// Config mirrors the command line arguments of regmap_dump.
type Config struct {
	LayoutPath   string
	Address      uint32
	Length       int
	List         bool
	Spew         bool   // dump the parsed registers and memory blocks
	LogLevel     string // empty disables logging
	OutputWriter io.Writer
}

const bytesPerLine = 16

// Run loads the layout, optionally lists its contents and dumps
// [Address, Address+Length) as seen by a bus master.
func Run(cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}

	var log common.Logger = common.NewNoOpLogger()
	if cfg.LogLevel != "" {
		level, err := common.ParseSeverity(cfg.LogLevel)
		if err != nil {
			return err
		}
		log = common.NewStdLoggerWithWriter(w, w, level)
	}
	counters := &diag.Counters{}

	fmt.Fprintf(w, "Register Map Dump : reading layout %s\n", cfg.LayoutPath)
	l, err := layout.Load(cfg.LayoutPath, layout.WithLogger(log), layout.WithCounters(counters))
	if err != nil {
		return fmt.Errorf("failed to read layout: %w", err)
	}
	f, err := l.Build()
	if err != nil {
		return fmt.Errorf("failed to build register map: %w", err)
	}
	fmt.Fprintf(w, "Device %s (%s)\n", l.Name, l.Version)

	if cfg.List {
		listLayout(w, l)
	}
	if cfg.Spew {
		spewLayout(w, l)
	}

	if cfg.Length > 0 {
		buf := make([]byte, cfg.Length)
		f.Read(cfg.Address, buf, 0)
		hexDump(w, cfg.Address, buf)
	}

	fmt.Fprintln(w, counters.Snapshot())
	return nil
}

func listLayout(w io.Writer, l *layout.Layout) {
	for _, r := range l.Registers {
		fmt.Fprintf(w, "  %-16s 0x%08X len %-3d %s default 0x%X\n", r.Name, r.Address, r.Length, access(r.ReadOnly, r.WriteOnly), r.Default)
	}
	for _, m := range l.Memory {
		src := "zero"
		if m.File != "" {
			src = m.File
		}
		fmt.Fprintf(w, "  %-16s 0x%08X len %-3d %s memory %s\n", m.Name, m.Address, m.Length, access(m.ReadOnly, false), src)
	}
}

var layoutSpew = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

func spewLayout(w io.Writer, l *layout.Layout) {
	layoutSpew.Fdump(w, l.Registers, l.Memory)
}

func access(ro, wo bool) string {
	switch {
	case ro:
		return "ro"
	case wo:
		return "wo"
	}
	return "rw"
}

func hexDump(w io.Writer, addr uint32, data []byte) {
	var sb strings.Builder
	for off := 0; off < len(data); off += bytesPerLine {
		end := min(off+bytesPerLine, len(data))
		sb.Reset()
		fmt.Fprintf(&sb, "0x%08X:", uint64(addr)+uint64(off))
		for _, b := range data[off:end] {
			fmt.Fprintf(&sb, " %02X", b)
		}
		fmt.Fprintln(w, sb.String())
	}
}
