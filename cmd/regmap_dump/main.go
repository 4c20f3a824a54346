package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"vregmap/internal/dump"
)

func main() {
	layoutPath := flag.String("layout", "", "Path to the layout file (.yaml, .yml or .ini)")
	addr := flag.String("addr", "0", "Start address of the dump")
	length := flag.Int("len", 64, "Number of bytes to dump")
	list := flag.Bool("list", false, "List the registers and memory blocks of the layout")
	spewDump := flag.Bool("spew", false, "Dump the parsed layout structures")
	logLevel := flag.String("log", "", "Log level (debug, info, warning, error); empty disables logging")

	flag.Parse()

	if *layoutPath == "" {
		fmt.Println("Register Map Dump : Error: Missing file name on -layout option")
		os.Exit(1)
	}
	start, err := strconv.ParseUint(*addr, 0, 32)
	if err != nil {
		fmt.Printf("Register Map Dump : Error: bad -addr value %q\n", *addr)
		os.Exit(1)
	}

	cfg := dump.Config{
		LayoutPath:   *layoutPath,
		Address:      uint32(start),
		Length:       *length,
		List:         *list,
		Spew:         *spewDump,
		LogLevel:     *logLevel,
		OutputWriter: os.Stdout,
	}

	if err := dump.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
