package leaf

import "vregmap/regio"

// ReaderFunc adapts a function to regio.Reader. The function receives the
// whole run and is responsible for every byte of it.
type ReaderFunc func(addr uint32, out []byte, flags regio.Flags)

func (f ReaderFunc) Read(addr uint32, out []byte, flags regio.Flags) { f(addr, out, flags) }

// WriterFunc adapts a function to regio.Writer.
type WriterFunc func(addr uint32, in []byte, flags regio.Flags)

func (f WriterFunc) Write(addr uint32, in []byte, flags regio.Flags) { f(addr, in, flags) }

// SubjectReaderFunc adapts a function to regio.SubjectReader.
type SubjectReaderFunc[S any] func(s S, addr uint32, out []byte, flags regio.Flags)

func (f SubjectReaderFunc[S]) Read(s S, addr uint32, out []byte, flags regio.Flags) {
	f(s, addr, out, flags)
}

// SubjectWriterFunc adapts a function to regio.SubjectWriter.
type SubjectWriterFunc[S any] func(s S, addr uint32, in []byte, flags regio.Flags)

func (f SubjectWriterFunc[S]) Write(s S, addr uint32, in []byte, flags regio.Flags) {
	f(s, addr, in, flags)
}
