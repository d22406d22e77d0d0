package engine

import (
	"errors"
	"io"
)

var errWrongIOMode = errors.New("wrong i/o mode")

type ioMode int

const (
	ioModeRead ioMode = iota
	ioModeWrite
)

func (m ioMode) String() string {
	switch m {
	case ioModeWrite:
		return "write"
	default:
		return "read"
	}
}

// Stream is a prolog stream. Foreign predicates reach the host's input and output through streams.
type Stream struct {
	alias  Atom
	source io.Reader
	sink   io.Writer
	mode   ioMode
}

// NewInputStream creates an input stream.
func NewInputStream(alias Atom, r io.Reader) *Stream {
	return &Stream{alias: alias, source: r, mode: ioModeRead}
}

// NewOutputStream creates an output stream.
func NewOutputStream(alias Atom, w io.Writer) *Stream {
	return &Stream{alias: alias, sink: w, mode: ioModeWrite}
}

// Alias returns the alias of the stream.
func (s *Stream) Alias() Atom {
	return s.alias
}

// Name returns the stream's name. If the underlying source/sink doesn't have a name, returns "".
func (s *Stream) Name() string {
	type namer interface {
		Name() string
	}

	var f interface{} = s.source
	if s.mode == ioModeWrite {
		f = s.sink
	}
	n, ok := f.(namer)
	if !ok {
		return ""
	}
	return n.Name()
}

// Read reads from the underlying source. It fails if the stream is not an input stream.
func (s *Stream) Read(p []byte) (int, error) {
	if s.mode != ioModeRead || s.source == nil {
		return 0, errWrongIOMode
	}
	return s.source.Read(p)
}

// Write writes to the underlying sink. It fails if the stream is not an output stream.
func (s *Stream) Write(p []byte) (int, error) {
	if s.mode != ioModeWrite || s.sink == nil {
		return 0, errWrongIOMode
	}
	return s.sink.Write(p)
}

// WriteTerm writes the canonical form of t followed by a newline.
func (s *Stream) WriteTerm(vm *VM, t Term) error {
	_, err := io.WriteString(s, vm.Simplify(t).String()+"\n")
	return err
}
