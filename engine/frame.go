package engine

// Frame is an activation record of a predicate call.
// The first slots hold the arguments, followed by the slots reserved for cut barriers and caught balls, then local
// variables.
type Frame struct {
	slots  []Term
	code   *Code
	retPC  int
	parent *Frame
	cutB   int
	module *Module
	depth  int
}

func (f *Frame) barrier(s int) (int, error) {
	if s >= len(f.slots) {
		return 0, ErrCorruptCode
	}
	i, ok := f.slots[s].(Integer)
	if !ok {
		return 0, ErrCorruptCode
	}
	return int(i), nil
}

// argState is a saved argument cursor.
type argState struct {
	argP []Term
	argI int
	mode mode
}

type mode int

const (
	modeRead mode = iota
	modeWrite
)
