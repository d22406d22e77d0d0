package engine

import (
	"fmt"
	"sync/atomic"
)

var varCounter int64

// Variable is a prolog variable. It's a mutable cell which can be bound by a VM.
// A conditional binding is only valid while the VM's trail still holds it at position limit, which lets backtracking
// unbind variables by just truncating the trail. A binding with the limit permanent stays.
type Variable struct {
	index int64
	ref   Term
	limit int
}

// NewVariable creates a new anonymous variable.
func NewVariable() *Variable {
	return &Variable{index: atomic.AddInt64(&varCounter, 1)}
}

func (v *Variable) term() {}

// Index returns the creation index of the variable. Variables created later have larger indices.
func (v *Variable) Index() int64 {
	return v.index
}

func (v *Variable) String() string {
	return fmt.Sprintf("_G%d", v.index)
}
