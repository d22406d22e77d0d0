package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVariable(t *testing.T) {
	a, b := NewVariable(), NewVariable()
	assert.NotSame(t, a, b)
	assert.Less(t, a.Index(), b.Index())
	assert.Equal(t, fmt.Sprintf("_G%d", a.Index()), a.String())
}

func TestVM_Resolve(t *testing.T) {
	var vm VM
	x, y := NewVariable(), NewVariable()

	assert.Equal(t, x, vm.Resolve(x))
	assert.Equal(t, NewAtom("a"), vm.Resolve(NewAtom("a")))

	vm.bind(y, x)
	vm.bind(x, NewAtom("a"))
	assert.Equal(t, NewAtom("a"), vm.Resolve(y))

	t.Run("self reference is unbound", func(t *testing.T) {
		z := NewVariable()
		vm.bind(z, z)
		assert.Equal(t, z, vm.Resolve(z))
	})
}

func TestVM_undo(t *testing.T) {
	var vm VM
	x, y := NewVariable(), NewVariable()

	vm.bind(x, NewAtom("a"))
	mark := len(vm.trail)
	vm.bind(y, NewAtom("b"))
	assert.Equal(t, NewAtom("b"), vm.Resolve(y))

	vm.undo(mark)
	assert.Equal(t, NewAtom("a"), vm.Resolve(x))
	assert.Equal(t, y, vm.Resolve(y))

	t.Run("a later binding at the same position doesn't revive the old one", func(t *testing.T) {
		z := NewVariable()
		vm.bind(z, NewAtom("c"))
		assert.Equal(t, y, vm.Resolve(y))
		assert.Equal(t, NewAtom("c"), vm.Resolve(z))
	})

	t.Run("rebinding after undo", func(t *testing.T) {
		vm.undo(mark)
		vm.bind(y, NewAtom("d"))
		assert.Equal(t, NewAtom("d"), vm.Resolve(y))
	})
}

func TestVM_Simplify(t *testing.T) {
	var vm VM
	x, y := NewVariable(), NewVariable()
	f := NewAtom("f")

	vm.bind(x, f.Apply(y, NewAtom("b")))
	vm.bind(y, NewAtom("a"))
	assert.Equal(t, f.Apply(NewAtom("a"), NewAtom("b")), vm.Simplify(x))

	t.Run("cyclic", func(t *testing.T) {
		z := NewVariable()
		c := f.Apply(z, NewAtom("b"))
		vm.bind(z, c)
		s, ok := vm.Simplify(z).(*Compound)
		assert.True(t, ok)
		assert.Same(t, s, s.Args[0])
	})
}

func TestVM_FreeVariables(t *testing.T) {
	var vm VM
	x, y, z := NewVariable(), NewVariable(), NewVariable()
	f := NewAtom("f")

	vm.bind(y, f.Apply(z, x))
	assert.Equal(t, []*Variable{x, z}, vm.FreeVariables(f.Apply(x, y, x)))
	assert.Empty(t, vm.FreeVariables(NewAtom("a")))
}

func TestVM_renamedCopy(t *testing.T) {
	var vm VM
	x, y := NewVariable(), NewVariable()
	f := NewAtom("f")

	vars := map[*Variable]*Variable{}
	c, ok := vm.renamedCopy(f.Apply(x, y, x, NewAtom("a")), vars).(*Compound)
	assert.True(t, ok)
	assert.Len(t, vars, 2)
	assert.Same(t, vars[x], c.Args[0])
	assert.Same(t, vars[x], c.Args[2])
	assert.Same(t, vars[y], c.Args[1])
	assert.NotSame(t, x, c.Args[0])
	assert.Equal(t, NewAtom("a"), c.Args[3])
}
