package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListIterator_Next(t *testing.T) {
	vm := NewVM()

	t.Run("proper list", func(t *testing.T) {
		iter := ListIterator{VM: vm, List: List(atomA, atomB, atomC)}
		assert.True(t, iter.Next())
		assert.Equal(t, atomA, iter.Current())
		assert.True(t, iter.Next())
		assert.Equal(t, atomB, iter.Current())
		assert.True(t, iter.Next())
		assert.Equal(t, atomC, iter.Current())
		assert.False(t, iter.Next())
		assert.NoError(t, iter.Err())
	})

	t.Run("improper list", func(t *testing.T) {
		t.Run("variable", func(t *testing.T) {
			iter := ListIterator{VM: vm, List: ListRest(NewVariable(), atomA, atomB)}
			assert.True(t, iter.Next())
			assert.True(t, iter.Next())
			assert.False(t, iter.Next())
			assert.Equal(t, InstantiationError(), iter.Err())
		})

		t.Run("atom", func(t *testing.T) {
			l := ListRest(NewAtom("foo"), atomA, atomB)
			iter := ListIterator{VM: vm, List: l}
			assert.True(t, iter.Next())
			assert.True(t, iter.Next())
			assert.False(t, iter.Next())
			assert.Equal(t, TypeError(ValidTypeList, l), iter.Err())
		})

		t.Run("compound", func(t *testing.T) {
			l := ListRest(NewAtom("f").Apply(Integer(0)), atomA, atomB)
			iter := ListIterator{VM: vm, List: l}
			assert.True(t, iter.Next())
			assert.True(t, iter.Next())
			assert.False(t, iter.Next())
			assert.Equal(t, TypeError(ValidTypeList, l), iter.Err())
		})

		t.Run("other", func(t *testing.T) {
			l := ListRest(Integer(1), atomA)
			iter := ListIterator{VM: vm, List: l}
			assert.True(t, iter.Next())
			assert.False(t, iter.Next())
			assert.Equal(t, TypeError(ValidTypeList, l), iter.Err())
		})

		t.Run("circular list", func(t *testing.T) {
			for n := 1; n < 50; n++ {
				vm := NewVM()
				l := NewVariable()
				elems := make([]Term, n)
				for i := range elems {
					elems[i] = atomA
				}
				assert.True(t, vm.Unify(l, ListRest(l, elems...)))
				iter := ListIterator{VM: vm, List: l}
				for iter.Next() {
					assert.Equal(t, atomA, iter.Current())
				}
				assert.Equal(t, TypeError(ValidTypeList, l), iter.Err())
			}
		})
	})
}

func TestListIterator_Suffix(t *testing.T) {
	vm := NewVM()
	iter := ListIterator{VM: vm, List: List(atomA, atomB, atomC)}
	assert.Equal(t, List(atomA, atomB, atomC), iter.Suffix())
	assert.True(t, iter.Next())
	assert.Equal(t, List(atomB, atomC), iter.Suffix())
	assert.True(t, iter.Next())
	assert.Equal(t, List(atomC), iter.Suffix())
	assert.True(t, iter.Next())
	assert.Equal(t, List(), iter.Suffix())
	assert.False(t, iter.Next())
}

func TestVM_Slice(t *testing.T) {
	vm := NewVM()
	x := NewVariable()
	assert.True(t, vm.Unify(x, atomB))

	ts, err := vm.Slice(List(atomA, x, atomC))
	assert.NoError(t, err)
	assert.Equal(t, []Term{atomA, atomB, atomC}, ts)

	_, err = vm.Slice(ListRest(NewVariable(), atomA))
	assert.Equal(t, InstantiationError(), err)
}

func TestPair(t *testing.T) {
	assert.Equal(t, NewAtom("-").Apply(atomA, Integer(1)), Pair(atomA, Integer(1)))
}
