package engine

// Slice returns a Term slice containing the elements of list.
// It errors if the given Term is not a list.
func (vm *VM) Slice(list Term) ([]Term, error) {
	var ret []Term
	iter := ListIterator{VM: vm, List: list}
	for iter.Next() {
		ret = append(ret, vm.Resolve(iter.Current()))
	}
	return ret, iter.Err()
}

// Pair returns a pair of k and v.
func Pair(k, v Term) Term {
	return atomMinus.Apply(k, v)
}
