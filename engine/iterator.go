package engine

// ListIterator is an iterator for a proper list.
type ListIterator struct {
	VM   *VM
	List Term

	current Term
	err     error

	// Brent's cycle detection.
	tortoise, hare Term
	power, lam     int
}

// Next proceeds to the next element of the list and returns true if there's such an element.
func (i *ListIterator) Next() bool {
	if i.hare == nil {
		i.hare = i.List
		i.power, i.lam = 1, 1
	}

	switch l := i.VM.Resolve(i.hare).(type) {
	case *Variable:
		i.err = InstantiationError()
		return false
	case Atom:
		if l != atomNil {
			i.err = TypeError(ValidTypeList, i.List)
		}
		return false
	case *Compound:
		if l.Functor != functorDot {
			i.err = TypeError(ValidTypeList, i.List)
			return false
		}
		if i.tortoise == l {
			i.err = TypeError(ValidTypeList, i.List)
			return false
		}
		if i.power == i.lam {
			i.tortoise = l
			i.power *= 2
			i.lam = 0
		}
		i.lam++
		i.current, i.hare = l.Args[0], l.Args[1]
		return true
	default:
		i.err = TypeError(ValidTypeList, i.List)
		return false
	}
}

// Current returns the current element.
func (i *ListIterator) Current() Term {
	return i.current
}

// Suffix returns the rest of the list which is not yet visited.
func (i *ListIterator) Suffix() Term {
	if i.hare == nil {
		return i.List
	}
	return i.hare
}

// Err returns an error.
func (i *ListIterator) Err() error {
	return i.err
}
