package engine

// Unify unifies x and y. If it fails, every binding it made is undone.
func (vm *VM) Unify(x, y Term) bool {
	return vm.unifyOrUndo(x, y, false)
}

// UnifyWithOccursCheck unifies x and y but fails instead of creating a cyclic term.
// If it fails, every binding it made is undone.
func (vm *VM) UnifyWithOccursCheck(x, y Term) bool {
	return vm.unifyOrUndo(x, y, true)
}

func (vm *VM) unifyOrUndo(x, y Term, occursCheck bool) bool {
	mark, u := len(vm.trail), len(vm.untrailed)
	vm.tracking++
	ok := vm.unify(x, y, occursCheck)
	vm.tracking--
	if !ok {
		vm.undo(mark)
		for _, v := range vm.untrailed[u:] {
			v.ref = nil
		}
		vm.untrailed = vm.untrailed[:u]
	}
	if vm.tracking == 0 {
		vm.untrailed = vm.untrailed[:0]
	}
	return ok
}

// compoundPair is a pair of compounds under unification.
type compoundPair struct {
	x, y *Compound
}

func (vm *VM) unify(x, y Term, occursCheck bool) bool {
	return vm.unifyCompounds(x, y, occursCheck, nil)
}

// unifyCompounds unifies x and y. A pair of compounds already in visited unifies, so cyclic terms terminate.
func (vm *VM) unifyCompounds(x, y Term, occursCheck bool, visited map[compoundPair]struct{}) bool {
	for {
		x, y = vm.Resolve(x), vm.Resolve(y)
		if Equal(x, y) {
			return true
		}

		if _, ok := y.(*Variable); ok {
			if _, ok := x.(*Variable); !ok {
				x, y = y, x
			}
		}

		switch a := x.(type) {
		case *Variable:
			if b, ok := y.(*Variable); ok {
				// The newer variable always points to the older one.
				if a.index < b.index {
					vm.bind(b, a)
				} else {
					vm.bind(a, b)
				}
				return true
			}
			if occursCheck && vm.occurs(a, y) {
				return false
			}
			vm.bind(a, y)
			return true
		case *Compound:
			b, ok := y.(*Compound)
			if !ok || a.Functor != b.Functor || len(a.Args) != len(b.Args) {
				return false
			}
			n := len(a.Args)
			if n == 0 {
				return true
			}
			if visited == nil {
				visited = map[compoundPair]struct{}{}
			}
			p := compoundPair{x: a, y: b}
			if _, ok := visited[p]; ok {
				return true
			}
			visited[p] = struct{}{}
			for i := 0; i < n-1; i++ {
				if !vm.unifyCompounds(a.Args[i], b.Args[i], occursCheck, visited) {
					return false
				}
			}
			// Loop on the last argument so that long lists don't grow the stack.
			x, y = a.Args[n-1], b.Args[n-1]
		default:
			return false
		}
	}
}

func (vm *VM) occurs(v *Variable, t Term) bool {
	visited := map[*Compound]struct{}{}
	var walk func(Term) bool
	walk = func(t Term) bool {
		switch t := vm.Resolve(t).(type) {
		case *Variable:
			return t == v
		case *Compound:
			if _, ok := visited[t]; ok {
				return false
			}
			visited[t] = struct{}{}
			for _, a := range t.Args {
				if walk(a) {
					return true
				}
			}
		}
		return false
	}
	return walk(t)
}
