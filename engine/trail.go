package engine

import "sync/atomic"

// permanent is the limit of a binding which backtracking never undoes.
const permanent = -1

// binding returns the value v is bound to if the binding is permanent or still on the trail.
func (vm *VM) binding(v *Variable) (Term, bool) {
	if v.ref == nil {
		return nil, false
	}
	if v.limit == permanent {
		return v.ref, true
	}
	if v.limit >= len(vm.trail) || vm.trail[v.limit] != v {
		return nil, false
	}
	return v.ref, true
}

// bind binds v to t. Only conditional bindings are recorded on the trail.
func (vm *VM) bind(v *Variable, t Term) {
	v.ref = t
	if vm.conditional(v) {
		v.limit = len(vm.trail)
		vm.trail = append(vm.trail, v)
		return
	}
	v.limit = permanent
	if vm.tracking > 0 {
		vm.untrailed = append(vm.untrailed, v)
	}
}

// conditional reports whether backtracking can reach a state where v is unbound.
// Variables created after the newest choicepoint are unreachable once it's resumed.
// Outside a query, every binding is conditional.
func (vm *VM) conditional(v *Variable) bool {
	if n := len(vm.cps); n > 0 {
		return v.index <= vm.cps[n-1].stamp
	}
	return vm.queryStamp == 0 || v.index <= vm.queryStamp
}

// stamp returns the creation index of the newest variable.
func stamp() int64 {
	return atomic.LoadInt64(&varCounter)
}

// undo unbinds every variable bound on the trail since it was at mark.
func (vm *VM) undo(mark int) {
	if mark >= len(vm.trail) {
		return
	}
	for i := mark; i < len(vm.trail); i++ {
		vm.trail[i] = nil
	}
	vm.trail = vm.trail[:mark]
}

// retrail records the untrailed bindings made since the running foreign predicate was called.
func (vm *VM) retrail() {
	for _, v := range vm.untrailed {
		v.limit = len(vm.trail)
		vm.trail = append(vm.trail, v)
	}
	vm.untrailed = vm.untrailed[:0]
}

// commit makes every binding on the trail permanent and empties the trail.
func (vm *VM) commit() {
	for i, v := range vm.trail {
		if v.limit == i {
			v.limit = permanent
		}
		vm.trail[i] = nil
	}
	vm.trail = vm.trail[:0]
	vm.queryTrail = 0
}

// Resolve follows the bindings of t until it reaches an unbound variable or a non-variable term.
func (vm *VM) Resolve(t Term) Term {
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		ref, ok := vm.binding(v)
		if !ok || ref == v {
			return v
		}
		t = ref
	}
}

// Simplify returns a term equivalent to t in which every bound variable is replaced by its value.
// Cyclic terms result in cyclic compounds.
func (vm *VM) Simplify(t Term) Term {
	return vm.simplify(t, map[*Compound]*Compound{})
}

func (vm *VM) simplify(t Term, visited map[*Compound]*Compound) Term {
	c, ok := vm.Resolve(t).(*Compound)
	if !ok {
		return vm.Resolve(t)
	}
	if s, ok := visited[c]; ok {
		return s
	}
	s := Compound{Functor: c.Functor, Args: make([]Term, len(c.Args))}
	visited[c] = &s
	for i, a := range c.Args {
		s.Args[i] = vm.simplify(a, visited)
	}
	return &s
}

// FreeVariables returns the distinct unbound variables in ts in the order of their first appearance.
func (vm *VM) FreeVariables(ts ...Term) []*Variable {
	var (
		fvs     []*Variable
		seen    = map[*Variable]struct{}{}
		visited = map[*Compound]struct{}{}
		walk    func(Term)
	)
	walk = func(t Term) {
		switch t := vm.Resolve(t).(type) {
		case *Variable:
			if _, ok := seen[t]; ok {
				return
			}
			seen[t] = struct{}{}
			fvs = append(fvs, t)
		case *Compound:
			if _, ok := visited[t]; ok {
				return
			}
			visited[t] = struct{}{}
			for _, a := range t.Args {
				walk(a)
			}
		}
	}
	for _, t := range ts {
		walk(t)
	}
	return fvs
}

// renamedCopy returns a copy of t in which every unbound variable is replaced by a fresh one.
// Occurrences of the same variable are replaced by the same fresh variable, recorded in vars.
func (vm *VM) renamedCopy(t Term, vars map[*Variable]*Variable) Term {
	if vars == nil {
		vars = map[*Variable]*Variable{}
	}
	return vm.copyTerm(t, vars, map[*Compound]*Compound{})
}

func (vm *VM) copyTerm(t Term, vars map[*Variable]*Variable, visited map[*Compound]*Compound) Term {
	switch t := vm.Resolve(t).(type) {
	case *Variable:
		v, ok := vars[t]
		if !ok {
			v = NewVariable()
			vars[t] = v
		}
		return v
	case *Compound:
		if c, ok := visited[t]; ok {
			return c
		}
		c := Compound{Functor: t.Functor, Args: make([]Term, len(t.Args))}
		visited[t] = &c
		for i, a := range t.Args {
			c.Args[i] = vm.copyTerm(a, vars, visited)
		}
		return &c
	default:
		return t
	}
}
