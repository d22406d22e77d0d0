package engine

// Predicate is a foreign predicate. args are resolved. It returns true if it succeeds.
// Returning an Exception raises it as a Prolog error which catch/3 can catch. Other errors abort the query.
type Predicate func(vm *VM, args []Term) (bool, error)

// Predicate0 is a foreign predicate of arity 0.
type Predicate0 func(vm *VM) (bool, error)

// Predicate1 is a foreign predicate of arity 1.
type Predicate1 func(vm *VM, a Term) (bool, error)

// Predicate2 is a foreign predicate of arity 2.
type Predicate2 func(vm *VM, a, b Term) (bool, error)

// Predicate3 is a foreign predicate of arity 3.
type Predicate3 func(vm *VM, a, b, c Term) (bool, error)

// Register registers a foreign predicate name/arity in the current module.
func (vm *VM) Register(name string, arity int, p Predicate) {
	vm.init()
	f := NewFunctor(NewAtom(name), arity)
	vm.module.procedures[f] = &procedure{functor: f, kind: procedureForeign, foreign: p}
}

// Register0 registers a foreign predicate of arity 0.
func (vm *VM) Register0(name string, p Predicate0) {
	vm.Register(name, 0, func(vm *VM, _ []Term) (bool, error) {
		return p(vm)
	})
}

// Register1 registers a foreign predicate of arity 1.
func (vm *VM) Register1(name string, p Predicate1) {
	vm.Register(name, 1, func(vm *VM, args []Term) (bool, error) {
		return p(vm, args[0])
	})
}

// Register2 registers a foreign predicate of arity 2.
func (vm *VM) Register2(name string, p Predicate2) {
	vm.Register(name, 2, func(vm *VM, args []Term) (bool, error) {
		return p(vm, args[0], args[1])
	})
}

// Register3 registers a foreign predicate of arity 3.
func (vm *VM) Register3(name string, p Predicate3) {
	vm.Register(name, 3, func(vm *VM, args []Term) (bool, error) {
		return p(vm, args[0], args[1], args[2])
	})
}

func (vm *VM) registerControl(name Atom, arity int, c controlFunc) {
	f := NewFunctor(name, arity)
	vm.module.procedures[f] = &procedure{functor: f, kind: procedureControl, control: c}
}

func (vm *VM) registerBuiltins() {
	for n := 1; n <= 8; n++ {
		vm.registerControl(atomCall, n, Call)
	}
	vm.registerControl(atomColon, 2, Colon)

	vm.Register0("halt", Halt0)
	vm.Register1("halt", Halt)
	vm.Register2("unify_with_occurs_check", UnifyWithOccursCheck)
	vm.Register1("asserta", Asserta)
	vm.Register1("assertz", Assertz)
	vm.Register1("retract", Retract)

	fs := DefaultEvaluableFunctors
	vm.Register2("is", fs.Is)
	vm.Register2("=:=", fs.Equal)
	vm.Register2(`=\=`, fs.NotEqual)
	vm.Register2("<", fs.LessThan)
	vm.Register2(">", fs.GreaterThan)
	vm.Register2("=<", fs.LessThanOrEqual)
	vm.Register2(">=", fs.GreaterThanOrEqual)
}

// Call computes the goal of call/N: the first argument with the rest of the arguments appended.
func Call(vm *VM, m *Module, args []Term) (*Module, Term, error) {
	goal := vm.Resolve(args[0])
	if len(args) == 1 {
		return m, goal, nil
	}
	extra := append([]Term(nil), args[1:]...)
	switch g := goal.(type) {
	case *Variable:
		return nil, nil, InstantiationError()
	case Atom:
		return m, g.Apply(extra...), nil
	case *Compound:
		return m, g.Functor.Name().Apply(append(append([]Term(nil), g.Args...), extra...)...), nil
	default:
		return nil, nil, TypeError(ValidTypeCallable, goal)
	}
}

// Colon computes the goal of Module:Goal. The goal runs in Module.
func Colon(vm *VM, _ *Module, args []Term) (*Module, Term, error) {
	switch name := vm.Resolve(args[0]).(type) {
	case *Variable:
		return nil, nil, InstantiationError()
	case Atom:
		return vm.moduleNamed(name), args[1], nil
	default:
		return nil, nil, TypeError(ValidTypeAtom, name)
	}
}

// Halt0 stops the VM with exit code 0.
func Halt0(*VM) (bool, error) {
	return false, HaltError{Code: 0}
}

// Halt stops the VM with the given exit code.
func Halt(vm *VM, n Term) (bool, error) {
	switch code := vm.Resolve(n).(type) {
	case *Variable:
		return false, InstantiationError()
	case Integer:
		return false, HaltError{Code: int(code)}
	default:
		return false, TypeError(ValidTypeInteger, code)
	}
}

// UnifyWithOccursCheck unifies x and y without creating cyclic terms.
func UnifyWithOccursCheck(vm *VM, x, y Term) (bool, error) {
	return vm.UnifyWithOccursCheck(x, y), nil
}

// Asserta adds a clause to the beginning of a dynamic procedure in the current module.
func Asserta(vm *VM, t Term) (bool, error) {
	return vm.assert(t, true)
}

// Assertz adds a clause to the end of a dynamic procedure in the current module.
func Assertz(vm *VM, t Term) (bool, error) {
	return vm.assert(t, false)
}

func (vm *VM) assert(t Term, front bool) (bool, error) {
	cl := vm.renamedCopy(t, nil)
	head, body := splitClause(cl)
	f, _, err := headFunctor(head)
	if err != nil {
		return false, err
	}
	if _, ok := body.(*Variable); ok {
		return false, InstantiationError()
	}
	if _, err := vm.module.dynamicProcedure(f); err != nil {
		return false, err
	}
	if err := vm.module.addClause(f, cl, front); err != nil {
		return false, err
	}
	return true, nil
}

// Retract removes the first clause of a dynamic procedure in the current module which unifies with t.
// On backtracking, it removes the next one.
func Retract(vm *VM, t Term) (bool, error) {
	head, body := splitClause(vm.Resolve(t))
	f, _, err := headFunctor(vm.Resolve(head))
	if err != nil {
		return false, err
	}
	p, ok := vm.module.procedures[f]
	if !ok {
		return false, nil
	}
	if p.kind != procedureDynamic {
		return false, PermissionError(OperationModify, PermissionTypeStaticProcedure, f.Term())
	}

	pattern := &Compound{Functor: functorIf, Args: []Term{head, body}}
	clauses := p.dynamic
	var try func(int) (bool, error)
	try = func(i int) (bool, error) {
		for ; i < len(clauses); i++ {
			c := clauses[i]
			if !p.has(c) {
				continue
			}
			h, b := splitClause(vm.renamedCopy(c.term, nil))
			if !vm.Unify(pattern, &Compound{Functor: functorIf, Args: []Term{h, b}}) {
				continue
			}
			p.removeClause(c)
			if next := i + 1; next < len(clauses) {
				vm.CreateChoicepoint(func() (bool, error) {
					return try(next)
				})
			}
			return true, nil
		}
		return false, nil
	}
	return try(0)
}

func splitClause(t Term) (Term, Term) {
	if c, ok := t.(*Compound); ok && c.Functor == functorIf {
		return c.Args[0], c.Args[1]
	}
	return t, atomTrue
}

func (p *procedure) has(c *clause) bool {
	for _, e := range p.dynamic {
		if e == c {
			return true
		}
	}
	return false
}
