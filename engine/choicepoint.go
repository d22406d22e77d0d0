package engine

type choicepointKind int

const (
	// resumes at pc.
	choicepointGeneric choicepointKind = iota
	// tries the next clause of a dynamic predicate.
	choicepointClause
	// marks the goal of catch/3. It is found by throw and skipped by backtracking.
	choicepointCatch
	// re-arms a catch when backtracking into its goal.
	choicepointReactivate
	// retries a nondeterministic foreign predicate.
	choicepointForeign
)

// choicepoint is a saved machine state.
type choicepoint struct {
	kind   choicepointKind
	frame  *Frame
	pc     int
	trail  int
	stamp  int64
	module *Module
	argP   []Term
	argI   int
	argS   []argState
	mode   mode

	// clause
	functor Functor
	clauses []*clause
	next    int
	args    []Term
	parent  *Frame
	retPC   int

	// catch
	slot   int
	active bool

	// reactivate
	catch *choicepoint

	// foreign
	redo func() (bool, error)
}

// pushChoicepoint saves the current state with pc as the resume point.
func (vm *VM) pushChoicepoint(kind choicepointKind, pc int) *choicepoint {
	cp := choicepoint{
		kind:   kind,
		frame:  vm.frame,
		pc:     pc,
		trail:  len(vm.trail),
		stamp:  stamp(),
		module: vm.moduleOf(vm.frame),
		argP:   vm.argP,
		argI:   vm.argI,
		mode:   vm.mode,
	}
	if len(vm.argS) > 0 {
		cp.argS = append([]argState(nil), vm.argS...)
	}
	vm.cps = append(vm.cps, &cp)
	vm.stats.Choicepoints++
	return &cp
}

// restore brings the machine back to the state saved in cp.
func (vm *VM) restore(cp *choicepoint) {
	vm.undo(cp.trail)
	vm.frame = cp.frame
	vm.pc = cp.pc
	vm.argP = cp.argP
	vm.argI = cp.argI
	vm.argS = append(vm.argS[:0], cp.argS...)
	vm.mode = cp.mode
	vm.buf = vm.buf[:0]
}

// cut removes the choicepoints above n.
func (vm *VM) cut(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(vm.cps) {
		for i := n; i < len(vm.cps); i++ {
			vm.cps[i] = nil
		}
		vm.cps = vm.cps[:n]
	}
}

// CreateChoicepoint makes the running foreign predicate nondeterministic. On backtracking, the bindings made since
// the predicate was called are undone and redo is called. If redo returns true, execution continues after the call.
// It must be called only from a foreign predicate.
func (vm *VM) CreateChoicepoint(redo func() (bool, error)) {
	vm.retrail()
	cp := choicepoint{
		kind:    choicepointForeign,
		frame:   vm.cont.frame,
		pc:      vm.cont.pc,
		trail:   vm.cont.trail,
		stamp:   stamp(),
		module:  vm.moduleOf(vm.cont.frame),
		functor: vm.contFunctor,
		redo:    redo,
	}
	vm.cps = append(vm.cps, &cp)
	vm.stats.Choicepoints++
}
