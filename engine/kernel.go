package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type status int

const (
	statusContinue status = iota
	statusFail
	statusExit
	statusExhausted
)

// continuation is where execution continues after a foreign predicate succeeds.
type continuation struct {
	frame *Frame
	pc    int
	trail int
}

// run executes instructions until the query succeeds, fails, or raises an uncaught error.
func (vm *VM) run(st status, err error) (bool, error) {
	for {
		for err != nil || st == statusFail {
			if err != nil {
				if st, err = vm.recover(err); err != nil {
					vm.endQuery()
					return false, err
				}
				continue
			}
			st, err = vm.backtrack()
		}

		switch st {
		case statusExit:
			return true, nil
		case statusExhausted:
			vm.endQuery()
			return false, nil
		}

		st, err = vm.step()
	}
}

// recover turns a Prolog error into a jump to the innermost active catch/3.
func (vm *VM) recover(err error) (status, error) {
	var e Exception
	if !errors.As(err, &e) {
		vm.cut(0)
		return statusFail, err
	}
	if err := vm.throw(e.Term()); err != nil {
		return statusFail, err
	}
	return statusContinue, nil
}

func (vm *VM) throw(ball Term) error {
	ball = vm.renamedCopy(ball, nil)
	if log := vm.logger(); log.IsLevelEnabled(logrus.DebugLevel) {
		log.WithFields(logrus.Fields{
			"ball":         ball,
			"choicepoints": len(vm.cps),
		}).Debug("throw")
	}
	for i := len(vm.cps) - 1; i >= 0; i-- {
		cp := vm.cps[i]
		if cp.kind != choicepointCatch || !cp.active {
			continue
		}
		vm.cut(i)
		vm.restore(cp)
		cp.frame.slots[cp.slot+1] = ball
		return nil
	}
	vm.cut(0)
	return NewException(ball)
}

// backtrack resumes the most recent alternative.
func (vm *VM) backtrack() (status, error) {
	for len(vm.cps) > 0 {
		cp := vm.cps[len(vm.cps)-1]
		vm.cut(len(vm.cps) - 1)
		vm.restore(cp)

		switch cp.kind {
		case choicepointGeneric:
			return statusContinue, nil
		case choicepointClause:
			vm.retryClause(cp)
			return statusContinue, nil
		case choicepointCatch:
			continue
		case choicepointReactivate:
			cp.catch.active = true
			continue
		case choicepointForeign:
			if vm.OnRedo != nil {
				vm.OnRedo(cp.functor, nil)
			}
			if log := vm.logger(); log.IsLevelEnabled(logrus.DebugLevel) {
				log.WithFields(logrus.Fields{
					"functor":      cp.functor,
					"module":       cp.module.Name(),
					"choicepoints": len(vm.cps),
				}).Debug("redo")
			}
			vm.cont = continuation{frame: cp.frame, pc: cp.pc, trail: cp.trail}
			vm.contFunctor = cp.functor
			ok, err := vm.foreign(cp.redo)
			if err != nil {
				return statusFail, err
			}
			if ok {
				vm.frame, vm.pc = cp.frame, cp.pc
				return statusContinue, nil
			}
		default:
			return statusFail, fmt.Errorf("%w: choicepoint kind %d", ErrCorruptCode, cp.kind)
		}
	}
	return statusExhausted, nil
}

// retryClause runs the next clause of a dynamic predicate.
func (vm *VM) retryClause(cp *choicepoint) {
	c := cp.clauses[cp.next]
	cp.next++
	cutB := len(vm.cps)
	if cp.next < len(cp.clauses) {
		vm.cps = append(vm.cps, cp)
	}
	if vm.OnRedo != nil {
		vm.OnRedo(cp.functor, cp.args)
	}
	vm.enter(c.code, cp.args, cp.parent, cp.retPC, cutB, cp.module)
}

// step executes one instruction.
func (vm *VM) step() (status, error) {
	fr := vm.frame
	if fr == nil {
		return statusFail, fmt.Errorf("%w: no frame", ErrCorruptCode)
	}
	d, err := decode(fr.code.Bytecode, vm.pc)
	if err != nil {
		return statusFail, err
	}
	var k Constant
	for i, kind := range opSpecs[d.op].operands {
		switch kind {
		case operandConst:
			if d.args[i] >= len(fr.code.Constants) {
				return statusFail, fmt.Errorf("%w: constant %d out of range in %s", ErrCorruptCode, d.args[i], fr.code.Functor)
			}
			k = fr.code.Constants[d.args[i]]
		case operandSlot:
			if d.args[i] >= len(fr.slots) {
				return statusFail, fmt.Errorf("%w: slot %d out of range in %s", ErrCorruptCode, d.args[i], fr.code.Functor)
			}
		}
	}
	next := vm.pc + d.size
	vm.pc = next

	switch d.op {
	case hVoid:
		if vm.mode == modeWrite {
			return vm.write(NewVariable())
		}
		_, err := vm.read()
		return statusContinue, err
	case hFirstVar:
		if vm.mode == modeWrite {
			v := NewVariable()
			fr.slots[d.args[0]] = v
			return vm.write(v)
		}
		t, err := vm.read()
		fr.slots[d.args[0]] = t
		return statusContinue, err
	case hVar:
		if vm.mode == modeWrite {
			return vm.write(fr.slots[d.args[0]])
		}
		t, err := vm.read()
		if err != nil {
			return statusFail, err
		}
		return vm.check(vm.unify(fr.slots[d.args[0]], t, false))
	case hAtom, hInteger, hConst:
		if vm.mode == modeWrite {
			return vm.write(k.(Term))
		}
		t, err := vm.read()
		if err != nil {
			return statusFail, err
		}
		return vm.check(vm.matchConstant(t, k.(Term)))
	case hFunctor:
		f, ok := k.(Functor)
		if !ok {
			return statusFail, fmt.Errorf("%w: %s with %s", ErrCorruptCode, d.op, k)
		}
		return vm.headFunctor(f)
	case hPop, bPop:
		return vm.pop()

	case bVoid:
		return vm.put(NewVariable())
	case bFirstVar:
		v := NewVariable()
		fr.slots[d.args[0]] = v
		return vm.put(v)
	case bVar:
		return vm.put(fr.slots[d.args[0]])
	case bArgVar:
		v := NewVariable()
		vm.bind(v, fr.slots[d.args[0]])
		return vm.put(v)
	case bAtom, bInteger, bConst:
		return vm.put(k.(Term))
	case bFunctor:
		f, ok := k.(Functor)
		if !ok {
			return statusFail, fmt.Errorf("%w: %s with %s", ErrCorruptCode, d.op, k)
		}
		c := Compound{Functor: f, Args: make([]Term, f.Arity())}
		if st, err := vm.put(&c); err != nil {
			return st, err
		}
		vm.push(c.Args, vm.mode)
		return statusContinue, nil

	case iEnter:
		vm.argS = vm.argS[:0]
		vm.buf = vm.buf[:0]
		return statusContinue, nil
	case iCall, iDepart:
		f, ok := k.(Functor)
		if !ok {
			return statusFail, fmt.Errorf("%w: %s with %s", ErrCorruptCode, d.op, k)
		}
		return vm.call(fr.module, f, vm.buf, d.op == iDepart, next)
	case iExit, iExitFact:
		if fr.parent == nil {
			return statusFail, fmt.Errorf("%w: exit from %s without parent", ErrCorruptCode, fr.code.Functor)
		}
		vm.frame, vm.pc = fr.parent, fr.retPC
		return statusContinue, nil
	case iExitQuery:
		return statusExit, nil
	case iTrue:
		return statusContinue, nil
	case iFail:
		return statusFail, nil
	case iCut:
		vm.cut(fr.cutB)
		return statusContinue, nil
	case iUnify:
		if len(vm.buf) != 2 {
			return statusFail, fmt.Errorf("%w: unify with %d operands", ErrCorruptCode, len(vm.buf))
		}
		x, y := vm.buf[0], vm.buf[1]
		vm.buf = vm.buf[:0]
		return vm.check(vm.unify(x, y, false))
	case iThrow:
		if len(vm.buf) != 1 {
			return statusFail, fmt.Errorf("%w: throw with %d operands", ErrCorruptCode, len(vm.buf))
		}
		ball := vm.Resolve(vm.buf[0])
		vm.buf = vm.buf[:0]
		if _, ok := ball.(*Variable); ok {
			return statusFail, InstantiationError()
		}
		return statusFail, NewException(ball)
	case iCatch:
		fr.slots[d.args[0]] = Integer(len(vm.cps))
		cp := vm.pushChoicepoint(choicepointCatch, d.args[1])
		cp.slot = d.args[0]
		cp.active = true
		return statusContinue, nil
	case iCaught:
		if len(vm.buf) != 1 {
			return statusFail, fmt.Errorf("%w: catcher with %d operands", ErrCorruptCode, len(vm.buf))
		}
		catcher := vm.buf[0]
		vm.buf = vm.buf[:0]
		ball := fr.slots[d.args[0]]
		if !vm.Unify(catcher, ball) {
			return statusFail, NewException(ball)
		}
		return statusContinue, nil
	case iExitCatch:
		return vm.exitCatch(fr, d.args[0])
	case iFreshVar:
		fr.slots[d.args[0]] = NewVariable()
		return statusContinue, nil

	case tryMeElse, retryMeElse, cOr:
		vm.pushChoicepoint(choicepointGeneric, d.args[0])
		return statusContinue, nil
	case trustMe:
		return statusContinue, nil
	case cJump:
		vm.pc = d.args[0]
		return statusContinue, nil
	case cIfThenElse:
		fr.slots[d.args[0]] = Integer(len(vm.cps))
		vm.pushChoicepoint(choicepointGeneric, d.args[1])
		return statusContinue, nil
	case cIfThen:
		fr.slots[d.args[0]] = Integer(len(vm.cps))
		return statusContinue, nil
	case cCut, cCutLocal:
		n, err := fr.barrier(d.args[0])
		if err != nil {
			return statusFail, fmt.Errorf("%w: no cut barrier in slot %d of %s", err, d.args[0], fr.code.Functor)
		}
		if d.op == cCutLocal {
			n++
		}
		vm.cut(n)
		return statusContinue, nil
	default:
		return statusFail, fmt.Errorf("%w: %s", ErrIllegalInstruction, d.op)
	}
}

func (vm *VM) check(ok bool) (status, error) {
	if !ok {
		return statusFail, nil
	}
	return statusContinue, nil
}

// read consumes the next cell of the argument cursor.
func (vm *VM) read() (Term, error) {
	if vm.argI >= len(vm.argP) {
		return nil, fmt.Errorf("%w: argument cursor overrun", ErrCorruptCode)
	}
	t := vm.argP[vm.argI]
	vm.argI++
	return t, nil
}

// write fills the next cell of the argument cursor.
func (vm *VM) write(t Term) (status, error) {
	if vm.argI >= len(vm.argP) {
		return statusFail, fmt.Errorf("%w: argument cursor overrun", ErrCorruptCode)
	}
	vm.argP[vm.argI] = t
	vm.argI++
	return statusContinue, nil
}

// put adds t to the goal being built. At the top level, it's the next argument of the goal.
func (vm *VM) put(t Term) (status, error) {
	if len(vm.argS) == 0 {
		vm.buf = append(vm.buf, t)
		return statusContinue, nil
	}
	return vm.write(t)
}

// push descends into args.
func (vm *VM) push(args []Term, m mode) {
	vm.argS = append(vm.argS, argState{argP: vm.argP, argI: vm.argI, mode: vm.mode})
	vm.argP, vm.argI, vm.mode = args, 0, m
}

// pop ascends from the compound being matched or built.
func (vm *VM) pop() (status, error) {
	if len(vm.argS) == 0 {
		return statusFail, fmt.Errorf("%w: argument stack underflow", ErrCorruptCode)
	}
	s := vm.argS[len(vm.argS)-1]
	vm.argS = vm.argS[:len(vm.argS)-1]
	vm.argP, vm.argI, vm.mode = s.argP, s.argI, s.mode
	return statusContinue, nil
}

func (vm *VM) matchConstant(t, k Term) bool {
	switch t := vm.Resolve(t).(type) {
	case *Variable:
		vm.bind(t, k)
		return true
	default:
		return Equal(t, k)
	}
}

func (vm *VM) headFunctor(f Functor) (status, error) {
	if vm.mode == modeWrite {
		c := Compound{Functor: f, Args: make([]Term, f.Arity())}
		if st, err := vm.write(&c); err != nil {
			return st, err
		}
		vm.push(c.Args, modeWrite)
		return statusContinue, nil
	}

	t, err := vm.read()
	if err != nil {
		return statusFail, err
	}
	switch t := vm.Resolve(t).(type) {
	case *Variable:
		c := Compound{Functor: f, Args: make([]Term, f.Arity())}
		vm.bind(t, &c)
		vm.push(c.Args, modeWrite)
		return statusContinue, nil
	case *Compound:
		if t.Functor != f {
			return statusFail, nil
		}
		vm.push(t.Args, modeRead)
		return statusContinue, nil
	default:
		return statusFail, nil
	}
}

func (vm *VM) exitCatch(fr *Frame, s int) (status, error) {
	h, err := fr.barrier(s)
	if err != nil {
		return statusFail, fmt.Errorf("%w: no catch barrier in slot %d of %s", err, s, fr.code.Functor)
	}
	if h >= len(vm.cps) {
		return statusContinue, nil
	}
	cp := vm.cps[h]
	if cp.kind != choicepointCatch || cp.frame != fr || cp.slot != s {
		return statusContinue, nil
	}
	if h == len(vm.cps)-1 {
		vm.cut(h)
		return statusContinue, nil
	}
	// The goal left choicepoints. The catch is inactive until we backtrack into the goal.
	cp.active = false
	r := vm.pushChoicepoint(choicepointReactivate, vm.pc)
	r.catch = cp
	return statusContinue, nil
}

// call calls the procedure f with args.
func (vm *VM) call(m *Module, f Functor, args []Term, tail bool, next int) (status, error) {
	pm, p := vm.lookup(m, f)
	if p == nil {
		return vm.unknownProcedure(f, args)
	}

	if p.kind == procedureControl {
		// call/N and :/2 run the goal in the caller's module.
		pm = m
	}

	vm.stats.Calls++
	if vm.OnCall != nil {
		vm.OnCall(f, append([]Term(nil), args...))
	}
	if log := vm.logger(); log.IsLevelEnabled(logrus.DebugLevel) {
		log.WithFields(logrus.Fields{
			"functor":      f,
			"depth":        vm.frame.depth,
			"choicepoints": len(vm.cps),
		}).Debug("call")
	}

	return vm.invoke(pm, p, args, tail, next)
}

func (vm *VM) invoke(m *Module, p *procedure, args []Term, tail bool, next int) (status, error) {
	parent, retPC := vm.returnTo(tail, next)
	switch p.kind {
	case procedureStatic:
		code, err := p.compiled()
		if err != nil {
			return statusFail, err
		}
		vm.enter(code, args, parent, retPC, len(vm.cps), m)
		return statusContinue, nil
	case procedureDynamic:
		clauses := p.dynamic
		if len(clauses) == 0 {
			vm.buf = vm.buf[:0]
			return statusFail, nil
		}
		cutB := len(vm.cps)
		a := append([]Term(nil), args...)
		if len(clauses) > 1 {
			cp := vm.pushChoicepoint(choicepointClause, 0)
			cp.functor = p.functor
			cp.clauses = clauses
			cp.next = 1
			cp.args = a
			cp.parent = parent
			cp.retPC = retPC
			cp.module = m
		}
		vm.enter(clauses[0].code, a, parent, retPC, cutB, m)
		return statusContinue, nil
	case procedureForeign:
		a := make([]Term, len(args))
		for i, t := range args {
			a[i] = vm.Resolve(t)
		}
		vm.buf = vm.buf[:0]
		if parent == nil {
			return statusFail, fmt.Errorf("%w: foreign call without continuation", ErrCorruptCode)
		}
		cont := continuation{frame: parent, pc: retPC, trail: len(vm.trail)}
		vm.cont = cont
		vm.contFunctor = p.functor
		ok, err := vm.foreign(func() (bool, error) {
			return p.foreign(vm, a)
		})
		if err != nil {
			return statusFail, err
		}
		if !ok {
			return statusFail, nil
		}
		vm.frame, vm.pc = cont.frame, cont.pc
		return statusContinue, nil
	case procedureControl:
		gm, goal, err := p.control(vm, m, args)
		vm.buf = vm.buf[:0]
		if err != nil {
			return statusFail, err
		}
		return vm.callGoal(gm, goal, tail, next)
	default:
		return statusFail, fmt.Errorf("%w: procedure kind %d", ErrCorruptCode, p.kind)
	}
}

// foreign runs a foreign predicate or its redo. Its untrailed bindings are tracked so that a choicepoint it creates
// can undo them.
func (vm *VM) foreign(f func() (bool, error)) (bool, error) {
	vm.untrailed = vm.untrailed[:0]
	vm.tracking++
	defer func() {
		vm.tracking--
		vm.untrailed = vm.untrailed[:0]
	}()
	return f()
}

// callGoal calls goal in m. Control constructs are compiled on the fly.
func (vm *VM) callGoal(m *Module, goal Term, tail bool, next int) (status, error) {
	switch g := vm.Resolve(goal).(type) {
	case *Variable:
		return statusFail, InstantiationError()
	case Atom, *Compound:
		f, args, _ := functorOf(g)
		if !inlined(f) {
			return vm.call(m, f, args, tail, next)
		}
		s := vm.Simplify(g)
		fvs := vm.FreeVariables(s)
		code, err := compileCall(s, fvs)
		if err != nil {
			var e Exception
			if errors.As(err, &e) {
				return statusFail, TypeError(ValidTypeCallable, s)
			}
			return statusFail, err
		}
		args = make([]Term, len(fvs))
		for i, v := range fvs {
			args[i] = v
		}
		parent, retPC := vm.returnTo(tail, next)
		vm.enter(code, args, parent, retPC, len(vm.cps), m)
		return statusContinue, nil
	default:
		return statusFail, TypeError(ValidTypeCallable, g)
	}
}

// inlined reports whether the compiler lowers f into instructions instead of calling a procedure.
func inlined(f Functor) bool {
	switch f {
	case functorComma, functorOr, functorThen, functorNot, functorCatch, functorThrow, functorEqual:
		return true
	}
	switch f.Name() {
	case atomTrue, atomFail, atomFalse, atomCut:
		return f.Arity() == 0
	default:
		return false
	}
}

func (vm *VM) returnTo(tail bool, next int) (*Frame, int) {
	if tail {
		return vm.frame.parent, vm.frame.retPC
	}
	return vm.frame, next
}

// enter makes a new frame for code and transfers control to it.
func (vm *VM) enter(code *Code, args []Term, parent *Frame, retPC int, cutB int, m *Module) {
	n := code.NSlots
	if len(args) > n {
		n = len(args)
	}
	fr := Frame{
		slots:  make([]Term, n),
		code:   code,
		retPC:  retPC,
		parent: parent,
		cutB:   cutB,
		module: m,
		depth:  1,
	}
	copy(fr.slots, args)
	if parent != nil {
		fr.depth = parent.depth + 1
	}
	if fr.depth > vm.stats.MaxDepth {
		vm.stats.MaxDepth = fr.depth
	}

	vm.frame = &fr
	vm.pc = 0
	vm.argP, vm.argI, vm.mode = fr.slots[:len(args)], 0, modeRead
	vm.argS = vm.argS[:0]
	vm.buf = vm.buf[:0]
}

// lookup finds the procedure f in m, then in the user module.
func (vm *VM) lookup(m *Module, f Functor) (*Module, *procedure) {
	if m != nil {
		if p, ok := m.procedures[f]; ok {
			return m, p
		}
	}
	u := vm.modules[atomUser]
	if u != nil {
		if p, ok := u.procedures[f]; ok {
			return u, p
		}
	}
	return nil, nil
}

func (vm *VM) unknownProcedure(f Functor, args []Term) (status, error) {
	vm.buf = vm.buf[:0]
	if vm.OnUnknown != nil {
		vm.OnUnknown(f, args)
	}
	switch vm.unknown {
	case UnknownWarning:
		vm.logger().WithField("procedure", f).Warn("unknown procedure")
		return statusFail, nil
	case UnknownFail:
		return statusFail, nil
	default:
		return statusFail, ExistenceError(ObjectTypeProcedure, f.Term())
	}
}

func (vm *VM) moduleOf(fr *Frame) *Module {
	if fr == nil || fr.module == nil {
		return vm.module
	}
	return fr.module
}
