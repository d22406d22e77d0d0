package engine

import (
	"fmt"
)

// compiler translates clauses, queries and goals into instructions.
// The terms it compiles are expected to be snapshots without bound variables.
type compiler struct {
	instrs []Instruction
	labels int

	// per clause
	vars         map[*Variable]*varInfo
	nargs        int
	nextReserved int
	reservedEnd  int
	nslots       int
}

type varInfo struct {
	slot    int
	count   int
	init    bool // the slot holds the variable on every path reaching the current instruction.
	arg     bool // the variable lives in an argument slot.
	argUsed bool
}

// cutKind tells how ! compiles in the current context.
type cutKind int

const (
	cutClause cutKind = iota // cut to the frame's barrier.
	cutTo                    // cut to the barrier stored in a slot.
	cutAbove                 // cut to the choicepoint right above the barrier stored in a slot.
)

type cutContext struct {
	kind cutKind
	slot int
}

// compilePredicate compiles the clauses of a static predicate into one piece of code.
// Multiple clauses are chained with tryMeElse/retryMeElse/trustMe.
func compilePredicate(f Functor, clauses []Term) (*Code, error) {
	var c compiler
	if len(clauses) == 0 {
		c.emit(Instruction{Opcode: iFail})
		return assemble(f, c.instrs, f.Arity())
	}

	nslots := f.Arity()
	var next int
	if len(clauses) > 1 {
		next = c.label()
	}
	for i, cl := range clauses {
		switch {
		case len(clauses) == 1:
		case i == 0:
			c.emit(Instruction{Opcode: tryMeElse, Label: next})
		case i < len(clauses)-1:
			c.emit(Instruction{Opcode: opLabel, Label: next})
			next = c.label()
			c.emit(Instruction{Opcode: retryMeElse, Label: next})
		default:
			c.emit(Instruction{Opcode: opLabel, Label: next})
			c.emit(Instruction{Opcode: trustMe})
		}
		if err := c.clause(f, cl); err != nil {
			return nil, err
		}
		if c.nslots > nslots {
			nslots = c.nslots
		}
	}
	return assemble(f, c.instrs, nslots)
}

// compileClause compiles a single clause on its own, as done for dynamic predicates.
func compileClause(f Functor, clause Term) (*Code, error) {
	var c compiler
	if err := c.clause(f, clause); err != nil {
		return nil, err
	}
	nslots := c.nslots
	if nslots < f.Arity() {
		nslots = f.Arity()
	}
	return assemble(f, c.instrs, nslots)
}

// compileQuery compiles a query whose free variables fvs are passed as the arguments of the query frame.
func compileQuery(goal Term, fvs []*Variable) (*Code, error) {
	return compileGoal(NewFunctor(atomQuery, len(fvs)), goal, fvs, false)
}

// compileCall compiles a goal given to call/N. The goal's free variables fvs are the arguments of its frame.
func compileCall(goal Term, fvs []*Variable) (*Code, error) {
	return compileGoal(NewFunctor(atomCallGoal, len(fvs)), goal, fvs, true)
}

func compileGoal(f Functor, goal Term, fvs []*Variable, returns bool) (*Code, error) {
	var c compiler
	c.begin(len(fvs))
	c.count(goal)
	for i, v := range fvs {
		info := c.info(v)
		info.slot, info.init, info.arg = i, true, true
	}
	c.reservedEnd = c.nargs + countReserved(goal)
	c.nslots = c.reservedEnd

	c.emit(Instruction{Opcode: iEnter})
	if err := c.body(goal, returns, cutContext{kind: cutClause}); err != nil {
		return nil, err
	}
	switch {
	case !returns:
		c.emit(Instruction{Opcode: iExitQuery})
	case !c.lastIs(iDepart):
		c.emit(Instruction{Opcode: iExit})
	}
	if err := c.checkReserved(); err != nil {
		return nil, err
	}
	return assemble(f, c.instrs, c.nslots)
}

func (c *compiler) begin(nargs int) {
	c.vars = map[*Variable]*varInfo{}
	c.nargs = nargs
	c.nextReserved = nargs
}

func (c *compiler) clause(f Functor, clause Term) error {
	head, body := clause, Term(atomTrue)
	if cl, ok := clause.(*Compound); ok && cl.Functor == functorIf {
		head, body = cl.Args[0], cl.Args[1]
	}

	hf, args, err := headFunctor(head)
	if err != nil {
		return err
	}
	if hf != f {
		return fmt.Errorf("%w: clause for %s compiled as %s", ErrCorruptCode, hf, f)
	}

	c.begin(len(args))
	for _, a := range args {
		c.count(a)
	}
	c.count(body)
	c.reservedEnd = c.nargs + countReserved(body)
	c.nslots = c.reservedEnd

	for i, a := range args {
		c.headArg(i, a)
	}

	if body == atomTrue {
		c.emit(Instruction{Opcode: iExitFact})
		return nil
	}

	c.emit(Instruction{Opcode: iEnter})
	if err := c.body(body, true, cutContext{kind: cutClause}); err != nil {
		return err
	}
	if !c.lastIs(iDepart) {
		c.emit(Instruction{Opcode: iExit})
	}
	return c.checkReserved()
}

// headFunctor returns the functor and the arguments of a clause head.
func headFunctor(head Term) (Functor, []Term, error) {
	switch h := head.(type) {
	case *Variable:
		return 0, nil, InstantiationError()
	case Atom, *Compound:
		f, args, _ := functorOf(h)
		if isControl(f) {
			return 0, nil, PermissionError(OperationModify, PermissionTypeStaticProcedure, f.Term())
		}
		return f, args, nil
	default:
		return 0, nil, TypeError(ValidTypeCallable, head)
	}
}

// isControl reports whether f is a control construct which can't be redefined.
func isControl(f Functor) bool {
	switch f {
	case functorComma, functorOr, functorThen, functorNot, functorCatch, functorThrow, functorEqual, functorCall, functorColon, functorIf:
		return true
	}
	switch f.Name() {
	case atomCall:
		return f.Arity() >= 1 && f.Arity() <= 8
	case atomTrue, atomFail, atomFalse, atomCut:
		return f.Arity() == 0
	default:
		return false
	}
}

// countReserved counts the slots body needs for cut barriers and caught balls.
func countReserved(body Term) int {
	g, ok := body.(*Compound)
	if !ok {
		return 0
	}
	switch g.Functor {
	case functorComma:
		return countReserved(g.Args[0]) + countReserved(g.Args[1])
	case functorOr:
		if ite, ok := g.Args[0].(*Compound); ok && ite.Functor == functorThen {
			return 1 + countReserved(ite.Args[0]) + countReserved(ite.Args[1]) + countReserved(g.Args[1])
		}
		return countReserved(g.Args[0]) + countReserved(g.Args[1])
	case functorThen:
		return 1 + countReserved(g.Args[0]) + countReserved(g.Args[1])
	case functorNot:
		return 1 + countReserved(g.Args[0])
	case functorCatch:
		return 2 + countReserved(g.Args[0]) + countReserved(g.Args[2])
	default:
		return 0
	}
}

func (c *compiler) checkReserved() error {
	if c.nextReserved != c.reservedEnd {
		return fmt.Errorf("%w: reserved %d slots but used %d", ErrCorruptCode, c.reservedEnd-c.nargs, c.nextReserved-c.nargs)
	}
	return nil
}

func (c *compiler) reserveSlot() int {
	s := c.nextReserved
	c.nextReserved++
	return s
}

func (c *compiler) localSlot() int {
	s := c.nslots
	c.nslots++
	return s
}

func (c *compiler) label() int {
	l := c.labels
	c.labels++
	return l
}

func (c *compiler) emit(in Instruction) {
	c.instrs = append(c.instrs, in)
}

func (c *compiler) lastIs(op Opcode) bool {
	return len(c.instrs) > 0 && c.instrs[len(c.instrs)-1].Opcode == op
}

func (c *compiler) info(v *Variable) *varInfo {
	info, ok := c.vars[v]
	if !ok {
		info = &varInfo{}
		c.vars[v] = info
	}
	return info
}

// count counts the occurrences of each variable in t.
func (c *compiler) count(t Term) {
	switch t := t.(type) {
	case *Variable:
		c.info(t).count++
	case *Compound:
		for _, a := range t.Args {
			c.count(a)
		}
	}
}

func (c *compiler) headArg(i int, a Term) {
	if v, ok := a.(*Variable); ok {
		info := c.info(v)
		if info.init {
			c.emit(Instruction{Opcode: hVar, Slot: info.slot})
			return
		}
		// The argument is already in place.
		info.slot, info.init, info.arg = i, true, true
		c.emit(Instruction{Opcode: hVoid})
		return
	}
	c.head(a)
}

func (c *compiler) head(t Term) {
	switch t := t.(type) {
	case *Variable:
		info := c.info(t)
		switch {
		case info.init:
			c.emit(Instruction{Opcode: hVar, Slot: info.slot})
		case info.count == 1:
			c.emit(Instruction{Opcode: hVoid})
		default:
			info.slot, info.init = c.localSlot(), true
			c.emit(Instruction{Opcode: hFirstVar, Slot: info.slot})
		}
	case Atom:
		c.emit(Instruction{Opcode: hAtom, Operand: t})
	case Integer:
		c.emit(Instruction{Opcode: hInteger, Operand: t})
	case *Compound:
		c.emit(Instruction{Opcode: hFunctor, Operand: t.Functor})
		for _, a := range t.Args {
			c.head(a)
		}
		c.emit(Instruction{Opcode: hPop})
	case Constant:
		c.emit(Instruction{Opcode: hConst, Operand: t})
	}
}

// construct emits instructions building t as the next argument of a goal.
func (c *compiler) construct(t Term) {
	switch t := t.(type) {
	case *Variable:
		info := c.info(t)
		switch {
		case info.arg && !info.argUsed:
			info.argUsed = true
			c.emit(Instruction{Opcode: bArgVar, Slot: info.slot})
		case info.init:
			c.emit(Instruction{Opcode: bVar, Slot: info.slot})
		case info.count == 1:
			c.emit(Instruction{Opcode: bVoid})
		default:
			info.slot, info.init = c.localSlot(), true
			c.emit(Instruction{Opcode: bFirstVar, Slot: info.slot})
		}
	case Atom:
		c.emit(Instruction{Opcode: bAtom, Operand: t})
	case Integer:
		c.emit(Instruction{Opcode: bInteger, Operand: t})
	case *Compound:
		c.emit(Instruction{Opcode: bFunctor, Operand: t.Functor})
		for _, a := range t.Args {
			c.construct(a)
		}
		c.emit(Instruction{Opcode: bPop})
	case Constant:
		c.emit(Instruction{Opcode: bConst, Operand: t})
	}
}

// hoist makes sure that every variable in t which occurs more than once has its slot initialized before a control
// construct branches, so that every path through the construct and after it sees the same variable.
func (c *compiler) hoist(ts ...Term) {
	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case *Variable:
			info := c.info(t)
			if info.init || info.count == 1 {
				return
			}
			info.slot, info.init = c.localSlot(), true
			c.emit(Instruction{Opcode: iFreshVar, Slot: info.slot})
		case *Compound:
			for _, a := range t.Args {
				walk(a)
			}
		}
	}
	for _, t := range ts {
		walk(t)
	}
}

func (c *compiler) cut(ctx cutContext) {
	switch ctx.kind {
	case cutTo:
		c.emit(Instruction{Opcode: cCut, Slot: ctx.slot})
	case cutAbove:
		c.emit(Instruction{Opcode: cCutLocal, Slot: ctx.slot})
	default:
		c.emit(Instruction{Opcode: iCut})
	}
}

func (c *compiler) call(f Functor, tail bool) {
	if tail {
		c.emit(Instruction{Opcode: iDepart, Operand: f})
		return
	}
	c.emit(Instruction{Opcode: iCall, Operand: f})
}

func (c *compiler) body(t Term, tail bool, cut cutContext) error {
	switch g := t.(type) {
	case *Variable:
		c.construct(g)
		c.call(functorCall, tail)
		return nil
	case Atom:
		switch g {
		case atomTrue:
			c.emit(Instruction{Opcode: iTrue})
		case atomFail, atomFalse:
			c.emit(Instruction{Opcode: iFail})
		case atomCut:
			c.cut(cut)
		default:
			c.call(NewFunctor(g, 0), tail)
		}
		return nil
	case *Compound:
		switch g.Functor {
		case functorComma:
			if err := c.body(g.Args[0], false, cut); err != nil {
				return err
			}
			return c.body(g.Args[1], tail, cut)
		case functorOr:
			if ite, ok := g.Args[0].(*Compound); ok && ite.Functor == functorThen {
				return c.ifThenElse(g, ite.Args[0], ite.Args[1], g.Args[1], tail, cut)
			}
			return c.disjunction(g, g.Args[0], g.Args[1], tail, cut)
		case functorThen:
			return c.ifThen(g, g.Args[0], g.Args[1], tail, cut)
		case functorNot:
			return c.negation(g, g.Args[0])
		case functorCatch:
			return c.catch(g, g.Args[0], g.Args[1], g.Args[2])
		case functorEqual:
			c.construct(g.Args[0])
			c.construct(g.Args[1])
			c.emit(Instruction{Opcode: iUnify})
			return nil
		case functorThrow:
			c.construct(g.Args[0])
			c.emit(Instruction{Opcode: iThrow})
			return nil
		default:
			for _, a := range g.Args {
				c.construct(a)
			}
			c.call(g.Functor, tail)
			return nil
		}
	default:
		return TypeError(ValidTypeCallable, t)
	}
}

func (c *compiler) ifThenElse(g Term, cond, then, els Term, tail bool, cut cutContext) error {
	c.hoist(g)
	s := c.reserveSlot()
	lElse, lEnd := c.label(), c.label()
	c.emit(Instruction{Opcode: cIfThenElse, Slot: s, Label: lElse})
	if err := c.body(cond, false, cutContext{kind: cutAbove, slot: s}); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cCut, Slot: s})
	if err := c.body(then, tail, cut); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cJump, Label: lEnd})
	c.emit(Instruction{Opcode: opLabel, Label: lElse})
	if err := c.body(els, tail, cut); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: opLabel, Label: lEnd})
	return nil
}

func (c *compiler) ifThen(g Term, cond, then Term, tail bool, cut cutContext) error {
	c.hoist(g)
	s := c.reserveSlot()
	c.emit(Instruction{Opcode: cIfThen, Slot: s})
	if err := c.body(cond, false, cutContext{kind: cutTo, slot: s}); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cCut, Slot: s})
	return c.body(then, tail, cut)
}

func (c *compiler) negation(g Term, goal Term) error {
	c.hoist(g)
	s := c.reserveSlot()
	lElse := c.label()
	c.emit(Instruction{Opcode: cIfThenElse, Slot: s, Label: lElse})
	if err := c.body(goal, false, cutContext{kind: cutAbove, slot: s}); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cCut, Slot: s})
	c.emit(Instruction{Opcode: iFail})
	c.emit(Instruction{Opcode: opLabel, Label: lElse})
	return nil
}

func (c *compiler) disjunction(g Term, left, right Term, tail bool, cut cutContext) error {
	c.hoist(g)
	lElse, lEnd := c.label(), c.label()
	c.emit(Instruction{Opcode: cOr, Label: lElse})
	if err := c.body(left, tail, cut); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cJump, Label: lEnd})
	c.emit(Instruction{Opcode: opLabel, Label: lElse})
	if err := c.body(right, tail, cut); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: opLabel, Label: lEnd})
	return nil
}

func (c *compiler) catch(g Term, goal, catcher, recovery Term) error {
	c.hoist(g)
	b := c.reserveSlot()
	ball := c.reserveSlot()
	lHandler, lEnd := c.label(), c.label()
	c.emit(Instruction{Opcode: iCatch, Slot: b, Label: lHandler})
	if err := c.body(goal, false, cutContext{kind: cutAbove, slot: b}); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: cJump, Label: lEnd})
	c.emit(Instruction{Opcode: opLabel, Label: lHandler})
	c.construct(catcher)
	c.emit(Instruction{Opcode: iCaught, Slot: ball})
	c.emit(Instruction{Opcode: cCut, Slot: b})
	if err := c.body(recovery, false, cutContext{kind: cutTo, slot: b}); err != nil {
		return err
	}
	c.emit(Instruction{Opcode: opLabel, Label: lEnd})
	c.emit(Instruction{Opcode: iExitCatch, Slot: b})
	return nil
}
