package engine

// Module is a namespace of procedures.
type Module struct {
	name       Atom
	procedures map[Functor]*procedure
}

func newModule(name Atom) *Module {
	return &Module{
		name:       name,
		procedures: map[Functor]*procedure{},
	}
}

// Name returns the name of the module.
func (m *Module) Name() Atom {
	return m.name
}

type procedureKind int

const (
	procedureStatic procedureKind = iota
	procedureDynamic
	procedureForeign
	procedureControl
)

// procedure is a predicate record. Static clauses are compiled together on first call; dynamic clauses are compiled
// one by one when they're added.
type procedure struct {
	functor Functor
	kind    procedureKind

	clauses []Term
	code    *Code

	dynamic []*clause

	foreign Predicate
	control controlFunc
}

type clause struct {
	term Term
	code *Code
}

// controlFunc computes the goal to run from the arguments of a control builtin such as call/N.
type controlFunc func(vm *VM, m *Module, args []Term) (*Module, Term, error)

// compiled returns the code of a static procedure, compiling the clauses if necessary.
func (p *procedure) compiled() (*Code, error) {
	if p.code != nil {
		return p.code, nil
	}
	code, err := compilePredicate(p.functor, p.clauses)
	if err != nil {
		return nil, err
	}
	p.code = code
	return code, nil
}

func (m *Module) procedure(f Functor) *procedure {
	p, ok := m.procedures[f]
	if !ok {
		p = &procedure{functor: f}
		m.procedures[f] = p
	}
	return p
}

// Code returns the compiled code of the static procedure f. It returns nil if there's no such procedure.
func (m *Module) Code(f Functor) (*Code, error) {
	p, ok := m.procedures[f]
	if !ok || p.kind != procedureStatic {
		return nil, nil
	}
	return p.compiled()
}

// Functors returns the functors of the procedures defined in the module.
func (m *Module) Functors() []Functor {
	fs := make([]Functor, 0, len(m.procedures))
	for f := range m.procedures {
		fs = append(fs, f)
	}
	return fs
}

func (m *Module) addClause(f Functor, cl Term, front bool) error {
	p := m.procedure(f)
	switch p.kind {
	case procedureStatic:
		if front {
			p.clauses = append([]Term{cl}, p.clauses...)
		} else {
			p.clauses = append(p.clauses, cl)
		}
		p.code = nil
		return nil
	case procedureDynamic:
		code, err := compileClause(f, cl)
		if err != nil {
			return err
		}
		c := &clause{term: cl, code: code}
		if front {
			p.dynamic = append([]*clause{c}, p.dynamic...)
		} else {
			p.dynamic = append(p.dynamic, c)
		}
		return nil
	default:
		return PermissionError(OperationModify, PermissionTypeStaticProcedure, f.Term())
	}
}

// dynamicProcedure returns the dynamic procedure f, declaring it dynamic if it doesn't exist yet.
func (m *Module) dynamicProcedure(f Functor) (*procedure, error) {
	p, ok := m.procedures[f]
	if !ok {
		p = &procedure{functor: f, kind: procedureDynamic}
		m.procedures[f] = p
		return p, nil
	}
	if p.kind == procedureStatic && len(p.clauses) == 0 {
		p.kind = procedureDynamic
	}
	if p.kind != procedureDynamic {
		return nil, PermissionError(OperationModify, PermissionTypeStaticProcedure, f.Term())
	}
	return p, nil
}

func (p *procedure) removeClause(c *clause) {
	for i, e := range p.dynamic {
		if e == c {
			p.dynamic = append(p.dynamic[:i:i], p.dynamic[i+1:]...)
			return
		}
	}
}
