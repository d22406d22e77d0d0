package engine

import "fmt"

var (
	functorComma    = NewFunctor(atomComma, 2)
	functorOr       = NewFunctor(atomSemicolon, 2)
	functorIf       = NewFunctor(atomIf, 2)
	functorThen     = NewFunctor(atomThen, 2)
	functorNot      = NewFunctor(atomNegation, 1)
	functorEqual    = NewFunctor(atomEqual, 2)
	functorCall     = NewFunctor(atomCall, 1)
	functorCatch    = NewFunctor(atomCatch, 3)
	functorThrow    = NewFunctor(atomThrow, 1)
	functorColon    = NewFunctor(atomColon, 2)
	functorSlash    = NewFunctor(atomSlash, 2)
	functorDot      = NewFunctor(atomDot, 2)
	functorError    = NewFunctor(atomError, 2)
	functorQuery    = NewFunctor(atomQuery, 0)
	functorCallGoal = NewFunctor(atomCallGoal, 0)
)

// Functor is the identity of a compound term or a predicate: a pair of a name and an arity.
// Functors are interned, so two functors with the same name and arity are equal.
// Use NewFunctor to obtain one; the zero value is not a valid functor.
type Functor uint32

// NewFunctor interns the pair of name and arity and returns the functor.
func NewFunctor(name Atom, arity int) Functor {
	return Functor(constants.Intern(functorKey{name: name, arity: arity}))
}

func (f Functor) constant() {}

func (f Functor) key() functorKey {
	k, _ := constants.Object(uint32(f)).(functorKey)
	return k
}

// Name returns the name of the functor.
func (f Functor) Name() Atom {
	return f.key().name
}

// Arity returns the arity of the functor.
func (f Functor) Arity() int {
	return f.key().arity
}

// String returns the functor in the form of a predicate indicator, e.g. foo/2.
func (f Functor) String() string {
	k := f.key()
	return fmt.Sprintf("%s/%d", k.name, k.arity)
}

// Term returns the functor as a predicate indicator term Name/Arity.
func (f Functor) Term() Term {
	k := f.key()
	return &Compound{
		Functor: functorSlash,
		Args:    []Term{k.name, Integer(k.arity)},
	}
}

// Apply returns a term with the functor and the given arguments.
func (f Functor) Apply(args ...Term) (Term, error) {
	k := f.key()
	if len(args) != k.arity {
		return nil, fmt.Errorf("wrong number of arguments for %s: %d", f, len(args))
	}
	return k.name.Apply(args...), nil
}
