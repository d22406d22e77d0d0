package engine

import (
	"fmt"
	"strings"
)

// Term is a prolog term. It is one of *Variable, Atom, Integer, Float, *BigInteger, *Rational, *Compound or *Blob.
type Term interface {
	fmt.Stringer
	term()
}

// Constant is an operand stored in the constant pool of compiled code: an atomic term or a Functor.
type Constant interface {
	fmt.Stringer
	constant()
}

// Compound is a prolog compound.
type Compound struct {
	Functor Functor
	Args    []Term
}

func (c *Compound) term() {}

func (c *Compound) String() string {
	var sb strings.Builder
	writeCompound(&sb, c, 0)
	return sb.String()
}

// maxWriteDepth keeps String() finite on cyclic terms.
const maxWriteDepth = 256

func writeTerm(sb *strings.Builder, t Term, depth int) {
	if c, ok := t.(*Compound); ok {
		writeCompound(sb, c, depth)
		return
	}
	sb.WriteString(t.String())
}

func writeCompound(sb *strings.Builder, c *Compound, depth int) {
	if depth > maxWriteDepth {
		sb.WriteString("...")
		return
	}
	if c.Functor == functorDot {
		writeList(sb, c, depth)
		return
	}
	sb.WriteString(c.Functor.Name().String())
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeTerm(sb, a, depth+1)
	}
	sb.WriteByte(')')
}

func writeList(sb *strings.Builder, c *Compound, depth int) {
	sb.WriteByte('[')
	var t Term = c
	for i := 0; ; i++ {
		l, ok := t.(*Compound)
		if !ok || l.Functor != functorDot {
			break
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if i > maxWriteDepth {
			sb.WriteString("...")
			sb.WriteByte(']')
			return
		}
		writeTerm(sb, l.Args[0], depth+1)
		t = l.Args[1]
	}
	if t != atomNil {
		sb.WriteByte('|')
		writeTerm(sb, t, depth+1)
	}
	sb.WriteByte(']')
}

// Blob is an opaque host object wrapped as an atomic term.
// Two blobs are equal iff they are the same blob.
type Blob struct {
	Type    Atom
	Payload interface{}
}

func (b *Blob) term()     {}
func (b *Blob) constant() {}

func (b *Blob) String() string {
	return fmt.Sprintf("<%s>(%p)", b.Type.Name(), b)
}

// Equal reports whether two atomic terms are the same constant.
// Variables are equal only to themselves. Compounds are never compared structurally here: two distinct
// compounds are equal only through unification, so Equal reports true only for the identical compound.
func Equal(x, y Term) bool {
	switch x := x.(type) {
	case Atom, Integer, Float, *Variable, *Compound, *Blob:
		return x == y
	case *BigInteger:
		y, ok := y.(*BigInteger)
		return ok && x.i.Cmp(&y.i) == 0
	case *Rational:
		y, ok := y.(*Rational)
		return ok && x.r.Cmp(&y.r) == 0
	default:
		return false
	}
}

// Atomic reports whether t is an atomic term.
func Atomic(t Term) bool {
	switch t.(type) {
	case Atom, Integer, Float, *BigInteger, *Rational, *Blob:
		return true
	default:
		return false
	}
}

// Cons returns a list consists of a first element car and the rest cdr.
func Cons(car, cdr Term) Term {
	return &Compound{
		Functor: functorDot,
		Args:    []Term{car, cdr},
	}
}

// List returns a list of ts.
func List(ts ...Term) Term {
	return ListRest(atomNil, ts...)
}

// ListRest returns a list of ts followed by rest.
func ListRest(rest Term, ts ...Term) Term {
	l := rest
	for i := len(ts) - 1; i >= 0; i-- {
		l = Cons(ts[i], l)
	}
	return l
}

// Seq returns a sequence of ts separated by sep.
func Seq(sep Atom, ts ...Term) Term {
	s, ts := ts[len(ts)-1], ts[:len(ts)-1]
	for i := len(ts) - 1; i >= 0; i-- {
		s = sep.Apply(ts[i], s)
	}
	return s
}

// functorOf returns the principal functor of a callable term.
func functorOf(t Term) (Functor, []Term, bool) {
	switch t := t.(type) {
	case Atom:
		return NewFunctor(t, 0), nil, true
	case *Compound:
		return t.Functor, t.Args, true
	default:
		return 0, nil, false
	}
}
