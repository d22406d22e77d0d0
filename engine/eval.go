package engine

import "math/big"

// EvaluableFunctors is a set of unary/binary functions.
type EvaluableFunctors struct {
	Unary  map[Atom]func(x Number) (Number, error)
	Binary map[Atom]func(x, y Number) (Number, error)
}

// DefaultEvaluableFunctors are the evaluable functors is/2 and the comparison predicates understand.
var DefaultEvaluableFunctors = EvaluableFunctors{
	Unary: map[Atom]func(Number) (Number, error){
		NewAtom("-"):   Neg,
		NewAtom("+"):   Pos,
		NewAtom("abs"): Abs,
	},
	Binary: map[Atom]func(Number, Number) (Number, error){
		NewAtom("+"):   Add,
		NewAtom("-"):   Sub,
		NewAtom("*"):   Mul,
		NewAtom("//"):  IntDiv,
		NewAtom("max"): Max,
		NewAtom("min"): Min,
	},
}

// Is evaluates expression and unifies the result with result.
func (fs EvaluableFunctors) Is(vm *VM, result, expression Term) (bool, error) {
	v, err := fs.eval(vm, expression)
	if err != nil {
		return false, err
	}
	return vm.Unify(result, v), nil
}

// Equal succeeds iff lhs equals to rhs.
func (fs EvaluableFunctors) Equal(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o == 0
	})
}

// NotEqual succeeds iff lhs doesn't equal to rhs.
func (fs EvaluableFunctors) NotEqual(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o != 0
	})
}

// LessThan succeeds iff lhs is less than rhs.
func (fs EvaluableFunctors) LessThan(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o < 0
	})
}

// GreaterThan succeeds iff lhs is greater than rhs.
func (fs EvaluableFunctors) GreaterThan(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o > 0
	})
}

// LessThanOrEqual succeeds iff lhs is less than or equal to rhs.
func (fs EvaluableFunctors) LessThanOrEqual(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o <= 0
	})
}

// GreaterThanOrEqual succeeds iff lhs is greater than or equal to rhs.
func (fs EvaluableFunctors) GreaterThanOrEqual(vm *VM, lhs, rhs Term) (bool, error) {
	return fs.compare(vm, lhs, rhs, func(o int) bool {
		return o >= 0
	})
}

func (fs EvaluableFunctors) compare(vm *VM, lhs, rhs Term, p func(int) bool) (bool, error) {
	l, err := fs.eval(vm, lhs)
	if err != nil {
		return false, err
	}

	r, err := fs.eval(vm, rhs)
	if err != nil {
		return false, err
	}

	return p(Compare(l, r)), nil
}

func (fs EvaluableFunctors) eval(vm *VM, expression Term) (Number, error) {
	switch t := vm.Resolve(expression).(type) {
	case *Variable:
		return nil, InstantiationError()
	case Number:
		return t, nil
	case Atom:
		return nil, TypeError(ValidTypeEvaluable, NewFunctor(t, 0).Term())
	case *Compound:
		switch len(t.Args) {
		case 1:
			f, ok := fs.Unary[t.Functor.Name()]
			if !ok {
				return nil, TypeError(ValidTypeEvaluable, t.Functor.Term())
			}
			x, err := fs.eval(vm, t.Args[0])
			if err != nil {
				return nil, err
			}
			return f(x)
		case 2:
			f, ok := fs.Binary[t.Functor.Name()]
			if !ok {
				return nil, TypeError(ValidTypeEvaluable, t.Functor.Term())
			}
			x, err := fs.eval(vm, t.Args[0])
			if err != nil {
				return nil, err
			}
			y, err := fs.eval(vm, t.Args[1])
			if err != nil {
				return nil, err
			}
			return f(x, y)
		default:
			return nil, TypeError(ValidTypeEvaluable, t.Functor.Term())
		}
	default:
		return nil, TypeError(ValidTypeEvaluable, t)
	}
}

// Compare returns -1, 0, or 1 depending on whether x is less than, equal to, or greater than y.
// Numbers of different kinds are compared in the wider kind.
func Compare(x, y Number) int {
	if i, j, ok := bothInteger(x, y); ok {
		switch {
		case i < j:
			return -1
		case i > j:
			return 1
		default:
			return 0
		}
	}

	k := kindOf(x)
	if ky := kindOf(y); ky > k {
		k = ky
	}
	switch k {
	case kindFloat:
		f, g := toFloat(x), toFloat(y)
		switch {
		case f < g:
			return -1
		case f > g:
			return 1
		default:
			return 0
		}
	case kindRational:
		return toRat(x).Cmp(toRat(y))
	default:
		return toInt(x).Cmp(toInt(y))
	}
}

// Pos returns x.
func Pos(x Number) (Number, error) {
	return x, nil
}

// Abs returns the absolute value of x.
func Abs(x Number) (Number, error) {
	if Compare(x, Integer(0)) < 0 {
		return Neg(x)
	}
	return x, nil
}

// Max returns the greater of x and y.
func Max(x, y Number) (Number, error) {
	if Compare(x, y) < 0 {
		return y, nil
	}
	return x, nil
}

// Min returns the lesser of x and y.
func Min(x, y Number) (Number, error) {
	if Compare(x, y) > 0 {
		return y, nil
	}
	return x, nil
}

// IntDiv returns x//y truncated toward zero. Both must be integers.
func IntDiv(x, y Number) (Number, error) {
	if kindOf(x) != kindInteger {
		return nil, TypeError(ValidTypeInteger, x)
	}
	if kindOf(y) != kindInteger {
		return nil, TypeError(ValidTypeInteger, y)
	}
	if Compare(y, Integer(0)) == 0 {
		return nil, EvaluationError(ExceptionalValueZeroDivisor)
	}
	if i, j, ok := bothInteger(x, y); ok && !(i == minInt && j == -1) {
		return i / j, nil
	}
	return NewBigInteger(new(big.Int).Quo(toInt(x), toInt(y))), nil
}
