package engine

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluableFunctors_Is(t *testing.T) {
	plus, minus, times := NewAtom("+"), NewAtom("-"), NewAtom("*")
	tests := []struct {
		title      string
		expression Term
		result     Term
		err        error
	}{
		{title: "integer", expression: Integer(1), result: Integer(1)},
		{title: "float", expression: Float(1.5), result: Float(1.5)},
		{title: "addition", expression: plus.Apply(Integer(1), Integer(2)), result: Integer(3)},
		{title: "mixed addition", expression: plus.Apply(Integer(1), Float(2)), result: Float(3)},
		{title: "subtraction", expression: minus.Apply(Integer(3), Integer(2)), result: Integer(1)},
		{title: "multiplication", expression: times.Apply(Integer(3), Integer(2)), result: Integer(6)},
		{title: "nested", expression: times.Apply(plus.Apply(Integer(1), Integer(2)), Integer(4)), result: Integer(12)},
		{title: "negation", expression: minus.Apply(Integer(5)), result: Integer(-5)},
		{title: "unary plus", expression: plus.Apply(Integer(5)), result: Integer(5)},
		{title: "abs", expression: NewAtom("abs").Apply(Integer(-5)), result: Integer(5)},
		{title: "max", expression: NewAtom("max").Apply(Integer(1), Float(2)), result: Float(2)},
		{title: "min", expression: NewAtom("min").Apply(Integer(1), Float(2)), result: Integer(1)},
		{title: "integer division", expression: NewAtom("//").Apply(Integer(-7), Integer(2)), result: Integer(-3)},
		{title: "overflow", expression: plus.Apply(Integer(math.MaxInt64), Integer(1)), result: NewBigInteger(new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1)))},
		{title: "variable", expression: NewVariable(), err: InstantiationError()},
		{title: "atom", expression: NewAtom("foo"), err: TypeError(ValidTypeEvaluable, NewFunctor(NewAtom("foo"), 0).Term())},
		{title: "unknown functor", expression: NewAtom("foo").Apply(Integer(1)), err: TypeError(ValidTypeEvaluable, NewFunctor(NewAtom("foo"), 1).Term())},
		{title: "ternary", expression: plus.Apply(Integer(1), Integer(2), Integer(3)), err: TypeError(ValidTypeEvaluable, NewFunctor(plus, 3).Term())},
		{title: "zero divisor", expression: NewAtom("//").Apply(Integer(1), Integer(0)), err: EvaluationError(ExceptionalValueZeroDivisor)},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			vm := NewVM()
			x := NewVariable()
			ok, err := DefaultEvaluableFunctors.Is(vm, x, tt.expression)
			assert.Equal(t, tt.err, err)
			if tt.err != nil {
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.result, vm.Resolve(x))
		})
	}

	t.Run("mismatch", func(t *testing.T) {
		vm := NewVM()
		ok, err := DefaultEvaluableFunctors.Is(vm, Integer(4), plus.Apply(Integer(1), Integer(2)))
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("bound variable", func(t *testing.T) {
		vm := NewVM()
		x := NewVariable()
		assert.True(t, vm.Unify(x, Integer(2)))
		ok, err := DefaultEvaluableFunctors.Is(vm, Integer(4), times.Apply(x, x))
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestEvaluableFunctors_compare(t *testing.T) {
	fs := DefaultEvaluableFunctors
	tests := []struct {
		title    string
		p        Predicate2
		lhs, rhs Term
		ok       bool
	}{
		{title: "equal", p: fs.Equal, lhs: Integer(1), rhs: Float(1), ok: true},
		{title: "equal expression", p: fs.Equal, lhs: NewAtom("+").Apply(Integer(1), Integer(1)), rhs: Integer(2), ok: true},
		{title: "not equal", p: fs.NotEqual, lhs: Integer(1), rhs: Integer(2), ok: true},
		{title: "not equal false", p: fs.NotEqual, lhs: Integer(1), rhs: Float(1)},
		{title: "less than", p: fs.LessThan, lhs: Integer(1), rhs: Integer(2), ok: true},
		{title: "less than false", p: fs.LessThan, lhs: Integer(2), rhs: Integer(2)},
		{title: "greater than", p: fs.GreaterThan, lhs: Float(2.5), rhs: Integer(2), ok: true},
		{title: "less than or equal", p: fs.LessThanOrEqual, lhs: Integer(2), rhs: Integer(2), ok: true},
		{title: "greater than or equal", p: fs.GreaterThanOrEqual, lhs: Integer(1), rhs: Integer(2)},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			ok, err := tt.p(NewVM(), tt.lhs, tt.rhs)
			assert.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
		})
	}

	t.Run("instantiation error", func(t *testing.T) {
		_, err := fs.LessThan(NewVM(), NewVariable(), Integer(1))
		assert.Equal(t, InstantiationError(), err)

		_, err = fs.LessThan(NewVM(), Integer(1), NewVariable())
		assert.Equal(t, InstantiationError(), err)
	})
}

func TestCompare(t *testing.T) {
	big1 := NewBigInteger(new(big.Int).Lsh(big.NewInt(1), 70))
	half := NewRational(big.NewRat(1, 2))

	assert.Equal(t, -1, Compare(Integer(1), Integer(2)))
	assert.Equal(t, 0, Compare(Integer(2), Integer(2)))
	assert.Equal(t, 1, Compare(Integer(3), Integer(2)))
	assert.Equal(t, 0, Compare(Integer(2), Float(2)))
	assert.Equal(t, -1, Compare(Float(1.5), Integer(2)))
	assert.Equal(t, 1, Compare(big1, Integer(math.MaxInt64)))
	assert.Equal(t, -1, Compare(Integer(math.MinInt64), big1))
	assert.Equal(t, -1, Compare(half, Integer(1)))
	assert.Equal(t, 1, Compare(half, Integer(0)))
}

func TestIntDiv(t *testing.T) {
	t.Run("truncates toward zero", func(t *testing.T) {
		n, err := IntDiv(Integer(7), Integer(2))
		assert.NoError(t, err)
		assert.Equal(t, Integer(3), n)

		n, err = IntDiv(Integer(-7), Integer(2))
		assert.NoError(t, err)
		assert.Equal(t, Integer(-3), n)
	})

	t.Run("overflow", func(t *testing.T) {
		n, err := IntDiv(Integer(math.MinInt64), Integer(-1))
		assert.NoError(t, err)
		assert.Equal(t, NewBigInteger(new(big.Int).Neg(big.NewInt(math.MinInt64))), n)
	})

	t.Run("big integer", func(t *testing.T) {
		b := NewBigInteger(new(big.Int).Lsh(big.NewInt(1), 70))
		n, err := IntDiv(b, Integer(1<<10))
		assert.NoError(t, err)
		assert.Equal(t, Integer(1<<60), n)
	})

	t.Run("zero divisor", func(t *testing.T) {
		_, err := IntDiv(Integer(1), Integer(0))
		assert.Equal(t, EvaluationError(ExceptionalValueZeroDivisor), err)
	})

	t.Run("not an integer", func(t *testing.T) {
		_, err := IntDiv(Float(1), Integer(2))
		assert.Equal(t, TypeError(ValidTypeInteger, Float(1)), err)

		_, err = IntDiv(Integer(1), Float(2))
		assert.Equal(t, TypeError(ValidTypeInteger, Float(2)), err)
	})
}

func TestVM_arithmetic(t *testing.T) {
	vm := NewVM()
	count := NewAtom("count")
	n, m := NewVariable(), NewVariable()
	assert.NoError(t, vm.Consult(count.Apply(Integer(0))))
	assert.NoError(t, vm.Consult(rule(count.Apply(n),
		NewAtom(">").Apply(n, Integer(0)),
		NewAtom("is").Apply(m, NewAtom("-").Apply(n, Integer(1))),
		count.Apply(m),
	)))

	ok, err := vm.Execute(count.Apply(Integer(1000)))
	assert.NoError(t, err)
	assert.True(t, ok)

	x := NewVariable()
	ok, err = vm.Execute(NewAtom("is").Apply(x, NewAtom("*").Apply(Integer(6), Integer(7))))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Integer(42), vm.Resolve(x))

	_, err = vm.Execute(NewAtom("is").Apply(x, NewAtom("foo")))
	assert.Equal(t, TypeError(ValidTypeEvaluable, NewFunctor(NewAtom("foo"), 0).Term()), err)
}
