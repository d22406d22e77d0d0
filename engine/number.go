package engine

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	maxInt = Integer(math.MaxInt64)
	minInt = Integer(math.MinInt64)
)

// Number is a prolog number: Integer, Float, *BigInteger or *Rational.
type Number interface {
	Term
	number()
}

// Integer is a prolog integer that fits in int64.
type Integer int64

func (i Integer) term()     {}
func (i Integer) constant() {}
func (i Integer) number()   {}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Float is a prolog floating-point number.
type Float float64

func (f Float) term()     {}
func (f Float) constant() {}
func (f Float) number()   {}

func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") { // n for NaN and Inf
		s += ".0"
	}
	return s
}

// BigInteger is a prolog integer which doesn't fit in int64.
type BigInteger struct {
	i big.Int
}

// NewBigInteger returns i as a prolog integer. If i fits in int64, it returns an Integer.
func NewBigInteger(i *big.Int) Number {
	if i.IsInt64() {
		return Integer(i.Int64())
	}
	var b BigInteger
	b.i.Set(i)
	return &b
}

func (b *BigInteger) term()     {}
func (b *BigInteger) constant() {}
func (b *BigInteger) number()   {}

func (b *BigInteger) String() string {
	return b.i.String()
}

// Int returns a copy of the underlying value.
func (b *BigInteger) Int() *big.Int {
	return new(big.Int).Set(&b.i)
}

// Rational is a prolog rational number whose denominator is not 1.
type Rational struct {
	r big.Rat
}

// NewRational returns r as a prolog number. If r is an integer, it returns an Integer or a *BigInteger.
func NewRational(r *big.Rat) Number {
	if r.IsInt() {
		return NewBigInteger(r.Num())
	}
	var q Rational
	q.r.Set(r)
	return &q
}

func (q *Rational) term()     {}
func (q *Rational) constant() {}
func (q *Rational) number()   {}

func (q *Rational) String() string {
	return q.r.Num().String() + "r" + q.r.Denom().String()
}

// Rat returns a copy of the underlying value.
func (q *Rational) Rat() *big.Rat {
	return new(big.Rat).Set(&q.r)
}

// Add returns x+y. Integer results which overflow int64 are promoted to *BigInteger.
func Add(x, y Number) (Number, error) {
	if x, y, ok := bothInteger(x, y); ok {
		if r, ok := addI(x, y); ok {
			return r, nil
		}
	}
	return arith(x, y, (*big.Int).Add, (*big.Rat).Add, func(a, b float64) float64 { return a + b })
}

// Sub returns x-y. Integer results which overflow int64 are promoted to *BigInteger.
func Sub(x, y Number) (Number, error) {
	if x, y, ok := bothInteger(x, y); ok {
		if r, ok := subI(x, y); ok {
			return r, nil
		}
	}
	return arith(x, y, (*big.Int).Sub, (*big.Rat).Sub, func(a, b float64) float64 { return a - b })
}

// Mul returns x*y. Integer results which overflow int64 are promoted to *BigInteger.
func Mul(x, y Number) (Number, error) {
	if x, y, ok := bothInteger(x, y); ok {
		if r, ok := mulI(x, y); ok {
			return r, nil
		}
	}
	return arith(x, y, (*big.Int).Mul, (*big.Rat).Mul, func(a, b float64) float64 { return a * b })
}

// Neg returns -x.
func Neg(x Number) (Number, error) {
	return Sub(Integer(0), x)
}

func bothInteger(x, y Number) (Integer, Integer, bool) {
	i, ok := x.(Integer)
	if !ok {
		return 0, 0, false
	}
	j, ok := y.(Integer)
	return i, j, ok
}

func addI(x, y Integer) (Integer, bool) {
	switch {
	case y > 0 && x > maxInt-y:
		return 0, false
	case y < 0 && x < minInt-y:
		return 0, false
	default:
		return x + y, true
	}
}

func subI(x, y Integer) (Integer, bool) {
	switch {
	case y < 0 && x > maxInt+y:
		return 0, false
	case y > 0 && x < minInt+y:
		return 0, false
	default:
		return x - y, true
	}
}

func mulI(x, y Integer) (Integer, bool) {
	switch {
	case x == -1 && y == minInt:
		return 0, false
	case x == minInt && y == -1:
		return 0, false
	case y == 0:
		return 0, true
	default:
		r := x * y
		if r/y != x {
			return 0, false
		}
		return r, true
	}
}

type numberKind int

const (
	kindInteger numberKind = iota
	kindRational
	kindFloat
)

func kindOf(n Number) numberKind {
	switch n.(type) {
	case Float:
		return kindFloat
	case *Rational:
		return kindRational
	default:
		return kindInteger
	}
}

func arith(x, y Number, fi func(z, x, y *big.Int) *big.Int, fr func(z, x, y *big.Rat) *big.Rat, ff func(float64, float64) float64) (Number, error) {
	k := kindOf(x)
	if ky := kindOf(y); ky > k {
		k = ky
	}
	switch k {
	case kindFloat:
		r := ff(toFloat(x), toFloat(y))
		if math.IsInf(r, 0) {
			return nil, EvaluationError(ExceptionalValueFloatOverflow)
		}
		if math.IsNaN(r) {
			return nil, EvaluationError(ExceptionalValueUndefined)
		}
		return Float(r), nil
	case kindRational:
		return NewRational(fr(new(big.Rat), toRat(x), toRat(y))), nil
	default:
		return NewBigInteger(fi(new(big.Int), toInt(x), toInt(y))), nil
	}
}

func toInt(n Number) *big.Int {
	switch n := n.(type) {
	case Integer:
		return big.NewInt(int64(n))
	case *BigInteger:
		return &n.i
	default:
		return new(big.Int)
	}
}

func toRat(n Number) *big.Rat {
	switch n := n.(type) {
	case *Rational:
		return &n.r
	default:
		return new(big.Rat).SetInt(toInt(n))
	}
}

func toFloat(n Number) float64 {
	switch n := n.(type) {
	case Float:
		return float64(n)
	case Integer:
		return float64(n)
	case *BigInteger:
		f, _ := new(big.Float).SetInt(&n.i).Float64()
		return f
	case *Rational:
		f, _ := n.r.Float64()
		return f
	default:
		return math.NaN()
	}
}
