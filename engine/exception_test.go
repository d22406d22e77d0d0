package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestException_Error(t *testing.T) {
	e := NewException(NewAtom("foo"))
	assert.Equal(t, "foo", e.Error())
	assert.Equal(t, NewAtom("foo"), e.Term())
}

func TestInstantiationError(t *testing.T) {
	assert.Equal(t, Exception{
		term: &Compound{
			Functor: functorError,
			Args: []Term{
				NewAtom("instantiation_error"),
				rootContext,
			},
		},
	}, InstantiationError())
}

func TestTypeError(t *testing.T) {
	assert.Equal(t, Exception{
		term: &Compound{
			Functor: functorError,
			Args: []Term{
				&Compound{
					Functor: NewFunctor(NewAtom("type_error"), 2),
					Args: []Term{
						NewAtom("callable"),
						Integer(0),
					},
				},
				rootContext,
			},
		},
	}, TypeError(ValidTypeCallable, Integer(0)))
}

func TestDomainError(t *testing.T) {
	assert.Equal(t, Exception{
		term: &Compound{
			Functor: functorError,
			Args: []Term{
				&Compound{
					Functor: NewFunctor(NewAtom("domain_error"), 2),
					Args: []Term{
						NewAtom("not_less_than_zero"),
						Integer(-1),
					},
				},
				rootContext,
			},
		},
	}, DomainError(ValidDomainNotLessThanZero, Integer(-1)))
}

func TestExistenceError(t *testing.T) {
	foo := NewFunctor(NewAtom("foo"), 0)
	assert.Equal(t, Exception{
		term: &Compound{
			Functor: functorError,
			Args: []Term{
				&Compound{
					Functor: NewFunctor(NewAtom("existence_error"), 2),
					Args: []Term{
						NewAtom("procedure"),
						&Compound{Functor: functorSlash, Args: []Term{NewAtom("foo"), Integer(0)}},
					},
				},
				rootContext,
			},
		},
	}, ExistenceError(ObjectTypeProcedure, foo.Term()))
}

func TestPermissionError(t *testing.T) {
	assert.Equal(t, Exception{
		term: &Compound{
			Functor: functorError,
			Args: []Term{
				&Compound{
					Functor: NewFunctor(NewAtom("permission_error"), 3),
					Args: []Term{
						NewAtom("modify"),
						NewAtom("static_procedure"),
						NewAtom("foo"),
					},
				},
				rootContext,
			},
		},
	}, PermissionError(OperationModify, PermissionTypeStaticProcedure, NewAtom("foo")))
}

func TestRepresentationError(t *testing.T) {
	assert.Equal(t, "error(representation_error(max_arity),toplevel)", RepresentationError(FlagMaxArity).Error())
}

func TestEvaluationError(t *testing.T) {
	assert.Equal(t, "error(evaluation_error(zero_divisor),toplevel)", EvaluationError(ExceptionalValueZeroDivisor).Error())
}

func TestSyntaxError(t *testing.T) {
	assert.Equal(t, "error(syntax_error('unexpected token'),toplevel)", SyntaxError(errors.New("unexpected token")).Error())
}

func TestSystemError(t *testing.T) {
	assert.Equal(t, "error(system_error,failed)", SystemError(errors.New("failed")).Error())
}

func TestHaltError_Error(t *testing.T) {
	assert.Equal(t, "halt(3)", HaltError{Code: 3}.Error())
}
