package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalInstruction is returned when the kernel fetches an opcode it doesn't know.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrCorruptCode is returned when the kernel finds compiled code in an impossible state.
	ErrCorruptCode = errors.New("corrupt code")
)

// Exception is an error represented by a prolog term.
type Exception struct {
	term Term
}

// NewException creates an exception from the given term. The term is expected to be resolved.
func NewException(term Term) Exception {
	return Exception{term: term}
}

// Term returns the underlying term of the exception.
func (e Exception) Term() Term {
	return e.term
}

func (e Exception) Error() string {
	return e.term.String()
}

// HaltError is returned when halt/0 or halt/1 is called. It can't be caught by catch/3.
type HaltError struct {
	Code int
}

func (e HaltError) Error() string {
	return fmt.Sprintf("halt(%d)", e.Code)
}

// rootContext is the context of errors raised by the kernel and the builtins.
var rootContext = NewAtom("toplevel")

func formalError(formal Term) Exception {
	return NewException(&Compound{
		Functor: functorError,
		Args:    []Term{formal, rootContext},
	})
}

// InstantiationError returns an instantiation error exception.
func InstantiationError() Exception {
	return formalError(NewAtom("instantiation_error"))
}

// ValidType is the correct type for an argument or one of its components.
type ValidType uint8

// ValidType is one of these values.
const (
	ValidTypeAtom ValidType = iota
	ValidTypeAtomic
	ValidTypeCallable
	ValidTypeCompound
	ValidTypeEvaluable
	ValidTypeInteger
	ValidTypeList
	ValidTypeNumber
	ValidTypePredicateIndicator
	ValidTypeFloat
)

// Term returns an Atom for the ValidType.
func (t ValidType) Term() Term {
	return [...]Atom{
		ValidTypeAtom:               NewAtom("atom"),
		ValidTypeAtomic:             NewAtom("atomic"),
		ValidTypeCallable:           atomCallable,
		ValidTypeCompound:           NewAtom("compound"),
		ValidTypeEvaluable:          NewAtom("evaluable"),
		ValidTypeInteger:            NewAtom("integer"),
		ValidTypeList:               NewAtom("list"),
		ValidTypeNumber:             NewAtom("number"),
		ValidTypePredicateIndicator: NewAtom("predicate_indicator"),
		ValidTypeFloat:              NewAtom("float"),
	}[t]
}

// TypeError creates a new type error exception.
func TypeError(validType ValidType, culprit Term) Exception {
	return formalError(NewAtom("type_error").Apply(validType.Term(), culprit))
}

// ValidDomain is the domain which the procedure defines.
type ValidDomain uint8

// ValidDomain is one of these values.
const (
	ValidDomainNonEmptyList ValidDomain = iota
	ValidDomainNotLessThanZero
	ValidDomainFlagValue
	ValidDomainPrologFlag
	ValidDomainStreamOrAlias
)

// Term returns an Atom for the ValidDomain.
func (vd ValidDomain) Term() Term {
	return [...]Atom{
		ValidDomainNonEmptyList:    NewAtom("non_empty_list"),
		ValidDomainNotLessThanZero: NewAtom("not_less_than_zero"),
		ValidDomainFlagValue:       NewAtom("flag_value"),
		ValidDomainPrologFlag:      NewAtom("prolog_flag"),
		ValidDomainStreamOrAlias:   NewAtom("stream_or_alias"),
	}[vd]
}

// DomainError creates a new domain error exception.
func DomainError(validDomain ValidDomain, culprit Term) Exception {
	return formalError(NewAtom("domain_error").Apply(validDomain.Term(), culprit))
}

// ObjectType is the object on which an operation is to be performed.
type ObjectType uint8

// ObjectType is one of these values.
const (
	ObjectTypeProcedure ObjectType = iota
	ObjectTypeSourceSink
	ObjectTypeStream
)

// Term returns an Atom for the ObjectType.
func (ot ObjectType) Term() Term {
	return [...]Atom{
		ObjectTypeProcedure:  atomProcedure,
		ObjectTypeSourceSink: NewAtom("source_sink"),
		ObjectTypeStream:     NewAtom("stream"),
	}[ot]
}

// ExistenceError creates a new existence error exception.
func ExistenceError(objectType ObjectType, culprit Term) Exception {
	return formalError(NewAtom("existence_error").Apply(objectType.Term(), culprit))
}

// Operation is the operation to be performed.
type Operation uint8

// Operation is one of these values.
const (
	OperationAccess Operation = iota
	OperationCreate
	OperationModify
)

// Term returns an Atom for the Operation.
func (o Operation) Term() Term {
	return [...]Atom{
		OperationAccess: NewAtom("access"),
		OperationCreate: NewAtom("create"),
		OperationModify: NewAtom("modify"),
	}[o]
}

// PermissionType is the type to which the operation is not permitted to perform.
type PermissionType uint8

// PermissionType is one of these values.
const (
	PermissionTypePrivateProcedure PermissionType = iota
	PermissionTypeStaticProcedure
)

// Term returns an Atom for the PermissionType.
func (pt PermissionType) Term() Term {
	return [...]Atom{
		PermissionTypePrivateProcedure: NewAtom("private_procedure"),
		PermissionTypeStaticProcedure:  NewAtom("static_procedure"),
	}[pt]
}

// PermissionError creates a new permission error exception.
func PermissionError(operation Operation, permissionType PermissionType, culprit Term) Exception {
	return formalError(NewAtom("permission_error").Apply(operation.Term(), permissionType.Term(), culprit))
}

// Flag is an implementation defined limit.
type Flag uint8

// Flag is one of these values.
const (
	FlagMaxArity Flag = iota
	FlagMaxInteger
	FlagMinInteger
)

// Term returns an Atom for the Flag.
func (f Flag) Term() Term {
	return [...]Atom{
		FlagMaxArity:   NewAtom("max_arity"),
		FlagMaxInteger: NewAtom("max_integer"),
		FlagMinInteger: NewAtom("min_integer"),
	}[f]
}

// RepresentationError creates a new representation error exception.
func RepresentationError(limit Flag) Exception {
	return formalError(NewAtom("representation_error").Apply(limit.Term()))
}

// ExceptionalValue is an evaluable functor's result which is not a number.
type ExceptionalValue uint8

// ExceptionalValue is one of these values.
const (
	ExceptionalValueFloatOverflow ExceptionalValue = iota
	ExceptionalValueIntOverflow
	ExceptionalValueUnderflow
	ExceptionalValueZeroDivisor
	ExceptionalValueUndefined
)

// Term returns an Atom for the ExceptionalValue.
func (ev ExceptionalValue) Term() Term {
	return [...]Atom{
		ExceptionalValueFloatOverflow: NewAtom("float_overflow"),
		ExceptionalValueIntOverflow:   NewAtom("int_overflow"),
		ExceptionalValueUnderflow:     NewAtom("underflow"),
		ExceptionalValueZeroDivisor:   NewAtom("zero_divisor"),
		ExceptionalValueUndefined:     NewAtom("undefined"),
	}[ev]
}

// EvaluationError creates a new evaluation error exception.
func EvaluationError(ev ExceptionalValue) Exception {
	return formalError(NewAtom("evaluation_error").Apply(ev.Term()))
}

// SyntaxError creates a new syntax error exception.
func SyntaxError(err error) Exception {
	return formalError(NewAtom("syntax_error").Apply(NewAtom(err.Error())))
}

// SystemError creates a new system error exception.
func SystemError(err error) Exception {
	return NewException(&Compound{
		Functor: functorError,
		Args:    []Term{atomSystemError, NewAtom(err.Error())},
	})
}
