package wam

import (
	"errors"
	"io"

	"github.com/ichiban/wam/engine"
)

// Interpreter is a Prolog interpreter built on the bytecode kernel.
type Interpreter struct {
	*engine.VM

	active *Solutions
}

// New creates a new interpreter with the builtin predicates. in and out become user_input and user_output.
// If either is nil, the standard input or output is used.
func New(in io.Reader, out io.Writer) *Interpreter {
	i := Interpreter{VM: engine.NewVM()}
	if in != nil {
		i.SetUserInput(in)
	}
	if out != nil {
		i.SetUserOutput(out)
	}
	return &i
}

// Consult adds clauses to the current module in order. It stops at the first clause that fails to compile.
func (i *Interpreter) Consult(clauses ...engine.Term) error {
	for _, c := range clauses {
		if err := i.VM.Consult(c); err != nil {
			return err
		}
	}
	return nil
}

// Var is a named variable of a query.
type Var struct {
	Name     string
	Variable *engine.Variable
}

// NewVar returns a fresh variable named name.
func NewVar(name string) Var {
	return Var{Name: name, Variable: engine.NewVariable()}
}

// Query executes goal lazily and returns *Solutions. vars are the variables Scan and Vars report.
// Starting another query on the same interpreter supersedes the returned *Solutions and undoes its bindings.
func (i *Interpreter) Query(goal engine.Term, vars ...Var) *Solutions {
	s := Solutions{
		i:    i,
		goal: goal,
		vars: vars,
	}
	return &s
}

// ErrNoSolutions indicates there's no solutions for the query.
var ErrNoSolutions = errors.New("no solutions")

// QuerySolution executes goal for the first solution.
func (i *Interpreter) QuerySolution(goal engine.Term, vars ...Var) *Solution {
	sols := i.Query(goal, vars...)
	if !sols.Next() {
		if err := sols.Err(); err != nil {
			return &Solution{err: err}
		}
		return &Solution{err: ErrNoSolutions}
	}
	return &Solution{sols: sols, err: sols.Close()}
}

// Solution is the first solution of a query.
type Solution struct {
	sols *Solutions
	err  error
}

// Scan copies the variable values of the solution into the specified struct/map.
func (s *Solution) Scan(dest interface{}) error {
	if err := s.err; err != nil {
		return err
	}
	return s.sols.Scan(dest)
}

// Err returns an error that occurred while querying for the Solution, if any.
func (s *Solution) Err() error {
	return s.err
}

// Vars returns variable names.
func (s *Solution) Vars() []string {
	if s.sols == nil {
		return nil
	}
	return s.sols.Vars()
}
