package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// UnknownAction is what the VM does when a called procedure doesn't exist.
type UnknownAction int

const (
	// UnknownError raises existence_error(procedure, PI).
	UnknownError UnknownAction = iota
	// UnknownFail fails silently.
	UnknownFail
	// UnknownWarning logs a warning and fails.
	UnknownWarning
)

func (u UnknownAction) String() string {
	switch u {
	case UnknownError:
		return "error"
	case UnknownFail:
		return "fail"
	case UnknownWarning:
		return "warning"
	default:
		return fmt.Sprintf("unknown(%d)", int(u))
	}
}

// Stats are counters of a VM's activity.
type Stats struct {
	// Calls is the number of procedure calls.
	Calls int
	// MaxDepth is the maximum length of the frame chain.
	MaxDepth int
	// Choicepoints is the number of choicepoints created.
	Choicepoints int
}

// VM is a machine executing compiled Prolog code. The zero value for VM is a valid VM with the builtin predicates.
// A VM is not safe for concurrent use.
type VM struct {
	// Logger is the logger for warnings and execution traces. If nil, the standard logger is used.
	Logger *logrus.Logger

	// OnCall is a hook which gets triggered when a procedure is called.
	OnCall func(f Functor, args []Term)
	// OnRedo is a hook which gets triggered when a clause or a foreign predicate is retried.
	OnRedo func(f Functor, args []Term)
	// OnUnknown is a hook which gets triggered when an unknown procedure is called.
	OnUnknown func(f Functor, args []Term)

	frame *Frame
	pc    int
	argP  []Term
	argI  int
	argS  []argState
	mode  mode
	buf   []Term

	cps         []*choicepoint
	trail       []*Variable
	queryTrail  int
	queryStamp  int64
	untrailed   []*Variable
	tracking    int
	cont        continuation
	contFunctor Functor
	stats       Stats

	modules map[Atom]*Module
	module  *Module
	unknown UnknownAction
	streams map[Atom]*Stream
}

// NewVM creates a VM with the builtin predicates.
func NewVM() *VM {
	var vm VM
	vm.init()
	return &vm
}

func (vm *VM) init() {
	if vm.modules != nil {
		return
	}
	vm.modules = map[Atom]*Module{}
	vm.module = vm.moduleNamed(atomUser)
	if vm.streams == nil {
		vm.streams = map[Atom]*Stream{}
	}
	if _, ok := vm.streams[atomUserInput]; !ok {
		vm.SetUserInput(os.Stdin)
	}
	if _, ok := vm.streams[atomUserOutput]; !ok {
		vm.SetUserOutput(os.Stdout)
	}
	vm.registerBuiltins()
}

func (vm *VM) logger() *logrus.Logger {
	if vm.Logger == nil {
		return logrus.StandardLogger()
	}
	return vm.Logger
}

func (vm *VM) moduleNamed(name Atom) *Module {
	m, ok := vm.modules[name]
	if !ok {
		m = newModule(name)
		vm.modules[name] = m
	}
	return m
}

// SetModule sets the current module. The module is created if it doesn't exist.
func (vm *VM) SetModule(name Atom) {
	vm.init()
	vm.module = vm.moduleNamed(name)
}

// Module returns the current module.
func (vm *VM) Module() *Module {
	vm.init()
	return vm.module
}

// SetUnknown sets what to do when an unknown procedure is called.
func (vm *VM) SetUnknown(u UnknownAction) {
	vm.unknown = u
}

// Stats returns the counters of the VM.
func (vm *VM) Stats() Stats {
	return vm.stats
}

// ResetStats resets the counters of the VM.
func (vm *VM) ResetStats() {
	vm.stats = Stats{}
}

// SetUserInput sets the given reader as the stream aliased user_input.
func (vm *VM) SetUserInput(r io.Reader) {
	if vm.streams == nil {
		vm.streams = map[Atom]*Stream{}
	}
	vm.streams[atomUserInput] = &Stream{alias: atomUserInput, source: r, mode: ioModeRead}
}

// SetUserOutput sets the given writer as the stream aliased user_output.
func (vm *VM) SetUserOutput(w io.Writer) {
	if vm.streams == nil {
		vm.streams = map[Atom]*Stream{}
	}
	vm.streams[atomUserOutput] = &Stream{alias: atomUserOutput, sink: w, mode: ioModeWrite}
}

// Stream returns the stream aliased alias.
func (vm *VM) Stream(alias Atom) (*Stream, error) {
	vm.init()
	s, ok := vm.streams[alias]
	if !ok {
		return nil, ExistenceError(ObjectTypeStream, alias)
	}
	return s, nil
}

// Consult adds a clause to the current module. The clause is compiled when its procedure is called for the first time.
func (vm *VM) Consult(t Term) error {
	vm.init()
	cl := vm.renamedCopy(t, nil)
	head := cl
	if c, ok := cl.(*Compound); ok && c.Functor == functorIf {
		head = c.Args[0]
	}
	f, _, err := headFunctor(head)
	if err != nil {
		return err
	}
	return vm.module.addClause(f, cl, false)
}

// Execute runs query and reports whether it has a solution. The query's variables are bound to the solution.
// If it fails or raises an error, the variables are left unbound.
// Choicepoints of the previous query are discarded and the bindings it left become permanent.
func (vm *VM) Execute(query Term) (bool, error) {
	vm.init()
	vm.cut(0)
	vm.commit()
	vm.queryStamp = stamp()
	goal := vm.Simplify(query)
	fvs := vm.FreeVariables(goal)
	code, err := compileQuery(goal, fvs)
	if err != nil {
		return false, err
	}
	args := make([]Term, len(fvs))
	for i, v := range fvs {
		args[i] = v
	}
	vm.enter(code, args, nil, 0, 0, vm.module)
	return vm.run(statusContinue, nil)
}

// Backtrack searches for the next solution of the last query.
// When there are no more solutions, the bindings of the query are undone.
func (vm *VM) Backtrack() (bool, error) {
	if len(vm.cps) == 0 {
		vm.endQuery()
		return false, nil
	}
	return vm.run(statusFail, nil)
}

// Discard abandons the last query. Its choicepoints are removed and its bindings are undone.
func (vm *VM) Discard() {
	vm.cut(0)
	vm.endQuery()
}

func (vm *VM) endQuery() {
	vm.undo(vm.queryTrail)
	vm.queryStamp = 0
}

// Dynamic declares the procedure name/arity in the current module as dynamic.
func (vm *VM) Dynamic(name string, arity int) error {
	vm.init()
	_, err := vm.module.dynamicProcedure(NewFunctor(NewAtom(name), arity))
	return err
}
