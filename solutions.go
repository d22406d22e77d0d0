package wam

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ichiban/wam/engine"
)

var (
	// ErrClosed indicates the Solutions are already closed.
	ErrClosed = errors.New("closed")

	// ErrSuperseded indicates another query started on the interpreter before the Solutions were exhausted.
	ErrSuperseded = errors.New("superseded by another query")
)

var termType = reflect.TypeOf((*engine.Term)(nil)).Elem()

// Solutions is the result of a query. Everytime the Next method is called, it searches for the next solution.
// By calling the Scan method, you can retrieve the content of the solution.
type Solutions struct {
	i       *Interpreter
	goal    engine.Term
	vars    []Var
	started bool
	done    bool
	closed  bool
	err     error
}

// Close closes the Solutions and terminates the search for other solutions.
func (s *Solutions) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if s.i != nil && s.i.active == s {
		s.i.active = nil
	}
	return nil
}

// Next prepares the next solution for reading with the Scan method. It returns true if it finds another solution,
// or false if there's no further solutions or if there's an error.
func (s *Solutions) Next() bool {
	if s.closed || s.done || s.err != nil {
		return false
	}

	var (
		ok  bool
		err error
	)
	if !s.started {
		s.started = true
		if a := s.i.active; a != nil && !a.done {
			s.i.Discard()
		}
		s.i.active = s
		ok, err = s.i.Execute(s.goal)
	} else {
		if s.i.active != s {
			s.err = ErrSuperseded
			return false
		}
		ok, err = s.i.Backtrack()
	}
	if err != nil {
		s.err = err
		return false
	}
	if !ok {
		s.done = true
	}
	return ok
}

// Scan copies the variable values of the current solution into the specified struct/map.
// Struct fields are matched by the `prolog` tag or else by the field name.
func (s *Solutions) Scan(dest interface{}) error {
	o := reflect.ValueOf(dest)
	switch o.Kind() {
	case reflect.Ptr:
		o = o.Elem()
		if o.Kind() != reflect.Struct {
			return fmt.Errorf("invalid kind: %s", o.Kind())
		}
		t := o.Type()

		fields := make(map[string]reflect.Value, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			name := f.Name
			if alias, ok := f.Tag.Lookup("prolog"); ok {
				name = alias
			}
			fields[name] = o.Field(i)
		}

		for _, v := range s.vars {
			f, ok := fields[v.Name]
			if !ok {
				continue
			}
			val, err := convert(s.i.VM, s.i.Simplify(v.Variable), f.Type())
			if err != nil {
				return fmt.Errorf("%s: %w", v.Name, err)
			}
			f.Set(val)
		}
		return nil
	case reflect.Map:
		t := o.Type()
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("invalid key type: %s", t.Key())
		}

		for _, v := range s.vars {
			val, err := convert(s.i.VM, s.i.Simplify(v.Variable), t.Elem())
			if err != nil {
				return fmt.Errorf("%s: %w", v.Name, err)
			}
			o.SetMapIndex(reflect.ValueOf(v.Name).Convert(t.Key()), val)
		}
		return nil
	default:
		return fmt.Errorf("invalid kind: %s", o.Kind())
	}
}

// Err returns the error if exists.
func (s *Solutions) Err() error {
	return s.err
}

// Vars returns variable names.
func (s *Solutions) Vars() []string {
	ns := make([]string, len(s.vars))
	for i, v := range s.vars {
		ns[i] = v.Name
	}
	return ns
}

func convert(vm *engine.VM, t engine.Term, typ reflect.Type) (reflect.Value, error) {
	if typ == termType {
		return reflect.ValueOf(&t).Elem(), nil
	}

	switch typ.Kind() {
	case reflect.Interface:
		if typ.NumMethod() > 0 {
			break
		}
		switch t := t.(type) {
		case engine.Atom:
			return reflect.ValueOf(t.Name()), nil
		case engine.Integer:
			return reflect.ValueOf(int(t)), nil
		case engine.Float:
			return reflect.ValueOf(float64(t)), nil
		default:
			v := reflect.New(typ).Elem()
			v.Set(reflect.ValueOf(t))
			return v, nil
		}
	case reflect.Float32, reflect.Float64:
		switch t := t.(type) {
		case engine.Float:
			return reflect.ValueOf(float64(t)).Convert(typ), nil
		case engine.Integer:
			return reflect.ValueOf(float64(t)).Convert(typ), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := t.(engine.Integer); ok {
			v := reflect.New(typ).Elem()
			if v.OverflowInt(int64(i)) {
				return reflect.Value{}, fmt.Errorf("%s overflows %s", i, typ)
			}
			v.SetInt(int64(i))
			return v, nil
		}
	case reflect.String:
		if a, ok := t.(engine.Atom); ok {
			return reflect.ValueOf(a.Name()).Convert(typ), nil
		}
	case reflect.Slice:
		ts, err := vm.Slice(t)
		if err != nil {
			break
		}
		v := reflect.MakeSlice(typ, len(ts), len(ts))
		for i, e := range ts {
			ev, err := convert(vm, e, typ.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			v.Index(i).Set(ev)
		}
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("can't convert %s to %s", t, typ)
}
