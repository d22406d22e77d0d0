package wam

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ichiban/wam/engine"
)

func TestSolutions_Close(t *testing.T) {
	i := New(nil, nil)
	sols := i.Query(engine.NewAtom("true"))
	assert.True(t, sols.Next())
	assert.NoError(t, sols.Close())
	assert.Equal(t, ErrClosed, sols.Close())
	assert.False(t, sols.Next())
}

func TestSolutions_Next(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		i := New(nil, nil)
		v := NewVar("X")
		sols := i.Query(engine.NewAtom("=").Apply(v.Variable, engine.NewAtom("foo")), v)
		assert.True(t, sols.Next())
		assert.Equal(t, engine.NewAtom("foo"), i.Resolve(v.Variable))
		assert.False(t, sols.Next())
		assert.NoError(t, sols.Err())
		assert.False(t, sols.Next())
	})

	t.Run("closed", func(t *testing.T) {
		sols := Solutions{closed: true}
		assert.False(t, sols.Next())
	})
}

func TestSolutions_Scan(t *testing.T) {
	vars := map[string]engine.Term{
		"Float32": engine.Float(32),
		"Float64": engine.Float(64),
		"Int":     engine.Integer(1),
		"Int8":    engine.Integer(8),
		"Int16":   engine.Integer(16),
		"Int32":   engine.Integer(32),
		"Int64":   engine.Integer(64),
		"String":  engine.NewAtom("string"),
		"Slice":   engine.List(engine.NewAtom("a"), engine.NewAtom("b"), engine.NewAtom("c")),
		"Foo":     engine.NewAtom("foo"),
		"Bar":     engine.NewAtom("bar"),
	}

	i := New(nil, nil)
	var (
		vs    []Var
		goals []engine.Term
	)
	for _, name := range []string{"Float32", "Float64", "Int", "Int8", "Int16", "Int32", "Int64", "String", "Slice", "Foo", "Bar"} {
		v := NewVar(name)
		vs = append(vs, v)
		goals = append(goals, engine.NewAtom("=").Apply(v.Variable, vars[name]))
	}
	sols := i.Query(engine.Seq(engine.NewAtom(","), goals...), vs...)
	assert.True(t, sols.Next())

	t.Run("struct", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			var s struct {
				Float32 float32
				Float64 float64
				Int     int
				Int8    int8
				Int16   int16
				Int32   int32
				Int64   int64
				String  string
				Slice   []string
				Tagged  string `prolog:"Foo"`
				Bar     engine.Term
				ignored int
			}
			assert.NoError(t, sols.Scan(&s))
			assert.Equal(t, float32(32), s.Float32)
			assert.Equal(t, float64(64), s.Float64)
			assert.Equal(t, 1, s.Int)
			assert.Equal(t, int8(8), s.Int8)
			assert.Equal(t, int16(16), s.Int16)
			assert.Equal(t, int32(32), s.Int32)
			assert.Equal(t, int64(64), s.Int64)
			assert.Equal(t, "string", s.String)
			assert.Equal(t, []string{"a", "b", "c"}, s.Slice)
			assert.Equal(t, "foo", s.Tagged)
			assert.Equal(t, engine.NewAtom("bar"), s.Bar)
			assert.Zero(t, s.ignored)
		})

		t.Run("ng", func(t *testing.T) {
			t.Run("string", func(t *testing.T) {
				var s struct {
					Int string
				}
				assert.Error(t, sols.Scan(&s))
			})

			t.Run("float", func(t *testing.T) {
				var s struct {
					String float64
				}
				assert.Error(t, sols.Scan(&s))
			})

			t.Run("slice", func(t *testing.T) {
				var s struct {
					Slice []int
				}
				assert.Error(t, sols.Scan(&s))
			})

			t.Run("narrow integer", func(t *testing.T) {
				var s struct {
					Int64 int8
				}
				assert.NoError(t, sols.Scan(&s))
				assert.Equal(t, int8(64), s.Int64)

				var u struct {
					Slice int8
				}
				assert.Error(t, sols.Scan(&u))
			})

			t.Run("unsupported", func(t *testing.T) {
				var s struct {
					Int complex64
				}
				assert.Error(t, sols.Scan(&s))
			})

			t.Run("not a struct", func(t *testing.T) {
				var n int
				assert.Error(t, sols.Scan(&n))
			})
		})
	})

	t.Run("map", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			m := map[string]engine.Term{}
			assert.NoError(t, sols.Scan(m))
			assert.Equal(t, vars, m)
		})

		t.Run("interface", func(t *testing.T) {
			m := map[string]interface{}{}
			assert.NoError(t, sols.Scan(m))
			assert.Equal(t, 1, m["Int"])
			assert.Equal(t, 64.0, m["Float64"])
			assert.Equal(t, "foo", m["Foo"])
			assert.Equal(t, vars["Slice"], m["Slice"])
		})

		t.Run("ng", func(t *testing.T) {
			t.Run("key", func(t *testing.T) {
				m := map[int]engine.Term{}
				assert.Error(t, sols.Scan(m))
			})

			t.Run("value", func(t *testing.T) {
				m := map[string]int{}
				assert.Error(t, sols.Scan(m))
			})
		})
	})

	t.Run("other", func(t *testing.T) {
		assert.Error(t, sols.Scan(1))
	})
}

func TestSolutions_Err(t *testing.T) {
	err := errors.New("ng")
	sols := Solutions{err: err}
	assert.Equal(t, err, sols.Err())
	assert.False(t, sols.Next())
}

func TestSolutions_Vars(t *testing.T) {
	sols := Solutions{
		vars: []Var{
			{Name: "A"},
			{Name: "B"},
			{Name: "C"},
		},
	}

	assert.Equal(t, []string{"A", "B", "C"}, sols.Vars())
}

func ExampleSolutions_Scan() {
	p := New(nil, nil)
	a, i, f := NewVar("A"), NewVar("I"), NewVar("F")
	eq := engine.NewAtom("=")
	sols := p.Query(engine.Seq(engine.NewAtom(","),
		eq.Apply(a.Variable, engine.NewAtom("foo")),
		eq.Apply(i.Variable, engine.Integer(42)),
		eq.Apply(f.Variable, engine.Float(3.14)),
	), a, i, f)
	for sols.Next() {
		var s struct {
			A string
			I int
			F float64
		}
		_ = sols.Scan(&s)
		fmt.Printf("A = %s\n", s.A)
		fmt.Printf("I = %d\n", s.I)
		fmt.Printf("F = %.2f\n", s.F)
	}

	// Output:
	// A = foo
	// I = 42
	// F = 3.14
}

func ExampleSolutions_Scan_tag() {
	p := New(nil, nil)
	x := NewVar("X")
	sols := p.Query(engine.NewAtom("is").Apply(x.Variable, engine.NewAtom("*").Apply(engine.Integer(6), engine.Integer(7))), x)
	for sols.Next() {
		var s struct {
			Answer int `prolog:"X"`
		}
		_ = sols.Scan(&s)
		fmt.Printf("Answer = %d\n", s.Answer)
	}

	// Output:
	// Answer = 42
}
