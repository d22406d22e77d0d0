package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAtom(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		for _, n := range []string{"", "foo", "Foo", "[]", "héllo", "a b"} {
			assert.Equal(t, NewAtom(n), NewAtom(n), n)
			assert.Equal(t, n, NewAtom(n).Name())
		}
	})

	t.Run("distinct", func(t *testing.T) {
		assert.NotEqual(t, NewAtom("foo"), NewAtom("bar"))
	})

	t.Run("empty is zero", func(t *testing.T) {
		assert.Equal(t, Atom(0), NewAtom(""))
		assert.Equal(t, "", Atom(0).Name())
	})

	t.Run("concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		got := make([]Atom, 16)
		for i := range got {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got[i] = NewAtom("concurrently interned")
			}(i)
		}
		wg.Wait()
		for _, a := range got {
			assert.Equal(t, got[0], a)
		}
	})
}

func TestAtom_String(t *testing.T) {
	tests := []struct {
		name string
		atom Atom
		want string
	}{
		{name: "unquoted", atom: NewAtom("foo"), want: `foo`},
		{name: "graphical", atom: NewAtom("=.."), want: `=..`},
		{name: "capital", atom: NewAtom("Foo"), want: `'Foo'`},
		{name: "space", atom: NewAtom("a b"), want: `'a b'`},
		{name: "quote", atom: NewAtom("don't"), want: `'don\'t'`},
		{name: "newline", atom: NewAtom("a\nb"), want: `'a\nb'`},
		{name: "empty", atom: NewAtom(""), want: `''`},
		{name: "nil", atom: atomNil, want: `[]`},
		{name: "cut", atom: atomCut, want: `!`},
		{name: "comma", atom: atomComma, want: `','`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.atom.String())
		})
	}
}

func TestAtom_Apply(t *testing.T) {
	assert.Equal(t, NewAtom("foo"), NewAtom("foo").Apply())
	assert.Equal(t, &Compound{
		Functor: NewFunctor(NewAtom("foo"), 2),
		Args:    []Term{NewAtom("a"), Integer(1)},
	}, NewAtom("foo").Apply(NewAtom("a"), Integer(1)))
}

func TestNewFunctor(t *testing.T) {
	foo := NewAtom("foo")

	assert.Equal(t, NewFunctor(foo, 2), NewFunctor(foo, 2))
	assert.NotEqual(t, NewFunctor(foo, 2), NewFunctor(foo, 3))
	assert.NotEqual(t, NewFunctor(foo, 0), Functor(foo))

	f := NewFunctor(foo, 2)
	assert.Equal(t, foo, f.Name())
	assert.Equal(t, 2, f.Arity())
	assert.Equal(t, "foo/2", f.String())
	assert.Equal(t, &Compound{
		Functor: functorSlash,
		Args:    []Term{foo, Integer(2)},
	}, f.Term())
}

func TestFunctor_Apply(t *testing.T) {
	f := NewFunctor(NewAtom("foo"), 1)

	c, err := f.Apply(NewAtom("a"))
	assert.NoError(t, err)
	assert.Equal(t, &Compound{Functor: f, Args: []Term{NewAtom("a")}}, c)

	_, err = f.Apply()
	assert.Error(t, err)
}

func TestCTable(t *testing.T) {
	ct := NewCTable()
	assert.Equal(t, 1, ct.Len())
	assert.Equal(t, atomName(""), ct.Object(0))
	assert.Nil(t, ct.Object(100))

	t.Run("numbers", func(t *testing.T) {
		i := ct.Intern(Integer(42))
		assert.Equal(t, i, ct.Intern(Integer(42)))
		assert.NotEqual(t, i, ct.Intern(Float(42)))
		assert.Equal(t, Integer(42), ct.Object(i))
	})

	t.Run("big numbers compare by value", func(t *testing.T) {
		x := mustBig(t, "123456789012345678901234567890")
		y := mustBig(t, "123456789012345678901234567890")
		assert.NotSame(t, x, y)
		assert.Equal(t, ct.Intern(x), ct.Intern(y))
	})

	t.Run("many", func(t *testing.T) {
		n := ct.Len()
		for i := 0; i < 1000; i++ {
			ct.Intern(atomName(fmt.Sprintf("atom%d", i)))
		}
		for i := 0; i < 1000; i++ {
			ct.Intern(atomName(fmt.Sprintf("atom%d", i)))
		}
		assert.Equal(t, n+1000, ct.Len())
	})
}
