package main

import (
	"github.com/ichiban/wam/engine"
)

var (
	atomIf    = engine.NewAtom(":-")
	atomComma = engine.NewAtom(",")
	atomCut   = engine.NewAtom("!")
	atomIs    = engine.NewAtom("is")
	atomPlus  = engine.NewAtom("+")
	atomMinus = engine.NewAtom("-")
	atomNil   = engine.NewAtom("[]")
	atomZ     = engine.NewAtom("z")
	atomS     = engine.NewAtom("s")
	atomDone  = engine.NewAtom("done")

	atomApp      = engine.NewAtom("app")
	atomNrev     = engine.NewAtom("nrev")
	atomAdd      = engine.NewAtom("add")
	atomMul      = engine.NewAtom("mul")
	atomPeanoInt = engine.NewAtom("peano_int")
	atomCount    = engine.NewAtom("count")
	atomLengthOf = engine.NewAtom("length_of")
	atomReport   = engine.NewAtom("report")
)

// program is a benchmark: clauses to consult and a goal parameterized by size.
type program struct {
	name        string
	defaultSize int
	clauses     func() []engine.Term
	goal        func(n int) engine.Term
	want        func(n int) string
}

var programs = []program{
	{
		name:        "nrev",
		defaultSize: 400,
		clauses:     nrevClauses,
		goal: func(n int) engine.Term {
			xs := make([]engine.Term, n)
			for i := range xs {
				xs[i] = engine.Integer(i + 1)
			}
			r, l := engine.NewVariable(), engine.NewVariable()
			return engine.Seq(atomComma,
				atomNrev.Apply(engine.List(xs...), r),
				atomLengthOf.Apply(r, l),
				atomReport.Apply(l),
			)
		},
		want: func(n int) string {
			return engine.Integer(n).String()
		},
	},
	{
		name:        "peano",
		defaultSize: 40,
		clauses:     peanoClauses,
		goal: func(n int) engine.Term {
			p := engine.Term(atomZ)
			for i := 0; i < n; i++ {
				p = atomS.Apply(p)
			}
			r, i := engine.NewVariable(), engine.NewVariable()
			return engine.Seq(atomComma,
				atomMul.Apply(p, p, r),
				atomPeanoInt.Apply(r, i),
				atomReport.Apply(i),
			)
		},
		want: func(n int) string {
			return engine.Integer(n * n).String()
		},
	},
	{
		name:        "countdown",
		defaultSize: 100000,
		clauses:     countdownClauses,
		goal: func(n int) engine.Term {
			return engine.Seq(atomComma,
				atomCount.Apply(engine.Integer(n)),
				atomReport.Apply(atomDone),
			)
		},
		want: func(int) string {
			return atomDone.String()
		},
	},
}

func programNamed(name string) (program, bool) {
	for _, p := range programs {
		if p.name == name {
			return p, true
		}
	}
	return program{}, false
}

// app([], L, L).
// app([H|T], L, [H|R]) :- app(T, L, R).
// nrev([], []).
// nrev([H|T], R) :- nrev(T, RT), app(RT, [H], R).
func nrevClauses() []engine.Term {
	l := engine.NewVariable()
	h, t, l2, r := engine.NewVariable(), engine.NewVariable(), engine.NewVariable(), engine.NewVariable()
	h2, t2, r2, rt := engine.NewVariable(), engine.NewVariable(), engine.NewVariable(), engine.NewVariable()
	return []engine.Term{
		atomApp.Apply(atomNil, l, l),
		atomIf.Apply(
			atomApp.Apply(engine.Cons(h, t), l2, engine.Cons(h, r)),
			atomApp.Apply(t, l2, r),
		),
		atomNrev.Apply(atomNil, atomNil),
		atomIf.Apply(
			atomNrev.Apply(engine.Cons(h2, t2), r2),
			engine.Seq(atomComma,
				atomNrev.Apply(t2, rt),
				atomApp.Apply(rt, engine.List(h2), r2),
			),
		),
	}
}

// add(z, Y, Y).
// add(s(X), Y, s(Z)) :- add(X, Y, Z).
// mul(z, _, z).
// mul(s(X), Y, Z) :- mul(X, Y, W), add(W, Y, Z).
// peano_int(z, 0).
// peano_int(s(X), N) :- peano_int(X, M), N is M + 1.
func peanoClauses() []engine.Term {
	y := engine.NewVariable()
	x, y2, z := engine.NewVariable(), engine.NewVariable(), engine.NewVariable()
	x3, y3, z3, w := engine.NewVariable(), engine.NewVariable(), engine.NewVariable(), engine.NewVariable()
	x4, n, m := engine.NewVariable(), engine.NewVariable(), engine.NewVariable()
	return []engine.Term{
		atomAdd.Apply(atomZ, y, y),
		atomIf.Apply(
			atomAdd.Apply(atomS.Apply(x), y2, atomS.Apply(z)),
			atomAdd.Apply(x, y2, z),
		),
		atomMul.Apply(atomZ, engine.NewVariable(), atomZ),
		atomIf.Apply(
			atomMul.Apply(atomS.Apply(x3), y3, z3),
			engine.Seq(atomComma,
				atomMul.Apply(x3, y3, w),
				atomAdd.Apply(w, y3, z3),
			),
		),
		atomPeanoInt.Apply(atomZ, engine.Integer(0)),
		atomIf.Apply(
			atomPeanoInt.Apply(atomS.Apply(x4), n),
			engine.Seq(atomComma,
				atomPeanoInt.Apply(x4, m),
				atomIs.Apply(n, atomPlus.Apply(m, engine.Integer(1))),
			),
		),
	}
}

// count(0) :- !.
// count(N) :- M is N - 1, count(M).
func countdownClauses() []engine.Term {
	n, m := engine.NewVariable(), engine.NewVariable()
	return []engine.Term{
		atomIf.Apply(atomCount.Apply(engine.Integer(0)), atomCut),
		atomIf.Apply(
			atomCount.Apply(n),
			engine.Seq(atomComma,
				atomIs.Apply(m, atomMinus.Apply(n, engine.Integer(1))),
				atomCount.Apply(m),
			),
		),
	}
}
