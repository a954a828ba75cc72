//go:build go1.18
// +build go1.18

package vecfield_test

import (
	"testing"

	"github.com/zephyrtronium/vecfield"
)

func FuzzParse(f *testing.F) {
	f.Add("s*(y-x)")
	f.Add("max(sin(0),2.718^0)")
	f.Add("3*-2")
	f.Add("((1,)")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := vecfield.Parse(s)
		if err != nil {
			return
		}
		b := vecfield.NewBinding()
		for _, k := range e.Vars() {
			b.Set(k, 1)
		}
		r, err := vecfield.NewContext().Eval(e, b)
		q, qerr := vecfield.Evaluate(e.Postfix(), b)
		if (err == nil) != (qerr == nil) {
			t.Fatalf("%q: Context.Eval error %v, Evaluate error %v", s, err, qerr)
		}
		if err == nil && r != q && r == r {
			t.Fatalf("%q: Context.Eval gave %g, Evaluate gave %g", s, r, q)
		}
	})
}

func FuzzBigEval(f *testing.F) {
	f.Add("x^y")
	f.Add("(-2)^0.5")
	f.Add("1/0-1/0")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := vecfield.Parse(s)
		if err != nil {
			return
		}
		vecfield.NewBigContext(64).Eval(e, vecfield.NewBinding())
	})
}
