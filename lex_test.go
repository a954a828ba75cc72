package vecfield

import (
	"math"
	"strings"
	"testing"
)

func at(t Token, pos int) Token {
	t.Pos = pos
	return t
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		src    string
		tokens []Token
		keys   string
	}{
		// spaces
		{"", nil, ""},
		{"   ", nil, ""},
		// numbers
		{"0", []Token{at(Literal(0), 1)}, ""},
		{"9876543210", []Token{at(Literal(9876543210), 1)}, ""},
		{"2.5", []Token{at(Literal(2.5), 1)}, ""},
		{".5", []Token{at(Literal(0.5), 1)}, ""},
		{"1.", []Token{at(Literal(1), 1)}, ""},
		{"1 0", []Token{at(Literal(10), 1)}, ""},
		{"1" + strings.Repeat("0", 400), []Token{at(Literal(math.Inf(1)), 1)}, ""},
		// identifiers
		{"x", []Token{at(Ident('x'), 1)}, "x"},
		{"X", []Token{at(Ident('x'), 1)}, "x"},
		{"s*(y-x)", []Token{
			at(Ident('s'), 1), at(Op(Multiply), 2), at(Paren(true), 3),
			at(Ident('y'), 4), at(Op(Subtract), 5), at(Ident('x'), 6),
			at(Paren(false), 7),
		}, "syx"},
		{"x*y+x*b", []Token{
			at(Ident('x'), 1), at(Op(Multiply), 2), at(Ident('y'), 3),
			at(Op(Add), 4), at(Ident('x'), 5), at(Op(Multiply), 6),
			at(Ident('b'), 7),
		}, "xyb"},
		{"1 + 2", []Token{at(Literal(1), 1), at(Op(Add), 3), at(Literal(2), 5)}, ""},
		// functions
		{"SIN(X)", []Token{at(Call(Sin), 1), at(Paren(true), 4), at(Ident('x'), 5), at(Paren(false), 6)}, "x"},
		{"max(1,-2)", []Token{
			at(Call(Max), 1), at(Paren(true), 4), at(Literal(1), 5),
			at(Comma(), 6), at(Op(Negate), 7), at(Literal(2), 8),
			at(Paren(false), 9),
		}, ""},
		// negation and subtraction
		{"-x", []Token{at(Op(Negate), 1), at(Ident('x'), 2)}, "x"},
		{"(-x)", []Token{at(Paren(true), 1), at(Op(Negate), 2), at(Ident('x'), 3), at(Paren(false), 4)}, "x"},
		{"3*-2", []Token{at(Literal(3), 1), at(Op(Multiply), 2), at(Op(Negate), 3), at(Literal(2), 4)}, ""},
		{"a-b", []Token{at(Ident('a'), 1), at(Op(Subtract), 2), at(Ident('b'), 3)}, "ab"},
		{"(a)-b", []Token{
			at(Paren(true), 1), at(Ident('a'), 2), at(Paren(false), 3),
			at(Op(Subtract), 4), at(Ident('b'), 5),
		}, "ab"},
		{"--1", []Token{at(Op(Negate), 1), at(Op(Negate), 2), at(Literal(1), 3)}, ""},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, keys, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("%q failed to tokenize: %v", c.src, err)
			}
			if len(toks) != len(c.tokens) {
				t.Fatalf("%q gave wrong tokens: want %v, got %v", c.src, c.tokens, toks)
			}
			for i, want := range c.tokens {
				if toks[i] != want {
					t.Errorf("%q token %d: want %#v, got %#v", c.src, i, want, toks[i])
				}
			}
			if string(keys) != c.keys {
				t.Errorf("%q gave wrong keys: want %q, got %q", c.src, c.keys, keys)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind string
		text string
		col  int
	}{
		{"1@2", LexInvalid, "@", 1},
		{"x+$", LexInvalid, "$", 3},
		{"é", LexInvalid, "é", 1},
		{"x\t+y", LexInvalid, "\t", 1},
		{"1.2.3", LexLiteral, "1.2.3", 1},
		{".", LexLiteral, ".", 1},
		{"2x", LexLiteral, "2x", 1},
		{"1e5", LexLiteral, "1e5", 1},
		{"foo(1)", LexFunc, "foo", 1},
		{"xy", LexFunc, "xy", 1},
		{"1+sinx", LexFunc, "sinx", 3},
		{"x x", LexFunc, "xx", 1},
		{"cos sign", LexFunc, "cossign", 1},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, _, err := Tokenize(c.src)
			if err == nil {
				t.Fatalf("%q gave no error", c.src)
			}
			le, ok := err.(*LexError)
			if !ok {
				t.Fatalf("error was %#v, not LexError", err)
			}
			if le.Kind != c.kind {
				t.Errorf("%q gave wrong kind: want %q, got %q", c.src, c.kind, le.Kind)
			}
			if le.Text != c.text {
				t.Errorf("%q gave wrong text: want %q, got %q", c.src, c.text, le.Text)
			}
			if le.Pos() != c.col {
				t.Errorf("%q gave wrong column: want %d, got %d", c.src, c.col, le.Pos())
			}
			if !strings.Contains(err.Error(), c.kind) {
				t.Errorf("%q doesn't mention %q", err.Error(), c.kind)
			}
		})
	}
}

func TestOperator(t *testing.T) {
	cases := []struct {
		op   Operator
		prec int
		left bool
	}{
		{Add, 1, true},
		{Subtract, 1, true},
		{Negate, 1, true},
		{Multiply, 2, true},
		{Divide, 2, true},
		{Power, 3, false},
	}
	for _, c := range cases {
		if got := c.op.Precedence(); got != c.prec {
			t.Errorf("%v has precedence %d, want %d", c.op, got, c.prec)
		}
		if got := c.op.LeftAssociative(); got != c.left {
			t.Errorf("%v has left associativity %t, want %t", c.op, got, c.left)
		}
	}
	if c := Power.Compare(Add); c != 1 {
		t.Errorf("^ compared to + gave %d", c)
	}
	if c := Add.Compare(Multiply); c != -1 {
		t.Errorf("+ compared to * gave %d", c)
	}
	if c := Negate.Compare(Subtract); c != 0 {
		t.Errorf("neg compared to - gave %d", c)
	}
}

func TestFunctionArity(t *testing.T) {
	want := map[Function]int{Sin: 1, Cos: 1, Sign: 1, Max: 2, Min: 2}
	for fn, n := range want {
		if got := fn.Arity(); got != n {
			t.Errorf("%v has arity %d, want %d", fn, got, n)
		}
	}
	for _, name := range Funcs() {
		toks, _, err := Tokenize(name)
		if err != nil {
			t.Errorf("%s failed to tokenize: %v", name, err)
			continue
		}
		if len(toks) != 1 || !toks[0].IsFunction() || toks[0].String() != name {
			t.Errorf("%s gave wrong tokens %v", name, toks)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	cases := []struct {
		tok  Token
		num  bool
		fn   bool
		text string
	}{
		{Literal(2.5), true, false, "2.5"},
		{Ident('q'), true, false, "q"},
		{Op(Negate), false, false, "neg"},
		{Op(Power), false, false, "^"},
		{Paren(true), false, false, "("},
		{Comma(), false, false, ","},
		{Call(Max), false, true, "max"},
	}
	for _, c := range cases {
		if got := c.tok.IsNumeric(); got != c.num {
			t.Errorf("%v: IsNumeric should be %t", c.tok, c.num)
		}
		if got := c.tok.IsFunction(); got != c.fn {
			t.Errorf("%v: IsFunction should be %t", c.tok, c.fn)
		}
		if got := c.tok.String(); got != c.text {
			t.Errorf("wrong string: want %q, got %q", c.text, got)
		}
	}
}
