package vecfield

// Expr is a parsed expression that can be evaluated with a binding.
type Expr struct {
	// src is the text the expression was parsed from.
	src string
	// postfix is the expression in reverse Polish order.
	postfix []Token
	// names is the list of identifier keys in the order first seen.
	names []byte
	// depth is the largest number of values the evaluation stack can hold.
	depth int
}

// Parse tokenizes an expression and converts it to postfix so it can be
// evaluated many times.
func Parse(src string) (*Expr, error) {
	toks, keys, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	post, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, postfix: post, names: keys, depth: depth(post)}, nil
}

// MustParse is like Parse but panics if the expression cannot be parsed.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic("vecfield: MustParse(" + src + "): " + err.Error())
	}
	return e
}

// ToPostfix rewrites a token sequence from infix into reverse Polish order
// using the shunting-yard algorithm. The only errors are for mismatched
// parentheses; checking the arity of operators and functions is left to
// evaluation.
func ToPostfix(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	// stack holds operators, functions, and open parentheses.
	var stack []Token
	top := func() (Token, bool) {
		if len(stack) == 0 {
			return Token{}, false
		}
		return stack[len(stack)-1], true
	}
	pop := func() Token {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}
	for _, tok := range toks {
		switch tok.Kind {
		case TokenLiteral, TokenIdent:
			out = append(out, tok)
		case TokenFunc:
			stack = append(stack, tok)
		case TokenOp:
			if tok.Op == Negate {
				// Prefix operators have no left operand to take from the
				// stack.
				stack = append(stack, tok)
				continue
			}
			for {
				t, ok := top()
				if !ok || t.Kind != TokenOp {
					break
				}
				c := t.Op.Compare(tok.Op)
				if c < 1 && !(c == 0 && tok.Op.LeftAssociative()) {
					break
				}
				out = append(out, pop())
			}
			stack = append(stack, tok)
		case TokenParen:
			if tok.Open {
				stack = append(stack, tok)
				continue
			}
			for {
				if len(stack) == 0 {
					return nil, &BracketError{Col: tok.Pos}
				}
				t := pop()
				if t.isOpen() {
					break
				}
				out = append(out, t)
			}
			if t, ok := top(); ok && t.IsFunction() {
				out = append(out, pop())
			}
		case TokenComma:
			for {
				t, ok := top()
				if !ok {
					return nil, &SeparatorError{Col: tok.Pos}
				}
				if t.isOpen() {
					break
				}
				out = append(out, pop())
			}
		default:
			return nil, &TokenError{Tok: tok}
		}
	}
	for len(stack) > 0 {
		t := pop()
		if t.isOpen() {
			return nil, &BracketError{Col: t.Pos, Open: true}
		}
		out = append(out, t)
	}
	return out, nil
}

// depth computes the deepest the value stack gets while evaluating a postfix
// sequence. Malformed sequences are measured as if they were well-formed, so
// the result is an upper bound on what evaluation needs before it fails.
func depth(post []Token) int {
	n, m := 0, 0
	for _, t := range post {
		switch t.Kind {
		case TokenLiteral, TokenIdent:
			n++
		case TokenOp:
			if t.Op != Negate {
				n--
			}
		case TokenFunc:
			n -= t.Fn.Arity() - 1
		}
		if n > m {
			m = n
		}
	}
	return m
}

// Postfix returns a copy of the expression's tokens in reverse Polish order.
func (e *Expr) Postfix() []Token {
	return append(([]Token)(nil), e.postfix...)
}

// Vars returns the identifier keys the expression references, in the order
// each was first seen.
func (e *Expr) Vars() []byte {
	return append(([]byte)(nil), e.names...)
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}

// String formats the expression in reverse Polish notation, e.g. "2 3 4 * +".
func (e *Expr) String() string {
	return formatTokens(e.postfix)
}
