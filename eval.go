package vecfield

import (
	"math"
	"strconv"
)

// Context holds the value stack used to evaluate expressions. Evaluating with
// the same Context many times reuses its stack, so that evaluation does not
// allocate. It is not safe to use a Context concurrently.
type Context struct {
	stack []float64
}

// NewContext creates a new evaluation context.
func NewContext() *Context {
	return &Context{stack: make([]float64, 0, 16)}
}

// Eval evaluates an expression against a binding.
func (ctx *Context) Eval(e *Expr, b *Binding) (float64, error) {
	if cap(ctx.stack) < e.depth {
		ctx.stack = make([]float64, 0, e.depth)
	}
	return ctx.eval(e.postfix, b)
}

// Evaluate evaluates a postfix token sequence against a binding. It is a
// shortcut for evaluating once without a Context.
func Evaluate(postfix []Token, b *Binding) (float64, error) {
	ctx := Context{stack: make([]float64, 0, depth(postfix))}
	return ctx.eval(postfix, b)
}

// EvalString parses and evaluates an expression with a binding.
func EvalString(src string, b *Binding) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewContext().Eval(e, b)
}

// eval runs a postfix sequence on the context's stack.
func (ctx *Context) eval(post []Token, b *Binding) (float64, error) {
	s := ctx.stack[:0]
	for _, t := range post {
		switch t.Kind {
		case TokenLiteral:
			s = append(s, t.Value)
		case TokenIdent:
			v, ok := b.Get(t.Key)
			if !ok {
				return 0, &NameError{Key: t.Key}
			}
			s = append(s, v)
		case TokenOp:
			if t.Op == Negate {
				if len(s) < 1 {
					return 0, &StackError{Col: t.Pos, Have: len(s)}
				}
				s[len(s)-1] = -s[len(s)-1]
				continue
			}
			if len(s) < 2 {
				return 0, &StackError{Col: t.Pos, Have: len(s)}
			}
			v2, v1 := s[len(s)-1], s[len(s)-2]
			s = s[:len(s)-1]
			r, ok := binary(t.Op, v1, v2)
			if !ok {
				return 0, &TokenError{Tok: t}
			}
			s[len(s)-1] = r
		case TokenFunc:
			n := t.Fn.Arity()
			if n == 0 {
				return 0, &TokenError{Tok: t}
			}
			if len(s) < n {
				return 0, &StackError{Col: t.Pos, Have: len(s)}
			}
			var r float64
			if n == 1 {
				r = t.Fn.call(s[len(s)-1], 0)
			} else {
				r = t.Fn.call(s[len(s)-2], s[len(s)-1])
			}
			s = s[:len(s)-n+1]
			s[len(s)-1] = r
		default:
			return 0, &TokenError{Tok: t}
		}
	}
	ctx.stack = s[:0]
	if len(s) != 1 {
		return 0, &StackError{Have: len(s), End: true}
	}
	return s[0], nil
}

// binary applies a binary operator. The second result is false if op is not
// a binary operator.
func binary(op Operator, v1, v2 float64) (float64, bool) {
	switch op {
	case Add:
		return v1 + v2, true
	case Subtract:
		return v1 - v2, true
	case Multiply:
		return v1 * v2, true
	case Divide:
		return v1 / v2, true
	case Power:
		// Negative bases with fractional exponents give NaN.
		return math.Pow(v1, v2), true
	default:
		return 0, false
	}
}

// NameError is an error from a lookup for an identifier that is missing from
// the binding.
type NameError struct {
	// Key is the identifier that was missing.
	Key byte
}

func (err *NameError) Error() string {
	return "unknown identifier " + strconv.QuoteRune(rune(err.Key))
}

// StackError is an error indicating a malformed expression, either because an
// operator or function did not have enough operands or because evaluation did
// not end with exactly one value.
type StackError struct {
	// Col is the position of the operator or function that lacked operands.
	// It is 0 if the position is unknown or End is true.
	Col int
	// Have is the number of values that were on the stack.
	Have int
	// End is whether the error was detected after the last token.
	End bool
}

func (err *StackError) Error() string {
	switch {
	case err.End:
		return "improper expression: " + strconv.Itoa(err.Have) + " values at end"
	case err.Col > 0:
		return errpos(err.Col, "improper expression: missing operand")
	default:
		return "improper expression: missing operand"
	}
}

// TokenError is an error indicating a token which cannot appear at that place
// in a postfix sequence.
type TokenError struct {
	// Tok is the offending token.
	Tok Token
}

func (err *TokenError) Error() string {
	return "unexpected token " + strconv.Quote(err.Tok.String()) + " in evaluation"
}
