package vecfield

import (
	"strconv"
	"strings"
)

// Token is a lexical unit of an expression. Only the fields relevant to its
// Kind are meaningful.
type Token struct {
	// Kind selects which of the remaining fields are used.
	Kind TokenKind
	// Value is the value of a Literal.
	Value float64
	// Key is the lowercase letter naming an Identifier.
	Key byte
	// Op is the operator kind of an Operator.
	Op Operator
	// Fn is the function kind of a Function.
	Fn Function
	// Open is whether a Parenthesis is an open parenthesis.
	Open bool
	// Pos is the column of the token in the source text, counting runes from
	// 1. It is 0 for tokens which were not produced by Tokenize.
	Pos int
}

// TokenKind is the variant of a Token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenLiteral is a number.
	TokenLiteral
	// TokenIdent is a single-letter parameter name.
	TokenIdent
	// TokenOp is an arithmetic operator.
	TokenOp
	// TokenParen is an open or close parenthesis.
	TokenParen
	// TokenFunc is a function name.
	TokenFunc
	// TokenComma separates function arguments.
	TokenComma
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenLiteral:
		return "Literal"
	case TokenIdent:
		return "Ident"
	case TokenOp:
		return "Op"
	case TokenParen:
		return "Paren"
	case TokenFunc:
		return "Func"
	case TokenComma:
		return "Comma"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal creates a number token.
func Literal(v float64) Token {
	return Token{Kind: TokenLiteral, Value: v}
}

// Ident creates an identifier token. The key is folded to lower case.
func Ident(key byte) Token {
	return Token{Kind: TokenIdent, Key: lower(key)}
}

// Op creates an operator token.
func Op(op Operator) Token {
	return Token{Kind: TokenOp, Op: op}
}

// Paren creates a parenthesis token.
func Paren(open bool) Token {
	return Token{Kind: TokenParen, Open: open}
}

// Call creates a function token.
func Call(fn Function) Token {
	return Token{Kind: TokenFunc, Fn: fn}
}

// Comma creates a function argument separator token.
func Comma() Token {
	return Token{Kind: TokenComma}
}

// IsNumeric returns whether the token pushes a value directly during
// evaluation, i.e. whether it is a Literal or an Identifier.
func (t Token) IsNumeric() bool {
	return t.Kind == TokenLiteral || t.Kind == TokenIdent
}

// IsFunction returns whether the token is a function name.
func (t Token) IsFunction() bool {
	return t.Kind == TokenFunc
}

// isOpen returns whether the token is an open parenthesis.
func (t Token) isOpen() bool {
	return t.Kind == TokenParen && t.Open
}

func (t Token) String() string {
	switch t.Kind {
	case TokenLiteral:
		return strconv.FormatFloat(t.Value, 'g', -1, 64)
	case TokenIdent:
		return string(rune(t.Key))
	case TokenOp:
		return t.Op.String()
	case TokenParen:
		if t.Open {
			return "("
		}
		return ")"
	case TokenFunc:
		return t.Fn.String()
	case TokenComma:
		return ","
	default:
		return "<" + t.Kind.String() + ">"
	}
}

// Operator is an arithmetic operator.
type Operator int8

const (
	OpNone Operator = iota
	Add
	Subtract
	// Negate is unary minus. The tokenizer never produces it from its
	// character table; it is chosen instead of Subtract by context.
	Negate
	Multiply
	Divide
	Power
)

var opstrs = [...]string{
	OpNone:   "?",
	Add:      "+",
	Subtract: "-",
	Negate:   "neg",
	Multiply: "*",
	Divide:   "/",
	Power:    "^",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(opstrs) {
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
	return opstrs[op]
}

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (op Operator) Precedence() int {
	switch op {
	case Add, Subtract, Negate:
		return 1
	case Multiply, Divide:
		return 2
	case Power:
		return 3
	default:
		return 0
	}
}

// LeftAssociative returns whether a sequence of operators of equal precedence
// groups from the left. Only Power is right-associative.
func (op Operator) LeftAssociative() bool {
	return op != Power
}

// Compare returns -1, 0, or 1 as op binds less than, as much as, or more than
// other.
func (op Operator) Compare(other Operator) int {
	d := op.Precedence() - other.Precedence()
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// Function is a builtin function.
type Function int8

const (
	FnNone Function = iota
	Sin
	Cos
	Sign
	Max
	Min
)

// Arity returns the number of arguments the function consumes.
func (fn Function) Arity() int {
	switch fn {
	case Sin, Cos, Sign:
		return 1
	case Max, Min:
		return 2
	default:
		return 0
	}
}

func (fn Function) String() string {
	for name, f := range funcnames {
		if f == fn {
			return name
		}
	}
	return "Function(" + strconv.Itoa(int(fn)) + ")"
}

// formatTokens writes a token sequence separated by spaces.
func formatTokens(toks []Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
