package vecfield

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Symbols contains the characters which are tokens by themselves. Any other
// character is part of a run of letters, digits, and dots.
const Symbols = "+-*/^(),"

type lexer struct {
	// buf is the pending run.
	buf strings.Builder
	// start is the column of the first rune in buf.
	start int
	// toks is the output sequence.
	toks []Token
	// keys is the set of identifier keys, in the order first seen.
	keys []byte
}

// Tokenize converts an expression into a sequence of tokens and the list of
// identifier keys it references, in the order each was first seen. Spaces are
// ignored, and letters are folded to lower case.
func Tokenize(src string) ([]Token, []byte, error) {
	l := lexer{toks: make([]Token, 0, len(src))}
	col := 0
	for _, r := range src {
		col++
		if r == ' ' {
			continue
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		tok, ok := symbol(r)
		if !ok {
			if l.buf.Len() == 0 {
				l.start = col
			}
			l.buf.WriteRune(r)
			continue
		}
		if err := l.flush(); err != nil {
			return nil, nil, err
		}
		if tok.Kind == TokenOp && tok.Op == Subtract && l.unary() {
			tok.Op = Negate
		}
		tok.Pos = col
		l.toks = append(l.toks, tok)
	}
	if err := l.flush(); err != nil {
		return nil, nil, err
	}
	return l.toks, l.keys, nil
}

// unary returns whether a minus sign at the current position is a negation.
func (l *lexer) unary() bool {
	if len(l.toks) == 0 {
		return true
	}
	switch p := l.toks[len(l.toks)-1]; p.Kind {
	case TokenComma:
		return true
	case TokenParen:
		return p.Open
	case TokenOp:
		// e.g. 3*-2
		return true
	default:
		return false
	}
}

// symbol classifies a single-character token.
func symbol(r rune) (Token, bool) {
	switch r {
	case '+':
		return Op(Add), true
	case '-':
		return Op(Subtract), true
	case '*':
		return Op(Multiply), true
	case '/':
		return Op(Divide), true
	case '^':
		return Op(Power), true
	case '(':
		return Paren(true), true
	case ')':
		return Paren(false), true
	case ',':
		return Comma(), true
	default:
		return Token{}, false
	}
}

// flush classifies the pending run, if there is one, and appends it to the
// output.
func (l *lexer) flush() error {
	if l.buf.Len() == 0 {
		return nil
	}
	defer l.buf.Reset()
	s := l.buf.String()
	var alpha, num int
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			alpha++
		case '0' <= r && r <= '9', r == '.':
			num++
		default:
			return l.error(string(r), LexInvalid)
		}
	}
	switch {
	case alpha == 0:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Out of range literals are infinite, which ParseFloat already
			// returns in v.
			var ne *strconv.NumError
			if !errors.As(err, &ne) || !errors.Is(ne.Err, strconv.ErrRange) {
				return l.error(s, LexLiteral)
			}
		}
		l.push(Literal(v))
	case num == 0:
		if fn, ok := funcnames[s]; ok {
			l.push(Call(fn))
			return nil
		}
		if utf8.RuneCountInString(s) != 1 {
			return l.error(s, LexFunc)
		}
		l.push(Ident(s[0]))
		l.see(s[0])
	default:
		return l.error(s, LexLiteral)
	}
	return nil
}

func (l *lexer) push(tok Token) {
	tok.Pos = l.start
	l.toks = append(l.toks, tok)
}

// see adds an identifier key to the key set if it is not already present.
func (l *lexer) see(key byte) {
	for _, k := range l.keys {
		if k == key {
			return
		}
	}
	l.keys = append(l.keys, key)
}

func (l *lexer) error(text, kind string) error {
	return &LexError{
		Text: text,
		Kind: kind,
		Col:  l.start,
	}
}

// Kinds of LexError.
const (
	LexInvalid = "invalid character"
	LexLiteral = "improper literal"
	LexFunc    = "unexpected function name"
)

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the offending text. For LexInvalid, it is the single invalid
	// character; otherwise, it is the entire run being classified.
	Text string
	// Kind is one of LexInvalid, LexLiteral, or LexFunc.
	Kind string
	// Col is the column at which the offending run starts.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
