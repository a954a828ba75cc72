package vecfield

import "strconv"

// BracketError is an error indicating a parenthesis with no match. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Open is whether the unmatched parenthesis is an open parenthesis.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "mismatched parentheses: ( with no close parenthesis")
	}
	return errpos(err.Col, "mismatched parentheses: ) with no open parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside any parenthesized
// argument list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the comma.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "mismatched parentheses: comma outside parentheses")
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// tokenizing or converting invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the column of the token that caused the error, counting
	// runes from 1.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*LexError)(nil)
)
