// Package vecfield evaluates user-written vector fields for integrating point
// clouds through dynamical systems.
//
// A field is three expressions, one per axis, like "s*(y-x)", "x*(r-z)-y",
// and "x*y-b*z". Expressions use single-letter identifiers, number literals,
// the operators + - * / ^, parentheses, and the functions sin, cos, sign,
// max, and min. Spaces are ignored and letters are case-insensitive. A minus
// sign at the start of an expression, after an open parenthesis or comma, or
// after another operator is negation. "^" is right-associative and binds
// tighter than the other operators; negation binds as loosely as "+".
//
// Expressions are parsed once into reverse Polish order and then evaluated
// many times with a Binding of identifiers to values. A Group couples the
// three axis expressions with one shared Binding, in which x, y, and z are the
// coordinates of the point being evaluated and every other identifier is a
// parameter that can be edited between evaluations.
//
// Arithmetic follows IEEE 754: division by zero and negative numbers raised to
// fractional powers produce infinities and NaN rather than errors.
package vecfield
