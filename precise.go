package vecfield

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// BigContext evaluates expressions with arbitrary-precision arithmetic. It is
// useful to check how much rounding error a float64 evaluation accumulates.
// Sin and cos are computed to float64 precision only. It is not safe to use a
// BigContext concurrently.
type BigContext struct {
	stack []*big.Float
	prec  uint
}

// NewBigContext creates a context that computes to prec bits. If prec is 0,
// the precision is 64.
func NewBigContext(prec uint) *BigContext {
	if prec == 0 {
		prec = 64
	}
	return &BigContext{prec: prec}
}

// Prec returns the precision to which values are computed in the context.
func (ctx *BigContext) Prec() uint {
	return ctx.prec
}

// Eval evaluates an expression against a binding. Where float64 evaluation
// would produce NaN, e.g. 0/0 or a negative number to a fractional power,
// the result is a *DomainError, because big.Float has no NaN.
func (ctx *BigContext) Eval(e *Expr, b *Binding) (res *big.Float, err error) {
	ctx.stack = ctx.stack[:0]
	var cur Token
	defer func() {
		x := recover()
		if x == nil {
			return
		}
		nan, ok := x.(big.ErrNaN)
		if !ok {
			panic(x)
		}
		res, err = nil, &DomainError{Func: cur.String(), Msg: nan.Error()}
	}()
	for _, t := range e.postfix {
		cur = t
		switch t.Kind {
		case TokenLiteral:
			ctx.push().SetFloat64(t.Value)
		case TokenIdent:
			v, ok := b.Get(t.Key)
			if !ok {
				return nil, &NameError{Key: t.Key}
			}
			if math.IsNaN(v) {
				return nil, &DomainError{Func: t.String(), Msg: "parameter is NaN"}
			}
			ctx.push().SetFloat64(v)
		case TokenOp:
			if t.Op == Negate {
				if len(ctx.stack) < 1 {
					return nil, &StackError{Col: t.Pos, Have: len(ctx.stack)}
				}
				v := ctx.top()
				v.Neg(v)
				continue
			}
			if len(ctx.stack) < 2 {
				return nil, &StackError{Col: t.Pos, Have: len(ctx.stack)}
			}
			r := ctx.pop()
			l := ctx.top()
			switch t.Op {
			case Add:
				l.Add(l, r)
			case Subtract:
				l.Sub(l, r)
			case Multiply:
				l.Mul(l, r)
			case Divide:
				// Guard against invalid divisions, 0/0 or inf/inf.
				if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
					return nil, &DomainError{Func: "/", X: r}
				}
				l.Quo(l, r)
			case Power:
				if err := ctx.pow(l, r); err != nil {
					return nil, err
				}
			default:
				return nil, &TokenError{Tok: t}
			}
		case TokenFunc:
			if err := ctx.call(t); err != nil {
				return nil, err
			}
		default:
			return nil, &TokenError{Tok: t}
		}
	}
	if len(ctx.stack) != 1 {
		return nil, &StackError{Have: len(ctx.stack), End: true}
	}
	return new(big.Float).Copy(ctx.stack[0]), nil
}

// call applies a function token to the top of the stack.
func (ctx *BigContext) call(t Token) error {
	n := t.Fn.Arity()
	if n == 0 {
		return &TokenError{Tok: t}
	}
	if len(ctx.stack) < n {
		return &StackError{Col: t.Pos, Have: len(ctx.stack)}
	}
	switch t.Fn {
	case Sin, Cos:
		v := ctx.top()
		f, _ := v.Float64()
		f = t.Fn.call(f, 0)
		if math.IsNaN(f) {
			return &DomainError{Func: t.Fn.String(), X: new(big.Float).Copy(v)}
		}
		v.SetFloat64(f)
	case Sign:
		v := ctx.top()
		v.SetInt64(int64(v.Sign()))
	case Max:
		r := ctx.pop()
		if l := ctx.top(); l.Cmp(r) < 0 {
			l.Set(r)
		}
	case Min:
		r := ctx.pop()
		if l := ctx.top(); l.Cmp(r) > 0 {
			l.Set(r)
		}
	}
	return nil
}

// pow sets l to l^r.
func (ctx *BigContext) pow(l, r *big.Float) error {
	switch {
	case r.Sign() == 0:
		l.SetInt64(1)
		return nil
	case l.IsInf() || r.IsInf():
		// bigfloat has no rules for infinities, but float64 does.
		a, _ := l.Float64()
		b, _ := r.Float64()
		f := math.Pow(a, b)
		if math.IsNaN(f) {
			return &DomainError{Func: "^", X: new(big.Float).Copy(l)}
		}
		l.SetFloat64(f)
		return nil
	case l.Sign() == 0:
		if r.Sign() < 0 {
			l.SetInf(l.Signbit() && isOddInt(r))
		} else if !(l.Signbit() && isOddInt(r)) {
			l.SetInt64(0)
		}
		return nil
	case l.Sign() < 0:
		if !r.IsInt() {
			return &DomainError{Func: "^", X: new(big.Float).Copy(l)}
		}
		odd := isOddInt(r)
		l.Neg(l)
		powPos(l, r)
		if odd {
			l.Neg(l)
		}
		return nil
	default:
		powPos(l, r)
		return nil
	}
}

// powPos sets l to l^r for finite l > 0 and finite nonzero r. Results whose
// exponents fall outside the range of big.Float become +Inf or +0, the same
// as float64 overflow and underflow.
func powPos(l, r *big.Float) {
	var m big.Float
	exp := l.MantExp(&m)
	mf, _ := m.Float64()
	rf, _ := r.Float64()
	// l = m × 2**exp with m in [0.5, 1), so log2(l^r) = r·(exp + log2 m).
	est := rf * (float64(exp) + math.Log2(mf))
	switch {
	case est > big.MaxExp:
		l.SetInf(false)
	case est < big.MinExp:
		l.SetInt64(0)
	default:
		bigfloat.Pow(l, l, r)
	}
}

// isOddInt returns whether x is an odd integer.
func isOddInt(x *big.Float) bool {
	if !x.IsInt() {
		return false
	}
	i, _ := x.Int(nil)
	return i.Bit(0) == 1
}

// push ensures a settable value on the stack.
func (ctx *BigContext) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future pushes.
func (ctx *BigContext) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *BigContext) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// DomainError is an error returned when precise evaluation reaches a result
// that has no real value.
type DomainError struct {
	// X is the out-of-domain argument, if there is a single one.
	X *big.Float
	// Func is the operator or function that was applied.
	Func string
	// Msg is an additional description, if any.
	Msg string
}

func (err *DomainError) Error() string {
	r := "outside domain of " + err.Func
	if err.X != nil {
		r = err.X.String() + " " + r
	}
	if err.Msg != "" {
		r += ": " + err.Msg
	}
	return r
}
