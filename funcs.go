package vecfield

import "math"

// funcnames maps function names to functions. Names are lower case, since the
// tokenizer folds case before looking them up.
var funcnames = map[string]Function{
	"sin":  Sin,
	"cos":  Cos,
	"sign": Sign,
	"max":  Max,
	"min":  Min,
}

// Funcs returns the names of the builtin functions.
func Funcs() []string {
	r := make([]string, 0, len(funcnames))
	for k := range funcnames {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// call applies fn. For monadic functions, only a is used. For dyadic
// functions, a is the first argument.
func (fn Function) call(a, b float64) float64 {
	switch fn {
	case Sin:
		return math.Sin(a)
	case Cos:
		return math.Cos(a)
	case Sign:
		return signum(a)
	case Max:
		return math.Max(a, b)
	case Min:
		return math.Min(a, b)
	default:
		panic("vecfield: call of invalid function " + fn.String())
	}
}

// signum returns -1, 0, or 1 according to the sign of x. NaN stays NaN.
func signum(x float64) float64 {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		// Covers both zeros and NaN.
		return x
	}
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
