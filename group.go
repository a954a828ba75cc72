package vecfield

import (
	"strconv"
)

// Axis names used in errors.
var axisnames = [3]string{"x", "y", "z"}

// Group is a vector field: one expression per spatial axis, sharing one
// parameter binding. A Group is not safe for concurrent use.
type Group struct {
	exprs   [3]*Expr
	binding *Binding
	ctx     Context
}

// GroupOption is an option for building a group.
type GroupOption interface {
	groupOption(*groupctx)
}

type (
	prevopt     struct{ b *Binding }
	defaultsopt []float64
)

// groupctx holds the options for building a group.
type groupctx struct {
	prev     *Binding
	defaults []float64
}

// WithPrevious seeds the new group's binding from a previous one. Every key
// present in both keeps its previous value, so that constants tuned by hand
// survive edits to the expressions.
func WithPrevious(b *Binding) GroupOption {
	return prevopt{b}
}

func (o prevopt) groupOption(g *groupctx) {
	g.prev = o.b
}

// WithDefaults supplies default values for the parameters other than x, y,
// and z, in the order each was first seen across the three expressions. If
// there are more values than parameters, the extras are ignored.
func WithDefaults(v []float64) GroupOption {
	return defaultsopt(v)
}

func (o defaultsopt) groupOption(g *groupctx) {
	g.defaults = o
}

// BuildGroup parses the three axis expressions of a vector field and builds
// their shared binding. The binding contains x, y, and z followed by every
// other identifier in the order first seen, each 0 unless set by options.
// Parse errors are reported as *AxisError.
func BuildGroup(src [3]string, opts ...GroupOption) (*Group, error) {
	var o groupctx
	for _, opt := range opts {
		opt.groupOption(&o)
	}
	g := Group{binding: NewBinding()}
	for i, s := range src {
		e, err := Parse(s)
		if err != nil {
			return nil, &AxisError{Axis: i, Err: err}
		}
		g.exprs[i] = e
		for _, k := range e.names {
			if !g.binding.Has(k) {
				g.binding.Set(k, 0)
			}
		}
		if cap(g.ctx.stack) < e.depth {
			g.ctx.stack = make([]float64, 0, e.depth)
		}
	}
	params := g.binding.Params()
	if o.defaults != nil {
		if len(o.defaults) < len(params) {
			return nil, &DefaultsError{Want: len(params), Have: len(o.defaults), Params: string(params)}
		}
		for i, k := range params {
			g.binding.Set(k, o.defaults[i])
		}
	}
	if o.prev != nil {
		for _, k := range g.binding.keys {
			if v, ok := o.prev.Get(k); ok {
				g.binding.Set(k, v)
			}
		}
	}
	return &g, nil
}

// Eval computes the field at p. All three axes are evaluated with x, y, and z
// bound to p, so no axis sees another's result.
func (g *Group) Eval(p [3]float64) ([3]float64, error) {
	var d [3]float64
	g.binding.SetPoint(p)
	for i, e := range g.exprs {
		v, err := g.ctx.eval(e.postfix, g.binding)
		if err != nil {
			return d, &AxisError{Axis: i, Err: err}
		}
		d[i] = v
	}
	return d, nil
}

// Binding returns the group's live binding. Changing a parameter through it
// affects subsequent evaluations.
func (g *Group) Binding() *Binding {
	return g.binding
}

// Exprs returns the group's axis expressions.
func (g *Group) Exprs() [3]*Expr {
	return g.exprs
}

// Sources returns the text of the group's axis expressions.
func (g *Group) Sources() [3]string {
	return [3]string{g.exprs[0].src, g.exprs[1].src, g.exprs[2].src}
}

// Field holds the active group of a simulation. Loading or applying new
// expressions replaces the group as a whole, and only if the new expressions
// are valid.
type Field struct {
	g *Group
}

// NewField creates a field with an initial group.
func NewField(g *Group) *Field {
	return &Field{g: g}
}

// Group returns the active group. It is nil if nothing has been loaded.
func (f *Field) Group() *Group {
	return f.g
}

// Load replaces the active group with new expressions and parameter
// defaults, discarding the current binding. This is the action for selecting
// a preset. If defaults is nil, every parameter starts at 0. On error, the
// active group is unchanged.
func (f *Field) Load(src [3]string, defaults []float64) error {
	g, err := BuildGroup(src, WithDefaults(defaults))
	if err != nil {
		return err
	}
	f.g = g
	return nil
}

// Apply replaces the active group with new expressions, keeping the values
// of parameters that the current group also has. On error, the active group
// is unchanged.
func (f *Field) Apply(src [3]string) error {
	var opts []GroupOption
	if f.g != nil {
		opts = append(opts, WithPrevious(f.g.binding))
	}
	g, err := BuildGroup(src, opts...)
	if err != nil {
		return err
	}
	f.g = g
	return nil
}

// AxisError is an error parsing or evaluating one axis of a group.
type AxisError struct {
	// Axis is 0, 1, or 2 for x, y, or z.
	Axis int
	// Err is the underlying error.
	Err error
}

func (err *AxisError) Error() string {
	return "d" + axisname(err.Axis) + ": " + err.Err.Error()
}

func (err *AxisError) Unwrap() error {
	return err.Err
}

func axisname(i int) string {
	if i < 0 || i >= len(axisnames) {
		return "axis " + strconv.Itoa(i)
	}
	return axisnames[i]
}

// DefaultsError is an error indicating that fewer default values were given
// than the expressions have parameters.
type DefaultsError struct {
	// Want is the number of parameters.
	Want int
	// Have is the number of defaults supplied.
	Have int
	// Params lists the parameter keys in order.
	Params string
}

func (err *DefaultsError) Error() string {
	return "need " + strconv.Itoa(err.Want) + " default values for parameters " + strconv.Quote(err.Params) + ", have " + strconv.Itoa(err.Have)
}
