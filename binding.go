package vecfield

import (
	"strconv"
	"strings"
)

// Binding maps single-letter identifiers to values. Keys are case-insensitive
// and listed in insertion order. The zero value is an empty binding ready to
// use. A Binding is not safe for concurrent use.
type Binding struct {
	keys []byte
	vals [26]float64
	set  uint32
}

// NewBinding creates a binding containing the reserved keys x, y, and z, each
// with the value 0.
func NewBinding() *Binding {
	b := &Binding{keys: make([]byte, 0, 8)}
	return b.Set('x', 0).Set('y', 0).Set('z', 0)
}

// ValidKey returns whether c can name a parameter.
func ValidKey(c byte) bool {
	c = lower(c)
	return 'a' <= c && c <= 'z'
}

// Reserved returns whether a key is one of the state variables x, y, or z.
func Reserved(c byte) bool {
	switch lower(c) {
	case 'x', 'y', 'z':
		return true
	default:
		return false
	}
}

// Get returns the value bound to key and whether it is present.
func (b *Binding) Get(key byte) (float64, bool) {
	key = lower(key)
	if key < 'a' || key > 'z' {
		return 0, false
	}
	i := key - 'a'
	return b.vals[i], b.set&(1<<i) != 0
}

// Has returns whether key is bound.
func (b *Binding) Has(key byte) bool {
	_, ok := b.Get(key)
	return ok
}

// Set binds key to v, adding key at the end of the order if it was not
// present. Returns b for chaining. Panics if key is not an ASCII letter.
func (b *Binding) Set(key byte, v float64) *Binding {
	if !ValidKey(key) {
		panic("vecfield: invalid parameter key " + strconv.QuoteRune(rune(key)))
	}
	i := lower(key) - 'a'
	if b.set&(1<<i) == 0 {
		b.set |= 1 << i
		b.keys = append(b.keys, lower(key))
	}
	b.vals[i] = v
	return b
}

// SetPoint binds the state variables x, y, and z.
func (b *Binding) SetPoint(p [3]float64) {
	b.Set('x', p[0]).Set('y', p[1]).Set('z', p[2])
}

// Keys returns the bound keys in insertion order.
func (b *Binding) Keys() []byte {
	return append(([]byte)(nil), b.keys...)
}

// Params returns the bound keys other than x, y, and z, in insertion order.
func (b *Binding) Params() []byte {
	r := make([]byte, 0, len(b.keys))
	for _, k := range b.keys {
		if !Reserved(k) {
			r = append(r, k)
		}
	}
	return r
}

// Len returns the number of bound keys.
func (b *Binding) Len() int {
	return len(b.keys)
}

// Clone returns an independent copy of b.
func (b *Binding) Clone() *Binding {
	r := *b
	r.keys = append(make([]byte, 0, cap(b.keys)), b.keys...)
	return &r
}

// String formats the binding like "x=0 y=0 z=0 s=10".
func (b *Binding) String() string {
	var s strings.Builder
	for i, k := range b.keys {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteByte(k)
		s.WriteByte('=')
		s.WriteString(strconv.FormatFloat(b.vals[k-'a'], 'g', -1, 64))
	}
	return s.String()
}
