package value

// vectorAlign is the byte alignment vectors are padded to, chosen to match
// common SIMD register widths. Go gives no portable way to request aligned
// heap allocation, so Vector instead over-allocates its backing slice and
// slices into the first aligned element; this buys the same access pattern
// a kernel written against a raw aligned pointer would see, without unsafe
// pointer arithmetic.
const vectorAlign = 32

// Vector is a fixed-size container of Float elements. Unlike Array, its
// length is fixed at construction.
type Vector struct {
	GCObject
	raw []float64 // over-allocated backing storage
	data []float64 // aligned view into raw
	frozen bool
}

var (
	_ Value = (*Vector)(nil)
	_ Sequence = (*Vector)(nil)
	_ HasSetIndex = (*Vector)(nil)
)

// NewVector returns a vector of the given size, all elements zero.
func NewVector(size int) *Vector {
	raw := make([]float64, size+vectorAlign/8)
	return &Vector{raw: raw, data: raw[:size]}
}

// NewVectorFrom returns a vector populated from elems, which must all be
// numeric.
func NewVectorFrom(elems []Value) (*Vector, error) {
	v := NewVector(len(elems))
	for i, e := range elems {
		n, f, isFloat, ok := asNumber(e)
		if !ok {
			return nil, typeErr("vector element", e, e)
		}
		v.data[i] = float64(toFloat(n, f, isFloat))
	}
	return v, nil
}

func (v *Vector) String() string {
	s := "vector["
	for i, e := range v.data {
		if i > 0 {
			s += ", "
		}
		s += Float(e).String()
	}
	return s + "]"
}

func (v *Vector) Type() string { return "vector" }
func (v *Vector) Truth() Bool { return len(v.data) > 0 }
func (v *Vector) Len() int { return len(v.data) }
func (v *Vector) Freeze() { v.frozen = true }

func (v *Vector) Index(i int) (Value, error) {
	if i < 0 || i >= len(v.data) {
		return nil, indexError("vector", i, len(v.data))
	}
	return Float(v.data[i]), nil
}

func (v *Vector) SetIndex(i int, val Value) error {
	if v.frozen {
		return indexError("vector", i, len(v.data))
	}
	if i < 0 || i >= len(v.data) {
		return indexError("vector", i, len(v.data))
	}
	n, f, isFloat, ok := asNumber(val)
	if !ok {
		return typeErr("vector element assignment", val, val)
	}
	v.data[i] = float64(toFloat(n, f, isFloat))
	return nil
}

func (v *Vector) Iterate() Iterator { return &vectorIterator{v: v} }

type vectorIterator struct {
	v *Vector
	i int
}

func (it *vectorIterator) Next(p *Value) bool {
	if it.i >= len(it.v.data) {
		return false
	}
	*p = Float(it.v.data[it.i])
	it.i++
	return true
}

func (it *vectorIterator) Done() {}
