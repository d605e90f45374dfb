package value

// Slice is a view over an Array's backing storage: a base array pointer,
// element offset, length, and capacity. A slice is a view, not a copy:
// mutating a Slice element writes through to the underlying Array.
type Slice struct {
	GCObject
	base *Array
	offset int
	length int
	cap int
}

var (
	_ Value = (*Slice)(nil)
	_ Sequence = (*Slice)(nil)
	_ Sliceable = (*Slice)(nil)
	_ HasSetIndex = (*Slice)(nil)
)

// NewSlice returns a view over base covering [offset, offset+length), with
// room to grow up to cap elements before a re-slice would need reallocation.
func NewSlice(base *Array, offset, length, cap int) *Slice {
	return &Slice{base: base, offset: offset, length: length, cap: cap}
}

func (s *Slice) String() string {
	str := "slice["
	for i := 0; i < s.length; i++ {
		if i > 0 {
			str += ", "
		}
		v, _ := s.Index(i)
		str += v.String()
	}
	return str + "]"
}

func (s *Slice) Type() string { return "slice" }
func (s *Slice) Truth() Bool { return s.length > 0 }
func (s *Slice) Len() int { return s.length }
func (s *Slice) Freeze() { s.base.Freeze() }

func (s *Slice) Index(i int) (Value, error) {
	if i < 0 || i >= s.length {
		return nil, indexError("slice", i, s.length)
	}
	return s.base.elems[s.offset+i], nil
}

func (s *Slice) SetIndex(i int, v Value) error {
	if i < 0 || i >= s.length {
		return indexError("slice", i, s.length)
	}
	return s.base.SetIndex(s.offset+i, v)
}

func (s *Slice) Slice(start, end int) (Value, error) {
	if start < 0 || end > s.length || start > end {
		return nil, sliceError("slice", start, end, s.length)
	}
	return NewSlice(s.base, s.offset+start, end-start, s.cap-start), nil
}

// Append returns a new Slice with v appended. If there is spare capacity in
// the backing array, the append writes through without copying; otherwise
// the backing array is grown with amortized doubling.
func (s *Slice) Append(v Value) (*Slice, error) {
	if s.length < s.cap && s.offset+s.length < len(s.base.elems) {
		s.base.elems[s.offset+s.length] = v
		return NewSlice(s.base, s.offset, s.length+1, s.cap), nil
	}
	newCap := s.cap*2 + 1
	elems := make([]Value, s.length, newCap)
	copy(elems, s.base.elems[s.offset:s.offset+s.length])
	elems = append(elems, v)
	return NewSlice(NewArray(elems), 0, s.length+1, newCap), nil
}

func (s *Slice) Iterate() Iterator { return &sliceIterator{s: s} }

type sliceIterator struct {
	s *Slice
	i int
}

func (it *sliceIterator) Next(p *Value) bool {
	if it.i >= it.s.length {
		return false
	}
	v, err := it.s.Index(it.i)
	if err != nil {
		return false
	}
	*p = v
	it.i++
	return true
}

func (it *sliceIterator) Done() {}
