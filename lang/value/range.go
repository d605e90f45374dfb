package value

import "fmt"

// Range is a lazy integer sequence produced by range(stop), range(start,
// stop), or range(start, stop, step), exclusive of stop. The parser
// recognizes a literal range(...) call in a for-in head and lowers it
// straight to a NEWOBJECT allocating a Range, skipping the BUILTIN-call
// path range() takes as an ordinary expression, but either way the loop
// drives the same Iterate() below.
type Range struct {
	GCObject
	start, stop, step int64
}

var (
	_ Value = (*Range)(nil)
	_ Sequence = (*Range)(nil)
)

// NewRange constructs a range. step must be non-zero.
func NewRange(start, stop, step int64) (*Range, error) {
	if step == 0 {
		return nil, fmt.Errorf("range step cannot be zero")
	}
	return &Range{start: start, stop: stop, step: step}, nil
}

func (r *Range) String() string {
	return fmt.Sprintf("range(%d, %d, %d)", r.start, r.stop, r.step)
}

func (r *Range) Type() string { return "range" }
func (r *Range) Freeze() {}
func (r *Range) Truth() Bool { return r.Len() > 0 }

func (r *Range) Len() int {
	if r.step > 0 {
		if r.stop <= r.start {
			return 0
		}
		return int((r.stop - r.start + r.step - 1) / r.step)
	}
	if r.stop >= r.start {
		return 0
	}
	return int((r.start - r.stop - r.step - 1) / -r.step)
}

func (r *Range) Iterate() Iterator {
	return &rangeIterator{cur: r.start, stop: r.stop, step: r.step}
}

type rangeIterator struct {
	cur, stop, step int64
}

func (it *rangeIterator) Next(p *Value) bool {
	if it.step > 0 && it.cur >= it.stop {
		return false
	}
	if it.step < 0 && it.cur <= it.stop {
		return false
	}
	*p = Int(it.cur)
	it.cur += it.step
	return true
}

func (it *rangeIterator) Done() {}
