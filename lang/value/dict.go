package value

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// dictKey wraps a Value so it can serve as a Go map key backing a
// swiss.Map: values that are not comparable (e.g. containers) cannot be
// dict keys, since only hashable values may index a dict.
type dictKey struct {
	v Value
}

// Dict is AQL's hash-map container, backed by a swiss table for open
// addressing with SIMD-accelerated probing via github.com/dolthub/swiss.
type Dict struct {
	GCObject
	m      *swiss.Map[dictKey, Value]
	frozen bool
}

var (
	_ Value      = (*Dict)(nil)
	_ Mapping    = (*Dict)(nil)
	_ HasSetKey  = (*Dict)(nil)
	_ Iterable   = (*Dict)(nil)
)

// NewDict returns an empty dict with initial capacity for at least size
// entries.
func NewDict(size int) *Dict {
	if size < 1 {
		size = 1
	}
	return &Dict{m: swiss.NewMap[dictKey, Value](uint32(size))}
}

func (d *Dict) String() string {
	s := "{"
	first := true
	d.m.Iter(func(k dictKey, v Value) bool {
		if !first {
			s += ", "
		}
		first = false
		s += k.v.String() + ": " + v.String()
		return false
	})
	return s + "}"
}

func (d *Dict) Type() string { return "dict" }
func (d *Dict) Truth() Bool  { return d.m.Count() > 0 }
func (d *Dict) Len() int     { return int(d.m.Count()) }

func (d *Dict) Freeze() {
	if d.frozen {
		return
	}
	d.frozen = true
	d.m.Iter(func(k dictKey, v Value) bool {
		v.Freeze()
		return false
	})
}

func (d *Dict) hashable(k Value) error {
	switch k.(type) {
	case NilType, Bool, Int, Float, String:
		return nil
	default:
		return fmt.Errorf("unhashable type: %s", k.Type())
	}
}

func (d *Dict) Get(k Value) (Value, bool, error) {
	if err := d.hashable(k); err != nil {
		return nil, false, err
	}
	v, ok := d.m.Get(dictKey{k})
	return v, ok, nil
}

func (d *Dict) SetKey(k, v Value) error {
	if d.frozen {
		return fmt.Errorf("cannot insert into frozen dict")
	}
	if err := d.hashable(k); err != nil {
		return err
	}
	d.m.Put(dictKey{k}, v)
	return nil
}

// Delete removes k from the dict, reporting whether it was present.
func (d *Dict) Delete(k Value) (bool, error) {
	if d.frozen {
		return false, fmt.Errorf("cannot delete from frozen dict")
	}
	if err := d.hashable(k); err != nil {
		return false, err
	}
	return d.m.Delete(dictKey{k}), nil
}

func (d *Dict) Iterate() Iterator {
	pairs := make([]Tuple, 0, d.m.Count())
	d.m.Iter(func(k dictKey, v Value) bool {
		pairs = append(pairs, Tuple{k.v, v})
		return false
	})
	return &dictIterator{pairs: pairs}
}

type dictIterator struct {
	pairs []Tuple
	i     int
}

func (it *dictIterator) Next(p *Value) bool {
	if it.i >= len(it.pairs) {
		return false
	}
	*p = it.pairs[it.i]
	it.i++
	return true
}

func (it *dictIterator) Done() {}
