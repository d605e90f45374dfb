// Package value implements AQL's tagged-union value model: the Value interface and its concrete kinds, equality and ordering,
// numeric promotion and wrapping arithmetic, and the container types array,
// slice, dict, and vector.
//
// A C implementation represents every runtime value as a TValue struct: a
// tag byte plus a union of payloads, with heap-allocated kinds (strings,
// tables, closures) carrying a GC object header (mark bit, type tag, next
// pointer) threading them onto the collector's object list. Go has no unions
// and no pointer-castable object headers, so this package follows the sum
// type idiom instead: Value is an interface, and each kind is its own
// concrete Go type implementing it. The GCObject embedded struct keeps the
// header fields on the kinds that need them, even
// though Go's own garbage collector does the actual collecting.
package value

import "github.com/aql-lang/aql/lang/token"

// Value is implemented by every value an AQL program can hold in a register,
// upvalue, or container slot.
type Value interface {
	// String returns the value's display representation (what print shows).
	String() string
	// Type returns the short type name reported by the type() builtin.
	Type() string
	// Truth returns the value's boolean interpretation in conditions.
	Truth() Bool
	// Freeze marks the value, and everything transitively reachable from it,
	// immutable. Subsequent mutation attempts return an error.
	Freeze()
}

// Ordered is implemented by values that support <, <=, >, >=.
type Ordered interface {
	Value
	// Cmp compares the receiver to y, which must be of the same concrete
	// type. It returns a negative number, zero, or a positive number as the
	// receiver is less than, equal to, or greater than y.
	Cmp(y Value) (int, error)
}

// Iterator yields the elements of an Iterable one at a time.
type Iterator interface {
	// Next reports whether another element is available, and if so stores it
	// through p and advances.
	Next(p *Value) bool
	// Done releases any resources (e.g. an iteration lock) held by the
	// iterator.
	Done()
}

// Iterable is implemented by values that can appear on the right of a
// for-in statement.
type Iterable interface {
	Value
	Iterate() Iterator
}

// Sequence is an Iterable of statically known length.
type Sequence interface {
	Iterable
	Len() int
}

// Indexable is implemented by values supporting x[i] reads.
type Indexable interface {
	Value
	Index(i int) (Value, error)
	Len() int
}

// Sliceable is implemented by values supporting the x[i:j] operator.
type Sliceable interface {
	Indexable
	Slice(start, end int) (Value, error)
}

// HasSetIndex is implemented by values supporting x[i] = v writes.
type HasSetIndex interface {
	Indexable
	SetIndex(i int, v Value) error
}

// Mapping is implemented by key/value container values.
type Mapping interface {
	Value
	Get(k Value) (v Value, found bool, err error)
	Len() int
}

// HasSetKey is implemented by Mapping values supporting x[k] = v writes.
type HasSetKey interface {
	Mapping
	SetKey(k, v Value) error
}

// HasBinary is implemented by values that define at least one binary
// operator beyond the built-in numeric/string rules.
type HasBinary interface {
	Value
	// Binary evaluates "receiver op y" (side == Left) or "y op receiver"
	// (side == Right). Returning (nil, nil) declines, leaving the caller to
	// report the usual "unsupported operand" error.
	Binary(op token.Token, y Value, side Side) (Value, error)
}

// Side indicates which operand position a HasBinary receiver occupies.
type Side bool

const (
	Left Side = false
	Right Side = true
)

// HasUnary is implemented by values that define a unary operator.
type HasUnary interface {
	Value
	Unary(op token.Token) (Value, error)
}

// HasAttrs is implemented by values exposing named attributes (x.f).
type HasAttrs interface {
	Value
	Attr(name string) (Value, error)
	AttrNames() []string
}

// NoSuchAttrError is returned by HasAttrs.Attr when the named attribute does
// not exist.
type NoSuchAttrError string

func (e NoSuchAttrError) Error() string { return string(e) }

// GCObject is embedded by heap-allocated value kinds to carry the object
// header a tracing collector threads objects on. Go's collector does not
// walk this list; it exists as a single attachment point for future manual
// memory instrumentation (e.g. an allocation counter).
type GCObject struct {
	marked bool
}

// Marked reports whether the object has been visited by a trace (unused by
// Go's own collector; retained on the object header for future use).
func (o *GCObject) Marked() bool { return o.marked }

// SetMarked sets the object's mark bit.
func (o *GCObject) SetMarked(m bool) { o.marked = m }
