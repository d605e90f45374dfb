package value

import (
	"strconv"
	"sync"
)

// shortStringLimit is the largest byte length at which a string literal is
// eligible for interning.
// In C this split exists so most string equality tests become pointer
// comparisons; in Go, string equality is already a content comparison the
// runtime can fast-path on shared backing arrays, so String.Cmp never needs
// to know which bucket a value came from. Interning here only dedupes
// storage for the common case (identifiers, small literals) and gives
// NewString a single place to enforce it.
const shortStringLimit = 40

var internPool = struct {
	mu sync.Mutex
	m map[string]String
}{m: make(map[string]String)}

// String is AQL's immutable byte-string type.
type String string

var (
	_ Indexable = String("")
	_ Sliceable = String("")
	_ Ordered = String("")
)

// NewString returns the String for s, interning it if s is short enough.
func NewString(s string) String {
	if len(s) > shortStringLimit {
		return String(s)
	}
	internPool.mu.Lock()
	defer internPool.mu.Unlock()
	if v, ok := internPool.m[s]; ok {
		return v
	}
	v := String(s)
	internPool.m[s] = v
	return v
}

func (s String) String() string { return strconv.Quote(string(s)) }
func (s String) Type() string { return "string" }
func (s String) Freeze() {}
func (s String) Truth() Bool { return len(s) > 0 }
func (s String) Len() int { return len(s) }

func (s String) Index(i int) (Value, error) {
	if i < 0 || i >= len(s) {
		return nil, indexError("string", i, len(s))
	}
	return s[i : i+1], nil
}

func (s String) Slice(start, end int) (Value, error) {
	if start < 0 || end > len(s) || start > end {
		return nil, sliceError("string", start, end, len(s))
	}
	return s[start:end], nil
}

func (s String) Cmp(y Value) (int, error) {
	o := y.(String)
	switch {
	case s < o:
		return -1, nil
	case s > o:
		return 1, nil
	default:
		return 0, nil
	}
}
