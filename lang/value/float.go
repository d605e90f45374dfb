package value

import (
	"fmt"

	"github.com/aql-lang/aql/lang/token"
)

// Float is AQL's double-precision floating point type.
type Float float64

var (
	_ Value = Float(0)
	_ Ordered = Float(0)
	_ HasUnary = Float(0)
)

func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
func (f Float) Type() string { return "float" }
func (f Float) Freeze() {}
func (f Float) Truth() Bool { return f != 0 }

// Cmp totally orders floats, placing NaN above +Inf.
func (f Float) Cmp(y Value) (int, error) {
	g := y.(Float)
	switch {
	case f < g:
		return -1, nil
	case f > g:
		return +1, nil
	case f == g:
		return 0, nil
	}
	// At least one operand is NaN.
	if f == f {
		return -1, nil // g is NaN
	} else if g == g {
		return +1, nil // f is NaN
	}
	return 0, nil // both NaN
}

func (f Float) Unary(op token.Token) (Value, error) {
	switch op {
	case token.PLUS:
		return f, nil
	case token.MINUS:
		return -f, nil
	}
	return nil, nil
}
