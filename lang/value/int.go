package value

import "strconv"

// Int is AQL's signed 64-bit integer type. Arithmetic on Int wraps silently
// on overflow (two's complement), the same as Go's own int64 arithmetic.
type Int int64

var (
	_ Value = Int(0)
	_ Ordered = Int(0)
	_ HasUnary = Int(0)
)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string { return "int" }
func (i Int) Freeze() {}
func (i Int) Truth() Bool { return i != 0 }

func (i Int) Cmp(y Value) (int, error) {
	j := y.(Int)
	switch {
	case i < j:
		return -1, nil
	case i > j:
		return +1, nil
	default:
		return 0, nil
	}
}
