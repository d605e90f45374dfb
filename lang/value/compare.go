package value

import "fmt"

// Equal implements AQL's == operator.
func Equal(x, y Value) (bool, error) {
	switch a := x.(type) {
	case NilType:
		_, ok := y.(NilType)
		return ok, nil
	case Bool:
		b, ok := y.(Bool)
		return ok && a == b, nil
	case Int:
		switch b := y.(type) {
		case Int:
			return a == b, nil
		case Float:
			return Float(a) == b, nil
		default:
			return false, nil
		}
	case Float:
		switch b := y.(type) {
		case Int:
			return a == Float(b), nil
		case Float:
			return a == b, nil
		default:
			return false, nil
		}
	case String:
		b, ok := y.(String)
		return ok && a == b, nil
	default:
		// Collectables (array, dict, slice, vector, closures, threads) are
		// represented as pointers, so interface equality is identity equality.
		return x == y, nil
	}
}

// Compare implements the ordering operators < <= > >=. x and y must both be
// Ordered and of directly comparable kinds (numbers compare across
// int/float; everything else must share a concrete type).
func Compare(x, y Value) (int, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if xok && yok {
		xv, yv := toFloat(xi, xf, xFloat), toFloat(yi, yf, yFloat)
		switch {
		case xv < yv:
			return -1, nil
		case xv > yv:
			return 1, nil
		case xv == yv:
			return 0, nil
		}
		return Float(xv).Cmp(Float(yv))
	}
	ox, ok := x.(Ordered)
	if !ok {
		return 0, fmt.Errorf("%s is not ordered", x.Type())
	}
	if x.Type() != y.Type() {
		return 0, fmt.Errorf("cannot compare %s with %s", x.Type(), y.Type())
	}
	return ox.Cmp(y)
}

// Len returns the length of a Sequence, Indexable, or Mapping value,
// backing the len() builtin.
func Len(v Value) (int, error) {
	switch x := v.(type) {
	case Indexable:
		return x.Len(), nil
	case Sequence:
		return x.Len(), nil
	case Mapping:
		return x.Len(), nil
	default:
		return 0, fmt.Errorf("object of type %s has no len()", v.Type())
	}
}
