package value

import (
	"fmt"
	"math"

	"github.com/aql-lang/aql/lang/token"
)

// asNumber reports the Int/Float pair for v's numeric value, or ok=false if
// v is not a number.
func asNumber(v Value) (i Int, f Float, isFloat, ok bool) {
	switch n := v.(type) {
	case Int:
		return n, 0, false, true
	case Float:
		return 0, n, true, true
	default:
		return 0, 0, false, false
	}
}

func typeErr(op string, x, y Value) error {
	return fmt.Errorf("unsupported operand types for %s: %s and %s", op, x.Type(), y.Type())
}

// Add implements the + operator. Integer + integer wraps on overflow;
// mixed or float operands promote to float.
func Add(x, y Value) (Value, error) {
	if xs, ok := x.(String); ok {
		if ys, ok := y.(String); ok {
			return NewString(string(xs) + string(ys)), nil
		}
	}
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("+", x, y)
	}
	if xFloat || yFloat {
		return toFloat(xi, xf, xFloat) + toFloat(yi, yf, yFloat), nil
	}
	return Int(int64(xi) + int64(yi)), nil
}

func Sub(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("-", x, y)
	}
	if xFloat || yFloat {
		return toFloat(xi, xf, xFloat) - toFloat(yi, yf, yFloat), nil
	}
	return Int(int64(xi) - int64(yi)), nil
}

func Mul(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("*", x, y)
	}
	if xFloat || yFloat {
		return toFloat(xi, xf, xFloat) * toFloat(yi, yf, yFloat), nil
	}
	return Int(int64(xi) * int64(yi)), nil
}

// Div implements /, which always produces a float result.
func Div(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("/", x, y)
	}
	xv, yv := toFloat(xi, xf, xFloat), toFloat(yi, yf, yFloat)
	if yv == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return xv / yv, nil
}

// IDiv implements the // integer/floor-division operator. Integer operands
// stay integer; division by integer zero is a runtime error.
func IDiv(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("//", x, y)
	}
	if !xFloat && !yFloat {
		if yi == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		q := int64(xi) / int64(yi)
		if (int64(xi)%int64(yi) != 0) && ((int64(xi) < 0) != (int64(yi) < 0)) {
			q--
		}
		return Int(q), nil
	}
	return Float(math.Floor(float64(toFloat(xi, xf, xFloat) / toFloat(yi, yf, yFloat)))), nil
}

// Mod implements %. Integer operands stay integer, following floor-mod
// convention so that (a/b)*b+(a%b)==a holds for idiv.
func Mod(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("%", x, y)
	}
	if !xFloat && !yFloat {
		if yi == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		r := int64(xi) % int64(yi)
		if r != 0 && (r < 0) != (int64(yi) < 0) {
			r += int64(yi)
		}
		return Int(r), nil
	}
	xv, yv := toFloat(xi, xf, xFloat), toFloat(yi, yf, yFloat)
	if yv == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	r := math.Mod(float64(xv), float64(yv))
	if r != 0 && (r < 0) != (yv < 0) {
		r += float64(yv)
	}
	return Float(r), nil
}

// Pow implements **, which always produces a float.
func Pow(x, y Value) (Value, error) {
	xi, xf, xFloat, xok := asNumber(x)
	yi, yf, yFloat, yok := asNumber(y)
	if !xok || !yok {
		return nil, typeErr("**", x, y)
	}
	return Float(math.Pow(float64(toFloat(xi, xf, xFloat)), float64(toFloat(yi, yf, yFloat)))), nil
}

// Neg implements unary -.
func Neg(x Value) (Value, error) {
	switch n := x.(type) {
	case Int:
		return Int(-int64(n)), nil
	case Float:
		return -n, nil
	default:
		return nil, fmt.Errorf("unsupported operand type for unary -: %s", x.Type())
	}
}

func toFloat(i Int, f Float, isFloat bool) Float {
	if isFloat {
		return f
	}
	return Float(i)
}

func asInt(v Value, op string) (int64, error) {
	switch n := v.(type) {
	case Int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unsupported operand type for %s: %s", op, v.Type())
	}
}

func BAnd(x, y Value) (Value, error) {
	a, err := asInt(x, "&")
	if err != nil {
		return nil, err
	}
	b, err := asInt(y, "&")
	if err != nil {
		return nil, err
	}
	return Int(a & b), nil
}

func BOr(x, y Value) (Value, error) {
	a, err := asInt(x, "|")
	if err != nil {
		return nil, err
	}
	b, err := asInt(y, "|")
	if err != nil {
		return nil, err
	}
	return Int(a | b), nil
}

func BXor(x, y Value) (Value, error) {
	a, err := asInt(x, "^")
	if err != nil {
		return nil, err
	}
	b, err := asInt(y, "^")
	if err != nil {
		return nil, err
	}
	return Int(a ^ b), nil
}

func BNot(x Value) (Value, error) {
	a, err := asInt(x, "~")
	if err != nil {
		return nil, err
	}
	return Int(^a), nil
}

// Shl and Shr implement << and >>, wrapping on a 64-bit width. A shift
// count of magnitude 64 or more produces zero and a negative count shifts
// the other way, matching Lua-family semantics for out-of-range shifts.
func Shl(x, y Value) (Value, error) {
	a, err := asInt(x, "<<")
	if err != nil {
		return nil, err
	}
	b, err := asInt(y, "<<")
	if err != nil {
		return nil, err
	}
	return Int(shiftLeft(a, b)), nil
}

func Shr(x, y Value) (Value, error) {
	a, err := asInt(x, ">>")
	if err != nil {
		return nil, err
	}
	b, err := asInt(y, ">>")
	if err != nil {
		return nil, err
	}
	return Int(shiftLeft(a, -b)), nil
}

func shiftLeft(a, n int64) int64 {
	if n <= -64 || n >= 64 {
		return 0
	}
	if n >= 0 {
		return int64(uint64(a) << uint(n))
	}
	return int64(uint64(a) >> uint(-n))
}

// Binary applies op to x and y, covering the arithmetic and bitwise
// operator set shared by ADD/SUB/.../SHR. It does not
// handle comparisons or concatenation, which the VM dispatches separately.
func Binary(op token.Token, x, y Value) (Value, error) {
	switch op {
	case token.PLUS:
		return Add(x, y)
	case token.MINUS:
		return Sub(x, y)
	case token.STAR:
		return Mul(x, y)
	case token.SLASH:
		return Div(x, y)
	case token.IDIV:
		return IDiv(x, y)
	case token.PERCENT:
		return Mod(x, y)
	case token.POW:
		return Pow(x, y)
	case token.AMP:
		return BAnd(x, y)
	case token.PIPE:
		return BOr(x, y)
	case token.TILDE:
		return BXor(x, y)
	case token.SHL:
		return Shl(x, y)
	case token.SHR:
		return Shr(x, y)
	default:
		return nil, fmt.Errorf("unknown binary operator %s", op)
	}
}
