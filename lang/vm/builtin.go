package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/value"
)

// callBuiltin executes the BUILTIN opcode's free-function set fast path that
// escapes genericForStat's lowering when range(...) is used as an ordinary
// expression value).
func (th *Thread) callBuiltin(id compiler.BuiltinID, args []value.Value) (value.Value, error) {
	switch id {
	case compiler.BuiltinPrint:
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = displayString(a)
		}
		fmt.Fprintln(th.stdout(), strings.Join(parts, " "))
		return value.Nil, nil

	case compiler.BuiltinLen:
		if len(args) != 1 {
			return nil, fmt.Errorf("len() takes exactly one argument")
		}
		n, err := value.Len(args[0])
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil

	case compiler.BuiltinType:
		if len(args) != 1 {
			return nil, fmt.Errorf("type() takes exactly one argument")
		}
		return value.NewString(args[0].Type()), nil

	case compiler.BuiltinToString:
		if len(args) != 1 {
			return nil, fmt.Errorf("tostring() takes exactly one argument")
		}
		return value.NewString(displayString(args[0])), nil

	case compiler.BuiltinToNumber:
		if len(args) != 1 {
			return nil, fmt.Errorf("tonumber() takes exactly one argument")
		}
		return toNumber(args[0])

	case compiler.BuiltinRange:
		return rangeBuiltin(args)

	default:
		return nil, fmt.Errorf("vm: unimplemented builtin %d", id)
	}
}

func toNumber(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Int, value.Float:
		return n, nil
	case value.String:
		s := strings.TrimSpace(string(n))
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return value.Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f), nil
		}
		return value.Nil, nil
	default:
		return value.Nil, nil
	}
}

func asRangeArg(v value.Value) (int64, error) {
	switch n := v.(type) {
	case value.Int:
		return int64(n), nil
	case value.Float:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("range() arguments must be numbers, not %s", v.Type())
	}
}

// rangeBuiltin materializes a *value.Range for range() used as an ordinary
// expression.
func rangeBuiltin(args []value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, err := asRangeArg(args[0])
		if err != nil {
			return nil, err
		}
		stop = n
	case 2:
		a, err := asRangeArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := asRangeArg(args[1])
		if err != nil {
			return nil, err
		}
		start, stop = a, b
	case 3:
		a, err := asRangeArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := asRangeArg(args[1])
		if err != nil {
			return nil, err
		}
		c, err := asRangeArg(args[2])
		if err != nil {
			return nil, err
		}
		start, stop, step = a, b, c
	default:
		return nil, fmt.Errorf("range() takes 1 to 3 arguments")
	}
	return value.NewRange(start, stop, step)
}

// newContainer executes the NEWOBJECT opcode's container-constructor set:
// the array()/dict()/slice()/vector() builtin calls.
func newContainer(kind int, args []value.Value) (value.Value, error) {
	switch kind {
	case compiler.ContainerArray:
		if len(args) == 1 {
			if n, ok := args[0].(value.Int); ok {
				elems := make([]value.Value, n)
				for i := range elems {
					elems[i] = value.Nil
				}
				return value.NewArray(elems), nil
			}
		}
		elems := make([]value.Value, len(args))
		copy(elems, args)
		return value.NewArray(elems), nil

	case compiler.ContainerDict:
		size := 8
		if len(args) == 1 {
			if n, ok := args[0].(value.Int); ok {
				size = int(n)
			}
		}
		return value.NewDict(size), nil

	case compiler.ContainerSlice:
		if len(args) != 3 {
			return nil, fmt.Errorf("slice() takes exactly 3 arguments: array, lo, hi")
		}
		base, ok := args[0].(*value.Array)
		if !ok {
			return nil, fmt.Errorf("slice() first argument must be an array, not %s", args[0].Type())
		}
		lo, ok := args[1].(value.Int)
		if !ok {
			return nil, fmt.Errorf("slice() lo must be an int")
		}
		hi, ok := args[2].(value.Int)
		if !ok {
			return nil, fmt.Errorf("slice() hi must be an int")
		}
		if int(lo) < 0 || int(hi) > base.Len() || int(lo) > int(hi) {
			return nil, fmt.Errorf("slice [%d:%d] out of range (len %d)", lo, hi, base.Len())
		}
		return value.NewSlice(base, int(lo), int(hi-lo), base.Len()-int(lo)), nil

	case compiler.ContainerVector:
		if len(args) == 1 {
			if n, ok := args[0].(value.Int); ok {
				return value.NewVector(int(n)), nil
			}
		}
		return value.NewVectorFrom(args)

	case compiler.ContainerRange:
		return rangeBuiltin(args)

	default:
		return nil, fmt.Errorf("vm: unknown container kind %d", kind)
	}
}
