package vm

import (
	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/value"
)

// constValue materializes a compiler.Constant as a runtime value.Value.
func constValue(c compiler.Constant) value.Value {
	switch c.Kind {
	case compiler.ConstInt:
		return value.Int(c.Int)
	case compiler.ConstFloat:
		return value.Float(c.Flt)
	case compiler.ConstString:
		return value.NewString(c.Str)
	default:
		return value.Nil
	}
}

// rk resolves an RK-encoded operand against fr's registers
// and proto's constant pool.
func rk(fr *frame, x int) value.Value {
	if opcode.IsK(x) {
		return constValue(fr.proto.Constants[opcode.RKIndex(x)])
	}
	return fr.regs[x]
}
