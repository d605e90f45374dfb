package vm

import (
	"context"
	"fmt"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/value"
)

// exec runs fr's code to completion, fetching, decoding and dispatching one
// Instruction at a time.
func (th *Thread) exec(ctx context.Context, fr *frame) (value.Value, error) {
	code := fr.proto.Code
	for {
		if th.MaxSteps > 0 {
			th.steps++
			if th.steps > uint64(th.MaxSteps) {
				return nil, th.runtimeErr(fr, fmt.Errorf("vm: exceeded step budget"))
			}
		}
		select {
		case <-ctx.Done():
			return nil, th.runtimeErr(fr, ctx.Err())
		default:
		}

		if fr.pc >= len(code) {
			return value.Nil, nil
		}
		instr := code[fr.pc]
		fr.line = int(fr.proto.Lines[fr.pc])
		op := instr.Op()

		switch op {
		case opcode.MOVE:
			fr.regs[instr.A()] = fr.regs[instr.B()]
			fr.pc++

		case opcode.LOADI:
			fr.regs[instr.A()] = value.Int(instr.SBx())
			fr.pc++

		case opcode.LOADF:
			fr.regs[instr.A()] = value.Float(instr.SBx())
			fr.pc++

		case opcode.LOADK:
			fr.regs[instr.A()] = constValue(fr.proto.Constants[instr.Bx()])
			fr.pc++

		case opcode.LOADKX:
			// Never emitted by this compiler; handled for forward compatibility.
			if fr.pc+1 < len(code) && code[fr.pc+1].Op() == opcode.EXTRAARG {
				idx := code[fr.pc+1].Ax()
				fr.regs[instr.A()] = constValue(fr.proto.Constants[idx])
				fr.pc += 2
			} else {
				fr.regs[instr.A()] = constValue(fr.proto.Constants[instr.Bx()])
				fr.pc++
			}

		case opcode.LOADFALSE:
			fr.regs[instr.A()] = value.False
			if instr.B() != 0 {
				fr.pc++ // skip the paired LOADTRUE
			}
			fr.pc++

		case opcode.LOADTRUE:
			fr.regs[instr.A()] = value.True
			fr.pc++

		case opcode.LOADNIL:
			fr.regs[instr.A()] = value.Nil
			fr.pc++

		case opcode.GETUPVAL:
			fr.regs[instr.A()] = fr.closure.upvals[instr.B()].get()
			fr.pc++

		case opcode.SETUPVAL:
			fr.closure.upvals[instr.B()].set(fr.regs[instr.A()])
			fr.pc++

		case opcode.GETTABUP:
			// Never emitted (globals resolve via GETUPVAL+GETPROP); handled for
			// forward compatibility.
			uv := fr.closure.upvals[instr.B()].get()
			v, err := getIndex(uv, rk(fr, instr.C()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.SETTABUP:
			uv := fr.closure.upvals[instr.A()].get()
			if err := setIndex(uv, rk(fr, instr.B()), fr.regs[instr.C()]); err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.pc++

		case opcode.CLOSE:
			fr.closeFrom(instr.A())
			fr.pc++

		case opcode.TBC:
			// to-be-closed variables are not part of this module's scope.
			fr.pc++

		case opcode.CONCAT:
			x, y := fr.regs[instr.B()], fr.regs[instr.C()]
			fr.regs[instr.A()] = value.NewString(displayString(x) + displayString(y))
			fr.pc++

		case opcode.EXTRAARG:
			fr.pc++

		case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.MOD, opcode.POW,
			opcode.IDIV, opcode.BAND, opcode.BOR, opcode.BXOR, opcode.SHL, opcode.SHR:
			v, err := binaryOp(op, rk(fr, instr.B()), rk(fr, instr.C()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.ADDK, opcode.SUBK, opcode.MULK, opcode.DIVK:
			// Never emitted (no partial-constant-folding pass exists); handled
			// for forward compatibility.
			v, err := binaryOp(kOpToPlain(op), fr.regs[instr.B()], constValue(fr.proto.Constants[instr.C()]))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.ADDI, opcode.SUBI, opcode.MULI, opcode.DIVI:
			// Never emitted by this compiler; handled for forward compatibility.
			v, err := binaryOp(iOpToPlain(op), fr.regs[instr.A()], value.Int(instr.SC()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.UNM:
			v, err := value.Neg(fr.regs[instr.B()])
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.LEN:
			n, err := value.Len(fr.regs[instr.B()])
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = value.Int(n)
			fr.pc++

		case opcode.BNOT:
			v, err := value.BNot(fr.regs[instr.B()])
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.NOT:
			fr.regs[instr.A()] = value.Bool(!bool(fr.regs[instr.B()].Truth()))
			fr.pc++

		case opcode.SHRI:
			// Never emitted by this compiler; handled for forward compatibility.
			v, err := value.Shr(fr.regs[instr.A()], value.Int(instr.SC()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.JMP:
			fr.pc = fr.pc + 1 + instr.SBx()

		case opcode.EQ, opcode.LT, opcode.LE:
			ok, err := compareOp(op, rk(fr, instr.B()), rk(fr, instr.C()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.pc = skipOrTake(fr.pc, ok, instr.K())

		case opcode.TEST:
			cond := bool(fr.regs[instr.A()].Truth())
			fr.pc = skipOrTake(fr.pc, cond, instr.C() != 0)

		case opcode.TESTSET:
			// Never emitted by this compiler; handled for forward compatibility.
			cond := bool(fr.regs[instr.B()].Truth())
			if cond == (instr.C() != 0) {
				fr.regs[instr.A()] = fr.regs[instr.B()]
				fr.pc++
			} else {
				fr.pc += 2
			}

		case opcode.EQI:
			// Never emitted by this compiler; handled for forward compatibility.
			ok, err := compareOp(opcode.EQ, fr.regs[instr.A()], value.Int(instr.SC()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.pc = skipOrTake(fr.pc, ok, instr.K())

		case opcode.LTI:
			// Never emitted by this compiler; handled for forward compatibility.
			ok, err := compareOp(opcode.LT, fr.regs[instr.A()], value.Int(instr.SC()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.pc = skipOrTake(fr.pc, ok, instr.K())

		case opcode.CALL, opcode.TAILCALL:
			a, b := instr.A(), instr.B()
			var args []value.Value
			if b > 0 {
				args = append(args, fr.regs[a+1:a+b]...)
			}
			res, err := th.Call(ctx, fr.regs[a], args)
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[a] = res
			fr.pc++

		case opcode.RET:
			if instr.B() <= 1 {
				return value.Nil, nil
			}
			return fr.regs[instr.A()], nil

		case opcode.RET_VOID:
			return value.Nil, nil

		case opcode.RET_ONE:
			return fr.regs[instr.A()], nil

		case opcode.FORPREP:
			target, done := forprep(fr, instr.A())
			if done {
				fr.pc = fr.pc + 1 + instr.SBx()
			} else {
				fr.regs[instr.A()+3] = target
				fr.pc++
			}

		case opcode.FORLOOP:
			cont, next := forloop(fr, instr.A())
			if cont {
				fr.regs[instr.A()+3] = next
				fr.pc = fr.pc + 1 + instr.SBx()
			} else {
				fr.pc++
			}

		case opcode.CLOSURE:
			fr.regs[instr.A()] = th.makeClosure(fr, instr.Bx())
			fr.pc++

		case opcode.NEWOBJECT:
			a, c := instr.A(), instr.C()
			var args []value.Value
			if c > 0 {
				args = append(args, fr.regs[a+1:a+1+c]...)
			}
			v, err := newContainer(instr.B(), args)
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[a] = v
			fr.pc++

		case opcode.GETPROP:
			v, err := getIndex(fr.regs[instr.B()], rk(fr, instr.C()))
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[instr.A()] = v
			fr.pc++

		case opcode.SETPROP:
			if err := setIndex(fr.regs[instr.A()], rk(fr, instr.B()), fr.regs[instr.C()]); err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.pc++

		case opcode.INVOKE:
			// Never emitted: method-call sugar (x:m(...)) is not part of the
			// grammar this compiler implements.
			return nil, th.runtimeErr(fr, fmt.Errorf("vm: INVOKE is not supported"))

		case opcode.YIELD, opcode.RESUME:
			// No coroutine runtime exists in this module.
			return nil, th.runtimeErr(fr, fmt.Errorf("vm: coroutines are not supported"))

		case opcode.VARARG:
			// No vararg syntax exists in this grammar.
			return nil, th.runtimeErr(fr, fmt.Errorf("vm: vararg is not supported"))

		case opcode.BUILTIN:
			a, c := instr.A(), instr.C()
			var args []value.Value
			if c > 0 {
				args = append(args, fr.regs[a+1:a+1+c]...)
			}
			v, err := th.callBuiltin(compiler.BuiltinID(instr.B()), args)
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			fr.regs[a] = v
			fr.pc++

		case opcode.ITER_INIT:
			a := instr.A()
			it, err := iterate(fr.regs[a])
			if err != nil {
				return nil, th.runtimeErr(fr, err)
			}
			var v value.Value
			if it.Next(&v) {
				fr.iterStk = append(fr.iterStk, it)
				fr.regs[a+3] = v
				fr.pc++
			} else {
				it.Done()
				fr.pc = fr.pc + 1 + instr.SBx()
			}

		case opcode.ITER_NEXT:
			a := instr.A()
			it := fr.iterStk[len(fr.iterStk)-1]
			var v value.Value
			if it.Next(&v) {
				fr.regs[a+3] = v
				fr.pc = fr.pc + 1 + instr.SBx()
			} else {
				it.Done()
				fr.iterStk = fr.iterStk[:len(fr.iterStk)-1]
				fr.pc++
			}

		default:
			return nil, th.runtimeErr(fr, fmt.Errorf("vm: unhandled opcode %s", op))
		}
	}
}

// skipOrTake implements the TEST/EQ/LT/LE family's shared convention: the
// instruction is always followed by an unconditional JMP; when cond matches
// want, pc advances onto that JMP (which then executes normally next
// iteration), otherwise pc advances past it entirely.
func skipOrTake(pc int, cond, want bool) int {
	if cond == want {
		return pc + 1
	}
	return pc + 2
}

func compareOp(op opcode.Op, x, y value.Value) (bool, error) {
	switch op {
	case opcode.EQ:
		return value.Equal(x, y)
	case opcode.LT:
		c, err := value.Compare(x, y)
		return c < 0, err
	case opcode.LE:
		c, err := value.Compare(x, y)
		return c <= 0, err
	default:
		return false, fmt.Errorf("vm: not a comparison opcode: %s", op)
	}
}

func binaryOp(op opcode.Op, x, y value.Value) (value.Value, error) {
	switch op {
	case opcode.ADD:
		return value.Add(x, y)
	case opcode.SUB:
		return value.Sub(x, y)
	case opcode.MUL:
		return value.Mul(x, y)
	case opcode.DIV:
		return value.Div(x, y)
	case opcode.IDIV:
		return value.IDiv(x, y)
	case opcode.MOD:
		return value.Mod(x, y)
	case opcode.POW:
		return value.Pow(x, y)
	case opcode.BAND:
		return value.BAnd(x, y)
	case opcode.BOR:
		return value.BOr(x, y)
	case opcode.BXOR:
		return value.BXor(x, y)
	case opcode.SHL:
		return value.Shl(x, y)
	case opcode.SHR:
		return value.Shr(x, y)
	default:
		return nil, fmt.Errorf("vm: not a binary opcode: %s", op)
	}
}

// kOpToPlain and iOpToPlain map the dead *K/*I opcode variants back onto
// their plain counterparts (no peephole pass ever emits ADDK/ADDI and
// friends; these exist only so the opcode table's forward-compatible
// variants have real runtime semantics, not to be exercised by this
// compiler's output).
func kOpToPlain(op opcode.Op) opcode.Op {
	switch op {
	case opcode.ADDK:
		return opcode.ADD
	case opcode.SUBK:
		return opcode.SUB
	case opcode.MULK:
		return opcode.MUL
	case opcode.DIVK:
		return opcode.DIV
	default:
		return op
	}
}

func iOpToPlain(op opcode.Op) opcode.Op {
	switch op {
	case opcode.ADDI:
		return opcode.ADD
	case opcode.SUBI:
		return opcode.SUB
	case opcode.MULI:
		return opcode.MUL
	case opcode.DIVI:
		return opcode.DIV
	default:
		return op
	}
}

// forprep reports the initial loop-variable value and whether the loop
// should run at all, given registers A/A+1/A+2 hold init/limit/step.
func forprep(fr *frame, a int) (init value.Value, done bool) {
	start, limit, step := fr.regs[a], fr.regs[a+1], fr.regs[a+2]
	if !forShouldRun(start, limit, step) {
		return value.Nil, true
	}
	return start, false
}

// forloop advances the loop variable by step and reports whether the loop
// body should run again.
func forloop(fr *frame, a int) (cont bool, next value.Value) {
	cur, limit, step := fr.regs[a], fr.regs[a+1], fr.regs[a+2]
	nv, err := value.Add(cur, step)
	if err != nil {
		return false, value.Nil
	}
	fr.regs[a] = nv
	if !forShouldRun(nv, limit, step) {
		return false, value.Nil
	}
	return true, nv
}

func forShouldRun(cur, limit, step value.Value) bool {
	stepNeg := numNegative(step)
	c, err := value.Compare(cur, limit)
	if err != nil {
		return false
	}
	if stepNeg {
		return c >= 0
	}
	return c <= 0
}

func numNegative(v value.Value) bool {
	switch n := v.(type) {
	case value.Int:
		return n < 0
	case value.Float:
		return n < 0
	default:
		return false
	}
}

// iterate adapts v's Iterate() to the ITER_INIT/ITER_NEXT bracket.
func iterate(v value.Value) (value.Iterator, error) {
	it, ok := v.(value.Iterable)
	if !ok {
		return nil, fmt.Errorf("object of type %s is not iterable", v.Type())
	}
	return it.Iterate(), nil
}

// makeClosure builds a Closure for proto index bx, binding each upvalue per
// its UpvalDesc against the currently executing frame fr:
// InStack upvalues alias one of fr's own registers; others are forwarded
// directly from fr's own closure, sharing the same cell across nesting
// depths.
func (th *Thread) makeClosure(fr *frame, bx int) *Closure {
	proto := fr.proto.Protos[bx]
	upvals := make([]*upvalue, len(proto.Upvalues))
	for i, ud := range proto.Upvalues {
		if ud.InStack {
			upvals[i] = fr.findOrCreateUpvalue(ud.Index)
		} else {
			upvals[i] = fr.closure.upvals[ud.Index]
		}
	}
	return &Closure{proto: proto, upvals: upvals}
}
