package compiler

import "github.com/aql-lang/aql/lang/opcode"

// negateCondition flips the polarity bit of the comparison instruction
// immediately preceding a VJMP's JMP, turning "jump when condition is
// false" into "jump when condition is true" or vice versa. Valid only when
// e.info points at a JMP directly following an EQ/LT/LE.
func (fs *FuncState) negateCondition(e *expdesc) {
	i := fs.proto.Code[e.info-1]
	fs.proto.Code[e.info-1] = opcode.MakeABC(i.Op(), i.A(), i.B(), i.C(), !i.K())
}

// jumpOnCond discharges e into a register, emits TEST to check its
// truthiness against cond, and returns the pc of the JMP that follows —
// taken when Truth(R(reg)) == cond.
func (fs *FuncState) jumpOnCond(e *expdesc, cond bool, line int) int {
	reg := fs.exp2anyreg(e, line)
	fs.freeExp(e)
	c := 0
	if cond {
		c = 1
	}
	fs.emitABC(opcode.TEST, reg, 0, c, false, line)
	return fs.jump(line)
}

// goIfTrue prepares e to be used as the condition that continues execution
// (an "and"'s right operand, an if's body): anything that could make the
// expression false is threaded onto e.f, and any pending "true" jumps are
// patched to fall through to here.
func (fs *FuncState) goIfTrue(e *expdesc, line int) {
	fs.dischargeVars(e, line)
	var pc int
	switch e.kind {
	case VJMP:
		fs.negateCondition(e)
		pc = e.info
	case VK, VKFLT, VKINT, VKSTR, VTRUE:
		pc = noJump // always true: never jumps away
	default:
		pc = fs.jumpOnCond(e, false, line)
	}
	e.f = fs.concat(e.f, pc)
	fs.patchToHere(e.t)
	e.t = noJump
}

// goIfFalse is goIfTrue's mirror, used for "or"'s right operand and negated
// conditions.
func (fs *FuncState) goIfFalse(e *expdesc, line int) {
	fs.dischargeVars(e, line)
	var pc int
	switch e.kind {
	case VJMP:
		pc = e.info
	case VNIL, VFALSE:
		pc = noJump
	default:
		pc = fs.jumpOnCond(e, true, line)
	}
	e.t = fs.concat(e.t, pc)
	fs.patchToHere(e.f)
	e.f = noJump
}

// exp2Cond prepares e as a branch condition (if/while), returning the list
// of jumps to take when the condition is false.
func (fs *FuncState) exp2Cond(e *expdesc, line int) int {
	if e.kind == VK || e.kind == VKINT || e.kind == VKFLT || e.kind == VKSTR || e.kind == VTRUE {
		return noJump // constantly true
	}
	fs.goIfTrue(e, line)
	return e.f
}
