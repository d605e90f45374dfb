package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
)

// expKind identifies how an expdesc's value is currently held: not yet
// materialized into any register (a constant, a local slot, an upvalue, a
// pending comparison), or already sitting in one. The parser carries an
// expdesc around while it still has freedom to choose where the value
// lands — e.g. an argument expression is discharged straight into the next
// call register rather than a scratch one.
type expKind uint8

const (
	VVOID expKind = iota // no value
	VNIL // nil constant
	VTRUE // true constant
	VFALSE // false constant
	VKINT // info holds an int64 constant not yet in the pool
	VKFLT // info holds a float64 constant not yet in the pool
	VKSTR // info holds a string constant not yet in the pool
	VK // info is an index into the constant pool
	VLOCAL // info is the register of a local variable
	VUPVAL // info is an upvalue index
	VINDEXED // table is in ind.table, key in ind.key (RK-encoded)
	VJMP // info is the pc of a pending test+jump (boolean result)
	VRELOC // info is the pc of an instruction whose A field is unset
	VNONRELOC // info is a register already holding the value
	VCALL // info is the pc of a CALL instruction (possibly multi-result)
)

type indexedDesc struct {
	table int // register
	key int // RK-encoded operand
}

// expdesc describes an expression mid-compile: its kind, payload, and the
// true/false jump-patch lists a boolean context (if/while/and/or) will
// thread through it.
type expdesc struct {
	kind expKind
	ival int64
	fval float64
	sval string
	info int // register, upvalue index, constant index, or pc, per kind
	ind indexedDesc
	t, f int // patch lists: jumps to take when true / when false
}

func voidExp() expdesc { return expdesc{kind: VVOID, t: noJump, f: noJump} }

func (e *expdesc) hasJumps() bool { return e.t != e.f }

// isVarExp reports whether e names a variable or index expression.
func (e *expdesc) isVarExp() bool {
	switch e.kind {
	case VLOCAL, VUPVAL, VINDEXED:
		return true
	default:
		return false
	}
}

// dischargeVars turns a variable- or call-shaped expdesc into a concrete
// value: a local is relabeled VNONRELOC (it's already in its register), an
// upvalue or indexed read emits a GETUPVAL/GETTABUP/GETPROP into a pending
// (VRELOC) instruction, and a finished CALL becomes VNONRELOC in its first
// result register.
func (fs *FuncState) dischargeVars(e *expdesc, line int) {
	switch e.kind {
	case VLOCAL:
		e.kind = VNONRELOC
	case VUPVAL:
		pc := fs.emitABC(opcode.GETUPVAL, 0, e.info, 0, false, line)
		e.kind, e.info = VRELOC, pc
	case VINDEXED:
		pc := fs.emitABC(opcode.GETPROP, 0, e.ind.table, e.ind.key, false, line)
		e.kind, e.info = VRELOC, pc
	case VCALL:
		e.kind, e.info = VNONRELOC, fs.proto.Code[e.info].A()
	}
}

// setOneResultA patches the pending instruction's (or allocates a fresh
// register for a VNONRELOC/VJMP) destination register to reg.
func (fs *FuncState) setOneResultA(e *expdesc, reg int) {
	switch e.kind {
	case VRELOC:
		i := fs.proto.Code[e.info]
		fs.proto.Code[e.info] = opcode.MakeABC(i.Op(), reg, i.B(), i.C(), i.K())
	case VNONRELOC:
		if reg != e.info {
			fs.emitABC(opcode.MOVE, reg, e.info, 0, false, fs.lastLine)
		}
	}
	e.kind, e.info = VNONRELOC, reg
}

// dischargeToReg forces e's value into register reg, for kinds that do not
// need a boolean materialization pass (use exp2reg for that).
func (fs *FuncState) dischargeToReg(e *expdesc, reg int, line int) {
	fs.dischargeVars(e, line)
	switch e.kind {
	case VNIL:
		fs.emitABC(opcode.LOADNIL, reg, 0, 0, false, line)
	case VTRUE:
		fs.emitABC(opcode.LOADTRUE, reg, 0, 0, false, line)
	case VFALSE:
		fs.emitABC(opcode.LOADFALSE, reg, 0, 0, false, line)
	case VKINT:
		fs.emitAsBx(opcode.LOADI, reg, int(e.ival), line)
	case VKFLT:
		k := fs.addK(fltConst(e.fval))
		fs.emitABx(opcode.LOADK, reg, k, line)
	case VKSTR:
		k := fs.addK(strConst(e.sval))
		fs.emitABx(opcode.LOADK, reg, k, line)
	case VK:
		fs.emitABx(opcode.LOADK, reg, e.info, line)
	case VRELOC, VNONRELOC:
		fs.setOneResultA(e, reg)
		return
	default:
		return
	}
	e.kind, e.info = VNONRELOC, reg
}

// exp2reg fully materializes e into register reg, also resolving any
// pending true/false jump lists into the canonical "load boolean, skip
// next instr" sequence the VM's TEST/TESTSET opcodes expect.
func (fs *FuncState) exp2reg(e *expdesc, reg int, line int) {
	fs.dischargeToReg(e, reg, line)
	if e.kind == VJMP {
		e.t = fs.concat(e.t, e.info)
	}
	if e.hasJumps() {
		// Materialize the jump lists as an explicit load-bool sequence. A
		// "condition false" jump lands on LOADFALSE (whose B flag skips the
		// following LOADTRUE), and a "condition true" jump lands directly on
		// LOADTRUE. A pending comparison (VJMP) falls through into LOADFALSE
		// when false; any other kind already placed its value in reg, so fj
		// skips the pair entirely.
		fj := noJump
		if e.kind != VJMP {
			fj = fs.jump(line)
		}
		falsePC := fs.emitABC(opcode.LOADFALSE, reg, 1, 0, false, line)
		truePC := fs.emitABC(opcode.LOADTRUE, reg, 0, 0, false, line)
		fs.patchToHere(fj)
		fs.patchListTo(e.t, truePC)
		fs.patchListTo(e.f, falsePC)
	}
	e.t, e.f = noJump, noJump
	e.kind, e.info = VNONRELOC, reg
}

// exp2anyreg ensures e's value is in some register and returns it,
// allocating a fresh one only if necessary.
func (fs *FuncState) exp2anyreg(e *expdesc, line int) int {
	fs.dischargeVars(e, line)
	if e.kind == VNONRELOC && !e.hasJumps() {
		return e.info
	}
	reg := fs.reserveRegs(1)
	fs.exp2reg(e, reg, line)
	return reg
}

// exp2nextreg discharges e into the next free register, consuming it.
func (fs *FuncState) exp2nextreg(e *expdesc, line int) {
	fs.dischargeVars(e, line)
	fs.freeExp(e)
	reg := fs.reserveRegs(1)
	fs.exp2reg(e, reg, line)
}

// freeExp releases the register(s) e currently occupies, if any, so they
// can be reused, keeping freereg tight against the top of the active
// register stack.
func (fs *FuncState) freeExp(e *expdesc) {
	if e.kind == VNONRELOC {
		fs.freeReg(e.info)
	}
}

// exp2RK returns an RK-encoded operand for e: a constant-pool index with
// the high bit set if e is a literal, or a register otherwise.
func (fs *FuncState) exp2RK(e *expdesc, line int) int {
	switch e.kind {
	case VKINT:
		return opcode.RKAsK(fs.addK(intConst(e.ival)))
	case VKFLT:
		return opcode.RKAsK(fs.addK(fltConst(e.fval)))
	case VKSTR:
		return opcode.RKAsK(fs.addK(strConst(e.sval)))
	case VK:
		if e.info <= opcode.MaxIndexRK {
			return opcode.RKAsK(e.info)
		}
	}
	return fs.exp2anyreg(e, line)
}
