package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

var arithOp = map[token.Token]opcode.Op{
	token.PLUS: opcode.ADD,
	token.MINUS: opcode.SUB,
	token.STAR: opcode.MUL,
	token.SLASH: opcode.DIV,
	token.IDIV: opcode.IDIV,
	token.PERCENT: opcode.MOD,
	token.POW: opcode.POW,
	token.AMP: opcode.BAND,
	token.PIPE: opcode.BOR,
	token.TILDE: opcode.BXOR,
	token.SHL: opcode.SHL,
	token.SHR: opcode.SHR,
}

var cmpOp = map[token.Token]opcode.Op{
	token.EQEQ: opcode.EQ,
	token.NEQ: opcode.EQ, // same opcode, negated polarity
	token.LT: opcode.LT,
	token.GE: opcode.LT, // a >= b == not (a < b)
	token.LE: opcode.LE,
	token.GT: opcode.LE, // a > b == not (a <= b)
}

// cmpPolarity reports the k-bit value that makes the
// comparison's natural sense match op: for the "reversed" operators
// (!=, >=, >) this is false, meaning "skip (i.e. behave as jump-if-true)
// when the underlying EQ/LT/LE result differs from what the surface
// operator wants".
func cmpPolarity(op token.Token) bool {
	switch op {
	case token.NEQ, token.GE, token.GT:
		return false
	default:
		return true
	}
}

// posfix applies op to e1 (already parsed) and e2 (the just-parsed right
// operand), mutating e1 in place to hold the result.
func (fs *FuncState) posfix(p *Parser, op token.Token, e1, e2 *expdesc, line int) {
	switch {
	case isAndOp(op):
		// e2's false-list absorbs e1's; e1's true-list was already patched to
		// fall through into e2 by infix's goIfTrue call.
		e2.f = fs.concat(e2.f, e1.f)
		*e1 = *e2
		return
	case isOrOp(op):
		e2.t = fs.concat(e2.t, e1.t)
		*e1 = *e2
		return
	case op == token.DOTDOT:
		fs.codeConcat(e1, e2, line)
		return
	case isComparisonOp(op):
		fs.codeCompare(op, e1, e2, line)
		return
	}

	if foldConst(op, e1, e2) {
		return
	}

	aop, ok := arithOp[op]
	if !ok {
		p.errorHere("unsupported binary operator %s", op)
		return
	}
	rb := fs.exp2RK(e1, line)
	rc := fs.exp2RK(e2, line)
	fs.freeExp(e2)
	fs.freeExp(e1)
	pc := fs.emitABC(aop, 0, rb, rc, false, line)
	*e1 = expdesc{kind: VRELOC, info: pc, t: noJump, f: noJump}
}

// codeConcat emits CONCAT for the `..` operator. Adjacent concatenations
// are folded into registers left-to-right; a fuller implementation would
// chain consecutive `..` operands into a single CONCAT A B C covering
// registers B..C, but this compiler keeps each application binary for
// simplicity.
func (fs *FuncState) codeConcat(e1, e2 *expdesc, line int) {
	r1 := fs.exp2anyreg(e1, line)
	fs.exp2nextreg(e2, line)
	r2 := e2.info
	fs.freeReg(r2)
	fs.freeReg(r1)
	pc := fs.emitABC(opcode.CONCAT, 0, r1, r2, false, line)
	*e1 = expdesc{kind: VRELOC, info: pc, t: noJump, f: noJump}
}

// codeCompare emits EQ/LT/LE plus the JMP it controls, producing a VJMP
// expdesc.
func (fs *FuncState) codeCompare(op token.Token, e1, e2 *expdesc, line int) {
	cop := cmpOp[op]
	rb := fs.exp2RK(e1, line)
	rc := fs.exp2RK(e2, line)
	fs.freeExp(e2)
	fs.freeExp(e1)
	fs.emitABC(cop, 0, rb, rc, cmpPolarity(op), line)
	jpc := fs.jump(line)
	*e1 = expdesc{kind: VJMP, info: jpc, t: noJump, f: noJump}
}

// codeUnary emits UNM/NOT/BNOT/LEN for a unary operator applied to e.
func (fs *FuncState) codeUnary(op token.Token, e *expdesc, line int) {
	switch op {
	case token.MINUS:
		if e.kind == VKINT {
			e.ival = -e.ival
			return
		}
		if e.kind == VKFLT {
			e.fval = -e.fval
			return
		}
		r := fs.exp2anyreg(e, line)
		fs.freeReg(r)
		pc := fs.emitABC(opcode.UNM, 0, r, 0, false, line)
		*e = expdesc{kind: VRELOC, info: pc, t: noJump, f: noJump}
	case token.TILDE:
		r := fs.exp2anyreg(e, line)
		fs.freeReg(r)
		pc := fs.emitABC(opcode.BNOT, 0, r, 0, false, line)
		*e = expdesc{kind: VRELOC, info: pc, t: noJump, f: noJump}
	case token.HASH:
		r := fs.exp2anyreg(e, line)
		fs.freeReg(r)
		pc := fs.emitABC(opcode.LEN, 0, r, 0, false, line)
		*e = expdesc{kind: VRELOC, info: pc, t: noJump, f: noJump}
	case token.NOT:
		fs.codeNot(e, line)
	}
}

// codeNot implements logical "not" by swapping e's true/false jump lists
// and, for values not already boolean-shaped, emitting TEST.
func (fs *FuncState) codeNot(e *expdesc, line int) {
	fs.dischargeVars(e, line)
	switch e.kind {
	case VNIL, VFALSE:
		e.kind = VTRUE
	case VK, VKINT, VKFLT, VKSTR, VTRUE:
		e.kind = VFALSE
	case VJMP:
		fs.negateCondition(e)
	default:
		r := fs.exp2anyreg(e, line)
		fs.freeReg(r)
		fs.emitABC(opcode.TEST, r, 0, 0, false, line)
		jpc := fs.jump(line)
		*e = expdesc{kind: VJMP, info: jpc, t: noJump, f: noJump}
		return
	}
	e.t, e.f = e.f, e.t
}
