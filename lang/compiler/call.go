package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

// container kind tags for NEWOBJECT's B field.
const (
	ContainerArray = iota
	ContainerDict
	ContainerSlice
	ContainerVector
	ContainerRange
)

// call parses a parenthesized argument list applied to the already-parsed
// callee e, emitting CALL(A=base, B=nargs+1, C=2): B-1 args sit in
// R(A+1)..R(A+B-1), and the single expected result is placed at R(A).
func (p *Parser) call(e expdesc, line int) expdesc {
	fs := p.fs
	fs.exp2nextreg(&e, line)
	base := e.info
	p.expect(token.LPAREN)
	nargs := p.argList()
	pc := fs.emitABC(opcode.CALL, base, nargs+1, 2, false, line)
	fs.freereg = base + 1
	return expdesc{kind: VCALL, info: pc, t: noJump, f: noJump}
}

// argList parses a comma-separated, possibly empty, expression list,
// discharging each into the next free register (so the whole list ends up
// in a contiguous run of registers, as CALL/BUILTIN/NEWOBJECT require),
// and returns how many it placed. The closing ")" has already been
// awaited; this consumes it.
func (p *Parser) argList() int {
	n := 0
	if p.tok != token.RPAREN {
		for {
			e := p.expr()
			p.fs.exp2nextreg(&e, p.line())
			n++
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	return n
}

// builtinCall parses a call to one of the names builtin.go recognizes,
// emitting BUILTIN for the free functions (print, len, type, tostring,
// tonumber, range) or NEWOBJECT for the container constructors (array,
// dict, slice, vector), rather than a global lookup plus CALL.
func (p *Parser) builtinCall(id BuiltinID) expdesc {
	line := p.line()
	p.advance() // consume the builtin's name
	fs := p.fs
	base := fs.reserveRegs(1)
	p.expect(token.LPAREN)
	nargs := p.argList()

	var pc int
	switch id {
	case BuiltinArray:
		pc = fs.emitABC(opcode.NEWOBJECT, base, ContainerArray, nargs, false, line)
	case BuiltinDict:
		pc = fs.emitABC(opcode.NEWOBJECT, base, ContainerDict, nargs, false, line)
	case BuiltinSlice:
		pc = fs.emitABC(opcode.NEWOBJECT, base, ContainerSlice, nargs, false, line)
	case BuiltinVector:
		pc = fs.emitABC(opcode.NEWOBJECT, base, ContainerVector, nargs, false, line)
	default:
		pc = fs.emitABC(opcode.BUILTIN, base, int(id), nargs, false, line)
	}
	fs.freereg = base + 1
	// VCALL, not VNONRELOC: BUILTIN/NEWOBJECT share CALL's "result sits in
	// the instruction's own A field" shape, and marking it VCALL lets a
	// bare builtinCall() stand alone as a statement the same way an
	// ordinary call does.
	return expdesc{kind: VCALL, info: pc, t: noJump, f: noJump}
}
