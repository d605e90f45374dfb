package compiler

import "github.com/aql-lang/aql/lang/token"

// maybeTernary parses an optional "? then : else" suffix on an
// already-parsed condition expdesc, implementing the ternary operator as a
// postfix form at the lowest precedence. Both branches are
// forced into the same register so the whole construct behaves as a single
// expression regardless of which branch runs.
func (p *Parser) maybeTernary(cond expdesc) expdesc {
	if !p.accept(token.QUEST) {
		return cond
	}
	line := p.line()
	falseList := p.fs.exp2Cond(&cond, line)

	thenExp := p.expr()
	reg := p.fs.exp2nextregKeep(&thenExp, line)
	endJump := p.fs.jump(line)

	p.fs.patchToHere(falseList)
	p.expect(token.COLON)
	elseExp := p.expr()
	p.fs.exp2reg(&elseExp, reg, line)

	p.fs.patchToHere(endJump)
	return expdesc{kind: VNONRELOC, info: reg, t: noJump, f: noJump}
}

// exp2nextregKeep discharges e into the next free register like
// exp2nextreg, but returns that register instead of only mutating e,
// since the ternary needs to remember it for the else branch.
func (fs *FuncState) exp2nextregKeep(e *expdesc, line int) int {
	fs.exp2nextreg(e, line)
	return e.info
}
