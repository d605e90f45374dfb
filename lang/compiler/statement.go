package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

// block parses a sequence of statements up to whatever follows. A
// trailing return is handled specially only in that it must be the last
// statement in the sequence; the grammar otherwise allows any statement.
func (p *Parser) block() {
	for !blockFollow(p.tok) {
		if p.tok == token.RETURN {
			p.returnStat()
			return
		}
		p.statement()
	}
}

func blockFollow(t token.Token) bool {
	switch t {
	case token.EOF, token.RBRACE, token.ELIF, token.ELSE:
		return true
	default:
		return false
	}
}

func (p *Parser) statement() {
	switch p.tok {
	case token.SEMI:
		p.advance()
	case token.LBRACE:
		p.blockStat()
	case token.IF:
		p.ifStat()
	case token.WHILE:
		p.whileStat()
	case token.FOR:
		p.forStat()
	case token.LET:
		p.letStat()
	case token.BREAK:
		p.breakStat()
	case token.CONTINUE:
		p.continueStat()
	case token.RETURN:
		p.returnStat()
	default:
		p.exprStat()
	}
}

// blockStat parses a bare `{ ... }` statement, a fresh lexical scope with
// no loop semantics of its own.
func (p *Parser) blockStat() {
	p.expect(token.LBRACE)
	p.fs.enterBlock(false)
	p.block()
	p.fs.leaveBlock()
	p.expect(token.RBRACE)
}

// letStat parses `let name [: type] = expr`, activating the new local
// only after the RHS is fully compiled.
func (p *Parser) letStat() {
	line := p.line()
	p.advance() // 'let'
	name := p.expectIdent()
	if p.accept(token.COLON) {
		p.expectIdent() // type annotation: unchecked, AQL is dynamically typed
	}
	p.expect(token.ASSIGN)
	e := p.expr()
	p.fs.exp2nextreg(&e, line)
	p.fs.actVars = append(p.fs.actVars, localVar{name: name, reg: e.info})
	p.fs.nactvar++
	p.accept(token.SEMI)
}

func (p *Parser) breakStat() {
	line := p.line()
	p.advance()
	fs := p.fs
	lb := fs.loopBlock()
	if lb == nil {
		p.errorHere("break outside a loop")
		p.accept(token.SEMI)
		return
	}
	if fs.hasUpvalCapture && fs.nactvar > lb.nactvar {
		fs.emitABC(opcode.CLOSE, lb.nactvar, 0, 0, false, line)
	}
	lb.breakList = fs.concat(lb.breakList, fs.jump(line))
	p.accept(token.SEMI)
}

func (p *Parser) continueStat() {
	line := p.line()
	p.advance()
	fs := p.fs
	lb := fs.loopBlock()
	if lb == nil {
		p.errorHere("continue outside a loop")
		p.accept(token.SEMI)
		return
	}
	if fs.hasUpvalCapture && fs.nactvar > lb.nactvar {
		fs.emitABC(opcode.CLOSE, lb.nactvar, 0, 0, false, line)
	}
	lb.continueList = fs.concat(lb.continueList, fs.jump(line))
	p.accept(token.SEMI)
}

// returnStat parses `return [exprlist]`, placing the results in a
// contiguous register run starting at the current register top so
// RET/RET_ONE/RET_VOID can address them directly.
func (p *Parser) returnStat() {
	line := p.line()
	p.advance() // 'return'
	fs := p.fs
	base := fs.freereg
	n := 0
	if !blockFollow(p.tok) && p.tok != token.SEMI {
		n = p.explist()
	}
	switch n {
	case 0:
		fs.emitABC(opcode.RET_VOID, 0, 0, 0, false, line)
	case 1:
		fs.emitABC(opcode.RET_ONE, base, 0, 0, false, line)
	default:
		fs.emitABC(opcode.RET, base, n+1, 0, false, line)
	}
	p.accept(token.SEMI)
}

// explist parses a comma-separated expression list, discharging each
// expression into the next free register, and returns how many it placed.
func (p *Parser) explist() int {
	n := 1
	e := p.expr()
	p.fs.exp2nextreg(&e, p.line())
	for p.accept(token.COMMA) {
		e = p.expr()
		p.fs.exp2nextreg(&e, p.line())
		n++
	}
	return n
}

// exprStat parses a statement beginning with an expression: a `name :=
// expr` declaration, an assignment (plain or compound), or a bare call
// used for its side effects.
func (p *Parser) exprStat() {
	if p.tok == token.IDENT && p.lookahead() == token.WALRUS {
		p.declareStat()
		return
	}

	line := p.line()
	e := p.suffixedExp()
	switch {
	case p.tok == token.ASSIGN:
		if !e.isVarExp() {
			p.errorHere("cannot assign to this expression")
		}
		p.assignStat(e, line)
	case isCompoundAssign(p.tok):
		if !e.isVarExp() {
			p.errorHere("cannot assign to this expression")
		}
		p.compoundAssignStat(e, line)
	default:
		if e.kind != VCALL {
			p.errorHere("expression statement must be a function call")
		}
		p.accept(token.SEMI)
	}
}

// declareStat parses `name := expr`, a local declaration that skips the
// `let` keyword and type annotation.
func (p *Parser) declareStat() {
	name := p.val.Str
	p.advance() // name
	p.advance() // ':='
	line := p.line()
	e := p.expr()
	p.fs.exp2nextreg(&e, line)
	p.fs.actVars = append(p.fs.actVars, localVar{name: name, reg: e.info})
	p.fs.nactvar++
	p.accept(token.SEMI)
}

func (p *Parser) assignStat(lhs expdesc, _ int) {
	p.advance() // '='
	rhs := p.expr()
	p.fs.storevar(&lhs, &rhs, p.line())
	p.accept(token.SEMI)
}

// compoundOp maps a compound-assignment token to the binary operator it
// desugars into: `name OP= expr` compiles as `name = name OP expr`.
// CARETEQ is deliberately absent: CARET itself is a lexed-but-unbound
// token (no binary meaning exists for it to desugar to).
var compoundOp = map[token.Token]token.Token{
	token.PLUSEQ: token.PLUS,
	token.MINUSEQ: token.MINUS,
	token.STAREQ: token.STAR,
	token.SLASHEQ: token.SLASH,
	token.IDIVEQ: token.IDIV,
	token.PERCENTEQ: token.PERCENT,
	token.AMPEQ: token.AMP,
	token.PIPEEQ: token.PIPE,
	token.SHLEQ: token.SHL,
	token.SHREQ: token.SHR,
}

func isCompoundAssign(t token.Token) bool {
	_, ok := compoundOp[t]
	return ok
}

func (p *Parser) compoundAssignStat(lhs expdesc, line int) {
	op := compoundOp[p.tok]
	p.advance() // the OP= token
	rhs := p.expr()

	read := lhs
	p.fs.dischargeVars(&read, line)
	p.fs.posfix(p, op, &read, &rhs, p.line())
	p.fs.storevar(&lhs, &read, p.line())
	p.accept(token.SEMI)
}

// storevar emits the instruction that assigns e's value to lvalue v,
// matching singlevar destinations: a local is a plain
// register move, an upvalue uses SETUPVAL, an indexed lvalue uses SETPROP.
func (fs *FuncState) storevar(v, e *expdesc, line int) {
	switch v.kind {
	case VLOCAL:
		fs.freeExp(e)
		fs.exp2reg(e, v.info, line)
	case VUPVAL:
		reg := fs.exp2anyreg(e, line)
		fs.emitABC(opcode.SETUPVAL, reg, v.info, 0, false, line)
		fs.freeExp(e)
	case VINDEXED:
		rv := fs.exp2RK(e, line)
		fs.emitABC(opcode.SETPROP, v.ind.table, v.ind.key, rv, false, line)
		fs.freeReg(v.ind.table)
	}
}

// ifStat parses `if cond { ... } [elif cond { ... }]* [else { ... }]`.
func (p *Parser) ifStat() {
	p.advance() // 'if'
	endJumps := noJump

	falseList := p.ifCond()
	p.blockStat()
	endJumps = p.fs.concat(endJumps, p.fs.jump(p.line()))
	p.fs.patchToHere(falseList)

	for p.tok == token.ELIF {
		p.advance()
		falseList = p.ifCond()
		p.blockStat()
		endJumps = p.fs.concat(endJumps, p.fs.jump(p.line()))
		p.fs.patchToHere(falseList)
	}

	if p.accept(token.ELSE) {
		p.blockStat()
	}
	p.fs.patchToHere(endJumps)
}

func (p *Parser) ifCond() int {
	cond := p.expr()
	return p.fs.exp2Cond(&cond, p.line())
}

// whileStat parses `while cond { ... }`: re-test the condition at the top,
// break/continue jumps exit to after the loop or back to the condition,
// respectively.
func (p *Parser) whileStat() {
	p.advance() // 'while'
	fs := p.fs
	labelPC := fs.pc()
	cond := p.expr()
	falseList := fs.exp2Cond(&cond, p.line())

	loop := fs.enterBlock(true)
	p.expect(token.LBRACE)
	p.block()
	p.expect(token.RBRACE)

	fs.fixJump(fs.jump(p.line()), labelPC)
	fs.patchListTo(loop.continueList, labelPC)
	fs.leaveBlock()

	fs.patchToHere(falseList)
	fs.patchToHere(loop.breakList)
}

// forStat dispatches between the two `for` forms: numeric
// (`for name = start, stop[, step] { ... }`) and generic
// (`for name in expr { ... }`).
func (p *Parser) forStat() {
	line := p.line()
	p.advance() // 'for'
	name := p.expectIdent()
	switch p.tok {
	case token.ASSIGN:
		p.advance()
		p.numericForStat(name, line)
	case token.IN:
		p.advance()
		p.genericForStat(name, line)
	default:
		p.errorHere("expected '=' or 'in' after for-loop variable")
	}
}

// numericForStat compiles numeric for: four consecutive
// registers (internal-index, limit, step, loop-variable), FORPREP/FORLOOP
// bracketing the body. Step defaults to 1 when omitted.
func (p *Parser) numericForStat(name string, line int) {
	fs := p.fs
	base := fs.freereg
	startE := p.expr()
	fs.exp2nextreg(&startE, line)
	p.expect(token.COMMA)
	stopE := p.expr()
	fs.exp2nextreg(&stopE, line)
	if p.accept(token.COMMA) {
		stepE := p.expr()
		fs.exp2nextreg(&stepE, line)
	} else {
		one := expdesc{kind: VKINT, ival: 1, t: noJump, f: noJump}
		fs.exp2nextreg(&one, line)
	}
	fs.reserveRegs(1) // loop-variable
	p.emitNumericForLoop(base, name, line)
}

// genericForStat compiles `for name in expr { ... }`. It recognizes a
// syntactic `range(...)` specially and lowers straight to a NEWOBJECT
// allocating a *value.Range, so the fast path still avoids a BUILTIN call
// and a global lookup; any expression, range(...) included, then drives
// the loop through the same iterator-protocol bracket (three registers:
// iterable value, state, control), so the loop bound always comes from
// Range's own exclusive-of-stop Iterate() rather than a second,
// independently-maintained bound.
func (p *Parser) genericForStat(name string, line int) {
	if p.tok == token.IDENT && p.val.Str == "range" && p.lookahead() == token.LPAREN {
		p.rangeForStat(name, line)
		return
	}

	fs := p.fs
	base := fs.freereg
	iterE := p.expr()
	fs.exp2nextreg(&iterE, line)
	p.emitIterLoop(base, name, line)
}

// rangeForStat implements the range(...) fast path: unpack 1-3 arguments
// into start/stop/step (defaulting start=0, step=1), emit them as a
// NEWOBJECT(ContainerRange) rather than a BUILTIN call, and drive the
// result through the same iterator-protocol bracket as any other
// `for .. in` iterable.
func (p *Parser) rangeForStat(name string, line int) {
	fs := p.fs
	p.advance() // 'range'
	p.expect(token.LPAREN)
	var args []expdesc
	if p.tok != token.RPAREN {
		args = append(args, p.expr())
		for p.accept(token.COMMA) {
			args = append(args, p.expr())
		}
	}
	p.expect(token.RPAREN)

	if len(args) < 1 || len(args) > 3 {
		p.errorHere("range() takes 1 to 3 arguments")
		return
	}

	base := fs.reserveRegs(1)
	for i := range args {
		fs.exp2nextreg(&args[i], line)
	}
	fs.emitABC(opcode.NEWOBJECT, base, ContainerRange, len(args), false, line)
	fs.freereg = base + 1

	p.emitIterLoop(base, name, line)
}

// emitIterLoop brackets the body with ITER_INIT/ITER_NEXT over the
// iterable value already sitting in register base, reserving base+1 and
// base+2 as the iterator-protocol's state/control scratch registers and
// base+3 as the loop variable. ITER_INIT fetches the first element and,
// if the iterable is already exhausted, jumps past ITER_NEXT to skip the
// body entirely; ITER_NEXT fetches the next element and jumps back to
// just after ITER_INIT, or falls through when the iterator is exhausted.
func (p *Parser) emitIterLoop(base int, name string, line int) {
	fs := p.fs
	state := expdesc{kind: VNIL, t: noJump, f: noJump}
	fs.exp2nextreg(&state, line)
	control := expdesc{kind: VNIL, t: noJump, f: noJump}
	fs.exp2nextreg(&control, line)

	prep := fs.emitAsBx(opcode.ITER_INIT, base, noJump, line)

	loop := fs.enterBlock(true)
	loopVar := fs.reserveRegs(1)
	fs.actVars = append(fs.actVars, localVar{name: name, reg: loopVar})
	fs.nactvar++

	p.expect(token.LBRACE)
	p.block()
	p.expect(token.RBRACE)

	loopPC := fs.emitAsBx(opcode.ITER_NEXT, base, noJump, line)
	fs.fixJump(loopPC, prep+1)
	fs.fixJump(prep, fs.pc())
	fs.patchListTo(loop.continueList, loopPC)

	fs.leaveBlock()
	fs.patchToHere(loop.breakList)
}

// emitNumericForLoop emits the FORPREP/body/FORLOOP bracket for
// numericForStat, given that registers base..base+3 are already populated
// with the loop's internal-index/limit/step/variable.
func (p *Parser) emitNumericForLoop(base int, name string, line int) {
	fs := p.fs
	prep := fs.emitAsBx(opcode.FORPREP, base, noJump, line)

	loop := fs.enterBlock(true)
	fs.actVars = append(fs.actVars, localVar{name: name, reg: base + 3})
	fs.nactvar++

	p.expect(token.LBRACE)
	p.block()
	p.expect(token.RBRACE)

	loopPC := fs.emitAsBx(opcode.FORLOOP, base, noJump, line)
	fs.fixJump(loopPC, prep+1)
	fs.fixJump(prep, fs.pc())
	fs.patchListTo(loop.continueList, loopPC)

	fs.leaveBlock()
	fs.patchToHere(loop.breakList)
}
