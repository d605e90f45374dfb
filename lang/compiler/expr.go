package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

// expr parses a full expression, including its optional trailing ternary.
func (p *Parser) expr() expdesc {
	e := p.subexpr(0)
	return p.maybeTernary(e)
}

// subexpr implements operator-precedence climb: parse a
// unary-or-simple prefix, then repeatedly fold in binary operators whose
// left priority exceeds limit.
func (p *Parser) subexpr(limit int) expdesc {
	var e expdesc
	if isUnaryOp(p.tok) {
		op := p.tok
		line := p.line()
		p.advance()
		e = p.subexpr(unaryPriority)
		p.fs.codeUnary(op, &e, line)
	} else {
		e = p.simpleExp()
	}

	for {
		pri, ok := binPriority[p.tok]
		if !ok || pri.left <= limit {
			break
		}
		op := p.tok
		line := p.line()
		p.advance()

		switch {
		case isAndOp(op):
			p.fs.goIfTrue(&e, line)
		case isOrOp(op):
			p.fs.goIfFalse(&e, line)
		}

		e2 := p.subexpr(pri.right)
		p.fs.posfix(p, op, &e, &e2, line)
	}
	return e
}

// simpleExp parses a literal or a suffixed (primary) expression.
func (p *Parser) simpleExp() expdesc {
	line := p.line()
	switch p.tok {
	case token.INT:
		v := p.val.Int
		p.advance()
		return expdesc{kind: VKINT, ival: v, t: noJump, f: noJump}
	case token.FLOAT:
		v := p.val.Float
		p.advance()
		return expdesc{kind: VKFLT, fval: v, t: noJump, f: noJump}
	case token.STRING:
		v := p.val.Str
		p.advance()
		return expdesc{kind: VKSTR, sval: v, t: noJump, f: noJump}
	case token.NIL:
		p.advance()
		return expdesc{kind: VNIL, t: noJump, f: noJump}
	case token.TRUE:
		p.advance()
		return expdesc{kind: VTRUE, t: noJump, f: noJump}
	case token.FALSE:
		p.advance()
		return expdesc{kind: VFALSE, t: noJump, f: noJump}
	case token.LBRACK:
		return p.arrayLit()
	default:
		_ = line
		return p.suffixedExp()
	}
}

// arrayLit parses the `[e, e,...]` array literal lists
// directly in the expression grammar, lowering it to a NEWOBJECT(array)
// whose elements sit in the registers immediately following the result,
// the same argument-run convention builtinCall uses for array(n) etc.
func (p *Parser) arrayLit() expdesc {
	line := p.line()
	p.advance() // '['
	fs := p.fs
	base := fs.reserveRegs(1)
	n := 0
	if p.tok != token.RBRACK {
		for {
			e := p.expr()
			fs.exp2nextreg(&e, p.line())
			n++
			if !p.accept(token.COMMA) || p.tok == token.RBRACK {
				break
			}
		}
	}
	p.expect(token.RBRACK)
	fs.emitABC(opcode.NEWOBJECT, base, ContainerArray, n, false, line)
	fs.freereg = base + 1
	return expdesc{kind: VNONRELOC, info: base, t: noJump, f: noJump}
}

// primaryExp parses a parenthesized expression or a bare name.
func (p *Parser) primaryExp() expdesc {
	switch p.tok {
	case token.LPAREN:
		if p.looksLikeFuncLit() {
			return p.funcLit()
		}
		p.advance()
		e := p.expr()
		p.expect(token.RPAREN)
		// A parenthesized expression is truncated to one value even if it
		// came from a multi-result call; discharge now to drop extras.
		if e.kind == VCALL {
			p.fs.dischargeVars(&e, p.line())
		}
		return e
	case token.IDENT:
		name := p.val.Str
		p.advance()
		return p.singlevar(name)
	default:
		p.errorHere("unexpected %s, expected expression", p.tok)
		p.advance()
		return voidExp()
	}
}

// suffixedExp parses a primary expression followed by any chain of
// .name, [expr], and (args) suffixes.
func (p *Parser) suffixedExp() expdesc {
	if p.tok == token.IDENT {
		if id, ok := lookupBuiltin(p.val.Str); ok {
			if _, shadowed := p.fs.resolveLocal(p.val.Str); !shadowed {
				if _, shadowed = p.fs.resolveUpvalNoCreate(p.val.Str); !shadowed {
					if p.lookahead() == token.LPAREN {
						return p.builtinCall(id)
					}
				}
			}
		}
	}

	e := p.primaryExp()
	for {
		line := p.line()
		switch p.tok {
		case token.DOT:
			p.advance()
			name := p.expectIdent()
			e = p.indexWithKey(e, strConst(name), line)
		case token.LBRACK:
			p.advance()
			key := p.expr()
			p.expect(token.RBRACK)
			e = p.indexWithExp(e, key, line)
		case token.LPAREN:
			e = p.call(e, line)
		default:
			return e
		}
	}
}

// indexWithKey builds a VINDEXED expdesc for e[k] where k is a compile-time
// constant key (a.f desugars to a["f"]).
func (p *Parser) indexWithKey(e expdesc, k Constant, line int) expdesc {
	fs := p.fs
	fs.dischargeVars(&e, line)
	base := fs.exp2anyreg(&e, line)
	key := opcode.RKAsK(fs.addK(k))
	return expdesc{kind: VINDEXED, ind: indexedDesc{table: base, key: key}, t: noJump, f: noJump}
}

// indexWithExp builds a VINDEXED expdesc for e[key] where key is an
// arbitrary expression.
func (p *Parser) indexWithExp(e, key expdesc, line int) expdesc {
	fs := p.fs
	fs.dischargeVars(&e, line)
	base := fs.exp2anyreg(&e, line)
	rk := fs.exp2RK(&key, line)
	return expdesc{kind: VINDEXED, ind: indexedDesc{table: base, key: rk}, t: noJump, f: noJump}
}

// resolveUpvalNoCreate reports whether name already resolves to an
// upvalue, without creating a new one as a side effect (used only to test
// whether a builtin name is shadowed).
func (fs *FuncState) resolveUpvalNoCreate(name string) (int, bool) {
	for i, uv := range fs.proto.Upvalues {
		if uv.Name == name {
			return i, true
		}
	}
	return 0, false
}
