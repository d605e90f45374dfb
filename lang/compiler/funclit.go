package compiler

import (
	"github.com/aql-lang/aql/lang/lexer"
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

// parserCheckpoint snapshots the parser's lexical state (lexer plus
// lookahead buffer) so looksLikeFuncLit can probe ahead and rewind without
// disturbing the real parse. It must never be taken across anything that
// emits bytecode or touches FuncState: codegen is single-pass and cannot be
// undone, only tokenizing can.
type parserCheckpoint struct {
	lex lexer.Lexer
	tok token.Token
	val lexer.Value
	ahead token.Token
	aval lexer.Value
	hasAhead bool
}

func (p *Parser) snapshot() parserCheckpoint {
	return parserCheckpoint{p.lex, p.tok, p.val, p.ahead, p.aval, p.hasAhead}
}

func (p *Parser) restore(cp parserCheckpoint) {
	p.lex, p.tok, p.val, p.ahead, p.aval, p.hasAhead =
	cp.lex, cp.tok, cp.val, cp.ahead, cp.aval, cp.hasAhead
}

// looksLikeFuncLit reports whether the tokens starting at the current "("
// form a function-literal parameter list followed by "->", as opposed to a
// plain parenthesized expression. It consumes nothing permanently: every token
// read during the probe is rewound before returning.
func (p *Parser) looksLikeFuncLit() bool {
	cp := p.snapshot()
	defer p.restore(cp)

	if p.tok != token.LPAREN {
		return false
	}
	p.advance()
	if p.tok != token.RPAREN {
		if p.tok != token.IDENT {
			return false
		}
		p.advance()
		for p.tok == token.COMMA {
			p.advance()
			if p.tok != token.IDENT {
				return false
			}
			p.advance()
		}
		if p.tok != token.RPAREN {
			return false
		}
	}
	p.advance() // consume ")"
	return p.tok == token.ARROW
}

// funcLit parses a function literal `(name,...) -> { block }`, the one
// grammar rule built on ARROW, a token the lexer carries with no other
// assigned meaning. It opens a nested FuncState for the body, then emits
// CLOSURE in the enclosing function binding the new prototype.
func (p *Parser) funcLit() expdesc {
	line := p.line()
	p.expect(token.LPAREN)
	var params []string
	if p.tok != token.RPAREN {
		params = append(params, p.expectIdent())
		for p.accept(token.COMMA) {
			params = append(params, p.expectIdent())
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)

	enclosing := p.fs
	fs := p.openFunc(enclosing, false)
	for _, name := range params {
		fs.newLocal(name)
	}
	fs.proto.NumParams = len(params)

	p.expect(token.LBRACE)
	p.block()
	p.expect(token.RBRACE)

	proto := p.closeFunc()

	protoIdx := len(enclosing.proto.Protos)
	enclosing.proto.Protos = append(enclosing.proto.Protos, proto)
	reg := enclosing.reserveRegs(1)
	enclosing.emitABx(opcode.CLOSURE, reg, protoIdx, line)
	return expdesc{kind: VNONRELOC, info: reg, t: noJump, f: noJump}
}
