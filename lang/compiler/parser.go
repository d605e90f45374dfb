package compiler

import (
	"fmt"

	"github.com/aql-lang/aql/lang/lexer"
	"github.com/aql-lang/aql/lang/token"
)

// Error is a compile-time error with source position, covering both
// lexical and syntactic failures surfaced during a single compiler pass.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// ErrorList collects every Error raised while compiling one chunk.
type ErrorList []*Error

func (el *ErrorList) Add(pos token.Position, msg string) {
	*el = append(*el, &Error{Pos: pos, Msg: msg})
}

func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
	}
}

// Parser drives AQL's single-pass parse+codegen: it holds a one-token
// lookahead buffer over the Lexer and the FuncState for the function
// currently being compiled, D.
type Parser struct {
	lex lexer.Lexer
	errs ErrorList
	filename string

	tok token.Token
	val lexer.Value
	ahead token.Token
	aval lexer.Value
	hasAhead bool

	fs *FuncState
}

// newParser initializes a Parser over src and primes the one-token
// lookahead.
func newParser(filename string, src []byte) *Parser {
	p := &Parser{filename: filename}
	p.lex.Init(filename, src, func(pos token.Position, msg string) {
			p.errs.Add(pos, msg)
		})
	p.advance()
	return p
}

func (p *Parser) error(pos token.Position, format string, args...any) {
	p.errs.Add(pos, fmt.Sprintf(format, args...))
}

func (p *Parser) errorHere(format string, args...any) {
	p.error(p.val.Pos, format, args...)
}

func (p *Parser) line() int { return p.val.Pos.Line }

// advance consumes the current token and reads the next one (or pulls it
// from the lookahead buffer if lookahead() was already called).
func (p *Parser) advance() {
	if p.hasAhead {
		p.tok, p.val = p.ahead, p.aval
		p.hasAhead = false
		return
	}
	p.tok = p.lex.Next(&p.val)
}

// lookahead peeks at the token after the current one without consuming it.
func (p *Parser) lookahead() token.Token {
	if !p.hasAhead {
		p.ahead = p.lex.Next(&p.aval)
		p.hasAhead = true
	}
	return p.ahead
}

func (p *Parser) at(tok token.Token) bool { return p.tok == tok }

// accept consumes the current token and returns true if it matches tok.
func (p *Parser) accept(tok token.Token) bool {
	if p.tok == tok {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token, reporting an error if it does not
// match tok.
func (p *Parser) expect(tok token.Token) lexer.Value {
	v := p.val
	if p.tok != tok {
		p.errorHere("expected %s, found %s", tok, p.tok)
	} else {
		p.advance()
	}
	return v
}

func (p *Parser) expectIdent() string {
	if p.tok != token.IDENT {
		p.errorHere("expected identifier, found %s", p.tok)
		return ""
	}
	name := p.val.Str
	p.advance()
	return name
}
