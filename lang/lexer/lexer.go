// Package lexer implements AQL's lexical analyzer: a buffered byte stream
// abstraction turned into a one-token-at-a-time, one-token-lookahead
// stream for the compiler, in the tradition of the Go standard library's
// go/scanner.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aql-lang/aql/lang/token"
)

// Value carries the semantic payload of a token: its source position, its
// raw lexeme, and (for literals) the decoded value. The semantic info is
// logically a union of integer value, float value, or decoded string;
// Go represents it as a struct with the fields that apply to the token
// kind filled in.
type Value struct {
	Raw string
	Pos token.Position
	Int int64
	Float float64
	Str string // decoded string literal content, or identifier text
}

// Lexer tokenizes a single AQL source chunk for the parser to consume.
type Lexer struct {
	filename string
	src []byte
	err func(token.Position, string)

	sb strings.Builder

	cur rune // current character, -1 at EOF
	off int // byte offset of cur
	roff int // offset just past cur

	line, col int // 1-based position of cur
}

// Init prepares l to scan src, a full AQL source chunk identified by
// filename for error messages.
func (l *Lexer) Init(filename string, src []byte, errHandler func(token.Position, string)) {
	l.filename = filename
	l.src = src
	l.err = errHandler
	l.sb.Reset()
	l.off, l.roff = 0, 0
	l.line, l.col = 1, 0
	l.readRune()
}

func (l *Lexer) pos() token.Position {
	return token.Position{Filename: l.filename, Line: l.line, Col: l.col}
}

func (l *Lexer) peekByte() byte {
	if l.roff < len(l.src) {
		return l.src[l.roff]
	}
	return 0
}

// readRune decodes the next rune from src into l.cur without any
// newline/column bookkeeping; advance() is the bookkeeping entrypoint callers
// should use.
func (l *Lexer) readRune() {
	if l.roff >= len(l.src) {
		l.off = len(l.src)
		l.cur = -1
		return
	}
	l.off = l.roff
	r, w := rune(l.src[l.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(l.src[l.roff:])
	}
	l.roff += w
	l.cur = r
}

// advance moves past l.cur, maintaining line/column counters. \r\n and \n\r
// are each treated as a single line terminator, C.
func (l *Lexer) advance() {
	wasCR, wasLF := l.cur == '\r', l.cur == '\n'
	l.readRune()
	if wasCR && l.cur == '\n' || wasLF && l.cur == '\r' {
		// second half of a two-byte terminator: consume it without counting
		// another line.
		l.readRune()
	}
	if wasCR || wasLF {
		l.line++
		l.col = 0
	}
	if l.cur >= 0 {
		l.col++
	}
}

func (l *Lexer) error(pos token.Position, msg string) {
	if l.err != nil {
		l.err(pos, msg)
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args...any) {
	l.error(pos, fmt.Sprintf(format, args...))
}

// advanceIf advances past cur if it matches b, reporting whether it did.
func (l *Lexer) advanceIf(b byte) bool {
	if l.cur == rune(b) {
		l.advance()
		return true
	}
	return false
}

// Next scans and returns the next token.
func (l *Lexer) Next(val *Value) token.Token {
	l.skipSpaceAndComments()

	pos := l.pos()

	switch {
	case isLetter(l.cur):
		lit := l.ident()
		tok := token.LookupKw(lit)
		*val = Value{Raw: lit, Pos: pos}
		if tok == token.IDENT {
			val.Str = lit
		}
		return tok

	case isDigit(l.cur) || (l.cur == '.' && isDigit(rune(l.peekByte()))):
		tok, lit, iv, fv := l.number()
		*val = Value{Raw: lit, Pos: pos, Int: iv, Float: fv}
		return tok

	case l.cur == '"' || l.cur == '\'':
		quote := byte(l.cur)
		l.advance()
		lit, decoded := l.shortString(quote, pos)
		*val = Value{Raw: lit, Pos: pos, Str: decoded}
		return token.STRING
	}

	cur := l.cur
	l.advance()
	switch cur {
	case -1:
		*val = Value{Pos: pos}
		return token.EOF

	case '=':
		if l.advanceIf('=') {
			*val = Value{Raw: "==", Pos: pos}
			return token.EQEQ
		}
		*val = Value{Raw: "=", Pos: pos}
		return token.ASSIGN

	case '!':
		if l.advanceIf('=') {
			*val = Value{Raw: "!=", Pos: pos}
			return token.NEQ
		}
		*val = Value{Raw: "!", Pos: pos}
		return token.BANG

	case '<':
		if l.advanceIf('=') {
			*val = Value{Raw: "<=", Pos: pos}
			return token.LE
		}
		if l.advanceIf('<') {
			if l.advanceIf('=') {
				*val = Value{Raw: "<<=", Pos: pos}
				return token.SHLEQ
			}
			*val = Value{Raw: "<<", Pos: pos}
			return token.SHL
		}
		*val = Value{Raw: "<", Pos: pos}
		return token.LT

	case '>':
		if l.advanceIf('=') {
			*val = Value{Raw: ">=", Pos: pos}
			return token.GE
		}
		if l.advanceIf('>') {
			if l.advanceIf('=') {
				*val = Value{Raw: ">>=", Pos: pos}
				return token.SHREQ
			}
			*val = Value{Raw: ">>", Pos: pos}
			return token.SHR
		}
		*val = Value{Raw: ">", Pos: pos}
		return token.GT

	case '+':
		if l.advanceIf('=') {
			*val = Value{Raw: "+=", Pos: pos}
			return token.PLUSEQ
		}
		*val = Value{Raw: "+", Pos: pos}
		return token.PLUS

	case '-':
		if l.advanceIf('=') {
			*val = Value{Raw: "-=", Pos: pos}
			return token.MINUSEQ
		}
		if l.advanceIf('>') {
			*val = Value{Raw: "->", Pos: pos}
			return token.ARROW
		}
		*val = Value{Raw: "-", Pos: pos}
		return token.MINUS

	case '*':
		if l.advanceIf('*') {
			*val = Value{Raw: "**", Pos: pos}
			return token.POW
		}
		if l.advanceIf('=') {
			*val = Value{Raw: "*=", Pos: pos}
			return token.STAREQ
		}
		*val = Value{Raw: "*", Pos: pos}
		return token.STAR

	case '/':
		if l.advanceIf('/') {
			if l.advanceIf('=') {
				*val = Value{Raw: "//=", Pos: pos}
				return token.IDIVEQ
			}
			*val = Value{Raw: "//", Pos: pos}
			return token.IDIV
		}
		if l.advanceIf('=') {
			*val = Value{Raw: "/=", Pos: pos}
			return token.SLASHEQ
		}
		*val = Value{Raw: "/", Pos: pos}
		return token.SLASH

	case '%':
		if l.advanceIf('=') {
			*val = Value{Raw: "%=", Pos: pos}
			return token.PERCENTEQ
		}
		*val = Value{Raw: "%", Pos: pos}
		return token.PERCENT

	case '&':
		if l.advanceIf('&') {
			*val = Value{Raw: "&&", Pos: pos}
			return token.ANDAND
		}
		if l.advanceIf('=') {
			*val = Value{Raw: "&=", Pos: pos}
			return token.AMPEQ
		}
		*val = Value{Raw: "&", Pos: pos}
		return token.AMP

	case '|':
		if l.advanceIf('|') {
			*val = Value{Raw: "||", Pos: pos}
			return token.OROR
		}
		if l.advanceIf('=') {
			*val = Value{Raw: "|=", Pos: pos}
			return token.PIPEEQ
		}
		*val = Value{Raw: "|", Pos: pos}
		return token.PIPE

	case '^':
		if l.advanceIf('=') {
			*val = Value{Raw: "^=", Pos: pos}
			return token.CARETEQ
		}
		*val = Value{Raw: "^", Pos: pos}
		return token.CARET

	case '~':
		*val = Value{Raw: "~", Pos: pos}
		return token.TILDE

	case '?':
		if l.advanceIf('?') {
			*val = Value{Raw: "??", Pos: pos}
			return token.QQ
		}
		*val = Value{Raw: "?", Pos: pos}
		return token.QUEST

	case ':':
		if l.advanceIf('=') {
			*val = Value{Raw: ":=", Pos: pos}
			return token.WALRUS
		}
		if l.advanceIf(':') {
			*val = Value{Raw: "::", Pos: pos}
			return token.COLONCOLON
		}
		*val = Value{Raw: ":", Pos: pos}
		return token.COLON

	case '.':
		if l.advanceIf('.') {
			if l.advanceIf('.') {
				*val = Value{Raw: "...", Pos: pos}
				return token.DOTDOTDOT
			}
			*val = Value{Raw: "..", Pos: pos}
			return token.DOTDOT
		}
		*val = Value{Raw: ".", Pos: pos}
		return token.DOT

	case '(', ')', '[', ']', '{', '}', ',', ';', '#':
		*val = Value{Raw: string(cur), Pos: pos}
		return token.Token(cur)

	default:
		l.errorf(pos, "illegal character %#U", cur)
		*val = Value{Raw: string(cur), Pos: pos}
		return token.ILLEGAL
	}
}

func (l *Lexer) ident() string {
	start := l.off
	for isLetter(l.cur) || isDigit(l.cur) {
		l.advance()
	}
	return string(l.src[start:l.off])
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		switch {
		case isSpace(l.cur):
			l.advance()
		case l.cur == '/' && l.peekByte() == '/':
			for l.cur != '\n' && l.cur != '\r' && l.cur != -1 {
				l.advance()
			}
		case l.cur == '/' && l.peekByte() == '*':
			pos := l.pos()
			l.advance()
			l.advance()
			l.blockComment(pos)
		default:
			return
		}
	}
}

// blockComment consumes /* ... */. Nesting is not supported, but newlines
// inside are still line-counted (advance() does that for us).
func (l *Lexer) blockComment(start token.Position) {
	for {
		if l.cur == -1 {
			l.error(start, "unterminated block comment")
			return
		}
		if l.cur == '*' && l.peekByte() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f' || r == '\n' || r == '\r'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
	r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}
