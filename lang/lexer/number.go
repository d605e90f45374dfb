package lexer

import (
	"strconv"

	"github.com/aql-lang/aql/lang/token"
)

// number scans a decimal integer, a decimal float (with '.' or exponent), or
// a hex integer with a 0x/0X prefix. Integer-to-float promotion happens in
// the parser, not here.
func (l *Lexer) number() (tok token.Token, lit string, iv int64, fv float64) {
	start := l.off
	startPos := l.pos()
	tok = token.INT

	hex := false
	if l.cur == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		hex = true
		l.advance() // '0'
		l.advance() // 'x'/'X'
		for isHexDigit(l.cur) {
			l.advance()
		}
	} else {
		for isDigit(l.cur) {
			l.advance()
		}
		if l.cur == '.' {
			tok = token.FLOAT
			l.advance()
			for isDigit(l.cur) {
				l.advance()
			}
		}
		if l.cur == 'e' || l.cur == 'E' {
			tok = token.FLOAT
			l.advance()
			if l.cur == '+' || l.cur == '-' {
				l.advance()
			}
			if !isDigit(l.cur) {
				l.error(l.pos(), "exponent has no digits")
			}
			for isDigit(l.cur) {
				l.advance()
			}
		}
	}

	lit = string(l.src[start:l.off])
	switch tok {
	case token.INT:
		if hex {
			v, err := strconv.ParseUint(lit[2:], 16, 64)
			if err != nil {
				l.error(startPos, "integer literal value out of range")
			}
			iv = int64(v)
		} else {
			v, err := strconv.ParseInt(lit, 10, 64)
			if err != nil {
				l.error(startPos, "integer literal value out of range")
			}
			iv = v
		}
	case token.FLOAT:
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			l.error(startPos, "float literal value out of range")
		}
		fv = v
	}
	return tok, lit, iv, fv
}
