package compiler

import "github.com/aql-lang/aql/lang/token"

const unaryPriority = 12

type opPriority struct{ left, right int }

// binPriority is the operator precedence table. Power and concat are
// right-associative (right < left); everything else is left-associative.
var binPriority = map[token.Token]opPriority{
	token.STAR: {11, 11},
	token.SLASH: {11, 11},
	token.IDIV: {11, 11},
	token.PERCENT: {11, 11},

	token.PLUS: {10, 10},
	token.MINUS: {10, 10},

	token.DOTDOT: {9, 8},

	token.SHL: {7, 7},
	token.SHR: {7, 7},

	token.AMP: {6, 6},

	token.TILDE: {5, 5},

	token.PIPE: {4, 4},

	token.EQEQ: {3, 3},
	token.NEQ: {3, 3},
	token.LT: {3, 3},
	token.LE: {3, 3},
	token.GT: {3, 3},
	token.GE: {3, 3},

	token.ANDAND: {2, 2},
	token.AND: {2, 2},

	token.OROR: {1, 1},
	token.OR: {1, 1},

	token.POW: {14, 13},
}

func isAndOp(tok token.Token) bool { return tok == token.ANDAND || tok == token.AND }
func isOrOp(tok token.Token) bool { return tok == token.OROR || tok == token.OR }

// isComparisonOp reports whether tok is one of == != < <= > >=, the set
// that lowers to EQ/LT/LE plus a following JMP.
func isComparisonOp(tok token.Token) bool {
	switch tok {
	case token.EQEQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		return true
	default:
		return false
	}
}

func isUnaryOp(tok token.Token) bool {
	switch tok {
	case token.MINUS, token.NOT, token.TILDE, token.HASH:
		return true
	default:
		return false
	}
}
