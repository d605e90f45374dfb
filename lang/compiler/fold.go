package compiler

import (
	"github.com/aql-lang/aql/lang/token"
	"github.com/aql-lang/aql/lang/value"
)

// foldConst attempts compile-time constant folding of e1 op e2: applies
// only when both operands are VKINT/VKFLT and the
// operation is not a division-by-zero or a bitwise op on floats. On
// success it replaces e1 in place and returns true, emitting no
// instruction. It reuses the runtime's own arithmetic (lang/value) so
// folded results can never disagree with unfolded ones.
func foldConst(op token.Token, e1, e2 *expdesc) bool {
	if !isConstNumber(e1) || !isConstNumber(e2) {
		return false
	}
	if isBitwiseOp(op) && (e1.kind == VKFLT || e2.kind == VKFLT) {
		return false // bitwise ops on floats are a runtime error, not foldable
	}
	v1 := constToValue(e1)
	v2 := constToValue(e2)

	var result value.Value
	var err error
	switch op {
	case token.SLASH, token.IDIV, token.PERCENT:
		if isZero(v2) {
			return false // let the runtime raise the division-by-zero error
		}
		fallthrough
	default:
		result, err = value.Binary(op, v1, v2)
	}
	if err != nil || result == nil {
		return false
	}

	switch r := result.(type) {
	case value.Int:
		e1.kind, e1.ival = VKINT, int64(r)
	case value.Float:
		e1.kind, e1.fval = VKFLT, float64(r)
	default:
		return false
	}
	return true
}

func isConstNumber(e *expdesc) bool { return e.kind == VKINT || e.kind == VKFLT }

func isBitwiseOp(op token.Token) bool {
	switch op {
	case token.AMP, token.PIPE, token.TILDE, token.SHL, token.SHR:
		return true
	default:
		return false
	}
}

func isZero(v value.Value) bool {
	switch n := v.(type) {
	case value.Int:
		return n == 0
	case value.Float:
		return n == 0
	default:
		return false
	}
}

func constToValue(e *expdesc) value.Value {
	if e.kind == VKINT {
		return value.Int(e.ival)
	}
	return value.Float(e.fval)
}
