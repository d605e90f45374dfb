package opcode_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/opcode"
	"github.com/stretchr/testify/assert"
)

func TestMakeABC(t *testing.T) {
	i := opcode.MakeABC(opcode.ADD, 1, 2, 3, false)
	assert.Equal(t, opcode.ADD, i.Op())
	assert.Equal(t, 1, i.A())
	assert.Equal(t, 2, i.B())
	assert.Equal(t, 3, i.C())
	assert.False(t, i.K())
}

func TestMakeABCWithK(t *testing.T) {
	i := opcode.MakeABC(opcode.GETTABUP, 4, 0, 5, true)
	assert.True(t, i.K())
	assert.Equal(t, 4, i.A())
	assert.Equal(t, 5, i.C())
}

func TestMakeABx(t *testing.T) {
	i := opcode.MakeABx(opcode.LOADK, 7, 12345)
	assert.Equal(t, opcode.LOADK, i.Op())
	assert.Equal(t, 7, i.A())
	assert.Equal(t, 12345, i.Bx())
}

func TestMakeAsBxRoundTrip(t *testing.T) {
	for _, sbx := range []int{0, 1, -1, 1000, -1000, opcode.MaxArgSBx - 1, -opcode.MaxArgSBx} {
		i := opcode.MakeAsBx(opcode.JMP, 0, sbx)
		assert.Equal(t, sbx, i.SBx(), "sbx=%d", sbx)
	}
}

func TestMakeAx(t *testing.T) {
	i := opcode.MakeAx(opcode.EXTRAARG, opcode.MaxArgBx)
	assert.Equal(t, opcode.MaxArgBx, i.Ax())
}

func TestMakeAxCRoundTrip(t *testing.T) {
	for _, sc := range []int{0, 1, -1, 100, -127, 128} {
		i := opcode.MakeAxC(opcode.ADDI, 3, sc)
		assert.Equal(t, 3, i.A())
		assert.Equal(t, sc, i.SC(), "sc=%d", sc)
	}
}

func TestRKEncoding(t *testing.T) {
	reg := 5
	assert.False(t, opcode.IsK(reg))
	assert.Equal(t, reg, opcode.RKIndex(reg))

	k := opcode.RKAsK(10)
	assert.True(t, opcode.IsK(k))
	assert.Equal(t, 10, opcode.RKIndex(k))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "ADD", opcode.ADD.String())
	assert.Equal(t, "FORLOOP", opcode.FORLOOP.String())
}

func TestOpFormat(t *testing.T) {
	assert.Equal(t, opcode.FormatABC, opcode.MOVE.Format())
	assert.Equal(t, opcode.FormatABx, opcode.LOADK.Format())
	assert.Equal(t, opcode.FormatAsBx, opcode.JMP.Format())
	assert.Equal(t, opcode.FormatAx, opcode.EXTRAARG.Format())
	assert.Equal(t, opcode.FormatAxC, opcode.ADDI.Format())
}
