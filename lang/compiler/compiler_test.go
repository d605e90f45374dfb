package compiler_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Proto {
	t.Helper()
	proto, err := compiler.Compile("test.aql", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, proto)
	return proto
}

func opsOf(proto *compiler.Proto) []opcode.Op {
	ops := make([]opcode.Op, len(proto.Code))
	for i, instr := range proto.Code {
		ops[i] = instr.Op()
	}
	return ops
}

func TestCompileEmptyChunk(t *testing.T) {
	proto := mustCompile(t, "")
	assert.Equal(t, []opcode.Op{opcode.RET_VOID}, opsOf(proto))
	require.Len(t, proto.Upvalues, 1)
	assert.Equal(t, "_ENV", proto.Upvalues[0].Name)
	assert.True(t, proto.Upvalues[0].InStack)
}

func TestConstantFoldingArithmetic(t *testing.T) {
	proto := mustCompile(t, "let x = 1 + 2 * 3")
	for _, instr := range proto.Code {
		op := instr.Op()
		assert.NotEqual(t, opcode.ADD, op)
		assert.NotEqual(t, opcode.MUL, op)
	}
}

func TestConstantFoldingDeclinesDivisionByZero(t *testing.T) {
	proto := mustCompile(t, "let x = 1 / 0")
	var found bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.DIV {
			found = true
		}
	}
	assert.True(t, found, "division by a literal zero must stay a runtime DIV, not a folded error")
}

func TestConstantPoolDedup(t *testing.T) {
	proto := mustCompile(t, `let x = "same"
let y = "same"`)
	count := 0
	for _, c := range proto.Constants {
		if c.Kind == compiler.ConstString && c.Str == "same" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGlobalAssignmentGoesThroughEnv(t *testing.T) {
	proto := mustCompile(t, "g = 1")
	var sawSetprop bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.SETPROP {
			sawSetprop = true
		}
	}
	assert.True(t, sawSetprop)
}

func TestIfElifElseCompiles(t *testing.T) {
	proto := mustCompile(t, `
let x = 1
if x == 1 {
	x = 2
} elif x == 2 {
	x = 3
} else {
	x = 4
}
`)
	var sawJMP, sawEQ bool
	for _, instr := range proto.Code {
		switch instr.Op() {
		case opcode.JMP:
			sawJMP = true
		case opcode.EQ:
			sawEQ = true
		}
	}
	assert.True(t, sawJMP)
	assert.True(t, sawEQ)
}

func TestWhileLoopCompilesWithBreakAndContinue(t *testing.T) {
	proto := mustCompile(t, `
let i = 0
while i < 10 {
	if i == 5 {
		break
	}
	i = i + 1
	continue
}
`)
	var jumps int
	for _, instr := range proto.Code {
		if instr.Op().IsJump() {
			jumps++
		}
	}
	assert.Greater(t, jumps, 0)
}

func TestNumericForCompiles(t *testing.T) {
	proto := mustCompile(t, `
for i = 0, 10 {
	let x = i
}
`)
	var sawPrep, sawLoop bool
	for _, instr := range proto.Code {
		switch instr.Op() {
		case opcode.FORPREP:
			sawPrep = true
		case opcode.FORLOOP:
			sawLoop = true
		}
	}
	assert.True(t, sawPrep)
	assert.True(t, sawLoop)
}

func TestNumericForDefaultStepIsOne(t *testing.T) {
	proto := mustCompile(t, `
for i = 0, 10 {
	let x = i
}
`)
	prep := -1
	for pc, instr := range proto.Code {
		if instr.Op() == opcode.FORPREP {
			prep = pc
			break
		}
	}
	require.Greater(t, prep, 0)
	// Default step 1 is loaded via LOADI (an immediate) into the step
	// register right before FORPREP, not through the constant pool.
	step := proto.Code[prep-1]
	assert.Equal(t, opcode.LOADI, step.Op())
	assert.Equal(t, proto.Code[prep].A()+2, step.A())
	assert.Equal(t, 1, step.SBx())
}

func TestRangeForLowersToNewObjectNotBuiltin(t *testing.T) {
	proto := mustCompile(t, `
for i in range(10) {
	let x = i
}
`)
	var sawNewObject, sawIterInit, sawRangeBuiltin bool
	for _, instr := range proto.Code {
		switch instr.Op() {
		case opcode.NEWOBJECT:
			sawNewObject = true
		case opcode.ITER_INIT:
			sawIterInit = true
		case opcode.BUILTIN:
			sawRangeBuiltin = true
		}
	}
	assert.True(t, sawNewObject, "range(...) in a for-in head must allocate a Range via NEWOBJECT")
	assert.True(t, sawIterInit, "range(...) in a for-in head must drive the loop through ITER_INIT/ITER_NEXT")
	assert.False(t, sawRangeBuiltin, "range(...) lowering must not go through the BUILTIN call path")
}

func TestGenericForInUsesIterProtocol(t *testing.T) {
	proto := mustCompile(t, `
for v in some_iterable {
	let x = v
}
`)
	var sawInit, sawNext bool
	for _, instr := range proto.Code {
		switch instr.Op() {
		case opcode.ITER_INIT:
			sawInit = true
		case opcode.ITER_NEXT:
			sawNext = true
		}
	}
	assert.True(t, sawInit)
	assert.True(t, sawNext)
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	proto := mustCompile(t, `
let x = 1
x += 2
`)
	var sawAdd bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.ADD {
			sawAdd = true
		}
	}
	assert.True(t, sawAdd)
}

func TestWalrusDeclaresLocal(t *testing.T) {
	proto := mustCompile(t, `
x := 1
x = x + 1
`)
	var sawAdd bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.ADD {
			sawAdd = true
		}
	}
	assert.True(t, sawAdd)
}

func TestTernaryCompiles(t *testing.T) {
	proto := mustCompile(t, "let x = 1 == 1 ? 10 : 20")
	var sawLoadTrue, sawLoadFalse bool
	_ = proto
	for _, instr := range proto.Code {
		switch instr.Op() {
		case opcode.LOADTRUE:
			sawLoadTrue = true
		case opcode.LOADFALSE:
			sawLoadFalse = true
		}
	}
	// The ternary's own branches use LOADI for 10/20, not booleans; this
	// just asserts the chunk compiled without error (done via mustCompile)
	// and that no stray boolean-materialization leaked from the `==` used
	// as the ternary's condition expression.
	assert.False(t, sawLoadTrue && sawLoadFalse)
}

func TestFunctionLiteralEmitsClosure(t *testing.T) {
	proto := mustCompile(t, `
let add = (a, b) -> {
	return a + b
}
`)
	require.Len(t, proto.Protos, 1)
	nested := proto.Protos[0]
	assert.Equal(t, 2, nested.NumParams)

	var sawClosure bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.CLOSURE {
			sawClosure = true
		}
	}
	assert.True(t, sawClosure)
}

func TestFunctionLiteralCapturesUpvalue(t *testing.T) {
	proto := mustCompile(t, `
let base = 10
let addBase = (x) -> {
	return x + base
}
`)
	require.Len(t, proto.Protos, 1)
	nested := proto.Protos[0]
	require.Len(t, nested.Upvalues, 1)
	assert.Equal(t, "base", nested.Upvalues[0].Name)
	assert.True(t, nested.Upvalues[0].InStack)
}

func TestArrayLiteralEmitsNewObject(t *testing.T) {
	proto := mustCompile(t, "let xs = [1, 2, 3]")
	var sawNewObject bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.NEWOBJECT {
			sawNewObject = true
		}
	}
	assert.True(t, sawNewObject)
}

func TestContainerConstructorCalls(t *testing.T) {
	proto := mustCompile(t, `
let a = array(4)
let d = dict()
let v = vector(8)
`)
	count := 0
	for _, instr := range proto.Code {
		if instr.Op() == opcode.NEWOBJECT {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestBuiltinCallEmitsBuiltinOpcode(t *testing.T) {
	proto := mustCompile(t, `print("hi")`)
	var sawBuiltin bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.BUILTIN {
			sawBuiltin = true
		}
	}
	assert.True(t, sawBuiltin)
}

func TestOrdinaryCallEmitsCall(t *testing.T) {
	proto := mustCompile(t, `
let f = (x) -> {
	return x
}
f(1)
`)
	var sawCall bool
	for _, instr := range proto.Code {
		if instr.Op() == opcode.CALL {
			sawCall = true
		}
	}
	assert.True(t, sawCall)
}

func TestBareExpressionStatementMustBeCall(t *testing.T) {
	_, err := compiler.Compile("test.aql", []byte("1 + 1"))
	require.Error(t, err)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, err := compiler.Compile("test.aql", []byte("break"))
	require.Error(t, err)
}
