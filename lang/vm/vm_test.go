package vm_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/value"
	"github.com/aql-lang/aql/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, *vm.Thread) {
	t.Helper()
	proto, err := compiler.Compile("test.aql", []byte(src))
	require.NoError(t, err)

	var out bytes.Buffer
	th := &vm.Thread{Stdout: &out}
	_, err = th.RunProgram(context.Background(), proto)
	require.NoError(t, err)
	return out.String(), th
}

func TestArithmeticAndPrint(t *testing.T) {
	out, _ := run(t, `
let result = 1 + 2 * 3
print(result)
`)
	assert.Equal(t, "7\n", out)
}

func TestIfElseBranches(t *testing.T) {
	out, _ := run(t, `
let x = 5
let y = 0
if x > 3 {
	y = 1
} elif x > 10 {
	y = 2
} else {
	y = 0
}
print(y)
`)
	assert.Equal(t, "1\n", out)
}

func TestWhileBreak(t *testing.T) {
	out, _ := run(t, `
let i = 0
let sum = 0
while i < 10 {
	sum = sum + i
	i = i + 1
	if i == 5 {
		break
	}
}
print(sum)
`)
	assert.Equal(t, "10\n", out)
}

func TestWhileContinue(t *testing.T) {
	out, _ := run(t, `
let i = 0
let sum = 0
while i < 5 {
	i = i + 1
	if i == 3 {
		continue
	}
	sum = sum + i
}
print(sum)
`)
	// 1 + 2 + 4 + 5, skipping 3
	assert.Equal(t, "12\n", out)
}

func TestNumericForInclusive(t *testing.T) {
	out, _ := run(t, `
let total = 0
for i = 1, 5 {
	total = total + i
}
print(total)
`)
	assert.Equal(t, "15\n", out)
}

func TestNumericForStep(t *testing.T) {
	out, _ := run(t, `
let total = 0
for i = 10, 0, -2 {
	total = total + i
}
print(total)
`)
	// 10 + 8 + 6 + 4 + 2 + 0
	assert.Equal(t, "30\n", out)
}

func TestGenericForOverRangeIsExclusiveOfStop(t *testing.T) {
	out, _ := run(t, `
let s = ""
for c in range(3) {
	s = s + "x"
}
print(s)
`)
	assert.Equal(t, "xxx\n", out)
}

func TestGenericForOverArrayLiteral(t *testing.T) {
	out, _ := run(t, `
let xs = [1, 2, 3, 4]
let total = 0
for v in xs {
	total = total + v
}
print(total)
`)
	assert.Equal(t, "10\n", out)
}

func TestClosureUpvalueCapture(t *testing.T) {
	out, _ := run(t, `
let make_counter = (start) -> {
	count := start
	inc := () -> {
		count = count + 1
		return count
	}
	return inc
}
let c1 = make_counter(10)
print(c1())
print(c1())
print(c1())
`)
	assert.Equal(t, "11\n12\n13\n", out)
}

func TestClosuresDoNotShareSeparateInstances(t *testing.T) {
	out, _ := run(t, `
let make_counter = (start) -> {
	count := start
	inc := () -> {
		count = count + 1
		return count
	}
	return inc
}
let c1 = make_counter(0)
let c2 = make_counter(100)
print(c1())
print(c2())
print(c1())
`)
	assert.Equal(t, "1\n101\n2\n", out)
}

func TestContainerConstructors(t *testing.T) {
	out, _ := run(t, `
let a = array(3)
a[0] = 10
a[1] = 20
a[2] = 30
print(len(a))

let d = dict()
d["x"] = 1
d["y"] = 2
print(len(d))

let v = vector(4)
print(len(v))

let s = slice(a, 1, 3)
print(len(s))
print(s[0])
`)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "3", lines[0])
	assert.Equal(t, "2", lines[1])
	assert.Equal(t, "4", lines[2])
	assert.Equal(t, "2", lines[3])
	assert.Equal(t, "20", lines[4])
}

func TestConcatOperator(t *testing.T) {
	out, _ := run(t, `
let greeting = "hello" .. " " .. "world"
print(greeting)
`)
	assert.Equal(t, "hello world\n", out)
}

func TestGlobalAssignmentRoundTrip(t *testing.T) {
	_, th := run(t, `
counter = 42
print(counter)
`)
	v, found, err := th.Globals.Get(value.NewString("counter"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, value.Int(42), v)
}

func TestDictRoundTrip(t *testing.T) {
	out, _ := run(t, `
let d = dict()
d["name"] = "ada"
print(d["name"])
`)
	assert.Equal(t, "ada\n", out)
}

func TestCompareOperators(t *testing.T) {
	out, _ := run(t, `
print(1 < 2)
print(2 <= 2)
print(3 > 4)
print(3 != 4)
print(3 == 3)
`)
	assert.Equal(t, "true\ntrue\nfalse\ntrue\ntrue\n", out)
}
