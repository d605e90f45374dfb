package compiler_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpUndumpRoundTrip(t *testing.T) {
	src := `
let x = 1
let y = "hello"
let add = (a, b) -> {
	return a + b
}
if x == 1 {
	x = add(x, 2)
}
`
	proto, err := compiler.Compile("roundtrip.aql", []byte(src))
	require.NoError(t, err)

	data, err := compiler.Dump(proto, false)
	require.NoError(t, err)

	got, err := compiler.Undump(data)
	require.NoError(t, err)

	assert.Equal(t, proto.Code, got.Code)
	assert.Equal(t, proto.Constants, got.Constants)
	assert.Equal(t, proto.NumParams, got.NumParams)
	assert.Equal(t, proto.MaxStackSize, got.MaxStackSize)
	assert.Equal(t, proto.Upvalues, got.Upvalues)
	require.Len(t, got.Protos, len(proto.Protos))
	for i := range proto.Protos {
		assert.Equal(t, proto.Protos[i].Code, got.Protos[i].Code)
		assert.Equal(t, proto.Protos[i].NumParams, got.Protos[i].NumParams)
	}
}

func TestDumpStripOmitsDebugInfo(t *testing.T) {
	proto, err := compiler.Compile("t.aql", []byte("let x = 1"))
	require.NoError(t, err)

	data, err := compiler.Dump(proto, true)
	require.NoError(t, err)

	got, err := compiler.Undump(data)
	require.NoError(t, err)
	assert.Empty(t, got.Source)
	assert.Empty(t, got.Lines)
	assert.Equal(t, proto.Code, got.Code)
}

func TestUndumpRejectsBadSignature(t *testing.T) {
	_, err := compiler.Undump([]byte("not a dump"))
	require.Error(t, err)
}

func TestUndumpRejectsTruncatedData(t *testing.T) {
	proto, err := compiler.Compile("t.aql", []byte("let x = 1"))
	require.NoError(t, err)
	data, err := compiler.Dump(proto, false)
	require.NoError(t, err)

	_, err = compiler.Undump(data[:len(data)-4])
	require.Error(t, err)
}
