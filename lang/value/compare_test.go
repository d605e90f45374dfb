package value_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualNumbersAcrossKinds(t *testing.T) {
	eq, err := value.Equal(value.Int(5), value.Float(5.0))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualShortStrings(t *testing.T) {
	eq, err := value.Equal(value.NewString("hi"), value.NewString("hi"))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualNil(t *testing.T) {
	eq, err := value.Equal(value.Nil, value.Nil)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualCollectablesByIdentity(t *testing.T) {
	a1 := value.NewArray([]value.Value{value.Int(1)})
	a2 := value.NewArray([]value.Value{value.Int(1)})
	eq, err := value.Equal(a1, a2)
	require.NoError(t, err)
	assert.False(t, eq, "distinct arrays with equal contents are not ==")

	eq, err = value.Equal(a1, a1)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestCompareNumbers(t *testing.T) {
	c, err := value.Compare(value.Int(1), value.Float(2))
	require.NoError(t, err)
	assert.Negative(t, c)
}

func TestLen(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2)})
	n, err := value.Len(a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
