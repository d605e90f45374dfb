package value_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIntWraps(t *testing.T) {
	r, err := value.Add(value.Int(1<<63-1), value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, value.Int(-1<<63), r)
}

func TestAddPromotesToFloat(t *testing.T) {
	r, err := value.Add(value.Int(1), value.Float(2.5))
	require.NoError(t, err)
	assert.Equal(t, value.Float(3.5), r)
}

func TestAddConcatenatesStrings(t *testing.T) {
	r, err := value.Add(value.NewString("a"), value.NewString("b"))
	require.NoError(t, err)
	assert.Equal(t, value.NewString("ab"), r)
}

func TestDivAlwaysFloat(t *testing.T) {
	r, err := value.Div(value.Int(4), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Float(2), r)
}

func TestDivByZero(t *testing.T) {
	_, err := value.Div(value.Int(1), value.Int(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division")
}

func TestIDivByZero(t *testing.T) {
	_, err := value.IDiv(value.Int(1), value.Int(0))
	require.Error(t, err)
}

func TestIDivModRoundTrip(t *testing.T) {
	for _, pair := range [][2]int64{{7, 2}, {-7, 2}, {7, -2}, {-7, -2}} {
		a, b := pair[0], pair[1]
		q, err := value.IDiv(value.Int(a), value.Int(b))
		require.NoError(t, err)
		m, err := value.Mod(value.Int(a), value.Int(b))
		require.NoError(t, err)
		got := int64(q.(value.Int))*b + int64(m.(value.Int))
		assert.Equal(t, a, got, "a=%d b=%d", a, b)
	}
}

func TestModByZero(t *testing.T) {
	_, err := value.Mod(value.Int(1), value.Int(0))
	require.Error(t, err)
}

func TestPowAlwaysFloat(t *testing.T) {
	r, err := value.Pow(value.Int(2), value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.Float(8), r)
}

func TestShiftOutOfRangeIsZero(t *testing.T) {
	r, err := value.Shl(value.Int(1), value.Int(100))
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), r)
}
