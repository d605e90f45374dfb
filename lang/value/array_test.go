package value_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayIndexAndSet(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	v, err := a.Index(1)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)

	require.NoError(t, a.SetIndex(1, value.Int(42)))
	v, _ = a.Index(1)
	assert.Equal(t, value.Int(42), v)
}

func TestArrayIndexOutOfRange(t *testing.T) {
	a := value.NewArray(nil)
	_, err := a.Index(0)
	assert.Error(t, err)
}

func TestArrayAppendAndPop(t *testing.T) {
	a := value.NewArray(nil)
	require.NoError(t, a.Append(value.Int(1)))
	require.NoError(t, a.Append(value.Int(2)))
	assert.Equal(t, 2, a.Len())

	v, err := a.Pop()
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
	assert.Equal(t, 1, a.Len())
}

func TestArrayFrozenRejectsMutation(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1)})
	a.Freeze()
	assert.Error(t, a.Append(value.Int(2)))
	assert.Error(t, a.SetIndex(0, value.Int(9)))
}

func TestArrayIterate(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2)})
	it := a.Iterate()
	defer it.Done()
	var got []value.Value
	var v value.Value
	for it.Next(&v) {
		got = append(got, v)
	}
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2)}, got)
}

func TestSliceViewWritesThrough(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)})
	s := value.NewSlice(a, 1, 2, 3)
	v, err := s.Index(0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)

	require.NoError(t, s.SetIndex(0, value.Int(99)))
	v, _ = a.Index(1)
	assert.Equal(t, value.Int(99), v)
}

func TestRangeLen(t *testing.T) {
	r, err := value.NewRange(0, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	var got []value.Value
	it := r.Iterate()
	var v value.Value
	for it.Next(&v) {
		got = append(got, v)
	}
	assert.Equal(t, []value.Value{value.Int(0), value.Int(1), value.Int(2), value.Int(3), value.Int(4)}, got)
}

func TestDictGetSetDelete(t *testing.T) {
	d := value.NewDict(4)
	require.NoError(t, d.SetKey(value.NewString("a"), value.Int(1)))
	v, ok, err := d.Get(value.NewString("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)

	deleted, err := d.Delete(value.NewString("a"))
	require.NoError(t, err)
	assert.True(t, deleted)
	_, ok, _ = d.Get(value.NewString("a"))
	assert.False(t, ok)
}

func TestDictRejectsUnhashableKey(t *testing.T) {
	d := value.NewDict(1)
	err := d.SetKey(value.NewArray(nil), value.Int(1))
	assert.Error(t, err)
}

func TestVectorIndexAndSet(t *testing.T) {
	v, err := value.NewVectorFrom([]value.Value{value.Int(1), value.Float(2.5)})
	require.NoError(t, err)
	x, err := v.Index(1)
	require.NoError(t, err)
	assert.Equal(t, value.Float(2.5), x)

	require.NoError(t, v.SetIndex(0, value.Int(9)))
	x, _ = v.Index(0)
	assert.Equal(t, value.Float(9), x)
}
