package value_test

import (
	"strings"
	"testing"

	"github.com/aql-lang/aql/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestShortStringInterning(t *testing.T) {
	a := value.NewString("hello")
	b := value.NewString("hello")
	assert.Equal(t, a, b)
}

func TestLongStringNotInterned(t *testing.T) {
	long := strings.Repeat("x", 128)
	a := value.NewString(long)
	b := value.NewString(long)
	assert.Equal(t, a, b, "long strings still compare equal by content")
}

func TestStringIndexAndSlice(t *testing.T) {
	s := value.NewString("hello")
	c, err := s.Index(1)
	assert.NoError(t, err)
	assert.Equal(t, value.String("e"), c)

	sub, err := s.Slice(1, 3)
	assert.NoError(t, err)
	assert.Equal(t, value.String("el"), sub)
}
