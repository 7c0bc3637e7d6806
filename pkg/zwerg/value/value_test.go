package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
)

func TestConstCmp(t *testing.T) {
	a := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 0)
	b := NewConst(constant.New(constant.FromInt64(2), constant.Decimal), 0)

	ord, ok := a.Cmp(b)
	require.True(t, ok)
	assert.Equal(t, Less, ord)

	ord, ok = b.Cmp(a)
	require.True(t, ok)
	assert.Equal(t, Greater, ord)
}

func TestConstCmpAgainstOtherVariantFails(t *testing.T) {
	a := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 0)
	s := NewString("x", 0)
	_, ok := a.Cmp(s)
	assert.False(t, ok)
}

func TestStringShowEscapesAndBriefDoesNot(t *testing.T) {
	s := NewString("a\"b\n", 0)
	assert.Equal(t, `"a\"b\n"`, s.Show(false))
	assert.Equal(t, "a\"b\n", s.Show(true))
}

func TestSequenceCmpLexicographic(t *testing.T) {
	one := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 0)
	two := NewConst(constant.New(constant.FromInt64(2), constant.Decimal), 0)

	short := NewSequence([]Value{one}, 0)
	long := NewSequence([]Value{one, two}, 0)

	ord, ok := short.Cmp(long)
	require.True(t, ok)
	assert.Equal(t, Less, ord)
}

func TestSequenceElem(t *testing.T) {
	one := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 0)
	seq := NewSequence([]Value{one}, 0)

	v, ok := seq.Elem(0)
	require.True(t, ok)
	assert.Equal(t, one, v)

	_, ok = seq.Elem(1)
	assert.False(t, ok)
}

func TestSequenceCloneIsDeep(t *testing.T) {
	one := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 0)
	seq := NewSequence([]Value{one}, 0)
	cloned := seq.Clone().(Sequence)
	cloned.Elems[0] = NewConst(constant.New(constant.FromInt64(99), constant.Decimal), 0)
	assert.NotEqual(t, seq.Elems[0], cloned.Elems[0])
}

func TestWithPosReplacesPosition(t *testing.T) {
	c := NewConst(constant.New(constant.FromInt64(1), constant.Decimal), 5)
	moved := c.WithPos(10)
	assert.Equal(t, uint64(10), moved.Pos())
	assert.Equal(t, uint64(5), c.Pos())
}
