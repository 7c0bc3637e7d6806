package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

func constVal(n int64) value.Value {
	return value.NewConst(constant.New(constant.FromInt64(n), constant.Decimal), 0)
}

func TestPushPopTopOrder(t *testing.T) {
	s := New()
	s.Push(constVal(1))
	s.Push(constVal(2))

	assert.Equal(t, 2, s.Size())
	assert.Equal(t, constVal(2), s.Top())

	popped := s.Pop()
	assert.Equal(t, constVal(2), popped)
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, constVal(1), s.Top())
}

func TestGetByDepth(t *testing.T) {
	s := New()
	s.Push(constVal(10))
	s.Push(constVal(20))
	s.Push(constVal(30))

	assert.Equal(t, constVal(30), s.Get(0))
	assert.Equal(t, constVal(20), s.Get(1))
	assert.Equal(t, constVal(10), s.Get(2))
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Push(constVal(1))
	clone := s.Clone()
	clone.Push(constVal(2))

	assert.Equal(t, 1, s.Size())
	assert.Equal(t, 2, clone.Size())
}

func TestProfilePacksTopFourTypeCodes(t *testing.T) {
	s := New()
	s.Push(constVal(1))
	s.Push(value.NewString("x", 0))

	p := s.Profile()
	// low byte is TOS: the String's type code.
	assert.Equal(t, uint32(value.StringTypeCode), p&0xff)
	assert.Equal(t, uint32(value.ConstTypeCode), (p>>8)&0xff)
}

func TestDepthCapsAtFour(t *testing.T) {
	s := New()
	for i := 0; i < 6; i++ {
		s.Push(constVal(int64(i)))
	}
	assert.Equal(t, 4, s.Depth())
}

func TestDepthUnderFour(t *testing.T) {
	s := New()
	s.Push(constVal(1))
	assert.Equal(t, 1, s.Depth())
}

func TestPopPanicsOnEmpty(t *testing.T) {
	s := New()
	require.Panics(t, func() { s.Pop() })
}
