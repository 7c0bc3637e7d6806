package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAssignsDistinctSlots(t *testing.T) {
	l := New()
	a := l.Reserve()
	b := l.Reserve()
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, l.Size())
}

func TestBranchStartsFromParentFrontier(t *testing.T) {
	l := New()
	l.Reserve()
	branch := l.Branch()
	branch.Reserve()
	branch.Reserve()
	// the branch's own reservations don't affect the parent until Merge.
	assert.Equal(t, 1, l.Size())
	assert.Equal(t, 3, branch.Size())
}

func TestMergeAdvancesPastLargestBranch(t *testing.T) {
	l := New()
	l.Reserve()

	thenBranch := l.Branch()
	thenBranch.Reserve()
	thenBranch.Reserve()

	elseBranch := l.Branch()
	elseBranch.Reserve()

	l.Merge(thenBranch, elseBranch)
	assert.Equal(t, 3, l.Size())
}

func TestSconConstructGetDestroy(t *testing.T) {
	l := New()
	loc := l.Reserve()
	s := NewScon(l)

	Construct(s, loc, 42)
	v, ok := Get[int](s, loc)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	Destroy(s, loc)
	_, ok = Get[int](s, loc)
	assert.False(t, ok)
}

func TestSconSetOverwritesWithoutTeardownBookkeeping(t *testing.T) {
	l := New()
	loc := l.Reserve()
	s := NewScon(l)

	Construct(s, loc, 1)
	Set(s, loc, 2)
	v, ok := Get[int](s, loc)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSconCloseRunsTeardownInLIFOOrder(t *testing.T) {
	l := New()
	locA := l.Reserve()
	locB := l.Reserve()
	s := NewScon(l)

	var order []string
	ConstructWithTeardown(s, locA, "a", func() { order = append(order, "a") })
	ConstructWithTeardown(s, locB, "b", func() { order = append(order, "b") })

	s.Close()
	assert.Equal(t, []string{"b", "a"}, order)

	_, ok := Get[string](s, locA)
	assert.False(t, ok)
	_, ok = Get[string](s, locB)
	assert.False(t, ok)
}

func TestSconDiagDefaultsToDiscard(t *testing.T) {
	l := New()
	s := NewScon(l)
	n, err := s.Diag().Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
