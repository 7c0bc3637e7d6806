package simplifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/tree"
)

func constNode(v uint64) *tree.Node {
	return &tree.Node{Kind: tree.KindConst, ConstValue: v}
}

func TestSimplifyFlattensNestedCat(t *testing.T) {
	inner := &tree.Node{Kind: tree.KindCat, Children: []*tree.Node{constNode(1), constNode(2)}}
	outer := &tree.Node{Kind: tree.KindCat, Children: []*tree.Node{inner, constNode(3)}}

	got := Simplify(outer)
	require.Equal(t, tree.KindCat, got.Kind)
	require.Len(t, got.Children, 3)
}

func TestSimplifyDropsNopFromCat(t *testing.T) {
	n := &tree.Node{Kind: tree.KindCat, Children: []*tree.Node{
		{Kind: tree.KindNop}, constNode(1), {Kind: tree.KindNop},
	}}
	got := Simplify(n)
	assert.Equal(t, tree.KindConst, got.Kind)
}

func TestSimplifyKeepsNopInAlt(t *testing.T) {
	n := &tree.Node{Kind: tree.KindAlt, Children: []*tree.Node{
		constNode(1), {Kind: tree.KindNop},
	}}
	got := Simplify(n)
	require.Equal(t, tree.KindAlt, got.Kind)
	require.Len(t, got.Children, 2)
	assert.Equal(t, tree.KindNop, got.Children[1].Kind)
}

func TestSimplifyCollapsesSingletonAlt(t *testing.T) {
	n := &tree.Node{Kind: tree.KindAlt, Children: []*tree.Node{constNode(1)}}
	got := Simplify(n)
	assert.Equal(t, tree.KindConst, got.Kind)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	n := &tree.Node{Kind: tree.KindCat, Children: []*tree.Node{
		{Kind: tree.KindCat, Children: []*tree.Node{constNode(1), {Kind: tree.KindNop}}},
		constNode(2),
	}}
	once := Simplify(n)
	twice := Simplify(once)
	assert.Equal(t, once, twice)
}

func TestSimplifyScopeKeepsBodyEvenWhenNop(t *testing.T) {
	bind := &tree.Node{Kind: tree.KindBind, Name: "x", Children: []*tree.Node{constNode(1)}}
	scope := &tree.Node{Kind: tree.KindScope, Children: []*tree.Node{bind, {Kind: tree.KindNop}}}
	got := Simplify(scope)
	require.Equal(t, tree.KindScope, got.Kind)
	require.Len(t, got.Children, 2)
	assert.Equal(t, tree.KindNop, got.Children[1].Kind)
}

func TestSimplifyNilIsNil(t *testing.T) {
	assert.Nil(t, Simplify(nil))
}
