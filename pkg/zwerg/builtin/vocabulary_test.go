package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
)

func TestVocabularyAddAndLookup(t *testing.T) {
	v := NewVocabulary()
	require.NoError(t, v.Add(Add))

	b, ok := v.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, "add", b.Name)
}

func TestVocabularyLookupMissingReturnsFalse(t *testing.T) {
	v := NewVocabulary()
	_, ok := v.Lookup("nope")
	assert.False(t, ok)
}

func TestVocabularyAddAppendsOverloadsOfSameName(t *testing.T) {
	v := NewVocabulary()
	require.NoError(t, v.Add(Length))

	extra := &Builtin{
		Name: "length", Doc: "extra overload", Prototype: "(Const) -> Const",
		Cases: []Case{{
			Selector: unarySelector, Mask: unaryMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator { return up },
		}},
	}
	require.NoError(t, v.Add(extra))

	b, _ := v.Lookup("length")
	assert.Len(t, b.Cases, 3)
}

func TestVocabularyAddRejectsCollidingSelector(t *testing.T) {
	v := NewVocabulary()
	require.NoError(t, v.Add(Add))

	dup := &Builtin{
		Name: "add", Doc: "duplicate overload over the same stack shape",
		Cases: []Case{{
			Selector: constSelector, Mask: constMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator { return up },
		}},
	}
	err := v.Add(dup)
	assert.Error(t, err)
}

func TestVocabularyMergeCombinesTwoVocabularies(t *testing.T) {
	a := NewVocabulary()
	require.NoError(t, a.Add(Add))

	b := NewVocabulary()
	require.NoError(t, b.Add(Sub))

	require.NoError(t, a.Merge(b))

	_, ok := a.Lookup("add")
	assert.True(t, ok)
	_, ok = a.Lookup("sub")
	assert.True(t, ok)
}

func TestVocabularyNamesListsAll(t *testing.T) {
	v := NewVocabulary()
	require.NoError(t, v.Add(Add))
	require.NoError(t, v.Add(Sub))

	names := v.Names()
	assert.ElementsMatch(t, []string{"add", "sub"}, names)
}

func TestCoreRegistersArithmeticAndComparison(t *testing.T) {
	v := Core()
	for _, name := range []string{"add", "sub", "mul", "div", "mod", "neg", "and", "or", "xor", "not", "bit",
		"eq", "lt", "gt", "ne", "ge", "le", "==", "!=", "<", "<=", ">", ">=",
		"drop", "swap", "dup", "over", "rot", "length", "empty", "elem", "pos", "match"} {
		_, ok := v.Lookup(name)
		assert.True(t, ok, "expected core vocabulary to register %q", name)
	}
}

func TestBuiltinBuildExecSingleUnmaskedCaseSkipsOverload(t *testing.T) {
	l := layout.New()
	entry := op.NewOrigin(l)
	got := Drop.BuildExec(l, entry)
	// a single Mask==0 case wires directly rather than through op.Overload.
	_, isOverload := got.(*op.Overload)
	assert.False(t, isOverload)
}

func TestBuiltinBuildExecMultipleCasesWiresOverload(t *testing.T) {
	l := layout.New()
	entry := op.NewOrigin(l)
	got := Length.BuildExec(l, entry)
	_, isOverload := got.(*op.Overload)
	assert.True(t, isOverload)
}

func TestBuiltinBuildPredORsMultipleCases(t *testing.T) {
	l := layout.New()
	pred, ok := Empty.BuildPred(l)
	require.True(t, ok)
	_, isOr := pred.(*op.PredOr)
	assert.True(t, isOr)
}

func TestBuiltinBuildPredFalseWhenNoCaseSupportsIt(t *testing.T) {
	l := layout.New()
	_, ok := Add.BuildPred(l)
	assert.False(t, ok)
}

func TestBoolConstShow(t *testing.T) {
	assert.Equal(t, "true", boolConst(true).Show(true))
	assert.Equal(t, "false", boolConst(false).Show(true))
}
