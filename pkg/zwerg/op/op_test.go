package op

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

func intVal(n int64) value.Value {
	return value.NewConst(constant.New(constant.FromInt64(n), constant.Decimal), 0)
}

// drive pulls every stack an operator yields, given one seed stack fed
// through entry.
func drive(t *testing.T, l *layout.Layout, entry *Origin, root Operator, seed *stack.Stack) []*stack.Stack {
	t.Helper()
	s := layout.NewScon(l)
	root.StateCon(s)
	defer root.StateDes(s)
	entry.Set(s, seed)

	var out []*stack.Stack
	for {
		stk, ok := root.Next(s)
		if !ok {
			break
		}
		out = append(out, stk)
	}
	return out
}

func TestAltRoundRobinsBranches(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	branchA := Branch{Origin: NewOrigin(l)}
	branchA.Root = &Const{Up: branchA.Origin, Val: intVal(1)}
	branchB := Branch{Origin: NewOrigin(l)}
	branchB.Root = &Const{Up: branchB.Origin, Val: intVal(2)}

	alt := NewAlt(l, entry, []Branch{branchA, branchB})

	out := drive(t, l, entry, alt, stack.New())
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].Top().Show(true))
	assert.Equal(t, "2", out[1].Top().Show(true))
}

func TestShuffleDup(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	sh := &Shuffle{Up: entry, Op: Dup}

	seed := stack.New()
	seed.Push(intVal(5))

	out := drive(t, l, entry, sh, seed)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Size())
	assert.Equal(t, "5", out[0].Top().Show(true))
	assert.Equal(t, "5", out[0].Get(1).Show(true))
}

func TestShuffleSwap(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	sh := &Shuffle{Up: entry, Op: Swap}

	seed := stack.New()
	seed.Push(intVal(1))
	seed.Push(intVal(2))

	out := drive(t, l, entry, sh, seed)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Top().Show(true))
	assert.Equal(t, "2", out[0].Get(1).Show(true))
}

func TestShuffleDropUnderflowSkips(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	sh := &Shuffle{Up: entry, Op: Drop}

	s := layout.NewScon(l)
	var diag bytes.Buffer
	s.SetDiag(&diag)
	sh.StateCon(s)
	defer sh.StateDes(s)
	entry.Set(s, stack.New())

	_, ok := sh.Next(s)
	assert.False(t, ok)
	assert.Contains(t, diag.String(), "type error")
	assert.Contains(t, diag.String(), "drop")
}

func TestShuffleRotRotatesThirdToTop(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	sh := &Shuffle{Up: entry, Op: Rot}

	seed := stack.New()
	seed.Push(intVal(1))
	seed.Push(intVal(2))
	seed.Push(intVal(3))

	out := drive(t, l, entry, sh, seed)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Top().Show(true))
	assert.Equal(t, "3", out[0].Get(1).Show(true))
	assert.Equal(t, "2", out[0].Get(2).Show(true))
}

func TestOriginYieldsOnceThenExhausts(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	s := layout.NewScon(l)
	entry.StateCon(s)
	defer entry.StateDes(s)

	entry.Set(s, stack.New())
	_, ok := entry.Next(s)
	require.True(t, ok)

	_, ok = entry.Next(s)
	assert.False(t, ok)
}

func TestEmptyListPushesZeroLengthSequence(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	e := &EmptyList{Up: entry}

	out := drive(t, l, entry, e, stack.New())
	require.Len(t, out, 1)
	seq := out[0].Top().(value.Sequence)
	assert.Equal(t, 0, seq.Len())
}

// fixedPredicate always evaluates to a fixed PredResult, for isolating
// IfElse/Assert behavior from any particular builtin predicate.
type fixedPredicate struct{ result PredResult }

func (p *fixedPredicate) Name() string            { return "fixed" }
func (p *fixedPredicate) StateCon(*layout.Scon) {}
func (p *fixedPredicate) StateDes(*layout.Scon) {}
func (p *fixedPredicate) Eval(*layout.Scon, *stack.Stack) PredResult { return p.result }

func TestIfElseTakesThenBranchOnYes(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	then := Branch{Origin: NewOrigin(l)}
	then.Root = &Const{Up: then.Origin, Val: intVal(100)}
	els := Branch{Origin: NewOrigin(l)}
	els.Root = &Const{Up: els.Origin, Val: intVal(200)}

	ie := NewIfElse(l, entry, &fixedPredicate{result: PredYes}, then, &els)

	out := drive(t, l, entry, ie, stack.New())
	require.Len(t, out, 1)
	assert.Equal(t, "100", out[0].Top().Show(true))
}

func TestIfElseTakesElseBranchOnNo(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	then := Branch{Origin: NewOrigin(l)}
	then.Root = &Const{Up: then.Origin, Val: intVal(100)}
	els := Branch{Origin: NewOrigin(l)}
	els.Root = &Const{Up: els.Origin, Val: intVal(200)}

	ie := NewIfElse(l, entry, &fixedPredicate{result: PredNo}, then, &els)

	out := drive(t, l, entry, ie, stack.New())
	require.Len(t, out, 1)
	assert.Equal(t, "200", out[0].Top().Show(true))
}

func TestIfElseMissingElseIsIdentityOnNo(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	then := Branch{Origin: NewOrigin(l)}
	then.Root = &Const{Up: then.Origin, Val: intVal(100)}

	ie := NewIfElse(l, entry, &fixedPredicate{result: PredNo}, then, nil)

	seed := stack.New()
	seed.Push(intVal(7))
	out := drive(t, l, entry, ie, seed)
	require.Len(t, out, 1)
	assert.Equal(t, "7", out[0].Top().Show(true))
}

func TestIfElseFailTreatedAsNo(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	then := Branch{Origin: NewOrigin(l)}
	then.Root = &Const{Up: then.Origin, Val: intVal(100)}

	ie := NewIfElse(l, entry, &fixedPredicate{result: PredFail}, then, nil)

	seed := stack.New()
	seed.Push(intVal(7))
	out := drive(t, l, entry, ie, seed)
	require.Len(t, out, 1)
	assert.Equal(t, "7", out[0].Top().Show(true))
}

func TestAssertFiltersOnYesAndSkipsNo(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	a := &Assert{Up: entry, Pred: &fixedPredicate{result: PredNo}}

	seed := stack.New()
	seed.Push(intVal(1))
	out := drive(t, l, entry, a, seed)
	assert.Len(t, out, 0)
}

func TestAssertReportsFailAsDiagnosticAndSkips(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)
	a := &Assert{Up: entry, Pred: &fixedPredicate{result: PredFail}}

	s := layout.NewScon(l)
	var diag bytes.Buffer
	s.SetDiag(&diag)
	a.StateCon(s)
	defer a.StateDes(s)

	seed := stack.New()
	seed.Push(intVal(1))
	entry.Set(s, seed)

	_, ok := a.Next(s)
	assert.False(t, ok)
	assert.Contains(t, diag.String(), "predicate failure")
}

func TestPredOrShortCircuitsOnYes(t *testing.T) {
	p := &PredOr{A: &fixedPredicate{result: PredYes}, B: &fixedPredicate{result: PredFail}}
	assert.Equal(t, PredYes, p.Eval(nil, nil))
}

func TestPredOrPropagatesFailWhenNeitherYes(t *testing.T) {
	p := &PredOr{A: &fixedPredicate{result: PredNo}, B: &fixedPredicate{result: PredFail}}
	assert.Equal(t, PredFail, p.Eval(nil, nil))
}

func TestAndShortCircuitsOnNo(t *testing.T) {
	p := &And{A: &fixedPredicate{result: PredNo}, B: &fixedPredicate{result: PredFail}}
	assert.Equal(t, PredNo, p.Eval(nil, nil))
}

func TestNotInvertsYesAndNo(t *testing.T) {
	assert.Equal(t, PredNo, (&Not{P: &fixedPredicate{result: PredYes}}).Eval(nil, nil))
	assert.Equal(t, PredYes, (&Not{P: &fixedPredicate{result: PredNo}}).Eval(nil, nil))
	assert.Equal(t, PredFail, (&Not{P: &fixedPredicate{result: PredFail}}).Eval(nil, nil))
}

func TestOverloadDispatchesByStackProfile(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	constCase := OverloadCase{
		Selector: uint32(value.ConstTypeCode),
		Mask:     0xff,
		Entry:    NewOrigin(l),
	}
	constCase.Root = &Const{Up: constCase.Entry, Val: intVal(1)}

	stringCase := OverloadCase{
		Selector: uint32(value.StringTypeCode),
		Mask:     0xff,
		Entry:    NewOrigin(l),
	}
	stringCase.Root = &Const{Up: stringCase.Entry, Val: intVal(2)}

	ov := NewOverload(l, entry, "test", []OverloadCase{constCase, stringCase})

	seed := stack.New()
	seed.Push(value.NewString("x", 0))
	out := drive(t, l, entry, ov, seed)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].Top().Show(true))
}

func TestOverloadNoMatchReportsTypeErrorAndSkips(t *testing.T) {
	l := layout.New()
	entry := NewOrigin(l)

	constCase := OverloadCase{
		Selector: uint32(value.ConstTypeCode),
		Mask:     0xff,
		Entry:    NewOrigin(l),
	}
	constCase.Root = &Const{Up: constCase.Entry, Val: intVal(1)}

	ov := NewOverload(l, entry, "test", []OverloadCase{constCase})

	s := layout.NewScon(l)
	var diag bytes.Buffer
	s.SetDiag(&diag)
	ov.StateCon(s)
	defer ov.StateDes(s)

	seed := stack.New()
	seed.Push(value.NewString("x", 0))
	entry.Set(s, seed)

	_, ok := ov.Next(s)
	assert.False(t, ok)
	assert.Contains(t, diag.String(), "type error")
}
