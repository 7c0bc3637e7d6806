package builtin

import (
	"io"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

func shuffleBuiltin(name string, kind op.ShuffleOp, doc string) *Builtin {
	return &Builtin{
		Name: name, Doc: doc, Prototype: "(...) -> (...)",
		Cases: []Case{{
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &op.Shuffle{Up: up, Op: kind}
			},
		}},
	}
}

var (
	Drop = shuffleBuiltin("drop", op.Drop, "Discard the top of stack.")
	Swap = shuffleBuiltin("swap", op.Swap, "Swap the top two stack values.")
	Dup  = shuffleBuiltin("dup", op.Dup, "Duplicate the top of stack.")
	Over = shuffleBuiltin("over", op.Over, "Push a copy of the second-from-top value.")
	Rot  = shuffleBuiltin("rot", op.Rot, "Rotate the top three stack values.")
)

var stringSel, stringMask = selectorFor(value.StringTypeCode)
var seqSel, seqMask = selectorFor(value.SequenceTypeCode)

// Length yields the element/byte count of a String or Sequence.
var Length = &Builtin{
	Name: "length", Doc: "Length of a string (in bytes) or a sequence (in elements).", Prototype: "(String|Seq) -> Const",
	Cases: []Case{
		{
			Selector: stringSel, Mask: stringMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &stackFn{up: up, label: "length", apply: func(diag io.Writer, stk *stack.Stack) bool {
					s := stk.Pop().(value.String)
					stk.Push(value.NewConst(constant.New(constant.FromInt64(int64(s.Len())), constant.Decimal), 0))
					return true
				}}
			},
		},
		{
			Selector: seqSel, Mask: seqMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &stackFn{up: up, label: "length", apply: func(diag io.Writer, stk *stack.Stack) bool {
					sq := stk.Pop().(value.Sequence)
					stk.Push(value.NewConst(constant.New(constant.FromInt64(int64(sq.Len())), constant.Decimal), 0))
					return true
				}}
			},
		},
	},
}

// Empty tests a String or Sequence for zero length.
var Empty = &Builtin{
	Name: "empty", Doc: "True if a string or sequence has zero length.", Prototype: "(String|Seq) -> Const(bool)",
	Cases: []Case{
		{
			Selector: stringSel, Mask: stringMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &stackFn{up: up, label: "empty", apply: func(diag io.Writer, stk *stack.Stack) bool {
					s := stk.Pop().(value.String)
					stk.Push(boolConst(s.Len() == 0))
					return true
				}}
			},
			BuildPred: func(l *layout.Layout) op.Predicate { return &emptyPredicate{} },
		},
		{
			Selector: seqSel, Mask: seqMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &stackFn{up: up, label: "empty", apply: func(diag io.Writer, stk *stack.Stack) bool {
					sq := stk.Pop().(value.Sequence)
					stk.Push(boolConst(sq.Len() == 0))
					return true
				}}
			},
			BuildPred: func(l *layout.Layout) op.Predicate { return &emptyPredicate{} },
		},
	},
}

type emptyPredicate struct{}

func (emptyPredicate) Name() string            { return "empty" }
func (emptyPredicate) StateCon(*layout.Scon) {}
func (emptyPredicate) StateDes(*layout.Scon) {}

func (emptyPredicate) Eval(s *layout.Scon, stk *stack.Stack) op.PredResult {
	if stk.Size() == 0 {
		return op.PredFail
	}
	switch v := stk.Top().(type) {
	case value.String:
		if v.Len() == 0 {
			return op.PredYes
		}
		return op.PredNo
	case value.Sequence:
		if v.Len() == 0 {
			return op.PredYes
		}
		return op.PredNo
	default:
		return op.PredFail
	}
}

// Elem indexes into a Sequence: `seq idx elem` pushes the idx-th
// element (0-based), or is a TypeError (reported, skipped) if idx is
// out of range.
var Elem = &Builtin{
	Name: "elem", Doc: "Index a sequence: `seq idx elem` pushes its idx-th element.", Prototype: "(Seq, Const) -> a",
	Cases: []Case{{
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: "elem", apply: func(diag io.Writer, stk *stack.Stack) bool {
				if stk.Size() < 2 {
					writeDiag(diag, "type error", "elem", "needs a sequence and an index")
					return false
				}
				idxV, ok := stk.Pop().(value.Const)
				if !ok {
					writeDiag(diag, "type error", "elem", "index must be a constant")
					return false
				}
				seqV, ok := stk.Pop().(value.Sequence)
				if !ok {
					writeDiag(diag, "type error", "elem", "expected a sequence")
					return false
				}
				idx := int(idxV.C.Val.Value)
				el, ok := seqV.Elem(idx)
				if !ok {
					writeDiag(diag, "type error", "elem", "index out of range")
					return false
				}
				stk.Push(el.Clone())
				return true
			}}
		},
	}},
}

func concatCase(selector, mask uint32, join func(a, b value.Value) value.Value) Case {
	return Case{
		Selector: selector, Mask: mask,
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: "add", apply: func(diag io.Writer, stk *stack.Stack) bool {
				b := stk.Pop()
				a := stk.Pop()
				stk.Push(join(a, b))
				return true
			}}
		},
	}
}

func init() {
	// `add` also concatenates two Strings or two Sequences, in addition
	// to its Const+Const arithmetic case registered in arith.go.
	strStrSel, strStrMask := selectorFor(value.StringTypeCode, value.StringTypeCode)
	Add.Cases = append(Add.Cases, concatCase(strStrSel, strStrMask, func(a, b value.Value) value.Value {
		return value.NewString(a.(value.String).Bytes+b.(value.String).Bytes, 0)
	}))
	seqSeqSel, seqSeqMask := selectorFor(value.SequenceTypeCode, value.SequenceTypeCode)
	Add.Cases = append(Add.Cases, concatCase(seqSeqSel, seqSeqMask, func(a, b value.Value) value.Value {
		as := a.(value.Sequence)
		bs := b.(value.Sequence)
		elems := make([]value.Value, 0, as.Len()+bs.Len())
		elems = append(elems, as.Elems...)
		elems = append(elems, bs.Elems...)
		return value.NewSequence(elems, 0)
	}))
}
