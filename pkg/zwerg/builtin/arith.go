package builtin

import (
	"io"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

var constSelector, constMask = selectorFor(value.ConstTypeCode, value.ConstTypeCode)

// checkedBinary builds the single Case shared by add/sub/mul/div/mod:
// pop b (TOS) then a, compute via fn, and on success push the result;
// an ArithmeticError (overflow or division by zero) is reported to the
// diagnostics sink and the candidate is skipped, per spec.md section 7.
func checkedBinary(name string, fn func(diag io.Writer, a, b constant.Constant) (constant.Constant, error)) Case {
	return Case{
		Selector: constSelector,
		Mask:     constMask,
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: name, apply: func(diag io.Writer, stk *stack.Stack) bool {
				b := stk.Pop().(value.Const)
				a := stk.Pop().(value.Const)
				r, err := fn(diag, a.C, b.C)
				if err != nil {
					writeDiag(diag, "arithmetic error", name, err.Error())
					return false
				}
				stk.Push(value.NewConst(r, 0))
				return true
			}}
		},
	}
}

func bitwiseBinary(name string, fn func(a, b constant.Constant) constant.Constant) Case {
	return Case{
		Selector: constSelector,
		Mask:     constMask,
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: name, apply: func(diag io.Writer, stk *stack.Stack) bool {
				b := stk.Pop().(value.Const)
				a := stk.Pop().(value.Const)
				stk.Push(value.NewConst(fn(a.C, b.C), 0))
				return true
			}}
		},
	}
}

var unarySelector, unaryMask = selectorFor(value.ConstTypeCode)

func unary(name string, fn func(diag io.Writer, a constant.Constant) (constant.Constant, error)) Case {
	return Case{
		Selector: unarySelector,
		Mask:     unaryMask,
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: name, apply: func(diag io.Writer, stk *stack.Stack) bool {
				a := stk.Pop().(value.Const)
				r, err := fn(diag, a.C)
				if err != nil {
					writeDiag(diag, "arithmetic error", name, err.Error())
					return false
				}
				stk.Push(value.NewConst(r, 0))
				return true
			}}
		},
	}
}

// Add, Sub, Mul, Div, Mod, Neg, And, Or, Xor, Not and Bit are the core
// arithmetic vocabulary, grounded on libzwerg/value-cst.cc's op_*_cst
// operator family and ported onto constant.Constant's checked Int
// arithmetic (pkg/zwerg/constant).
var (
	Add = &Builtin{Name: "add", Doc: "Add two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{checkedBinary("add", constant.Add)}}

	Sub = &Builtin{Name: "sub", Doc: "Subtract two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{checkedBinary("sub", constant.Sub)}}

	Mul = &Builtin{Name: "mul", Doc: "Multiply two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{checkedBinary("mul", constant.Mul)}}

	Div = &Builtin{Name: "div", Doc: "Divide two constants (floor division).", Prototype: "(Const, Const) -> Const",
		Cases: []Case{checkedBinary("div", constant.Div)}}

	Mod = &Builtin{Name: "mod", Doc: "Modulo of two constants (floor semantics).", Prototype: "(Const, Const) -> Const",
		Cases: []Case{checkedBinary("mod", constant.Mod)}}

	Neg = &Builtin{Name: "neg", Doc: "Negate a constant.", Prototype: "(Const) -> Const",
		Cases: []Case{unary("neg", constant.Neg)}}

	And = &Builtin{Name: "and", Doc: "Bitwise AND of two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{bitwiseBinary("and", constant.And)}}

	Or = &Builtin{Name: "or", Doc: "Bitwise OR of two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{bitwiseBinary("or", constant.Or)}}

	Xor = &Builtin{Name: "xor", Doc: "Bitwise XOR of two constants.", Prototype: "(Const, Const) -> Const",
		Cases: []Case{bitwiseBinary("xor", constant.Xor)}}

	Not = &Builtin{Name: "not", Doc: "Bitwise NOT of a constant.", Prototype: "(Const) -> Const",
		Cases: []Case{unary("not", func(w io.Writer, a constant.Constant) (constant.Constant, error) { return constant.Not(a), nil })}}

	Bit = &Builtin{Name: "bit", Doc: "Yield each set bit of a constant as its own hex-domain constant.", Prototype: "(Const) -> Const...",
		Cases: []Case{{
			Selector: unarySelector,
			Mask:     unaryMask,
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return newFanOut(l, up, "bit", func(diag io.Writer, stk *stack.Stack) []*stack.Stack {
					a := stk.Pop().(value.Const)
					bits := constant.Bit(a.C)
					out := make([]*stack.Stack, len(bits))
					for i, b := range bits {
						cl := stk.Clone()
						cl.Push(value.NewConst(b, 0))
						out[i] = cl
					}
					return out
				})
			},
		}},
	}
)
