package builtin

import (
	"io"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// cmpPredicate is the predicate form of a comparison builtin, used
// directly after `?`/`!` (e.g. `?eq`, `!lt`): it peeks the top two
// stack values without consuming them, unlike the exec form, matching
// the original's distinction between a builtin's "exec" and "pred"
// entry points (spec.md section 4.7).
type cmpPredicate struct {
	name   string
	rel    value.Ordering
	negate bool
}

func (p *cmpPredicate) Name() string            { return p.name }
func (p *cmpPredicate) StateCon(*layout.Scon) {}
func (p *cmpPredicate) StateDes(*layout.Scon) {}

func (p *cmpPredicate) Eval(s *layout.Scon, stk *stack.Stack) op.PredResult {
	if stk.Size() < 2 {
		return op.PredFail
	}
	b := stk.Get(0)
	a := stk.Get(1)
	ord, ok := a.Cmp(b)
	if !ok {
		return op.PredFail
	}
	matched := ord == p.rel
	if p.negate {
		matched = !matched
	}
	if matched {
		return op.PredYes
	}
	return op.PredNo
}

func boolConst(v bool) value.Const {
	var i constant.Int
	if v {
		i = constant.FromUint64(1)
	} else {
		i = constant.FromUint64(0)
	}
	return value.NewConst(constant.New(i, constant.Boolean), 0)
}

// compareBuiltin builds eq/lt/gt (and their negations ne/ge/le): the
// exec form pops both operands and pushes a bool Const, and for too few
// operands or incomparable variants reports a TypeError via the
// diagnostics sink and skips the candidate; the predicate form returns
// Fail in those cases, which the enclosing assertion reports.
func compareBuiltin(name, doc string, rel value.Ordering, negate bool) *Builtin {
	return &Builtin{
		Name: name, Doc: doc, Prototype: "(a, b) -> Const(bool)",
		Cases: []Case{{
			BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
				return &stackFn{up: up, label: name, apply: func(diag io.Writer, stk *stack.Stack) bool {
					if stk.Size() < 2 {
						writeDiag(diag, "type error", name, "needs two operands")
						return false
					}
					b := stk.Pop()
					a := stk.Pop()
					ord, ok := a.Cmp(b)
					if !ok {
						writeDiag(diag, "type error", name, "operands are not comparable")
						return false
					}
					matched := ord == rel
					if negate {
						matched = !matched
					}
					stk.Push(boolConst(matched))
					return true
				}}
			},
			BuildPred: func(l *layout.Layout) op.Predicate {
				return &cmpPredicate{name: name, rel: rel, negate: negate}
			},
		}},
	}
}

var (
	Eq = compareBuiltin("eq", "True if two values compare equal.", value.Equal, false)
	Lt = compareBuiltin("lt", "True if the first value sorts before the second.", value.Less, false)
	Gt = compareBuiltin("gt", "True if the first value sorts after the second.", value.Greater, false)
	Ne = compareBuiltin("ne", "True if two values do not compare equal.", value.Equal, true)
	Ge = compareBuiltin("ge", "True if the first value does not sort before the second.", value.Less, true)
	Le = compareBuiltin("le", "True if the first value does not sort after the second.", value.Greater, true)
)

// symbolicAlias re-registers an existing comparison builtin under its
// symbolic spelling (`==`, `!=`, `<`, `<=`, `>`, `>=`), sharing the same
// Cases since they're stateless builders.
func symbolicAlias(symbol string, b *Builtin) *Builtin {
	return &Builtin{Name: symbol, Doc: b.Doc, Prototype: b.Prototype, Cases: b.Cases}
}

var (
	EqSym = symbolicAlias("==", Eq)
	NeSym = symbolicAlias("!=", Ne)
	LtSym = symbolicAlias("<", Lt)
	LeSym = symbolicAlias("<=", Le)
	GtSym = symbolicAlias(">", Gt)
	GeSym = symbolicAlias(">=", Ge)
)
