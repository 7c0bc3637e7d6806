package builtin

import (
	"io"
	"regexp"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// Pos pushes the position (the index stamped on a value by the
// operator that produced it) of the top of stack as a decimal Const.
var Pos = &Builtin{
	Name: "pos", Doc: "Push the position of the top stack value.", Prototype: "(a) -> Const",
	Cases: []Case{{
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: "pos", apply: func(diag io.Writer, stk *stack.Stack) bool {
				if stk.Size() == 0 {
					writeDiag(diag, "type error", "pos", "empty stack")
					return false
				}
				p := stk.Top().Pos()
				stk.Push(value.NewConst(constant.New(constant.FromUint64(p), constant.Decimal), 0))
				return true
			}}
		},
	}},
}

// Match implements the `match`/`?match`/`!match` regular-expression
// predicate: `subject pattern match` is true iff pattern (a String,
// compiled as a Go RE2 regular expression) matches somewhere in
// subject. There is no fetchable third-party regex engine in the
// dependency pack grounding this spec (see DESIGN.md); this is the
// one builtin implemented directly on the standard library.
var Match = &Builtin{
	Name: "match", Doc: "True if a string matches a regular expression.", Prototype: "(String, String) -> Const(bool)",
	Cases: []Case{{
		BuildExec: func(l *layout.Layout, up op.Operator) op.Operator {
			return &stackFn{up: up, label: "match", apply: func(diag io.Writer, stk *stack.Stack) bool {
				matched, ok := evalMatch(diag, stk, true)
				if !ok {
					return false
				}
				stk.Push(boolConst(matched))
				return true
			}}
		},
		BuildPred: func(l *layout.Layout) op.Predicate { return &matchPredicate{} },
	}},
}

func evalMatch(diag io.Writer, stk *stack.Stack, consume bool) (bool, bool) {
	if stk.Size() < 2 {
		writeDiag(diag, "type error", "match", "needs a subject string and a pattern string")
		return false, false
	}
	var pat, subj value.String
	var ok bool
	if consume {
		pat, ok = stk.Pop().(value.String)
	} else {
		pat, ok = stk.Get(0).(value.String)
	}
	if !ok {
		writeDiag(diag, "type error", "match", "pattern must be a string")
		return false, false
	}
	if consume {
		subj, ok = stk.Pop().(value.String)
	} else {
		subj, ok = stk.Get(1).(value.String)
	}
	if !ok {
		writeDiag(diag, "type error", "match", "subject must be a string")
		return false, false
	}
	re, err := regexp.Compile(pat.Bytes)
	if err != nil {
		writeDiag(diag, "format error", "match", err.Error())
		return false, false
	}
	return re.MatchString(subj.Bytes), true
}

type matchPredicate struct{}

func (matchPredicate) Name() string            { return "match" }
func (matchPredicate) StateCon(*layout.Scon) {}
func (matchPredicate) StateDes(*layout.Scon) {}

func (matchPredicate) Eval(s *layout.Scon, stk *stack.Stack) op.PredResult {
	matched, ok := evalMatch(s.Diag(), stk, false)
	if !ok {
		return op.PredFail
	}
	if matched {
		return op.PredYes
	}
	return op.PredNo
}
