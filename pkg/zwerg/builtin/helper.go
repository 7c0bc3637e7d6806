package builtin

import (
	"io"

	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

// stackFn adapts an in-place stack transform into an op.Operator: apply
// reports false when it already reported a runtime diagnostic and the
// candidate should be skipped (spec.md section 7's skip-and-continue
// policy), true when stk was rewritten into this builtin's result.
type stackFn struct {
	up    op.Operator
	label string
	apply func(diag io.Writer, stk *stack.Stack) bool
}

func (f *stackFn) Name() string            { return f.label }
func (f *stackFn) StateCon(s *layout.Scon) { f.up.StateCon(s) }
func (f *stackFn) StateDes(s *layout.Scon) { f.up.StateDes(s) }

func (f *stackFn) Next(s *layout.Scon) (*stack.Stack, bool) {
	for {
		stk, ok := f.up.Next(s)
		if !ok {
			return nil, false
		}
		if f.apply(s.Diag(), stk) {
			return stk, true
		}
	}
}

// fanOut adapts a transform that may produce zero or more result
// stacks per input stack (e.g. `bit`, `elem`) into an op.Operator. Its
// pending-results queue lives in the Scon, not on the struct, since one
// fanOut instance is shared by every concurrently open Result of the
// query it was compiled into.
type fanOut struct {
	loc   layout.Location
	up    op.Operator
	label string
	apply func(diag io.Writer, stk *stack.Stack) []*stack.Stack
}

func newFanOut(l *layout.Layout, up op.Operator, label string, apply func(io.Writer, *stack.Stack) []*stack.Stack) *fanOut {
	return &fanOut{loc: l.Reserve(), up: up, label: label, apply: apply}
}

type fanOutState struct {
	queue []*stack.Stack
}

func (f *fanOut) Name() string { return f.label }

func (f *fanOut) StateCon(s *layout.Scon) {
	f.up.StateCon(s)
	layout.Construct(s, f.loc, &fanOutState{})
}

func (f *fanOut) StateDes(s *layout.Scon) {
	layout.Destroy(s, f.loc)
	f.up.StateDes(s)
}

func (f *fanOut) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*fanOutState](s, f.loc)
	for {
		if len(st.queue) > 0 {
			out := st.queue[0]
			st.queue = st.queue[1:]
			return out, true
		}
		stk, ok := f.up.Next(s)
		if !ok {
			return nil, false
		}
		st.queue = f.apply(s.Diag(), stk)
	}
}

func writeDiag(w io.Writer, kind, name, detail string) {
	io.WriteString(w, kind+": "+name+": "+detail+"\n")
}
