package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

// Origin is the upstream-less entry point of a (sub-)graph. Before
// pulling it, the driving code (the Result for the query root, or an
// enclosing operator for a sub-expression's root — Subx-eval, Capture,
// a closure's Apply) installs the stack to feed in via Set; Next then
// yields that stack exactly once and reports exhaustion until Set is
// called again. This mirrors the original's origin::set_value /
// origin::next pairing.
type Origin struct {
	loc layout.Location
}

type originState struct {
	stk  *stack.Stack
	used bool
}

// NewOrigin reserves a slot for a fresh Origin in l.
func NewOrigin(l *layout.Layout) *Origin {
	return &Origin{loc: l.Reserve()}
}

func (o *Origin) Name() string { return "origin" }

func (o *Origin) StateCon(s *layout.Scon) {
	layout.Construct(s, o.loc, &originState{})
}

func (o *Origin) StateDes(s *layout.Scon) {
	layout.Destroy(s, o.loc)
}

// Set installs stk as the value this Origin will yield on the next
// Next call.
func (o *Origin) Set(s *layout.Scon, stk *stack.Stack) {
	st, _ := layout.Get[*originState](s, o.loc)
	st.stk = stk
	st.used = false
}

func (o *Origin) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*originState](s, o.loc)
	if st.used || st.stk == nil {
		return nil, false
	}
	st.used = true
	out := st.stk
	st.stk = nil
	return out, true
}
