package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

// Branch is one alternative of an ALT or OR node: a private Origin that
// the enclosing operator feeds a cloned copy of the current upstream
// stack into, and the root of the alternative's own sub-graph.
type Branch struct {
	Origin *Origin
	Root   Operator
}

func (b Branch) stateCon(s *layout.Scon) {
	b.Origin.StateCon(s)
	b.Root.StateCon(s)
}

func (b Branch) stateDes(s *layout.Scon) {
	b.Root.StateDes(s)
	b.Origin.StateDes(s)
}

type altState struct {
	cur       *stack.Stack
	exhausted []bool
	rr        int
}

// Alt implements the `,`-joined alternation `(e1, e2, ...)`: every
// branch runs against its own clone of the current upstream stack, and
// their outputs are merged round-robin (not concatenated), so for m
// upstream stacks and branches producing p and q results respectively
// ALT produces m*(p+q) results overall, per spec.md section 8.
type Alt struct {
	loc      layout.Location
	Up       Operator
	Branches []Branch
}

func NewAlt(l *layout.Layout, up Operator, branches []Branch) *Alt {
	return &Alt{loc: l.Reserve(), Up: up, Branches: branches}
}

func (a *Alt) Name() string { return "alt" }

func (a *Alt) StateCon(s *layout.Scon) {
	a.Up.StateCon(s)
	for _, b := range a.Branches {
		b.stateCon(s)
	}
	layout.Construct(s, a.loc, &altState{exhausted: make([]bool, len(a.Branches))})
}

func (a *Alt) StateDes(s *layout.Scon) {
	layout.Destroy(s, a.loc)
	for _, b := range a.Branches {
		b.stateDes(s)
	}
	a.Up.StateDes(s)
}

func (a *Alt) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*altState](s, a.loc)
	n := len(a.Branches)
	for {
		if st.cur == nil {
			upStk, ok := a.Up.Next(s)
			if !ok {
				return nil, false
			}
			st.cur = upStk
			for i, b := range a.Branches {
				b.Origin.Set(s, upStk.Clone())
				st.exhausted[i] = false
			}
			st.rr = 0
		}

		progressed := false
		for i := 0; i < n; i++ {
			idx := (st.rr + i) % n
			if st.exhausted[idx] {
				continue
			}
			out, ok := a.Branches[idx].Root.Next(s)
			if !ok {
				st.exhausted[idx] = true
				continue
			}
			st.rr = (idx + 1) % n
			progressed = true
			return out, true
		}
		if !progressed {
			st.cur = nil
		}
	}
}
