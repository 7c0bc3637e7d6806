package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

type orState struct {
	cur    *stack.Stack
	active int // -1 until a branch has yielded at least once
}

// Or implements `||`-joined alternation: branches are tried in order
// against a clone of the current upstream stack, and the first branch
// to yield any result wins the whole upstream stack — subsequent pulls
// only ever come from that branch, matching spec.md section 8's "OR
// short-circuits on the first branch to produce a value".
type Or struct {
	loc      layout.Location
	Up       Operator
	Branches []Branch
}

func NewOr(l *layout.Layout, up Operator, branches []Branch) *Or {
	return &Or{loc: l.Reserve(), Up: up, Branches: branches}
}

func (o *Or) Name() string { return "or" }

func (o *Or) StateCon(s *layout.Scon) {
	o.Up.StateCon(s)
	for _, b := range o.Branches {
		b.stateCon(s)
	}
	layout.Construct(s, o.loc, &orState{active: -1})
}

func (o *Or) StateDes(s *layout.Scon) {
	layout.Destroy(s, o.loc)
	for _, b := range o.Branches {
		b.stateDes(s)
	}
	o.Up.StateDes(s)
}

func (o *Or) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*orState](s, o.loc)
	for {
		if st.cur == nil {
			upStk, ok := o.Up.Next(s)
			if !ok {
				return nil, false
			}
			st.cur = upStk
			st.active = -1
			for _, b := range o.Branches {
				b.Origin.Set(s, upStk.Clone())
			}
		}

		if st.active >= 0 {
			out, ok := o.Branches[st.active].Root.Next(s)
			if ok {
				return out, true
			}
			st.cur = nil
			continue
		}

		found := false
		for i, b := range o.Branches {
			out, ok := b.Root.Next(s)
			if ok {
				st.active = i
				found = true
				return out, true
			}
		}
		if !found {
			st.cur = nil
		}
	}
}
