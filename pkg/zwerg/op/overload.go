package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

// OverloadCase is one candidate implementation of an overloaded
// builtin (e.g. `add` over two Consts vs over two Strings vs over a
// Sequence): Selector/Mask describe which bits of the upstream stack's
// type profile this candidate requires (Mask's zero bits are "don't
// care", letting an overload ignore stack depth below what it needs),
// and Entry/Root are the candidate's private sub-graph.
type OverloadCase struct {
	Selector uint32
	Mask     uint32
	Entry    *Origin
	Root     Operator
}

type overloadState struct {
	active *OverloadCase
}

// Overload implements selector-based overload dispatch (spec.md section
// 4.6.14): for each upstream stack, the first candidate whose mask
// matches the stack's type profile runs; no match is a TypeError,
// reported and skipped.
type Overload struct {
	loc   layout.Location
	Up    Operator
	Name_ string
	Cases []OverloadCase
}

func NewOverload(l *layout.Layout, up Operator, name string, cases []OverloadCase) *Overload {
	return &Overload{loc: l.Reserve(), Up: up, Name_: name, Cases: cases}
}

func (o *Overload) Name() string { return o.Name_ }

func (o *Overload) StateCon(s *layout.Scon) {
	o.Up.StateCon(s)
	for _, c := range o.Cases {
		c.Entry.StateCon(s)
		c.Root.StateCon(s)
	}
	layout.Construct(s, o.loc, &overloadState{})
}

func (o *Overload) StateDes(s *layout.Scon) {
	layout.Destroy(s, o.loc)
	for i := len(o.Cases) - 1; i >= 0; i-- {
		o.Cases[i].Root.StateDes(s)
		o.Cases[i].Entry.StateDes(s)
	}
	o.Up.StateDes(s)
}

func (o *Overload) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*overloadState](s, o.loc)
	for {
		if st.active == nil {
			upStk, ok := o.Up.Next(s)
			if !ok {
				return nil, false
			}
			profile := upStk.Profile()
			var chosen *OverloadCase
			for i := range o.Cases {
				c := &o.Cases[i]
				if profile&c.Mask == c.Selector&c.Mask {
					chosen = c
					break
				}
			}
			if chosen == nil {
				s.Diag().Write([]byte("type error: no overload of '" + o.Name_ + "' matches the stack\n"))
				continue
			}
			chosen.Entry.Set(s, upStk)
			st.active = chosen
		}

		out, ok := st.active.Root.Next(s)
		if !ok {
			st.active = nil
			continue
		}
		return out, true
	}
}
