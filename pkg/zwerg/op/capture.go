package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

type captureState struct {
	done bool
}

// Capture implements the `[expr]` bracket operator: for each upstream
// stack, expr is run to exhaustion against a private clone, and the top
// value of each of its solutions is collected into one Sequence, which
// is then pushed onto the (unmodified) upstream stack. One upstream
// stack always yields exactly one output stack here — expr's branching
// is fully absorbed into the collected sequence, never propagated past
// Capture, per spec.md section 4.6.4.
type Capture struct {
	loc layout.Location
	Up  Operator
	Sub Branch
}

func NewCapture(l *layout.Layout, up Operator, sub Branch) *Capture {
	return &Capture{loc: l.Reserve(), Up: up, Sub: sub}
}

func (c *Capture) Name() string { return "capture" }

func (c *Capture) StateCon(s *layout.Scon) {
	c.Up.StateCon(s)
	c.Sub.stateCon(s)
	layout.Construct(s, c.loc, &captureState{})
}

func (c *Capture) StateDes(s *layout.Scon) {
	layout.Destroy(s, c.loc)
	c.Sub.stateDes(s)
	c.Up.StateDes(s)
}

func (c *Capture) Next(s *layout.Scon) (*stack.Stack, bool) {
	upStk, ok := c.Up.Next(s)
	if !ok {
		return nil, false
	}

	c.Sub.Origin.Set(s, upStk.Clone())
	var collected []value.Value
	for {
		r, ok := c.Sub.Root.Next(s)
		if !ok {
			break
		}
		if r.Size() > 0 {
			collected = append(collected, r.Top().Clone())
		}
	}

	out := upStk.Clone()
	out.Push(value.NewSequence(collected, 0))
	return out, true
}
