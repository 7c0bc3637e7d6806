package op

import (
	"strings"

	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

func closureKey(stk *stack.Stack) string {
	var b strings.Builder
	for i := stk.Size() - 1; i >= 0; i-- {
		b.WriteString(stk.Get(i).Show(false))
		b.WriteByte(0)
	}
	return b.String()
}

type closureState struct {
	toExpand  []*stack.Stack
	toEmit    []*stack.Stack
	seen      map[string]bool
	expanding bool
}

// Closure implements the postfix `*` (CLOSE_STAR, zero-or-more) and `+`
// (CLOSE_PLUS, one-or-more) transitive-closure operators: expr is
// repeatedly applied to its own output, breadth-first, until no new
// stack (by value, not by identity) is reached. A visited set keyed on
// each candidate's value sequence guards against infinite loops on
// cyclic data, matching the original's closure dedup guard; Star also
// emits the untouched seed as its own first result, Plus does not.
type Closure struct {
	loc  layout.Location
	Up   Operator
	Sub  Branch
	Plus bool
}

func NewClosure(l *layout.Layout, up Operator, sub Branch, plus bool) *Closure {
	return &Closure{loc: l.Reserve(), Up: up, Sub: sub, Plus: plus}
}

func (c *Closure) Name() string {
	if c.Plus {
		return "close_plus"
	}
	return "close_star"
}

func (c *Closure) StateCon(s *layout.Scon) {
	c.Up.StateCon(s)
	c.Sub.stateCon(s)
	layout.Construct(s, c.loc, &closureState{})
}

func (c *Closure) StateDes(s *layout.Scon) {
	layout.Destroy(s, c.loc)
	c.Sub.stateDes(s)
	c.Up.StateDes(s)
}

func (c *Closure) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*closureState](s, c.loc)
	for {
		if len(st.toEmit) > 0 {
			out := st.toEmit[0]
			st.toEmit = st.toEmit[1:]
			return out, true
		}

		if st.expanding {
			r, ok := c.Sub.Root.Next(s)
			if ok {
				key := closureKey(r)
				if !st.seen[key] {
					st.seen[key] = true
					st.toExpand = append(st.toExpand, r.Clone())
					st.toEmit = append(st.toEmit, r.Clone())
				}
				continue
			}
			st.expanding = false
			continue
		}

		if len(st.toExpand) > 0 {
			next := st.toExpand[0]
			st.toExpand = st.toExpand[1:]
			c.Sub.Origin.Set(s, next.Clone())
			st.expanding = true
			continue
		}

		upStk, ok := c.Up.Next(s)
		if !ok {
			return nil, false
		}
		st.seen = map[string]bool{closureKey(upStk): true}
		st.toExpand = []*stack.Stack{upStk.Clone()}
		if !c.Plus {
			st.toEmit = append(st.toEmit, upStk.Clone())
		}
	}
}
