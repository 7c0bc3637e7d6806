package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

type ifElseState struct {
	active *Branch
}

// IfElse implements `if cond then thenBranch else elseBranch end`. Cond
// is evaluated as a predicate against the upstream stack; Yes drives
// Then, No drives Else (or, if there is no else clause, passes the
// stack through unchanged — a single result, matching the original's
// "missing else is identity"); Fail is reported and treated as No.
// Then and Else are compiled against layouts built via Layout.Branch /
// Layout.Merge so they share slot space, per spec.md section 3's union
// rule for mutually exclusive alternatives.
type IfElse struct {
	loc  layout.Location
	Up   Operator
	Cond Predicate
	Then Branch
	Else *Branch
}

func NewIfElse(l *layout.Layout, up Operator, cond Predicate, then Branch, els *Branch) *IfElse {
	return &IfElse{loc: l.Reserve(), Up: up, Cond: cond, Then: then, Else: els}
}

func (ie *IfElse) Name() string { return "ifelse" }

func (ie *IfElse) StateCon(s *layout.Scon) {
	ie.Up.StateCon(s)
	ie.Cond.StateCon(s)
	ie.Then.stateCon(s)
	if ie.Else != nil {
		ie.Else.stateCon(s)
	}
	layout.Construct(s, ie.loc, &ifElseState{})
}

func (ie *IfElse) StateDes(s *layout.Scon) {
	layout.Destroy(s, ie.loc)
	if ie.Else != nil {
		ie.Else.stateDes(s)
	}
	ie.Then.stateDes(s)
	ie.Cond.StateDes(s)
	ie.Up.StateDes(s)
}

func (ie *IfElse) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*ifElseState](s, ie.loc)
	for {
		if st.active == nil {
			upStk, ok := ie.Up.Next(s)
			if !ok {
				return nil, false
			}
			result := ie.Cond.Eval(s, upStk)
			if result == PredFail {
				reportFail(s, "if")
				result = PredNo
			}
			if result == PredYes {
				ie.Then.Origin.Set(s, upStk.Clone())
				st.active = &ie.Then
			} else if ie.Else != nil {
				ie.Else.Origin.Set(s, upStk.Clone())
				st.active = ie.Else
			} else {
				return upStk, true
			}
		}

		out, ok := st.active.Root.Next(s)
		if !ok {
			st.active = nil
			continue
		}
		return out, true
	}
}
