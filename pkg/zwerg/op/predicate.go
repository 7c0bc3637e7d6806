package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// And, PredOr and Not combine predicates with the expected short-circuit
// and negation semantics; a Fail from any operand propagates as Fail
// (the predicate could not be decided), per spec.md section 4.6.13.
type And struct{ A, B Predicate }

func (p *And) Name() string            { return "and" }
func (p *And) StateCon(s *layout.Scon) { p.A.StateCon(s); p.B.StateCon(s) }
func (p *And) StateDes(s *layout.Scon) { p.B.StateDes(s); p.A.StateDes(s) }

func (p *And) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	r := p.A.Eval(s, stk)
	if r != PredYes {
		return r
	}
	return p.B.Eval(s, stk)
}

// PredOr is the predicate-level OR combinator. Named distinctly from
// the Or alternation operator in or.go: that Or combines Operators
// (stream alternation), this one combines Predicates (boolean logic).
type PredOr struct{ A, B Predicate }

func (p *PredOr) Name() string            { return "or" }
func (p *PredOr) StateCon(s *layout.Scon) { p.A.StateCon(s); p.B.StateCon(s) }
func (p *PredOr) StateDes(s *layout.Scon) { p.B.StateDes(s); p.A.StateDes(s) }

func (p *PredOr) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	r := p.A.Eval(s, stk)
	if r == PredYes {
		return r
	}
	r2 := p.B.Eval(s, stk)
	if r == PredFail || r2 == PredFail {
		return PredFail
	}
	return r2
}

type Not struct{ P Predicate }

func (p *Not) Name() string            { return "not" }
func (p *Not) StateCon(s *layout.Scon) { p.P.StateCon(s) }
func (p *Not) StateDes(s *layout.Scon) { p.P.StateDes(s) }

func (p *Not) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	switch p.P.Eval(s, stk) {
	case PredYes:
		return PredNo
	case PredNo:
		return PredYes
	default:
		return PredFail
	}
}

// SubxAny is the `?(expr)`/`!(expr)` predicate: Yes iff expr produces at
// least one solution when run against the candidate stack.
type SubxAny struct {
	loc  layout.Location
	Sub  Branch
	Negate bool
}

func NewSubxAny(l *layout.Layout, sub Branch, negate bool) *SubxAny {
	return &SubxAny{loc: l.Reserve(), Sub: sub, Negate: negate}
}

func (p *SubxAny) Name() string {
	if p.Negate {
		return "!("
	}
	return "?("
}

func (p *SubxAny) StateCon(s *layout.Scon) { p.Sub.stateCon(s) }
func (p *SubxAny) StateDes(s *layout.Scon) { p.Sub.stateDes(s) }

func (p *SubxAny) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	p.Sub.Origin.Set(s, stk.Clone())
	_, ok := p.Sub.Root.Next(s)
	if ok == p.Negate {
		return PredNo
	}
	return PredYes
}

// CompareRel is the relation a SubxCompare predicate checks between the
// top values its two sub-expressions leave behind.
type CompareRel int

const (
	RelEq CompareRel = iota
	RelLt
	RelGt
)

// SubxCompare is the `?(expr1 == expr2)`-style predicate (also used to
// implement eq/lt/gt when their operands are themselves sub-expressions
// rather than plain stack values): both sub-expressions run against a
// clone of the candidate stack, and their top results are compared.
// Fail if either sub-expression yields no result, or the comparison
// itself is undefined (different value variants).
type SubxCompare struct {
	loc      layout.Location
	Left     Branch
	Right    Branch
	Rel      CompareRel
	Negate   bool
}

func NewSubxCompare(l *layout.Layout, left, right Branch, rel CompareRel, negate bool) *SubxCompare {
	return &SubxCompare{loc: l.Reserve(), Left: left, Right: right, Rel: rel, Negate: negate}
}

func (p *SubxCompare) Name() string { return "subx_compare" }

func (p *SubxCompare) StateCon(s *layout.Scon) {
	p.Left.stateCon(s)
	p.Right.stateCon(s)
}

func (p *SubxCompare) StateDes(s *layout.Scon) {
	p.Right.stateDes(s)
	p.Left.stateDes(s)
}

func (p *SubxCompare) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	p.Left.Origin.Set(s, stk.Clone())
	lr, ok := p.Left.Root.Next(s)
	if !ok || lr.Size() == 0 {
		return PredFail
	}
	p.Right.Origin.Set(s, stk.Clone())
	rr, ok := p.Right.Root.Next(s)
	if !ok || rr.Size() == 0 {
		return PredFail
	}

	ord, ok := lr.Top().Cmp(rr.Top())
	if !ok {
		return PredFail
	}

	var matched bool
	switch p.Rel {
	case RelEq:
		matched = ord == value.Equal
	case RelLt:
		matched = ord == value.Less
	case RelGt:
		matched = ord == value.Greater
	}
	if matched != p.Negate {
		return PredYes
	}
	return PredNo
}

// Pos is the `pos == N`-style predicate built for the `pos` builtin
// used as a predicate: Yes iff the candidate stack's top value's
// position satisfies Rel against N.
type Pos struct {
	N   uint64
	Rel CompareRel
}

func (p *Pos) Name() string            { return "pos" }
func (p *Pos) StateCon(s *layout.Scon) {}
func (p *Pos) StateDes(s *layout.Scon) {}

func (p *Pos) Eval(s *layout.Scon, stk *stack.Stack) PredResult {
	if stk.Size() == 0 {
		return PredFail
	}
	pos := stk.Top().Pos()
	switch p.Rel {
	case RelEq:
		if pos == p.N {
			return PredYes
		}
	case RelLt:
		if pos < p.N {
			return PredYes
		}
	case RelGt:
		if pos > p.N {
			return PredYes
		}
	}
	return PredNo
}

// Assert filters an upstream stream through a Predicate: a candidate
// for which the predicate says Yes passes through unchanged; No is
// silently skipped; Fail is reported to the diagnostics sink as a
// PredicateFailure and also skipped, per spec.md section 7's
// skip-and-continue runtime error policy.
type Assert struct {
	Up   Operator
	Pred Predicate
}

func (a *Assert) Name() string            { return "assert" }
func (a *Assert) StateCon(s *layout.Scon) { a.Up.StateCon(s); a.Pred.StateCon(s) }
func (a *Assert) StateDes(s *layout.Scon) { a.Pred.StateDes(s); a.Up.StateDes(s) }

func (a *Assert) Next(s *layout.Scon) (*stack.Stack, bool) {
	for {
		stk, ok := a.Up.Next(s)
		if !ok {
			return nil, false
		}
		switch a.Pred.Eval(s, stk) {
		case PredYes:
			return stk, true
		case PredFail:
			reportFail(s, a.Pred.Name())
		}
	}
}

func reportFail(s *layout.Scon, name string) {
	s.Diag().Write([]byte("predicate failure: " + name + "\n"))
}
