package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// Nop passes every upstream stack through unchanged. The simplifier
// drops most NOPs before compilation, but a few survive (e.g. the empty
// query, or an empty BLOCK body) and reach the compiler directly.
type Nop struct {
	Up Operator
}

func (n *Nop) Name() string                { return "nop" }
func (n *Nop) StateCon(s *layout.Scon)     { n.Up.StateCon(s) }
func (n *Nop) StateDes(s *layout.Scon)     { n.Up.StateDes(s) }
func (n *Nop) Next(s *layout.Scon) (*stack.Stack, bool) { return n.Up.Next(s) }

// Const pushes a literal value (from a CONST or STR tree node) onto
// every stack it sees, as a clone that keeps the position the literal
// was built with.
type Const struct {
	Up  Operator
	Val value.Value
}

func (c *Const) Name() string            { return "const" }
func (c *Const) StateCon(s *layout.Scon) { c.Up.StateCon(s) }
func (c *Const) StateDes(s *layout.Scon) { c.Up.StateDes(s) }

func (c *Const) Next(s *layout.Scon) (*stack.Stack, bool) {
	stk, ok := c.Up.Next(s)
	if !ok {
		return nil, false
	}
	stk.Push(c.Val.Clone())
	return stk, true
}

// EmptyList pushes an empty sequence, for the `[]` literal.
type EmptyList struct {
	Up Operator
}

func (e *EmptyList) Name() string            { return "empty_list" }
func (e *EmptyList) StateCon(s *layout.Scon) { e.Up.StateCon(s) }
func (e *EmptyList) StateDes(s *layout.Scon) { e.Up.StateDes(s) }

func (e *EmptyList) Next(s *layout.Scon) (*stack.Stack, bool) {
	stk, ok := e.Up.Next(s)
	if !ok {
		return nil, false
	}
	stk.Push(value.NewSequence(nil, 0))
	return stk, true
}

// Shuffle implements the stack-shuffling builtins (drop/swap/dup/over/
// rot) as a single parameterised operator kind, per spec.md section
// 4.6.14's note that these need no sub-expression and no predicate —
// just a fixed stack rewrite.
type Shuffle struct {
	Up Operator
	Op ShuffleOp
}

type ShuffleOp int

const (
	Drop ShuffleOp = iota
	Swap
	Dup
	Over
	Rot
)

func (sh *Shuffle) Name() string {
	switch sh.Op {
	case Drop:
		return "drop"
	case Swap:
		return "swap"
	case Dup:
		return "dup"
	case Over:
		return "over"
	case Rot:
		return "rot"
	default:
		return "shuffle"
	}
}

func (sh *Shuffle) StateCon(s *layout.Scon) { sh.Up.StateCon(s) }
func (sh *Shuffle) StateDes(s *layout.Scon) { sh.Up.StateDes(s) }

func (sh *Shuffle) Next(s *layout.Scon) (*stack.Stack, bool) {
	for {
		stk, ok := sh.Up.Next(s)
		if !ok {
			return nil, false
		}
		if !sh.apply(stk) {
			s.Diag().Write([]byte("type error: " + sh.Name() + ": stack underflow\n"))
			continue
		}
		return stk, true
	}
}

func (sh *Shuffle) apply(stk *stack.Stack) bool {
	switch sh.Op {
	case Drop:
		if stk.Size() < 1 {
			return false
		}
		stk.Pop()
	case Swap:
		if stk.Size() < 2 {
			return false
		}
		a := stk.Pop()
		b := stk.Pop()
		stk.Push(a)
		stk.Push(b)
	case Dup:
		if stk.Size() < 1 {
			return false
		}
		stk.Push(stk.Top().Clone())
	case Over:
		if stk.Size() < 2 {
			return false
		}
		stk.Push(stk.Get(1).Clone())
	case Rot:
		if stk.Size() < 3 {
			return false
		}
		x := stk.Pop() // TOS
		y := stk.Pop()
		z := stk.Pop() // third from top, rotates up to TOS
		stk.Push(y)
		stk.Push(x)
		stk.Push(z)
	}
	return true
}
