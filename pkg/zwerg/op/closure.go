package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// Bind implements `let NAME := expr;`: for each upstream stack, expr is
// run to exhaustion against a clone; every one of its solutions stores
// its top value into VarLoc and re-yields the original (unmodified)
// upstream stack, so the body operator chained downstream of Bind sees
// one pass per expr solution — a `let` whose expr is multi-valued
// multiplies the rest of the query the same way CAT does, per spec.md
// section 4.6.10.
type Bind struct {
	loc    layout.Location
	Up     Operator
	Expr   Branch
	VarLoc layout.Location
}

type bindState struct {
	upStk *stack.Stack
}

func NewBind(l *layout.Layout, up Operator, expr Branch, varLoc layout.Location) *Bind {
	return &Bind{loc: l.Reserve(), Up: up, Expr: expr, VarLoc: varLoc}
}

func (b *Bind) Name() string { return "bind" }

func (b *Bind) StateCon(s *layout.Scon) {
	b.Up.StateCon(s)
	b.Expr.stateCon(s)
	layout.Construct(s, b.VarLoc, value.Value(nil))
	layout.Construct(s, b.loc, &bindState{})
}

func (b *Bind) StateDes(s *layout.Scon) {
	layout.Destroy(s, b.loc)
	layout.Destroy(s, b.VarLoc)
	b.Expr.stateDes(s)
	b.Up.StateDes(s)
}

func (b *Bind) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*bindState](s, b.loc)
	for {
		if st.upStk == nil {
			upStk, ok := b.Up.Next(s)
			if !ok {
				return nil, false
			}
			st.upStk = upStk
			b.Expr.Origin.Set(s, upStk.Clone())
		}
		r, ok := b.Expr.Root.Next(s)
		if !ok {
			st.upStk = nil
			continue
		}
		if r.Size() == 0 {
			continue
		}
		layout.Set(s, b.VarLoc, r.Top().Clone())
		return st.upStk.Clone(), true
	}
}

// Read implements a reference to a `let`-bound name in scope: it pushes
// the value currently stored at VarLoc (written there by the enclosing
// Bind) onto the stack.
type Read struct {
	Up     Operator
	VarLoc layout.Location
}

func NewRead(up Operator, varLoc layout.Location) *Read {
	return &Read{Up: up, VarLoc: varLoc}
}

func (r *Read) Name() string            { return "read" }
func (r *Read) StateCon(s *layout.Scon) { r.Up.StateCon(s) }
func (r *Read) StateDes(s *layout.Scon) { r.Up.StateDes(s) }

func (r *Read) Next(s *layout.Scon) (*stack.Stack, bool) {
	stk, ok := r.Up.Next(s)
	if !ok {
		return nil, false
	}
	v, ok := layout.Get[value.Value](s, r.VarLoc)
	if !ok || v == nil {
		return nil, false // read before bind: compiler bug, treated as exhaustion
	}
	stk.Push(v.Clone())
	return stk, true
}

// upvalSlot is the fixed Location every closure body's private Layout
// reserves first (so it is always slot 0, the zero Location value):
// Apply installs the invoked Closure's captured Upvalues there before
// driving the body, and ReadUpvalue reads from it. This sidesteps a
// value/op import cycle: the body's Layout doesn't need to know in
// advance how many upvalues it has, only that slot 0 is reserved for
// them before any other slot.
var upvalSlot = layout.Location{}

// ReserveUpvalSlot must be called first when building any closure
// body's Layout, before compiling the body itself, to claim slot 0.
func ReserveUpvalSlot(l *layout.Layout) {
	l.Reserve()
}

// ReadUpvalue pushes the Idx-th value captured by the closure currently
// executing in this Scon (installed there by Apply).
type ReadUpvalue struct {
	Up  Operator
	Idx int
}

func (r *ReadUpvalue) Name() string            { return "read_upvalue" }
func (r *ReadUpvalue) StateCon(s *layout.Scon) { r.Up.StateCon(s) }
func (r *ReadUpvalue) StateDes(s *layout.Scon) { r.Up.StateDes(s) }

func (r *ReadUpvalue) Next(s *layout.Scon) (*stack.Stack, bool) {
	stk, ok := r.Up.Next(s)
	if !ok {
		return nil, false
	}
	ups, ok := layout.Get[[]value.Value](s, upvalSlot)
	if !ok || r.Idx >= len(ups) {
		return nil, false
	}
	stk.Push(ups[r.Idx].Clone())
	return stk, true
}

// LexClosure builds a first-class Closure value (the `{ ... }` block
// literal) capturing the current value at each of CaptureLocs as its
// upvalues, and pushes it. Root/BodyLayout/Entry describe the closure
// body's own private sub-graph, opaque here (see value.Closure's doc).
type LexClosure struct {
	Up          Operator
	Root        Operator
	BodyLayout  *layout.Layout
	Entry       *Origin
	CaptureLocs []layout.Location
}

func (c *LexClosure) Name() string            { return "lex_closure" }
func (c *LexClosure) StateCon(s *layout.Scon) { c.Up.StateCon(s) }
func (c *LexClosure) StateDes(s *layout.Scon) { c.Up.StateDes(s) }

func (c *LexClosure) Next(s *layout.Scon) (*stack.Stack, bool) {
	stk, ok := c.Up.Next(s)
	if !ok {
		return nil, false
	}
	ups := make([]value.Value, len(c.CaptureLocs))
	for i, loc := range c.CaptureLocs {
		v, _ := layout.Get[value.Value](s, loc)
		if v != nil {
			ups[i] = v.Clone()
		}
	}
	stk.Push(value.NewClosure(c.Root, c.BodyLayout, c.Entry, ups, 0))
	return stk, true
}

// Apply implements the `apply` builtin (and the `$` sigil). Reading a
// let-bound name that holds a Closure only pushes the Closure; it is not
// invoked until Apply runs (`let f := {1 add}; 2 f apply`). Apply
// pops a Closure off the stack, runs its body to exhaustion in a fresh
// Scon seeded with the rest of the stack, and re-yields each of the
// body's solutions in turn. Non-closure TOS or an empty stack are
// TypeErrors, skipped per spec.md section 7.
type Apply struct {
	loc layout.Location
	Up  Operator
}

func NewApply(l *layout.Layout, up Operator) *Apply {
	return &Apply{loc: l.Reserve(), Up: up}
}

func (a *Apply) Name() string { return "apply" }

func (a *Apply) StateCon(s *layout.Scon) {
	a.Up.StateCon(s)
	layout.Construct(s, a.loc, &applyState{})
}

func (a *Apply) StateDes(s *layout.Scon) {
	layout.Destroy(s, a.loc)
	a.Up.StateDes(s)
}

type applyState struct {
	child  *layout.Scon
	root   Operator
	active bool
}

func (a *Apply) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*applyState](s, a.loc)
	for {
		if !st.active {
			stk, ok := a.Up.Next(s)
			if !ok {
				return nil, false
			}
			if stk.Size() == 0 {
				s.Diag().Write([]byte("type error: apply: stack underflow\n"))
				continue
			}
			top := stk.Pop()
			cl, ok := top.(value.Closure)
			if !ok {
				s.Diag().Write([]byte("type error: apply: expected a Closure on top of the stack\n"))
				continue
			}
			root, ok := cl.Root.(Operator)
			if !ok {
				s.Diag().Write([]byte("type error: apply: closure has a malformed root operator\n"))
				continue
			}
			bodyLayout, ok := cl.Layout.(*layout.Layout)
			if !ok {
				s.Diag().Write([]byte("type error: apply: closure has a malformed layout\n"))
				continue
			}
			entry, ok := cl.Rendezvous.(*Origin)
			if !ok {
				s.Diag().Write([]byte("type error: apply: closure has a malformed rendezvous\n"))
				continue
			}

			child := layout.NewScon(bodyLayout)
			child.SetDiag(s.Diag())
			layout.Construct(child, upvalSlot, cl.Upvalues)
			root.StateCon(child)
			entry.Set(child, stk)

			st.child = child
			st.root = root
			st.active = true
		}

		out, ok := st.root.Next(st.child)
		if !ok {
			st.root.StateDes(st.child)
			st.active = false
			continue
		}
		return out, true
	}
}
