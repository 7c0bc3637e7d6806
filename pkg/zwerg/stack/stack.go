// Package stack implements the ordered, growable value stack each
// operator reads from and writes to, plus the type-profile fingerprint
// used for O(1) overload dispatch.
package stack

import "github.com/dwgrep/zwerg/pkg/zwerg/value"

// Stack is an ordered sequence of values, growable on top. It owns its
// values exclusively; once pushed, a value belongs to exactly one
// Stack until cloned or popped.
type Stack struct {
	values []value.Value
}

// New returns an empty stack.
func New() *Stack { return &Stack{} }

// Push pushes v onto the top of the stack.
func (s *Stack) Push(v value.Value) { s.values = append(s.values, v) }

// Pop removes and returns the top value. It panics if the stack is
// empty — callers (operators) are expected to have checked Size first,
// matching the donor convention that stack-shuffling errors are
// reported as TypeErrors by the caller before Pop is ever reached.
func (s *Stack) Pop() value.Value {
	n := len(s.values)
	v := s.values[n-1]
	s.values = s.values[:n-1]
	return v
}

// Top returns the top value without removing it.
func (s *Stack) Top() value.Value {
	return s.values[len(s.values)-1]
}

// Get returns the value at the given depth from the top (0 is TOS).
func (s *Stack) Get(depth int) value.Value {
	return s.values[len(s.values)-1-depth]
}

// Size returns the number of values on the stack.
func (s *Stack) Size() int { return len(s.values) }

// Clone returns an independent copy of the stack: every value is
// deep-cloned so mutating one copy (e.g. via a capture or tine) never
// affects the other.
func (s *Stack) Clone() *Stack {
	values := make([]value.Value, len(s.values))
	for i, v := range s.values {
		values[i] = v.Clone()
	}
	return &Stack{values: values}
}

// Profile packs the type codes of the topmost 4 values (nearest TOS
// first, in the low byte) into a 32-bit fingerprint. Positions beyond
// the stack's actual depth are zero, matching selectors that require
// fewer arguments near TOS (spec.md section 4.6.14).
func (s *Stack) Profile() uint32 {
	var p uint32
	n := len(s.values)
	for i := 0; i < 4; i++ {
		var code value.TypeCode
		if i < n {
			code = s.values[n-1-i].Type()
		}
		p |= uint32(code) << (8 * uint(i))
	}
	return p
}

// Depth reports how many of the profile's 4 slots are backed by an
// actual stack element (capped at 4): used by selectors that require
// fewer than 4 operands to avoid matching on padding zero bytes that
// could collide with a real T_??? type code.
func (s *Stack) Depth() int {
	if len(s.values) > 4 {
		return 4
	}
	return len(s.values)
}
