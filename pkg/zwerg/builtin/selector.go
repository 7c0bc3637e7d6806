package builtin

import "github.com/dwgrep/zwerg/pkg/zwerg/value"

// selectorFor builds the (selector, mask) pair op.Overload compares a
// stack's type profile against, from the type codes expected at each
// depth starting at the top of stack (codes[0] is TOS).
func selectorFor(codes ...value.TypeCode) (uint32, uint32) {
	var sel, mask uint32
	for i, c := range codes {
		sel |= uint32(c) << (8 * uint(i))
		mask |= uint32(0xff) << (8 * uint(i))
	}
	return sel, mask
}
