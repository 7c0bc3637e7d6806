package value

// ClosureTypeCode is the type tag for Closure values.
var ClosureTypeCode = Register("T_CLOSURE", "A first-class block value capturing its upvalues.")

// Closure is a first-class value packaging an operator graph plus the
// upvalues it captured at creation time. Per spec.md section 4.6.12, the
// graph itself (root operator, its layout, and the rendezvous cell that
// lets a running instance find its own closure value) is opaque to this
// package — it is produced and consumed by package op, which would
// otherwise import package value and create a cycle. Root is compared by
// identity (it is always a pointer into the immutable operator graph);
// Rendezvous and Layout are carried along for op.Apply to install and
// are not part of equality.
type Closure struct {
	base
	Root       any
	Layout     any
	Rendezvous any
	Upvalues   []Value
}

func NewClosure(root, layout, rendezvous any, upvalues []Value, pos uint64) Closure {
	return Closure{base: base{pos}, Root: root, Layout: layout, Rendezvous: rendezvous, Upvalues: upvalues}
}

func (c Closure) Type() TypeCode { return ClosureTypeCode }

func (c Closure) WithPos(pos uint64) Value {
	c.base.pos = pos
	return c
}

func (c Closure) Clone() Value {
	up := make([]Value, len(c.Upvalues))
	for i, v := range c.Upvalues {
		up[i] = v.Clone()
	}
	return Closure{base: c.base, Root: c.Root, Layout: c.Layout, Rendezvous: c.Rendezvous, Upvalues: up}
}

func (c Closure) Show(brief bool) string {
	return "<closure>"
}

// Cmp implements spec.md section 3: two closures compare equal only
// when they share the same root operator and elementwise-equal
// upvalues. There is no meaningful order beyond equal/unequal, so a
// non-equal pair reports Less arbitrarily but consistently (by upvalue
// count, then by the first differing upvalue) so closures remain
// usable as, e.g., sequence elements under a total order.
func (c Closure) Cmp(other Value) (Ordering, bool) {
	o, ok := other.(Closure)
	if !ok {
		return 0, false
	}
	if c.Root == o.Root && len(c.Upvalues) == len(o.Upvalues) {
		allEqual := true
		for i := range c.Upvalues {
			ord, ok := c.Upvalues[i].Cmp(o.Upvalues[i])
			if !ok || ord != Equal {
				allEqual = false
				break
			}
		}
		if allEqual {
			return Equal, true
		}
	}
	if len(c.Upvalues) != len(o.Upvalues) {
		return cmpOrdering(len(c.Upvalues) < len(o.Upvalues), false)
	}
	for i := range c.Upvalues {
		ord, ok := c.Upvalues[i].Cmp(o.Upvalues[i])
		if !ok {
			return 0, false
		}
		if ord != Equal {
			return ord, true
		}
	}
	return Less, true
}
