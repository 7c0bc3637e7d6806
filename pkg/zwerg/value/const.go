package value

import "github.com/dwgrep/zwerg/pkg/zwerg/constant"

// ConstTypeCode is the type tag for Const values.
var ConstTypeCode = Register("T_CONST", "A constant integral value paired with its domain.")

// Const wraps a constant.Constant as a Value.
type Const struct {
	base
	C constant.Constant
}

// NewConst builds a Const value at the given position.
func NewConst(c constant.Constant, pos uint64) Const {
	return Const{base: base{pos}, C: c}
}

func (c Const) Type() TypeCode { return ConstTypeCode }

func (c Const) WithPos(pos uint64) Value {
	c.base.pos = pos
	return c
}

func (c Const) Clone() Value { return c }

func (c Const) Show(brief bool) string {
	brv := constant.Full
	if brief {
		brv = constant.Brief
	}
	return c.C.Show(brv)
}

func (c Const) Cmp(other Value) (Ordering, bool) {
	o, ok := other.(Const)
	if !ok {
		return 0, false
	}
	return cmpOrdering(c.C.Less(o.C), c.C.Equal(o.C))
}
