package value

// SequenceTypeCode is the type tag for Sequence values.
var SequenceTypeCode = Register("T_SEQ", "An ordered, heterogeneous sequence of values.")

// Sequence is an ordered, heterogeneous collection. Equality is
// elementwise; per spec.md section 3, sequences are cloned
// copy-on-show — Clone deep-copies every element so a shared underlying
// slice is never mutated through an alias.
type Sequence struct {
	base
	Elems []Value
}

func NewSequence(elems []Value, pos uint64) Sequence {
	return Sequence{base: base{pos}, Elems: elems}
}

func (s Sequence) Type() TypeCode { return SequenceTypeCode }

func (s Sequence) WithPos(pos uint64) Value {
	s.base.pos = pos
	return s
}

func (s Sequence) Clone() Value {
	elems := make([]Value, len(s.Elems))
	for i, e := range s.Elems {
		elems[i] = e.Clone()
	}
	return Sequence{base: s.base, Elems: elems}
}

func (s Sequence) Show(brief bool) string {
	out := "["
	for i, e := range s.Elems {
		if i > 0 {
			out += ", "
		}
		out += e.Show(true)
	}
	return out + "]"
}

// Cmp compares elementwise; as soon as a pair of elements disagree, or
// is itself incomparable, that decides the result. Equal-length,
// elementwise-equal sequences are Equal. Differing lengths with an equal
// common prefix order by length, matching lexicographic comparison.
func (s Sequence) Cmp(other Value) (Ordering, bool) {
	o, ok := other.(Sequence)
	if !ok {
		return 0, false
	}
	n := len(s.Elems)
	if len(o.Elems) < n {
		n = len(o.Elems)
	}
	for i := 0; i < n; i++ {
		ord, ok := s.Elems[i].Cmp(o.Elems[i])
		if !ok {
			return 0, false
		}
		if ord != Equal {
			return ord, true
		}
	}
	return cmpOrdering(len(s.Elems) < len(o.Elems), len(s.Elems) == len(o.Elems))
}

func (s Sequence) Len() int { return len(s.Elems) }

// Elem returns the i-th element (0-indexed), and whether i was in range.
func (s Sequence) Elem(i int) (Value, bool) {
	if i < 0 || i >= len(s.Elems) {
		return nil, false
	}
	return s.Elems[i], true
}
