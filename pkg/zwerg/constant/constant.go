package constant

import "io"

// Constant pairs a 64-bit Int with the Domain that controls its display,
// equality, and arithmetic legality.
type Constant struct {
	Val Int
	Dom Domain
}

// New builds a Constant in the given domain, full brevity by default;
// brevity only affects Show, not comparison.
func New(v Int, d Domain) Constant { return Constant{Val: v, Dom: d} }

func (c Constant) Show(brv Brevity) string {
	if c.Dom == nil {
		return c.Val.String()
	}
	return c.Dom.Show(c.Val, brv)
}

func (c Constant) String() string { return c.Show(Full) }

// Less implements the ordering rule of spec.md section 4.4: same domain
// compares by magnitude; different domains compare by magnitude when
// both are arithmetic-safe, or when they share a most-enclosing domain;
// otherwise the comparison is domain-separated (stable, by domain
// identity) so unrelated named-constant families never compare equal by
// accident.
func (a Constant) Less(b Constant) bool {
	if a.Dom == b.Dom {
		return a.Val.Less(b.Val)
	}
	if a.Dom == nil {
		return true
	}
	if b.Dom == nil {
		return false
	}

	if (a.Dom.SafeArith() && b.Dom.SafeArith()) ||
		a.Dom.MostEnclosing(a.Val) == b.Dom.MostEnclosing(b.Val) {
		return a.Val.Less(b.Val)
	}

	return domainLess(a.Dom, b.Dom)
}

func (a Constant) Equal(b Constant) bool { return !a.Less(b) && !b.Less(a) }
func (a Constant) Greater(b Constant) bool { return b.Less(a) }

// domainLess gives a stable (if arbitrary) total order over distinct
// Domain identities, used only to separate constants of unrelated,
// non-arithmetic domains. Domains are process-wide singletons, so the
// registration order recorded here is stable for the life of the
// process, mirroring the original's raw-pointer-identity order.
func domainLess(a, b Domain) bool {
	return domainRank(a) < domainRank(b)
}

var domainRanks = map[Domain]int{}

func domainRank(d Domain) int {
	if r, ok := domainRanks[d]; ok {
		return r
	}
	r := len(domainRanks)
	domainRanks[d] = r
	return r
}

// checkArith reports (by writing a warning, not erroring) when one of
// the operands' domains is not arithmetic-safe, mirroring the original's
// check_arith: it is advisory, arithmetic still proceeds.
func checkArith(w io.Writer, a, b Constant) {
	if w == nil {
		return
	}
	if !a.Dom.SafeArith() || !b.Dom.SafeArith() {
		io.WriteString(w, "warning: arithmetic with a non-arithmetic domain is probably not meaningful\n")
	}
}

// resultDomain implements cst_a.dom()->plain() ? cst_b.dom() : cst_a.dom():
// a "plain" domain (e.g. decimal) yields to the other operand's domain.
func resultDomain(a, b Constant) Domain {
	if a.Dom.Plain() {
		return b.Dom
	}
	return a.Dom
}

// Add, Sub, Mul, Div and Mod implement `a OP b` for the binary arithmetic
// builtins (add/sub/mul/div/mod), in the stack convention "a b op" where
// a was pushed before b: the result keeps a's domain, unless a's domain
// is plain, in which case it keeps b's.
func Add(diag io.Writer, a, b Constant) (Constant, error) {
	checkArith(diag, a, b)
	v, err := a.Val.Add(b.Val)
	if err != nil {
		return Constant{}, err
	}
	return New(v, resultDomain(a, b)), nil
}

func Sub(diag io.Writer, a, b Constant) (Constant, error) {
	checkArith(diag, a, b)
	v, err := a.Val.Sub(b.Val)
	if err != nil {
		return Constant{}, err
	}
	return New(v, resultDomain(a, b)), nil
}

func Mul(diag io.Writer, a, b Constant) (Constant, error) {
	checkArith(diag, a, b)
	v, err := a.Val.Mul(b.Val)
	if err != nil {
		return Constant{}, err
	}
	return New(v, resultDomain(a, b)), nil
}

func Div(diag io.Writer, a, b Constant) (Constant, error) {
	checkArith(diag, a, b)
	q, _, err := a.Val.DivMod(b.Val)
	if err != nil {
		return Constant{}, err
	}
	return New(q, resultDomain(a, b)), nil
}

func Mod(diag io.Writer, a, b Constant) (Constant, error) {
	checkArith(diag, a, b)
	_, r, err := a.Val.DivMod(b.Val)
	if err != nil {
		return Constant{}, err
	}
	return New(r, resultDomain(a, b)), nil
}

func Neg(diag io.Writer, a Constant) (Constant, error) {
	v, err := a.Val.Neg()
	if err != nil {
		return Constant{}, err
	}
	return New(v, a.Dom), nil
}

// And, Or and Xor keep the original's domain-selection rule for bitwise
// ops (same as arithmetic: plain yields), but the signedness of the
// underlying Int is governed by Int.And/Or/Xor per spec.md section 4.4.
func And(a, b Constant) Constant { return New(a.Val.And(b.Val), resultDomain(a, b)) }
func Or(a, b Constant) Constant  { return New(a.Val.Or(b.Val), resultDomain(a, b)) }
func Xor(a, b Constant) Constant { return New(a.Val.Xor(b.Val), resultDomain(a, b)) }
func Not(a Constant) Constant    { return New(a.Val.Not(), a.Dom) }

// Shl and Shr yield constants in the hex domain, per spec.md section 4.4.
func Shl(a Constant, bits uint) Constant { return New(a.Val.Shl(bits), Hex) }
func Shr(a Constant, bits uint) Constant { return New(a.Val.Shr(bits), Hex) }

// Bit enumerates the set bits of a as hex-domain constants, preserving
// a's sign (a negative constant yields negative single-bit constants),
// per the original's op_bit_cst and spec.md scenario 6.
func Bit(a Constant) []Constant {
	mag, neg := a.Val.Magnitude()
	magInt := Int{Value: mag, Signed: a.Val.Signed}
	var out []Constant
	for _, pos := range magInt.Bits() {
		v := Int{Value: uint64(1) << pos, Signed: a.Val.Signed}
		if neg {
			if negV, err := v.Neg(); err == nil {
				v = negV
			}
		}
		out = append(out, New(v, Hex))
	}
	return out
}
