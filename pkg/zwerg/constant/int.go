package constant

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/dwgrep/zwerg/pkg/utils"
)

// ErrOverflow is raised by an arithmetic operation whose result does not
// fit in the signed/unsigned 64-bit range. ErrDivByZero is raised by
// division or modulo by zero. Both are reported to the engine as
// ArithmeticError (see pkg/zwerg/builtin).
var (
	ErrOverflow   = errors.New("arithmetic overflow")
	ErrDivByZero  = errors.New("division by zero")
)

const int64MaxPlus1 = uint64(math.MaxInt64) + 1

// Int is a 64-bit integer tagged with its signedness, mirroring the
// original implementation's mpz_class: a bit pattern plus a sign flag,
// not an arbitrary-precision value. The positive magnitude int64MaxPlus1
// does not fit a signed int64 (as Signed, that bit pattern is
// INT64_MIN), so the Unsigned representation is used to hold the
// magnitude of a negated INT64_MIN (see Neg), per spec.md section 4.4.
type Int struct {
	Value  uint64
	Signed bool
}

// FromInt64 wraps a signed 64-bit value.
func FromInt64(v int64) Int { return Int{Value: uint64(v), Signed: true} }

// FromUint64 wraps an unsigned 64-bit value.
func FromUint64(v uint64) Int { return Int{Value: v, Signed: false} }

func (v Int) IsZero() bool { return v.Value == 0 }

// Magnitude returns the absolute value and whether v is negative.
func (v Int) Magnitude() (uint64, bool) {
	if v.Signed && int64(v.Value) < 0 {
		if v.Value == uint64(math.MinInt64) {
			return int64MaxPlus1, true
		}
		return uint64(-int64(v.Value)), true
	}
	return v.Value, false
}

func (v Int) String() string {
	if v.Signed {
		return fmt.Sprintf("%d", int64(v.Value))
	}
	return fmt.Sprintf("%d", v.Value)
}

// Less implements the ordering of spec.md section 4.4: within identical
// signedness, compare as that kind; a negative signed value is less than
// any unsigned value and vice versa; two non-negative values of
// differing signedness compare by raw magnitude.
func (v Int) Less(w Int) bool {
	if v.Signed == w.Signed {
		if v.Signed {
			return int64(v.Value) < int64(w.Value)
		}
		return v.Value < w.Value
	}

	if v.Signed && int64(v.Value) < 0 {
		return true
	}
	if w.Signed && int64(w.Value) < 0 {
		return false
	}
	return v.Value < w.Value
}

func (v Int) Equal(w Int) bool  { return !v.Less(w) && !w.Less(v) }
func (v Int) Greater(w Int) bool { return w.Less(v) }

// Neg implements unary minus. Negating INT64_MIN cannot be represented
// as a signed int64, so the result is the unsigned magnitude
// int64MaxPlus1; negating an unsigned value whose magnitude exceeds that
// bound overflows.
func (v Int) Neg() (Int, error) {
	if v.Signed {
		if int64(v.Value) == math.MinInt64 {
			return Int{Value: int64MaxPlus1, Signed: false}, nil
		}
		return Int{Value: uint64(-int64(v.Value)), Signed: true}, nil
	}
	if v.Value > int64MaxPlus1 {
		return Int{}, ErrOverflow
	}
	return Int{Value: -v.Value, Signed: true}, nil
}

// Add implements checked addition following the original mpz_class
// operator+: same-sign operands are summed in their own domain with an
// overflow check; mixed-sign operands are rewritten in terms of Sub so
// that only one code path needs to reason about the crossover.
func (v Int) Add(w Int) (Int, error) {
	if v.Signed == w.Signed {
		if !v.Signed {
			r := v.Value + w.Value
			if r < v.Value {
				return Int{}, ErrOverflow
			}
			return Int{Value: r, Signed: false}, nil
		}

		a, b := int64(v.Value), int64(w.Value)
		if (a <= 0 && b >= 0) || (b <= 0 && a >= 0) {
			return Int{Value: uint64(a + b), Signed: true}, nil
		}
		if a >= 0 && b >= 0 {
			r := v.Value + w.Value
			if r < v.Value {
				return Int{}, ErrOverflow
			}
			return Int{Value: r, Signed: false}, nil
		}
		if a == math.MinInt64 || b == math.MinInt64 {
			return Int{}, ErrOverflow
		}
		ua, ub := uint64(-a), uint64(-b)
		ur := ua + ub
		if ur < ua || ur > int64MaxPlus1 {
			return Int{}, ErrOverflow
		}
		return Int{Value: -ur, Signed: true}, nil
	}

	if v.Signed && int64(v.Value) < 0 {
		negV, err := v.Neg()
		if err != nil {
			return Int{}, err
		}
		return w.Sub(negV)
	}
	if w.Signed && int64(w.Value) < 0 {
		negW, err := w.Neg()
		if err != nil {
			return Int{}, err
		}
		return v.Sub(negW)
	}

	r := v.Value + w.Value
	if r < v.Value {
		return Int{}, ErrOverflow
	}
	return Int{Value: r, Signed: false}, nil
}

// Sub implements checked subtraction following the original's
// operator-.
func (v Int) Sub(w Int) (Int, error) {
	vNeg := v.Signed && int64(v.Value) < 0
	wNeg := w.Signed && int64(w.Value) < 0

	if !vNeg && !wNeg {
		if v.Value > w.Value {
			return Int{Value: v.Value - w.Value, Signed: false}, nil
		}
		r := w.Value - v.Value
		if r > int64MaxPlus1 {
			return Int{}, ErrOverflow
		}
		return Int{Value: -r, Signed: true}, nil
	}

	if wNeg {
		negW, err := w.Neg()
		if err != nil {
			return Int{}, err
		}
		return v.Add(negW)
	}

	// v < 0, w >= 0: v - w, both as signed arithmetic; may underflow
	// past INT64_MIN.
	if w.Value > v.Value-uint64(math.MinInt64) {
		return Int{}, ErrOverflow
	}
	return Int{Value: uint64(int64(v.Value) - int64(w.Value)), Signed: true}, nil
}

// Mul implements checked multiplication following the original's
// operator*.
func (v Int) Mul(w Int) (Int, error) {
	vNeg := v.Signed && int64(v.Value) < 0
	wNeg := w.Signed && int64(w.Value) < 0

	if vNeg && wNeg {
		nv, err := v.Neg()
		if err != nil {
			return Int{}, err
		}
		nw, err := w.Neg()
		if err != nil {
			return Int{}, err
		}
		v, w = nv, nw
		vNeg, wNeg = false, false
	}

	if !vNeg && !wNeg {
		r := v.Value * w.Value
		if v.Value != 0 && r/v.Value != w.Value {
			return Int{}, ErrOverflow
		}
		return Int{Value: r, Signed: false}, nil
	}

	if vNeg {
		v, w = w, v
	}
	// now w is the negative operand
	a, err := w.Neg()
	if err != nil {
		return Int{}, err
	}
	r := a.Value * v.Value
	if a.Value != 0 && r/a.Value != v.Value {
		return Int{}, ErrOverflow
	}
	if r > int64MaxPlus1 {
		return Int{}, ErrOverflow
	}
	return Int{Value: -r, Signed: true}, nil
}

// DivMod implements floor division and floor modulo: the quotient rounds
// toward negative infinity (not toward zero), so -7 div 2 == -4 and
// -7 mod 2 == 1, matching spec.md section 4.4. Mixed-range operands (an
// unsigned value whose top bit is set, divided against a signed one) are
// computed via big.Int and then range-checked back into a signed Int.
func (v Int) DivMod(w Int) (q, r Int, err error) {
	if w.IsZero() {
		return Int{}, Int{}, ErrDivByZero
	}

	if !v.Signed && !w.Signed {
		return Int{Value: v.Value / w.Value, Signed: false},
			Int{Value: v.Value % w.Value, Signed: false}, nil
	}

	a, b := v.big(), w.big()
	bq := new(big.Int)
	br := new(big.Int)
	bq.QuoRem(a, b, br)
	// QuoRem truncates toward zero; adjust to floor semantics when the
	// signs differ and there is a nonzero remainder.
	if br.Sign() != 0 && (a.Sign() < 0) != (b.Sign() < 0) {
		bq.Sub(bq, big.NewInt(1))
		br.Add(br, b)
	}

	qi, ok := asInt64(bq)
	if !ok {
		return Int{}, Int{}, ErrOverflow
	}
	ri, ok := asInt64(br)
	if !ok {
		return Int{}, Int{}, ErrOverflow
	}
	return Int{Value: uint64(qi), Signed: true}, Int{Value: uint64(ri), Signed: true}, nil
}

func (v Int) big() *big.Int {
	if v.Signed {
		return big.NewInt(int64(v.Value))
	}
	return new(big.Int).SetUint64(v.Value)
}

func asInt64(b *big.Int) (int64, bool) {
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// Bitwise operations work on the raw 64-bit pattern. Signedness of the
// result follows spec.md section 4.4: AND is signed iff both operands
// are signed, OR is signed iff either is, XOR is signed iff the operands
// differ in signedness.
func (v Int) And(w Int) Int {
	return Int{Value: v.Value & w.Value, Signed: v.Signed && w.Signed}
}

func (v Int) Or(w Int) Int {
	return Int{Value: v.Value | w.Value, Signed: v.Signed || w.Signed}
}

func (v Int) Xor(w Int) Int {
	return Int{Value: v.Value ^ w.Value, Signed: v.Signed != w.Signed}
}

func (v Int) Not() Int {
	return Int{Value: ^v.Value, Signed: v.Signed}
}

// Shl and Shr yield constants that the caller places in the hex domain,
// per spec.md section 4.4.
func (v Int) Shl(bits uint) Int { return Int{Value: v.Value << bits, Signed: v.Signed} }
func (v Int) Shr(bits uint) Int { return Int{Value: v.Value >> bits, Signed: v.Signed} }

// Bits enumerates the positions of set bits, least significant first,
// reading the underlying 64-bit pattern one bit at a time through a
// utils.BitView rather than hand-rolled shift-and-mask arithmetic.
func (v Int) Bits() []uint {
	view := utils.CreateBitView(&v.Value)
	var out []uint
	for i := 0; i < view.SizeofBits(); i++ {
		if view.Read(i, 1) != 0 {
			out = append(out, uint(i))
		}
	}
	return out
}
