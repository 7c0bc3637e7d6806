package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantShow(t *testing.T) {
	assert.Equal(t, "0x10", New(FromUint64(16), Hex).Show(Full))
	assert.Equal(t, "10", New(FromUint64(16), Hex).Show(Brief))
	assert.Equal(t, "-0x5", New(FromInt64(-5), Hex).Show(Full))
	assert.Equal(t, "true", New(FromUint64(1), Boolean).Show(Full))
	assert.Equal(t, "false", New(FromUint64(0), Boolean).Show(Full))
}

func TestResultDomainPlainYields(t *testing.T) {
	dec := New(FromInt64(5), Decimal)
	hex := New(FromInt64(3), Hex)

	sum, err := Add(nil, hex, dec)
	require.NoError(t, err)
	assert.Same(t, Hex, sum.Dom)

	sum2, err := Add(nil, dec, hex)
	require.NoError(t, err)
	assert.Same(t, Hex, sum2.Dom)
}

func TestBitEnumeratesSetBits(t *testing.T) {
	bits := Bit(New(FromUint64(0x37), Hex))
	var shown []string
	for _, b := range bits {
		shown = append(shown, b.Show(Full))
	}
	assert.Equal(t, []string{"0x1", "0x2", "0x4", "0x10", "0x20"}, shown)
}

func TestBitPreservesSign(t *testing.T) {
	neg := New(FromInt64(-5), Decimal) // -5 = -(101b) = bits 0 and 2
	bits := Bit(neg)
	require.Len(t, bits, 2)
	for _, b := range bits {
		assert.True(t, b.Val.Signed)
		assert.Less(t, int64(b.Val.Value), int64(0))
	}
}

func TestConstantLessAcrossSafeArithDomains(t *testing.T) {
	a := New(FromUint64(1), Hex)
	b := New(FromUint64(2), Octal)
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestDivModByZeroReportsArithmeticError(t *testing.T) {
	_, err := Div(nil, New(FromInt64(10), Decimal), New(FromInt64(0), Decimal))
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestNegHexStaysHex(t *testing.T) {
	v := New(FromUint64(1), Hex)
	n, err := Neg(nil, v)
	require.NoError(t, err)
	assert.Same(t, Hex, n.Dom)
	assert.Equal(t, "-0x1", n.Show(Full))
}
