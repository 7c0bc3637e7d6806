package constant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Int
		want    Int
		wantErr bool
	}{
		{"unsigned", FromUint64(2), FromUint64(3), FromUint64(5), false},
		{"signed negatives", FromInt64(-2), FromInt64(-3), FromInt64(-5), false},
		{"mixed sign", FromInt64(-10), FromUint64(3), FromInt64(-7), false},
		{"unsigned overflow", FromUint64(math.MaxUint64), FromUint64(1), Int{}, true},
		{"signed min plus signed min", FromInt64(math.MinInt64), FromInt64(math.MinInt64), Int{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestIntNegMinInt64(t *testing.T) {
	v := FromInt64(math.MinInt64)
	neg, err := v.Neg()
	require.NoError(t, err)
	assert.False(t, neg.Signed)
	assert.Equal(t, uint64(math.MaxInt64)+1, neg.Value)

	// Negating that magnitude back yields INT64_MIN again, signed.
	back, err := neg.Neg()
	require.NoError(t, err)
	assert.True(t, back.Signed)
	assert.Equal(t, int64(math.MinInt64), int64(back.Value))
}

func TestIntDivModFloorSemantics(t *testing.T) {
	q, r, err := FromInt64(-7).DivMod(FromInt64(2))
	require.NoError(t, err)
	assert.Equal(t, int64(-4), int64(q.Value))
	assert.Equal(t, int64(1), int64(r.Value))
}

func TestIntDivByZero(t *testing.T) {
	_, _, err := FromInt64(10).DivMod(FromInt64(0))
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestIntLess(t *testing.T) {
	assert.True(t, FromInt64(-1).Less(FromUint64(0)))
	assert.False(t, FromUint64(5).Less(FromUint64(5)))
	assert.True(t, FromInt64(3).Less(FromInt64(4)))
}

func TestIntBits(t *testing.T) {
	v := FromUint64(0b1011)
	assert.Equal(t, []uint{0, 1, 3}, v.Bits())
}
