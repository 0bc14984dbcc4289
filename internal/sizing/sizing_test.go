package sizing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustQuantityTruncates(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		step string
		want float64
	}{
		{"truncate not round", 1.23456, "0.001", 1.234},
		{"zero padded step", 1.23456, "0.00100000", 1.234},
		{"five decimals", 0.123456789, "0.00001", 0.12345},
		{"integer step", 7.9, "1.00000000", 7},
		{"exact multiple unchanged", 1.234, "0.001", 1.234},
		{"zero quantity", 0, "0.001", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustQuantity(tt.qty, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdjustQuantityNeverExceedsInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	steps := []string{"0.001", "0.00001", "0.1", "1", "0.01000000"}
	for i := 0; i < 500; i++ {
		qty := rng.Float64() * 1000
		step := steps[i%len(steps)]
		got, err := AdjustQuantity(qty, step)
		require.NoError(t, err)
		assert.LessOrEqual(t, got, qty, "qty %v step %s", qty, step)
	}
}

func TestAdjustQuantityErrors(t *testing.T) {
	_, err := AdjustQuantity(1, "0")
	assert.ErrorIs(t, err, ErrZeroStep)
	_, err = AdjustQuantity(1, "0.00000000")
	assert.ErrorIs(t, err, ErrZeroStep)
	_, err = AdjustQuantity(1, "abc")
	assert.Error(t, err)
}

func TestBuyQuantity(t *testing.T) {
	// 1000 USDT over 5 pairs at price 100 -> 2 base units per pair.
	assert.Equal(t, 2.0, BuyQuantity(1000, 5, 100))
	assert.Equal(t, 0.0, BuyQuantity(1000, 0, 100))
	assert.Equal(t, 0.0, BuyQuantity(1000, 5, 0))
	assert.Equal(t, 0.0, BuyQuantity(0, 5, 100))
}

func TestMeetsMinNotional(t *testing.T) {
	assert.True(t, MeetsMinNotional(0.5, 100, 10))
	assert.True(t, MeetsMinNotional(0.1, 100, 10))
	assert.False(t, MeetsMinNotional(0.05, 100, 10))
	assert.False(t, MeetsMinNotional(0, 100, 0))
}
