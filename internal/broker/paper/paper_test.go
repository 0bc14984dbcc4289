package paper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-trading-bot/internal/types"
)

func TestCandlesDeterministic(t *testing.T) {
	b := New("USDT", 1000)
	ctx := context.Background()

	a, err := b.Candles(ctx, "BTCUSDT", "15m", 50)
	require.NoError(t, err)
	require.Len(t, a, 50)

	c, err := b.Candles(ctx, "BTCUSDT", "15m", 50)
	require.NoError(t, err)
	assert.Equal(t, a, c, "same symbol and window must replay the same walk")

	other, err := b.Candles(ctx, "ETHUSDT", "15m", 50)
	require.NoError(t, err)
	assert.NotEqual(t, a[0].Close, other[0].Close, "symbols get distinct walks")

	for _, k := range a {
		assert.Positive(t, k.Close)
	}
	for i := 1; i < len(a); i++ {
		assert.Greater(t, a[i].Ts, a[i-1].Ts)
	}
}

func TestSymbolConstraints(t *testing.T) {
	b := New("USDT", 1000)
	sc, err := b.SymbolConstraints(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTC", sc.BaseAsset)
	assert.Equal(t, "USDT", sc.QuoteAsset)
	assert.Equal(t, defaultStepSize, sc.StepSize)

	_, err = b.SymbolConstraints(context.Background(), "BTCEUR")
	assert.Error(t, err, "pair must end in the configured quote asset")
}

func TestMarketOrderMovesBalances(t *testing.T) {
	b := New("USDT", 1000)
	ctx := context.Background()

	receipt, err := b.MarketOrder(ctx, types.OrderReq{Symbol: "BTCUSDT", Side: "BUY", Qty: 0.001})
	require.NoError(t, err)
	assert.Equal(t, "FILLED", receipt.Status)
	assert.NotEmpty(t, receipt.OrderID)

	btc, err := b.FreeBalance(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, 0.001, btc)

	usdt, err := b.FreeBalance(ctx, "USDT")
	require.NoError(t, err)
	assert.Less(t, usdt, 1000.0)

	_, err = b.MarketOrder(ctx, types.OrderReq{Symbol: "BTCUSDT", Side: "SELL", Qty: 1})
	assert.Error(t, err, "cannot sell more than the base balance")

	_, err = b.MarketOrder(ctx, types.OrderReq{Symbol: "BTCUSDT", Side: "SHORT", Qty: 1})
	assert.Error(t, err)
}

func TestInsufficientQuoteRejectsBuy(t *testing.T) {
	b := New("USDT", 0)
	_, err := b.MarketOrder(context.Background(), types.OrderReq{Symbol: "BTCUSDT", Side: "BUY", Qty: 1})
	assert.Error(t, err)
}
