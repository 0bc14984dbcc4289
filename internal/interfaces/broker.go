package interfaces

import (
	"context"

	"crypto-trading-bot/internal/types"
)

type Broker interface {
	Candles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error)
	FreeBalance(ctx context.Context, asset string) (float64, error)
	SymbolConstraints(ctx context.Context, symbol string) (types.SymbolConstraints, error)
	MarketOrder(ctx context.Context, req types.OrderReq) (types.OrderReceipt, error)
	Ping(ctx context.Context) error
}
