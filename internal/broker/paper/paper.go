// Package paper is an in-memory broker for DRY_RUN mode and tests. It
// serves a deterministic synthetic price walk per symbol and fills market
// orders instantly against simulated balances, so the whole loop can run
// without exchange credentials.
package paper

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"crypto-trading-bot/internal/types"
)

const (
	defaultStepSize    = "0.00001000"
	defaultMinNotional = 10.0
)

type Broker struct {
	mu       sync.Mutex
	quote    string
	balances map[string]float64
	orderSeq int64
}

func New(quoteAsset string, startingQuote float64) *Broker {
	return &Broker{
		quote:    quoteAsset,
		balances: map[string]float64{quoteAsset: startingQuote},
	}
}

func (b *Broker) Ping(ctx context.Context) error { return nil }

// Candles synthesizes a smooth oscillating walk seeded by the symbol
// name, so every run sees the same series and crossovers actually occur.
func (b *Broker) Candles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error) {
	seed := 0.0
	for _, r := range symbol {
		seed += float64(r)
	}
	base := 50 + math.Mod(seed, 900)
	step := intervalSeconds(interval)
	now := time.Now().Unix()
	// Anchor the phase to wall time so consecutive cycles see the walk
	// advance by one bar.
	phase := now / step

	candles := make([]types.Candle, 0, limit)
	for i := 0; i < limit; i++ {
		k := float64(phase - int64(limit) + int64(i))
		price := base * (1 + 0.03*math.Sin(k/9) + 0.01*math.Sin(k/3+seed))
		candles = append(candles, types.Candle{
			Ts:    now - (int64(limit)-int64(i))*step,
			Close: price,
		})
	}
	return candles, nil
}

func (b *Broker) FreeBalance(ctx context.Context, asset string) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[asset], nil
}

func (b *Broker) SymbolConstraints(ctx context.Context, symbol string) (types.SymbolConstraints, error) {
	base := strings.TrimSuffix(symbol, b.quote)
	if base == symbol || base == "" {
		return types.SymbolConstraints{}, fmt.Errorf("paper: symbol %s does not end in %s", symbol, b.quote)
	}
	return types.SymbolConstraints{
		Symbol:      symbol,
		BaseAsset:   base,
		QuoteAsset:  b.quote,
		StepSize:    defaultStepSize,
		MinNotional: defaultMinNotional,
	}, nil
}

func (b *Broker) MarketOrder(ctx context.Context, req types.OrderReq) (types.OrderReceipt, error) {
	candles, err := b.Candles(ctx, req.Symbol, "15m", 1)
	if err != nil || len(candles) == 0 {
		return types.OrderReceipt{}, fmt.Errorf("paper: no price for %s", req.Symbol)
	}
	price := candles[0].Close
	sc, err := b.SymbolConstraints(ctx, req.Symbol)
	if err != nil {
		return types.OrderReceipt{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	notional := req.Qty * price
	switch req.Side {
	case "BUY":
		if b.balances[b.quote] < notional {
			return types.OrderReceipt{}, fmt.Errorf("paper: insufficient %s balance", b.quote)
		}
		b.balances[b.quote] -= notional
		b.balances[sc.BaseAsset] += req.Qty
	case "SELL":
		if b.balances[sc.BaseAsset] < req.Qty {
			return types.OrderReceipt{}, fmt.Errorf("paper: insufficient %s balance", sc.BaseAsset)
		}
		b.balances[sc.BaseAsset] -= req.Qty
		b.balances[b.quote] += notional
	default:
		return types.OrderReceipt{}, fmt.Errorf("paper: unknown side %q", req.Side)
	}
	b.orderSeq++
	return types.OrderReceipt{OrderID: "paper-" + strconv.FormatInt(b.orderSeq, 10), Status: "FILLED"}, nil
}

// SetBalance overrides one asset balance. Test hook.
func (b *Broker) SetBalance(asset string, free float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[asset] = free
}

func intervalSeconds(interval string) int64 {
	switch interval {
	case "5m":
		return 300
	case "1h":
		return 3600
	default:
		return 900
	}
}
