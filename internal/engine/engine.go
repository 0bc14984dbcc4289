package engine

import (
	"context"
	"fmt"
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/metrics"
	"crypto-trading-bot/internal/signal"
	"crypto-trading-bot/internal/sizing"
	"crypto-trading-bot/internal/store"
	"crypto-trading-bot/internal/tradelog"
	"crypto-trading-bot/internal/types"
)

// Engine runs one synchronous pass per cycle over the configured symbols:
// fetch candles, evaluate the signal, size the order, submit, log, notify.
// Every failure is caught at the per-symbol boundary and reported in the
// StepResult; nothing escapes the loop.
type Engine struct {
	cfg *store.Config
	brk interfaces.Broker
	ntf interfaces.Notifier
	log *tradelog.Log
}

var _ interfaces.Engine = (*Engine)(nil)

func New(cfg *store.Config, brk interfaces.Broker, ntf interfaces.Notifier, log *tradelog.Log) *Engine {
	return &Engine{cfg: cfg, brk: brk, ntf: ntf, log: log}
}

// RunCycle processes all symbols sequentially. The free quote balance is
// read once at the top and divided across symbols without re-reading; if
// several pairs buy in the same cycle the later ones size against a
// balance the earlier ones already spent. Known, accepted.
func (e *Engine) RunCycle(ctx context.Context) []types.StepResult {
	ctx, span := logger.StartSpan(ctx, "engine.cycle")
	defer span.End()
	start := time.Now()
	defer func() {
		metrics.CyclesTotal.Inc()
		metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	freeQuote, err := e.brk.FreeBalance(ctx, e.cfg.QuoteAsset)
	if err != nil {
		logger.Warn(ctx, "Failed to fetch quote balance, buys sized from zero", "asset", e.cfg.QuoteAsset, "error", err)
		freeQuote = 0
	} else {
		metrics.QuoteBalance.Set(freeQuote)
	}
	logger.Debug(ctx, "Cycle started", "symbols", len(e.cfg.Symbols), "free_quote", freeQuote)

	results := make([]types.StepResult, 0, len(e.cfg.Symbols))
	for _, sym := range e.cfg.Symbols {
		res := e.step(ctx, sym, freeQuote)
		metrics.StepsTotal.WithLabelValues(string(res.Status)).Inc()
		results = append(results, res)
	}
	return results
}

func (e *Engine) step(ctx context.Context, symbol string, freeQuote float64) types.StepResult {
	ctx, span := logger.StartSpan(ctx, "engine.step")
	defer span.End()

	candles, err := e.brk.Candles(ctx, symbol, e.cfg.Interval, e.cfg.CandleLimit)
	if err != nil {
		logger.Warn(ctx, "Candle fetch failed, skipping symbol", "symbol", symbol, "error", err)
		return types.StepResult{Symbol: symbol, Status: types.StepFailed, Reason: "candle fetch: " + err.Error()}
	}
	if len(candles) < 3 {
		return types.StepResult{Symbol: symbol, Status: types.StepSkipped, Reason: "not enough bars"}
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	ev := signal.Evaluate(closes, e.cfg.SignalParams())
	logger.Debug(ctx, "Signal evaluated", "symbol", symbol, "buy", ev.Buy, "sell", ev.Sell, "price", ev.Price, "reason", ev.Reason)

	if !ev.Buy && !ev.Sell {
		return types.StepResult{Symbol: symbol, Status: types.StepSkipped, Price: ev.Price, Reason: "no signal"}
	}
	if !e.cfg.TradingOn() {
		logger.Info(ctx, "Signal suppressed, trading disabled", "symbol", symbol, "reason", ev.Reason)
		return types.StepResult{Symbol: symbol, Status: types.StepSkipped, Price: ev.Price, Reason: "trading disabled: " + ev.Reason}
	}

	sc, err := e.brk.SymbolConstraints(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Symbol constraint lookup failed", "symbol", symbol, "error", err)
		return types.StepResult{Symbol: symbol, Status: types.StepFailed, Price: ev.Price, Reason: "constraints: " + err.Error()}
	}

	res := types.StepResult{Symbol: symbol, Status: types.StepSkipped, Price: ev.Price, Reason: ev.Reason}
	// Buy and sell are evaluated independently; with the EMA cross
	// OR-ed in, both can fire on the same bar. Buy runs first.
	if ev.Buy {
		e.executeBuy(ctx, &res, sc, freeQuote, ev)
	}
	if ev.Sell {
		e.executeSell(ctx, &res, sc, ev)
	}
	return res
}

func (e *Engine) executeBuy(ctx context.Context, res *types.StepResult, sc types.SymbolConstraints, freeQuote float64, ev signal.Evaluation) {
	qty := sizing.BuyQuantity(freeQuote, len(e.cfg.Symbols), ev.Price)
	adj, err := sizing.AdjustQuantity(qty, sc.StepSize)
	if err != nil {
		logger.Warn(ctx, "Buy sizing failed", "symbol", sc.Symbol, "qty", qty, "step", sc.StepSize, "error", err)
		res.Status = types.StepFailed
		res.Reason = "sizing: " + err.Error()
		return
	}
	if !sizing.MeetsMinNotional(adj, ev.Price, sc.MinNotional) {
		logger.Warn(ctx, "Buy below minimum notional, skipping order",
			"symbol", sc.Symbol, "qty", adj, "price", ev.Price, "min_notional", sc.MinNotional)
		res.Reason = "below min notional"
		return
	}
	receipt, err := e.brk.MarketOrder(ctx, types.OrderReq{Symbol: sc.Symbol, Side: "BUY", Qty: adj})
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("BUY", "error").Inc()
		logger.ErrorWithErr(ctx, "Buy order failed", err, "symbol", sc.Symbol, "qty", adj, "price", ev.Price)
		res.Status = types.StepFailed
		res.Reason = "buy order: " + err.Error()
		return
	}
	metrics.OrdersTotal.WithLabelValues("BUY", "ok").Inc()
	logger.Info(ctx, "Trade executed", "symbol", sc.Symbol, "side", "BUY", "qty", adj, "price", ev.Price, "order_id", receipt.OrderID, "reason", ev.Reason)
	e.record(ctx, sc.Symbol, types.SideBuy, ev.Price, adj)
	e.alert(ctx, fmt.Sprintf("🚀 COMPRA: %s a %.2f", sc.Symbol, ev.Price))
	res.Status = types.StepTraded
	res.Side = "BUY"
	res.Qty = adj
	res.Orders = append(res.Orders, receipt)
}

// executeSell dumps the full free base-asset balance, truncated to the
// lot step, exactly like the buy path never does partial exits.
func (e *Engine) executeSell(ctx context.Context, res *types.StepResult, sc types.SymbolConstraints, ev signal.Evaluation) {
	baseFree, err := e.brk.FreeBalance(ctx, sc.BaseAsset)
	if err != nil {
		logger.Warn(ctx, "Base balance fetch failed", "asset", sc.BaseAsset, "error", err)
		res.Status = types.StepFailed
		res.Reason = "base balance: " + err.Error()
		return
	}
	adj, err := sizing.AdjustQuantity(baseFree, sc.StepSize)
	if err != nil {
		logger.Warn(ctx, "Sell sizing failed", "symbol", sc.Symbol, "qty", baseFree, "step", sc.StepSize, "error", err)
		res.Status = types.StepFailed
		res.Reason = "sizing: " + err.Error()
		return
	}
	if adj <= 0 || !sizing.MeetsMinNotional(adj, ev.Price, sc.MinNotional) {
		logger.Warn(ctx, "Sell below minimum notional or empty, skipping order",
			"symbol", sc.Symbol, "qty", adj, "price", ev.Price, "min_notional", sc.MinNotional)
		if res.Status != types.StepTraded {
			res.Reason = "below min notional"
		}
		return
	}
	receipt, err := e.brk.MarketOrder(ctx, types.OrderReq{Symbol: sc.Symbol, Side: "SELL", Qty: adj})
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("SELL", "error").Inc()
		logger.ErrorWithErr(ctx, "Sell order failed", err, "symbol", sc.Symbol, "qty", adj, "price", ev.Price)
		res.Status = types.StepFailed
		res.Reason = "sell order: " + err.Error()
		return
	}
	metrics.OrdersTotal.WithLabelValues("SELL", "ok").Inc()
	logger.Info(ctx, "Trade executed", "symbol", sc.Symbol, "side", "SELL", "qty", adj, "price", ev.Price, "order_id", receipt.OrderID, "reason", ev.Reason)
	e.record(ctx, sc.Symbol, types.SideSell, ev.Price, adj)
	e.alert(ctx, fmt.Sprintf("🔻 VENDA: %s a %.2f", sc.Symbol, ev.Price))
	res.Status = types.StepTraded
	res.Side = "SELL"
	res.Qty = adj
	res.Orders = append(res.Orders, receipt)
}

// record appends the trade to the durable log. The order already went
// through; a write failure leaves an executed-but-unrecorded trade, which
// is surfaced as a warning and nothing more.
func (e *Engine) record(ctx context.Context, symbol, side string, price, qty float64) {
	err := e.log.Append(tradelog.Record{
		Symbol: symbol,
		Side:   side,
		Price:  price,
		Qty:    qty,
		Params: e.cfg.ParamSnapshot(),
	})
	if err != nil {
		logger.Warn(ctx, "Trade log write failed, trade executed but unrecorded",
			"symbol", symbol, "side", side, "error", err)
	}
}

func (e *Engine) alert(ctx context.Context, message string) {
	if e.ntf == nil {
		return
	}
	if err := e.ntf.Notify(ctx, message); err != nil {
		logger.Warn(ctx, "Alert delivery failed", "error", err)
	}
}
