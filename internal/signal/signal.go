// Package signal turns indicator series into buy/sell decisions for a
// single trading pair. Crossover modes are one-bar edge detectors: a
// signal fires only on the exact bar where the lines cross, never while
// one line merely sits above the other.
package signal

import (
	"crypto-trading-bot/internal/ta"
)

type Mode string

const (
	ModeMACDCross Mode = "MACD_CROSS"
	ModeRSIEMA    Mode = "RSI_EMA"
)

type Params struct {
	Mode Mode

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	// Dual-EMA crossover, OR-ed with the MACD crossover when enabled.
	UseEMACross bool
	EMAShort    int
	EMALong     int

	// RSI_EMA mode only.
	RSIPeriod    int
	RSIBuyBelow  float64
	RSISellAbove float64
	MACDConfirm  bool
}

type Evaluation struct {
	Buy    bool
	Sell   bool
	Price  float64
	Reason string
}

// CrossUp reports whether a crossed above b between the last two bars.
func CrossUp(a, b []float64) bool {
	n := len(a)
	if n < 2 || len(b) < 2 || len(b) != n {
		return false
	}
	return a[n-2] < b[n-2] && a[n-1] > b[n-1]
}

// CrossDown reports whether a crossed below b between the last two bars.
func CrossDown(a, b []float64) bool {
	n := len(a)
	if n < 2 || len(b) < 2 || len(b) != n {
		return false
	}
	return a[n-2] > b[n-2] && a[n-1] < b[n-1]
}

// Evaluate computes the configured indicators over closes and returns the
// buy/sell decision for the latest bar. Fewer than 3 bars short-circuits
// to no signal: the evaluator needs the last two indicator values, which
// themselves need at least one warm-up bar.
func Evaluate(closes []float64, p Params) Evaluation {
	if len(closes) < 3 {
		return Evaluation{Reason: "not enough bars"}
	}
	ev := Evaluation{Price: closes[len(closes)-1]}
	line, sig, _ := ta.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	last := len(closes) - 1

	switch p.Mode {
	case ModeRSIEMA:
		rsi := ta.RSI(closes, p.RSIPeriod)
		emaShort := ta.EMA(closes, p.EMAShort)
		emaLong := ta.EMA(closes, p.EMALong)
		ev.Buy = rsi[last] < p.RSIBuyBelow && emaShort[last] > emaLong[last]
		ev.Sell = rsi[last] > p.RSISellAbove && emaShort[last] < emaLong[last]
		if p.MACDConfirm {
			// Level comparison, deliberately not a crossover.
			ev.Buy = ev.Buy && line[last] > sig[last]
			ev.Sell = ev.Sell && line[last] < sig[last]
		}
		if ev.Buy {
			ev.Reason = "rsi oversold + ema trend up"
		} else if ev.Sell {
			ev.Reason = "rsi overbought + ema trend down"
		}
	default: // MACD_CROSS
		if CrossUp(line, sig) {
			ev.Buy = true
			ev.Reason = "macd crossed above signal"
		}
		if CrossDown(line, sig) {
			ev.Sell = true
			ev.Reason = "macd crossed below signal"
		}
		if p.UseEMACross {
			emaShort := ta.EMA(closes, p.EMAShort)
			emaLong := ta.EMA(closes, p.EMALong)
			if CrossUp(emaShort, emaLong) {
				ev.Buy = true
				ev.Reason = "ema crossed above"
			}
			if CrossDown(emaShort, emaLong) {
				ev.Sell = true
				ev.Reason = "ema crossed below"
			}
		}
	}
	return ev
}
