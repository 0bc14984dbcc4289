package ta

import "math"

// EMA smooths prices with a normalized exponential kernel of length period
// (weights proportional to exp(linspace(-1,0,period))), convolved against
// the series and truncated to len(prices). This is not the recursive
// alpha formula; the kernel definition is load-bearing for compatibility
// with the historical signal behavior. The warm-up region out[:period] is
// backfilled with out[period] when enough samples exist.
func EMA(prices []float64, period int) []float64 {
	n := len(prices)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if period <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	w := make([]float64, period)
	sum := 0.0
	for i := range w {
		x := -1.0
		if period > 1 {
			x = -1.0 + float64(i)/float64(period-1)
		}
		w[i] = math.Exp(x)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	for k := 0; k < n; k++ {
		acc := 0.0
		for m := 0; m < period && m <= k; m++ {
			acc += w[m] * prices[k-m]
		}
		out[k] = acc
	}
	if period < n {
		v := out[period]
		for i := 0; i < period; i++ {
			out[i] = v
		}
	}
	return out
}

// MACD returns the macd line, signal line and histogram, each the same
// length as prices.
func MACD(prices []float64, fast, slow, signal int) (line, signalLine, hist []float64) {
	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)
	line = make([]float64, len(prices))
	for i := range line {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signalLine = EMA(line, signal)
	hist = make([]float64, len(prices))
	for i := range hist {
		hist[i] = line[i] - signalLine[i]
	}
	return line, signalLine, hist
}

// RSI is the Wilder-smoothed relative strength index. The seed averages the
// gains and losses over the first period deltas; later bars update the
// running averages with factor 1/period. RS is forced to 0 when the average
// loss is zero, which under-reports strength on all-gain windows; that
// quirk is intentional and must not be "fixed".
func RSI(prices []float64, period int) []float64 {
	n := len(prices)
	out := make([]float64, n)
	if n == 0 || period <= 0 {
		return out
	}
	up, down := 0.0, 0.0
	seedEnd := period
	if n-1 < seedEnd {
		seedEnd = n - 1
	}
	for i := 0; i < seedEnd; i++ {
		d := prices[i+1] - prices[i]
		if d >= 0 {
			up += d
		} else {
			down -= d
		}
	}
	up /= float64(period)
	down /= float64(period)
	rs := 0.0
	if down != 0 {
		rs = up / down
	}
	seed := 100.0 - 100.0/(1.0+rs)
	for i := 0; i < period && i < n; i++ {
		out[i] = seed
	}
	for i := period; i < n; i++ {
		d := prices[i] - prices[i-1]
		upval, downval := 0.0, 0.0
		if d > 0 {
			upval = d
		} else {
			downval = -d
		}
		up = (up*float64(period-1) + upval) / float64(period)
		down = (down*float64(period-1) + downval) / float64(period)
		rs = 0
		if down != 0 {
			rs = up / down
		}
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
