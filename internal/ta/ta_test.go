package ta

import (
	"math"
	"testing"
)

func TestEMAWarmupBackfill(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}
	for _, period := range []int{5, 9, 21} {
		out := EMA(prices, period)
		if len(out) != len(prices) {
			t.Fatalf("period %d: len = %d, want %d", period, len(out), len(prices))
		}
		for i := 0; i < period; i++ {
			if out[i] != out[0] {
				t.Errorf("period %d: warm-up entry %d = %v, want %v", period, i, out[i], out[0])
			}
		}
		if out[0] != out[period] {
			t.Errorf("period %d: warm-up not backfilled from index %d", period, period)
		}
	}
}

func TestEMAKernelWeights(t *testing.T) {
	// Hand-computed for period 2: weights exp(-1), exp(0) normalized.
	prices := []float64{1, 2, 3, 4}
	out := EMA(prices, 2)
	w0 := math.Exp(-1) / (math.Exp(-1) + 1)
	w1 := 1 / (math.Exp(-1) + 1)
	want3 := w0*4 + w1*3
	if math.Abs(out[3]-want3) > 1e-12 {
		t.Errorf("out[3] = %v, want %v", out[3], want3)
	}
	// Backfill: out[0] and out[1] must equal out[2].
	want2 := w0*3 + w1*2
	for i := 0; i < 2; i++ {
		if math.Abs(out[i]-want2) > 1e-12 {
			t.Errorf("out[%d] = %v, want backfilled %v", i, out[i], want2)
		}
	}
}

func TestEMAShortInput(t *testing.T) {
	// period >= len(prices) must not panic; partial values are acceptable.
	out := EMA([]float64{1, 2}, 5)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if len(EMA(nil, 3)) != 0 {
		t.Fatal("empty input should produce empty output")
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/7)
	}
	line, signal, hist := MACD(prices, 12, 26, 9)
	if len(line) != 100 || len(signal) != 100 || len(hist) != 100 {
		t.Fatalf("lengths = %d/%d/%d, want 100", len(line), len(signal), len(hist))
	}
	for i := range hist {
		if hist[i] != line[i]-signal[i] {
			t.Errorf("hist[%d] = %v, want %v", i, hist[i], line[i]-signal[i])
		}
	}
}

func TestRSIBounds(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/3) + 0.1*float64(i%7)
	}
	out := RSI(prices, 14)
	if len(out) != 100 {
		t.Fatalf("len = %d, want 100", len(out))
	}
	for i, v := range out {
		if v < 0 || v > 100 {
			t.Errorf("RSI[%d] = %v outside [0,100]", i, v)
		}
	}
}

func TestRSIDirectional(t *testing.T) {
	// A single early dip keeps the loss average non-zero so the RS=0
	// degenerate branch is not hit; steady gains afterwards must push
	// RSI close to 100.
	up := make([]float64, 60)
	up[0] = 100
	up[1] = 99
	for i := 2; i < len(up); i++ {
		up[i] = up[i-1] + 2
	}
	rsiUp := RSI(up, 14)
	if last := rsiUp[len(rsiUp)-1]; last < 95 {
		t.Errorf("rising series RSI = %v, want > 95", last)
	}

	down := make([]float64, 60)
	down[0] = 500
	for i := 1; i < len(down); i++ {
		down[i] = down[i-1] - 2
	}
	rsiDown := RSI(down, 14)
	if last := rsiDown[len(rsiDown)-1]; last > 5 {
		t.Errorf("falling series RSI = %v, want < 5", last)
	}
}

func TestRSIZeroLossQuirk(t *testing.T) {
	// All-gain windows force RS=0, collapsing RSI to 0 instead of 100.
	// This mirrors the historical behavior and is relied on elsewhere.
	up := make([]float64, 40)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	out := RSI(up, 14)
	if out[len(out)-1] != 0 {
		t.Errorf("all-gain RSI = %v, want 0 (RS=0 quirk)", out[len(out)-1])
	}
}

func TestRSISeedRepeated(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + 3*math.Sin(float64(i))
	}
	out := RSI(prices, 14)
	for i := 1; i < 14; i++ {
		if out[i] != out[0] {
			t.Errorf("seed region entry %d = %v, want %v", i, out[i], out[0])
		}
	}
}
