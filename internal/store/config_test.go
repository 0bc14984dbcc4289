package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, "symbols: [BTCUSDT, ETHUSDT]\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "DRY_RUN" {
		t.Errorf("mode = %q, want DRY_RUN", cfg.Mode)
	}
	if cfg.PollSeconds != 30 || cfg.Interval != "15m" || cfg.CandleLimit != 100 {
		t.Errorf("poll/interval/limit defaults wrong: %d %s %d", cfg.PollSeconds, cfg.Interval, cfg.CandleLimit)
	}
	if cfg.Strategy.MACDFast != 12 || cfg.Strategy.MACDSlow != 26 || cfg.Strategy.MACDSignal != 9 {
		t.Errorf("macd defaults wrong: %+v", cfg.Strategy)
	}
	if cfg.StopLossPct != 0.05 {
		t.Errorf("stop loss default = %v, want 0.05", cfg.StopLossPct)
	}
	if !cfg.TradingOn() {
		t.Error("trading should default to enabled")
	}
}

func TestLoadConfigTradingToggle(t *testing.T) {
	p := writeConfig(t, "symbols: [BTCUSDT]\ntrading_enabled: false\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TradingOn() {
		t.Error("trading_enabled: false ignored")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"no symbols":     "mode: LIVE\n",
		"bad mode":       "symbols: [BTCUSDT]\nmode: TEST\n",
		"bad interval":   "symbols: [BTCUSDT]\ninterval: 3m\n",
		"fast over slow": "symbols: [BTCUSDT]\nstrategy: {macd_fast: 20, macd_slow: 15}\n",
		"macd fast low":  "symbols: [BTCUSDT]\nstrategy: {macd_fast: 2}\n",
		"stop loss":      "symbols: [BTCUSDT]\nstop_loss_pct: 1.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Errorf("config %q accepted, want error", body)
			}
		})
	}
}

func TestParamSnapshot(t *testing.T) {
	p := writeConfig(t, "symbols: [BTCUSDT]\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	snap := cfg.ParamSnapshot()
	if len(snap) != 3 || snap[0] != "12" || snap[1] != "26" || snap[2] != "9" {
		t.Errorf("macd snapshot = %v", snap)
	}

	cfg.Strategy.Mode = "RSI_EMA"
	snap = cfg.ParamSnapshot()
	if len(snap) != 5 || snap[0] != "30" || snap[1] != "70" {
		t.Errorf("rsi snapshot = %v", snap)
	}
}
