package store

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"crypto-trading-bot/internal/signal"
)

// Config is the startup configuration. The engine receives it as an
// immutable snapshot per cycle; nothing mutates it after LoadConfig.
type Config struct {
	Mode        string   `yaml:"mode" validate:"oneof=DRY_RUN LIVE"`
	PollSeconds int      `yaml:"poll_seconds" validate:"gte=0"`
	Interval    string   `yaml:"interval" validate:"oneof=5m 15m 1h"`
	Symbols     []string `yaml:"symbols" validate:"min=1,dive,required"`
	QuoteAsset  string   `yaml:"quote_asset"`
	CandleLimit int      `yaml:"candle_limit" validate:"gte=0"`

	// Trading toggle; nil means enabled (the historical default).
	Trading *bool `yaml:"trading_enabled"`

	StopLossPct  float64 `yaml:"stop_loss_pct" validate:"gte=0,lte=1"`
	TradeLogPath string  `yaml:"trade_log_path"`
	ListenAddr   string  `yaml:"listen_addr"`

	Strategy struct {
		Mode         string  `yaml:"mode" validate:"oneof=MACD_CROSS RSI_EMA"`
		MACDFast     int     `yaml:"macd_fast" validate:"gte=5,lte=20"`
		MACDSlow     int     `yaml:"macd_slow" validate:"gte=15,lte=50"`
		MACDSignal   int     `yaml:"macd_signal" validate:"gte=5,lte=20"`
		UseEMACross  bool    `yaml:"use_ema_cross"`
		EMAShort     int     `yaml:"ema_short" validate:"gte=2"`
		EMALong      int     `yaml:"ema_long" validate:"gte=2"`
		RSIPeriod    int     `yaml:"rsi_period" validate:"gte=2"`
		RSIBuyBelow  float64 `yaml:"rsi_buy_below" validate:"gte=0,lte=100"`
		RSISellAbove float64 `yaml:"rsi_sell_above" validate:"gte=0,lte=100"`
		MACDConfirm  bool    `yaml:"macd_confirm"`
	} `yaml:"strategy"`

	Twilio struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"twilio"`
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Strategy.MACDSlow <= c.Strategy.MACDFast {
		return fmt.Errorf("strategy.macd_slow (%d) must exceed macd_fast (%d)", c.Strategy.MACDSlow, c.Strategy.MACDFast)
	}
	if c.Strategy.EMALong <= c.Strategy.EMAShort {
		return fmt.Errorf("strategy.ema_long (%d) must exceed ema_short (%d)", c.Strategy.EMALong, c.Strategy.EMAShort)
	}
	if c.Strategy.RSISellAbove <= c.Strategy.RSIBuyBelow {
		return fmt.Errorf("strategy.rsi_sell_above (%v) must exceed rsi_buy_below (%v)", c.Strategy.RSISellAbove, c.Strategy.RSIBuyBelow)
	}
	return nil
}

// TradingOn reports whether order submission is enabled. The toggle
// defaults on when the key is absent from the file.
func (c *Config) TradingOn() bool {
	return c.Trading == nil || *c.Trading
}

// SignalParams materializes the strategy section for the evaluator.
func (c *Config) SignalParams() signal.Params {
	return signal.Params{
		Mode:         signal.Mode(c.Strategy.Mode),
		MACDFast:     c.Strategy.MACDFast,
		MACDSlow:     c.Strategy.MACDSlow,
		MACDSignal:   c.Strategy.MACDSignal,
		UseEMACross:  c.Strategy.UseEMACross,
		EMAShort:     c.Strategy.EMAShort,
		EMALong:      c.Strategy.EMALong,
		RSIPeriod:    c.Strategy.RSIPeriod,
		RSIBuyBelow:  c.Strategy.RSIBuyBelow,
		RSISellAbove: c.Strategy.RSISellAbove,
		MACDConfirm:  c.Strategy.MACDConfirm,
	}
}

// ParamSnapshot is the indicator-parameter tail appended to every trade
// log row; its contents depend on the active strategy mode.
func (c *Config) ParamSnapshot() []string {
	s := &c.Strategy
	if s.Mode == string(signal.ModeRSIEMA) {
		return []string{
			fmt.Sprint(s.RSIBuyBelow), fmt.Sprint(s.RSISellAbove),
			fmt.Sprint(s.EMAShort), fmt.Sprint(s.EMALong),
			fmt.Sprint(s.MACDConfirm),
		}
	}
	return []string{fmt.Sprint(s.MACDFast), fmt.Sprint(s.MACDSlow), fmt.Sprint(s.MACDSignal)}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.Interval == "" {
		c.Interval = "15m"
	}
	if c.QuoteAsset == "" {
		c.QuoteAsset = "USDT"
	}
	if c.CandleLimit == 0 {
		c.CandleLimit = 100
	}
	if c.StopLossPct == 0 {
		c.StopLossPct = 0.05
	}
	if c.TradeLogPath == "" {
		c.TradeLogPath = "operacoes_log.csv"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	s := &c.Strategy
	if s.Mode == "" {
		s.Mode = string(signal.ModeMACDCross)
	}
	if s.MACDFast == 0 {
		s.MACDFast = 12
	}
	if s.MACDSlow == 0 {
		s.MACDSlow = 26
	}
	if s.MACDSignal == 0 {
		s.MACDSignal = 9
	}
	if s.EMAShort == 0 {
		s.EMAShort = 9
	}
	if s.EMALong == 0 {
		s.EMALong = 21
	}
	if s.RSIPeriod == 0 {
		s.RSIPeriod = 14
	}
	if s.RSIBuyBelow == 0 {
		s.RSIBuyBelow = 30
	}
	if s.RSISellAbove == 0 {
		s.RSISellAbove = 70
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
