package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"crypto-trading-bot/internal/broker/binance"
	"crypto-trading-bot/internal/broker/paper"
	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/notify"
	"crypto-trading-bot/internal/store"
)

const paperStartingQuote = 1000

// initializeSystem loads the environment and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("TRADER_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeBroker returns the live Binance client or the paper broker,
// depending on the configured mode.
func initializeBroker(ctx context.Context, cfg *store.Config) (interfaces.Broker, error) {
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders are simulated against a synthetic market")
		return paper.New(cfg.QuoteAsset, paperStartingQuote), nil
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_API_SECRET")
	if apiKey == "" || secretKey == "" {
		return nil, fmt.Errorf("LIVE mode requires BINANCE_API_KEY and BINANCE_API_SECRET")
	}
	brk := binance.New(binance.Params{
		APIKey:    apiKey,
		SecretKey: secretKey,
		BaseURL:   os.Getenv("BINANCE_BASE_URL"),
	})
	if err := brk.Ping(ctx); err != nil {
		return nil, fmt.Errorf("binance unreachable: %w", err)
	}
	logger.Info(ctx, "Connected to Binance", "symbols", cfg.Symbols, "interval", cfg.Interval)
	return brk, nil
}

// initializeNotifier returns the Twilio WhatsApp notifier when credentials
// and numbers are present, otherwise a no-op sink.
func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	sid := os.Getenv("TWILIO_SID")
	token := os.Getenv("TWILIO_AUTH")
	from := cfg.Twilio.From
	if from == "" {
		from = os.Getenv("TWILIO_NUMBER")
	}
	to := cfg.Twilio.To
	if to == "" {
		to = os.Getenv("DEST_NUMBER")
	}
	if sid == "" || token == "" || from == "" || to == "" {
		logger.Warn(ctx, "Twilio not configured - trade alerts disabled")
		return notify.Noop{}
	}
	logger.Info(ctx, "WhatsApp alerts enabled", "to", to)
	return notify.NewTwilio(notify.TwilioParams{
		AccountSID: sid,
		AuthToken:  token,
		From:       from,
		To:         to,
	})
}
