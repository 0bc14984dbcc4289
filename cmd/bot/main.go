package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-trading-bot/internal/api"
	"crypto-trading-bot/internal/engine"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/tradelog"
	"crypto-trading-bot/internal/types"
)

func main() {
	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	brk, err := initializeBroker(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Broker initialization failed", err)
		os.Exit(1)
	}
	ntf := initializeNotifier(ctx, cfg)
	log := tradelog.New(cfg.TradeLogPath)
	eng := engine.New(cfg, brk, ntf, log)

	srv := api.NewServer(cfg, brk, log)
	go func() {
		if err := srv.Start(); err != nil {
			logger.ErrorWithErr(ctx, "Dashboard API failed", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Bot started", "mode", cfg.Mode, "symbols", cfg.Symbols, "interval", cfg.Interval, "poll_seconds", cfg.PollSeconds)
	for {
		select {
		case <-tick.C:
			results := eng.RunCycle(ctx)
			for _, r := range results {
				if r.Status == types.StepFailed {
					logger.Warn(ctx, "Cycle step failed", "symbol", r.Symbol, "reason", r.Reason)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "Dashboard shutdown error", "error", err)
			}
			_ = logger.Shutdown(shutdownCtx)
			shutdownCancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
