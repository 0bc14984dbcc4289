// Package api exposes a read-only HTTP view of the bot: the raw trade
// log, reconciled round trips, daily totals, live balances and the
// active configuration. It never mutates anything; all trading control
// stays in the config file.
package api

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/store"
	"crypto-trading-bot/internal/tradelog"
	"crypto-trading-bot/internal/types"
)

type Server struct {
	cfg *store.Config
	brk interfaces.Broker
	log *tradelog.Log
	srv *http.Server
}

func NewServer(cfg *store.Config, brk interfaces.Broker, log *tradelog.Log) *Server {
	s := &Server{cfg: cfg, brk: brk, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/trades", s.handleTrades)
	mux.HandleFunc("GET /api/matched", s.handleMatched)
	mux.HandleFunc("GET /api/daily", s.handleDaily)
	mux.HandleFunc("GET /api/balances", s.handleBalances)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.Handle("GET /metrics", promhttp.Handler())
	s.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	logger.Info(context.Background(), "Dashboard API listening", "addr", s.cfg.ListenAddr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the underlying mux. Test hook.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.brk.Ping(r.Context()); err != nil {
		status = "broker unreachable: " + err.Error()
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status, "mode": s.cfg.Mode})
}

// handleTrades returns the parsed log newest first, the order the
// dashboard's history table wants.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	records, err := s.log.Read()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]tradelog.Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatched(w http.ResponseWriter, r *http.Request) {
	records, err := s.log.Read()
	if err != nil {
		writeError(w, r, err)
		return
	}
	matched := tradelog.Reconcile(records, s.cfg.StopLossPct)
	if matched == nil {
		matched = []tradelog.MatchedTrade{}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	records, err := s.log.Read()
	if err != nil {
		writeError(w, r, err)
		return
	}
	daily := tradelog.DailyTotals(records)
	if daily == nil {
		daily = []tradelog.DailyTotal{}
	}
	writeJSON(w, http.StatusOK, daily)
}

// handleBalances reports the quote asset plus the base asset of every
// configured symbol, one broker call each.
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assets := []string{s.cfg.QuoteAsset}
	seen := map[string]bool{s.cfg.QuoteAsset: true}
	for _, sym := range s.cfg.Symbols {
		sc, err := s.brk.SymbolConstraints(ctx, sym)
		if err != nil {
			logger.Warn(ctx, "Constraint lookup failed for balance view", "symbol", sym, "error", err)
			continue
		}
		if !seen[sc.BaseAsset] {
			seen[sc.BaseAsset] = true
			assets = append(assets, sc.BaseAsset)
		}
	}
	out := make([]types.Balance, 0, len(assets))
	for _, asset := range assets {
		free, err := s.brk.FreeBalance(ctx, asset)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, types.Balance{Asset: asset, Free: free})
	}
	writeJSON(w, http.StatusOK, out)
}

type configView struct {
	Mode           string   `json:"mode"`
	Interval       string   `json:"interval"`
	Symbols        []string `json:"symbols"`
	QuoteAsset     string   `json:"quote_asset"`
	TradingEnabled bool     `json:"trading_enabled"`
	StopLossPct    float64  `json:"stop_loss_pct"`
	StrategyMode   string   `json:"strategy_mode"`
	Params         []string `json:"params"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configView{
		Mode:           s.cfg.Mode,
		Interval:       s.cfg.Interval,
		Symbols:        s.cfg.Symbols,
		QuoteAsset:     s.cfg.QuoteAsset,
		TradingEnabled: s.cfg.TradingOn(),
		StopLossPct:    s.cfg.StopLossPct,
		StrategyMode:   s.cfg.Strategy.Mode,
		Params:         s.cfg.ParamSnapshot(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(context.Background(), "Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Warn(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
