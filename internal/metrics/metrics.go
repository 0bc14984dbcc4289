// Package metrics exposes Prometheus instruments for the trading loop.
// They are served on the dashboard mux under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trader_cycles_total",
		Help: "Completed trading cycles.",
	})
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trader_cycle_duration_seconds",
		Help:    "Wall time of one full pass over all configured symbols.",
		Buckets: prometheus.DefBuckets,
	})
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_orders_total",
		Help: "Market orders by side and outcome.",
	}, []string{"side", "status"})
	StepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_steps_total",
		Help: "Per-symbol steps by result status.",
	}, []string{"status"})
	QuoteBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trader_quote_balance",
		Help: "Free quote-asset balance observed at the top of the last cycle.",
	})
)
