package tradelog

import (
	"sort"
	"time"

	"crypto-trading-bot/internal/types"
)

// MatchedTrade is one closed buy/sell pair reconstructed from the log.
type MatchedTrade struct {
	Symbol    string    `json:"symbol"`
	BuyTime   time.Time `json:"buy_time"`
	BuyPrice  float64   `json:"buy_price"`
	SellTime  time.Time `json:"sell_time"`
	SellPrice float64   `json:"sell_price"`
	Qty       float64   `json:"qty"`
	Profit    float64   `json:"profit"`
}

// Reconcile walks records in order keeping a single open-position slot
// per symbol: a COMPRA opens (or silently overwrites) the slot, a VENDA
// with an open slot closes it. A VENDA with no open slot is ignored here.
//
// Reported profit is floored at the stop-loss price: when the sell price
// falls below buy*(1-stopLossPct), the trade is scored against the stop
// price rather than the actual fill. A reporting approximation, not a
// protective order.
func Reconcile(records []Record, stopLossPct float64) []MatchedTrade {
	open := map[string]Record{}
	var out []MatchedTrade
	for _, r := range records {
		switch r.Side {
		case types.SideBuy:
			open[r.Symbol] = r
		case types.SideSell:
			buy, ok := open[r.Symbol]
			if !ok {
				continue
			}
			delete(open, r.Symbol)
			stop := buy.Price * (1 - stopLossPct)
			profit := (r.Price - buy.Price) * r.Qty
			if r.Price < stop {
				profit = (stop - buy.Price) * r.Qty
			}
			out = append(out, MatchedTrade{
				Symbol:    r.Symbol,
				BuyTime:   buy.Time,
				BuyPrice:  buy.Price,
				SellTime:  r.Time,
				SellPrice: r.Price,
				Qty:       r.Qty,
				Profit:    profit,
			})
		}
	}
	return out
}

// DailyTotal is one day of raw cash flow over the log.
type DailyTotal struct {
	Day        string  `json:"day"`
	CashFlow   float64 `json:"cash_flow"`
	Cumulative float64 `json:"cumulative"`
}

// DailyTotals aggregates cash flow per calendar day: sells add
// price*qty, buys subtract it. Unmatched VENDA rows count here even
// though Reconcile skips them.
func DailyTotals(records []Record) []DailyTotal {
	perDay := map[string]float64{}
	for _, r := range records {
		day := r.Time.Format("2006-01-02")
		switch r.Side {
		case types.SideSell:
			perDay[day] += r.Price * r.Qty
		case types.SideBuy:
			perDay[day] -= r.Price * r.Qty
		}
	}
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]DailyTotal, 0, len(days))
	cum := 0.0
	for _, d := range days {
		cum += perDay[d]
		out = append(out, DailyTotal{Day: d, CashFlow: perDay[d], Cumulative: cum})
	}
	return out
}
