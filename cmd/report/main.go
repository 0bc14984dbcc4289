// Command report reconciles the trade log offline: it pairs buys with
// sells per symbol, applies the stop-loss floor to reported profit and
// prints per-trade and per-day results. It never touches the exchange.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"crypto-trading-bot/internal/tradelog"
)

func main() {
	logPath := flag.String("log", "operacoes_log.csv", "path to the trade log CSV")
	stopLoss := flag.Float64("stop-loss", 0.05, "stop-loss fraction used to floor reported losses")
	flag.Parse()

	log := tradelog.New(*logPath)
	records, err := log.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", *logPath, err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("no trades recorded")
		return
	}

	matched := tradelog.Reconcile(records, *stopLoss)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tBUY TIME\tBUY\tSELL TIME\tSELL\tQTY\tPROFIT")
	total := 0.0
	for _, m := range matched {
		total += m.Profit
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.2f\t%v\t%.2f\n",
			m.Symbol,
			m.BuyTime.Format("2006-01-02 15:04"), m.BuyPrice,
			m.SellTime.Format("2006-01-02 15:04"), m.SellPrice,
			m.Qty, m.Profit)
	}
	w.Flush()
	fmt.Printf("\n%d round trips, total profit %.2f (stop-loss floor %.0f%%)\n\n", len(matched), total, *stopLoss*100)

	fmt.Fprintln(w, "DAY\tCASH FLOW\tCUMULATIVE")
	for _, d := range tradelog.DailyTotals(records) {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", d.Day, d.CashFlow, d.Cumulative)
	}
	w.Flush()
}
