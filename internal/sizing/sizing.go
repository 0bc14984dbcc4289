// Package sizing converts intended notionals into exchange-acceptable
// order quantities. Quantities are always truncated downward to the lot
// step precision so we never request more than the available balance.
package sizing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrZeroStep = errors.New("sizing: zero lot step")

// AdjustQuantity truncates qty to the decimal precision implied by the
// lot step. Exchange step sizes arrive zero-padded ("0.00100000"); the
// effective precision is taken after stripping trailing zeros, so a step
// of 0.001 truncates 1.23456 to 1.234.
func AdjustQuantity(qty float64, lotStep string) (float64, error) {
	step, err := decimal.NewFromString(lotStep)
	if err != nil {
		return 0, fmt.Errorf("sizing: bad lot step %q: %w", lotStep, err)
	}
	if step.IsZero() {
		return 0, ErrZeroStep
	}
	prec := -step.Exponent()
	for prec > 0 && step.Shift(prec-1).IsInteger() {
		prec--
	}
	if prec < 0 {
		prec = 0
	}
	return decimal.NewFromFloat(qty).Truncate(prec).InexactFloat64(), nil
}

// BuyQuantity splits the free quote balance evenly across the configured
// pairs and converts the per-pair notional into base-asset units. The
// balance is read once per cycle by the caller; nothing here re-checks it
// after earlier pairs have spent from it.
func BuyQuantity(freeQuote float64, numSymbols int, price float64) float64 {
	if numSymbols <= 0 || price <= 0 || freeQuote <= 0 {
		return 0
	}
	return freeQuote / (float64(numSymbols) * price)
}

// MeetsMinNotional reports whether a sized order clears the exchange's
// minimum order value. Orders below it are skipped, never submitted.
func MeetsMinNotional(qty, price, minNotional float64) bool {
	return qty > 0 && qty*price >= minNotional
}
