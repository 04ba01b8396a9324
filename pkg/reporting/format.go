package reporting

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const notAvailable = "n/a"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatUSD renders an amount as "$1,234.56"
func formatUSD(amount float64) string {
	if !finite(amount) {
		return notAvailable
	}
	cents := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// formatPct renders a fraction as a percentage with the given decimal places
func formatPct(fraction float64, places int32) string {
	if !finite(fraction) {
		return notAvailable
	}
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(places) + "%"
}

// roundTo rounds half away from zero. Non-finite values pass through.
func roundTo(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// fixed renders v with exactly places decimals, empty for non-finite values
func fixed(v float64, places int32) string {
	if !finite(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
