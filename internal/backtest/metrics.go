package backtest

import (
	"math"
	"time"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DaysPerYear converts calendar days to years
const DaysPerYear = 365.25

// DailyRate converts an annual rate to its daily compounding equivalent over
// 252 trading days
func DailyRate(annual float64) float64 {
	return math.Pow(1.0+annual, 1.0/types.TradingDaysPerYear) - 1.0
}

// YearsElapsed returns the calendar span between two dates in years
func YearsElapsed(first, last time.Time) float64 {
	days := math.Round(last.Sub(first).Hours() / 24)
	return days / DaysPerYear
}

// CAGR is the compound annual growth of final equity over total contributions.
// It is NaN when nothing was contributed or no time elapsed.
func CAGR(finalEquity, contributed, years float64) float64 {
	if contributed <= 0 || years <= 0 {
		return math.NaN()
	}
	return math.Pow(finalEquity/contributed, 1.0/years) - 1.0
}

// MaxDrawdown returns the largest peak-to-trough decline of an equity curve as
// a fraction of the running peak. Days with a zero peak count as no drawdown.
func MaxDrawdown(equity []float64) float64 {
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - e) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
