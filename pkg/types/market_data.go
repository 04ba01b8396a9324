package types

import (
	"fmt"
	"math"
	"time"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
)

// TradingDaysPerYear is both the rolling-high window and the minimum history length
const TradingDaysPerYear = 252

// Observation is one daily close
type Observation struct {
	Date  time.Time
	Close float64
}

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month a date falls in
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// PriceSeries is an immutable, strictly date-ordered sequence of daily closes.
// Construct it with NewPriceSeries; the zero value is empty and unusable.
type PriceSeries struct {
	obs []Observation
}

// NewPriceSeries validates and copies observations into a PriceSeries
func NewPriceSeries(obs []Observation) (*PriceSeries, error) {
	if len(obs) < TradingDaysPerYear {
		return nil, simerrors.NewHistoryError("types", "NewPriceSeries",
			fmt.Sprintf("need at least %d daily observations (~1 year), got %d", TradingDaysPerYear, len(obs)))
	}

	cp := make([]Observation, len(obs))
	for i, o := range obs {
		if math.IsNaN(o.Close) || math.IsInf(o.Close, 0) || o.Close <= 0 {
			return nil, simerrors.NewDataError("types", "NewPriceSeries",
				fmt.Sprintf("close must be positive, got %v on %s", o.Close, o.Date.Format(DateLayout))).
				WithContext("index", i)
		}
		if i > 0 && !o.Date.After(obs[i-1].Date) {
			return nil, simerrors.NewDataError("types", "NewPriceSeries",
				fmt.Sprintf("dates must be strictly increasing: %s follows %s",
					o.Date.Format(DateLayout), obs[i-1].Date.Format(DateLayout))).
				WithContext("index", i)
		}
		cp[i] = o
	}

	return &PriceSeries{obs: cp}, nil
}

// DateLayout is the ISO calendar date layout used for input and output
const DateLayout = "2006-01-02"

// Len returns the number of observations
func (s *PriceSeries) Len() int { return len(s.obs) }

// Date returns the date of the i-th observation
func (s *PriceSeries) Date(i int) time.Time { return s.obs[i].Date }

// Close returns the closing price of the i-th observation
func (s *PriceSeries) Close(i int) float64 { return s.obs[i].Close }

// First returns the earliest observation
func (s *PriceSeries) First() Observation { return s.obs[0] }

// Last returns the latest observation
func (s *PriceSeries) Last() Observation { return s.obs[len(s.obs)-1] }

// Closes returns a copy of all closing prices
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Close
	}
	return out
}
