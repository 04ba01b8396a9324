package backtest

import (
	"fmt"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// BuyDateSet holds one purchase day per calendar month of a series, indexed
// both by month and by series position.
type BuyDateSet struct {
	byMonth map[types.MonthKey]int
	mask    []bool
	months  []types.MonthKey
}

// SelectBuyDates picks, for every calendar month in the series, the earliest
// trading day whose day-of-month is >= buyDay, falling back to the month's
// last trading day when no such day exists.
func SelectBuyDates(series *types.PriceSeries, buyDay int) (*BuyDateSet, error) {
	if buyDay < 1 || buyDay > 31 {
		return nil, simerrors.NewConfigurationError("backtest", "SelectBuyDates",
			fmt.Sprintf("buy day must be between 1 and 31, got: %d", buyDay))
	}

	set := &BuyDateSet{
		byMonth: make(map[types.MonthKey]int),
		mask:    make([]bool, series.Len()),
	}

	lastInMonth := make(map[types.MonthKey]int)
	for i := 0; i < series.Len(); i++ {
		d := series.Date(i)
		key := types.MonthOf(d)
		if _, seen := lastInMonth[key]; !seen {
			set.months = append(set.months, key)
		}
		lastInMonth[key] = i

		if _, chosen := set.byMonth[key]; !chosen && d.Day() >= buyDay {
			set.byMonth[key] = i
		}
	}

	for _, key := range set.months {
		if _, chosen := set.byMonth[key]; !chosen {
			set.byMonth[key] = lastInMonth[key]
		}
		set.mask[set.byMonth[key]] = true
	}

	return set, nil
}

// Contains reports whether series position i is a buy date
func (s *BuyDateSet) Contains(i int) bool {
	return i >= 0 && i < len(s.mask) && s.mask[i]
}

// IndexFor returns the series position chosen for a month
func (s *BuyDateSet) IndexFor(month types.MonthKey) (int, bool) {
	i, ok := s.byMonth[month]
	return i, ok
}

// Len returns the number of buy dates, equal to the number of months covered
func (s *BuyDateSet) Len() int {
	return len(s.months)
}

// Indices returns the buy-date positions in ascending order
func (s *BuyDateSet) Indices() []int {
	out := make([]int, 0, len(s.months))
	for _, key := range s.months {
		out = append(out, s.byMonth[key])
	}
	return out
}
