package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

func TestSelectBuyDates_OnePerMonth(t *testing.T) {
	series := weekdaySeries(t, time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), 600, 100)

	for _, buyDay := range []int{1, 10, 15, 28, 29, 30, 31} {
		set, err := SelectBuyDates(series, buyDay)
		require.NoError(t, err)
		assert.Equal(t, countMonths(series), set.Len(), "buy day %d", buyDay)

		perMonth := make(map[types.MonthKey]int)
		for _, idx := range set.Indices() {
			require.True(t, idx >= 0 && idx < series.Len())
			assert.True(t, set.Contains(idx))
			perMonth[types.MonthOf(series.Date(idx))]++
		}
		for month, n := range perMonth {
			assert.Equal(t, 1, n, "month %s buy day %d", month, buyDay)
		}
	}
}

func TestSelectBuyDates_EarliestOnOrAfterBuyDay(t *testing.T) {
	series := weekdaySeries(t, time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), 300, 100)

	set, err := SelectBuyDates(series, 15)
	require.NoError(t, err)

	// 2021-05-15 is a Saturday, so the buy falls on Monday the 17th
	idx, ok := set.IndexFor(types.MonthKey{Year: 2021, Month: time.May})
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.May, 17, 0, 0, 0, 0, time.UTC), series.Date(idx))

	// 2021-06-15 is a Tuesday
	idx, ok = set.IndexFor(types.MonthKey{Year: 2021, Month: time.June})
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC), series.Date(idx))

	// The rule as a property over every month
	for i := 0; i < series.Len(); i++ {
		key := types.MonthOf(series.Date(i))
		chosen, _ := set.IndexFor(key)
		if series.Date(i).Day() >= 15 {
			assert.LessOrEqual(t, chosen, i)
			assert.GreaterOrEqual(t, series.Date(chosen).Day(), 15)
		}
	}
}

func TestSelectBuyDates_FallsBackToLastTradingDay(t *testing.T) {
	series := weekdaySeries(t, time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), 300, 100)

	set, err := SelectBuyDates(series, 31)
	require.NoError(t, err)

	// February 2021 ends on Friday the 26th as a trading day
	idx, ok := set.IndexFor(types.MonthKey{Year: 2021, Month: time.February})
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.February, 26, 0, 0, 0, 0, time.UTC), series.Date(idx))

	// 2021-07-31 is a Saturday, fall back to Friday the 30th
	idx, ok = set.IndexFor(types.MonthKey{Year: 2021, Month: time.July})
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.July, 30, 0, 0, 0, 0, time.UTC), series.Date(idx))

	// 2021-03-31 is a Wednesday
	idx, ok = set.IndexFor(types.MonthKey{Year: 2021, Month: time.March})
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC), series.Date(idx))
}

func TestSelectBuyDates_PartialMonths(t *testing.T) {
	// 2020-01-20 through 2020-10-05 on consecutive calendar days
	obs := make([]types.Observation, 0, 260)
	start := time.Date(2020, time.January, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 260; i++ {
		obs = append(obs, types.Observation{Date: start.AddDate(0, 0, i), Close: 100})
	}
	series, err := types.NewPriceSeries(obs)
	require.NoError(t, err)
	require.Equal(t, time.Date(2020, time.October, 5, 0, 0, 0, 0, time.UTC), series.Last().Date)

	set, err := SelectBuyDates(series, 1)
	require.NoError(t, err)
	idx, ok := set.IndexFor(types.MonthKey{Year: 2020, Month: time.January})
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	// Buy day 10 is never reached in October: last trading day of the month
	set, err = SelectBuyDates(series, 10)
	require.NoError(t, err)
	idx, ok = set.IndexFor(types.MonthKey{Year: 2020, Month: time.October})
	require.True(t, ok)
	assert.Equal(t, series.Len()-1, idx)
	assert.Equal(t, 10, set.Len())
}

func TestSelectBuyDates_InvalidBuyDay(t *testing.T) {
	series := seriesFromCloses(t, generateFlatCloses(260, 100))

	for _, d := range []int{0, -1, 32} {
		_, err := SelectBuyDates(series, d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, simerrors.ErrInvalidConfig))
	}
}
