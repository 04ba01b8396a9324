package types

import (
	"errors"
	"math"
	"testing"
	"time"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyObservations(n int, price float64) []Observation {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]Observation, n)
	for i := range obs {
		obs[i] = Observation{Date: start.AddDate(0, 0, i), Close: price}
	}
	return obs
}

func TestNewPriceSeries_Valid(t *testing.T) {
	obs := dailyObservations(TradingDaysPerYear, 100)

	s, err := NewPriceSeries(obs)
	require.NoError(t, err)
	assert.Equal(t, TradingDaysPerYear, s.Len())
	assert.Equal(t, obs[0], s.First())
	assert.Equal(t, obs[len(obs)-1], s.Last())

	// The series owns a copy of its input
	obs[0].Close = 1
	assert.Equal(t, 100.0, s.Close(0))

	closes := s.Closes()
	closes[1] = 1
	assert.Equal(t, 100.0, s.Close(1))
}

func TestNewPriceSeries_TooShort(t *testing.T) {
	_, err := NewPriceSeries(dailyObservations(TradingDaysPerYear-1, 100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerrors.ErrInsufficientHistory))
}

func TestNewPriceSeries_RejectsNonPositiveClose(t *testing.T) {
	for _, bad := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		obs := dailyObservations(TradingDaysPerYear, 100)
		obs[10].Close = bad

		_, err := NewPriceSeries(obs)
		require.Error(t, err, "close %v", bad)
		assert.True(t, errors.Is(err, simerrors.ErrInvalidData))
	}
}

func TestNewPriceSeries_RejectsUnorderedDates(t *testing.T) {
	obs := dailyObservations(TradingDaysPerYear, 100)
	obs[20].Date = obs[19].Date

	_, err := NewPriceSeries(obs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerrors.ErrInvalidData))
}

func TestMonthOf(t *testing.T) {
	k := MonthOf(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, MonthKey{Year: 2024, Month: time.February}, k)
	assert.Equal(t, "2024-02", k.String())
}
