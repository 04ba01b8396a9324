package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

var seriesStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds a series on consecutive calendar days
func seriesFromCloses(t *testing.T, closes []float64) *types.PriceSeries {
	t.Helper()
	obs := make([]types.Observation, len(closes))
	for i, c := range closes {
		obs[i] = types.Observation{Date: seriesStart.AddDate(0, 0, i), Close: c}
	}
	s, err := types.NewPriceSeries(obs)
	require.NoError(t, err)
	return s
}

// weekdaySeries builds a series on weekdays only, starting at start
func weekdaySeries(t *testing.T, start time.Time, n int, price float64) *types.PriceSeries {
	t.Helper()
	obs := make([]types.Observation, 0, n)
	for d := start; len(obs) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		obs = append(obs, types.Observation{Date: d, Close: price})
	}
	s, err := types.NewPriceSeries(obs)
	require.NoError(t, err)
	return s
}

func generateFlatCloses(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

// generateRisingCloses rises linearly from `from` to `to` over n points,
// making a new high every day
func generateRisingCloses(n int, from, to float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

func generateFallingCloses(n int, from, to float64) []float64 {
	return generateRisingCloses(n, from, to)
}

func testConfig(mutate func(c *config.SimConfig)) *config.SimConfig {
	cfg := config.NewDefaultSimConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func countMonths(s *types.PriceSeries) int {
	seen := make(map[types.MonthKey]bool)
	for i := 0; i < s.Len(); i++ {
		seen[types.MonthOf(s.Date(i))] = true
	}
	return len(seen)
}
