package data

import (
	"fmt"
	"sort"
	"time"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DefaultDataFilter implements DataFilter for common filtering operations
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// SortByDate sorts data by date (ascending order) without touching the input
func (f *DefaultDataFilter) SortByDate(data []types.Observation) []types.Observation {
	sorted := make([]types.Observation, len(data))
	copy(sorted, data)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	return sorted
}

// FilterByDateRange filters data to a specific inclusive date range
func (f *DefaultDataFilter) FilterByDateRange(data []types.Observation, start, end time.Time) []types.Observation {
	if len(data) == 0 || (start.IsZero() && end.IsZero()) {
		return data
	}

	var filtered []types.Observation
	for _, o := range data {
		if !start.IsZero() && o.Date.Before(start) {
			continue
		}
		if !end.IsZero() && o.Date.After(end) {
			continue
		}
		filtered = append(filtered, o)
	}

	return filtered
}

// ValidateTimeSequence ensures data is in chronological order without duplicates
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.Observation) error {
	for i := 1; i < len(data); i++ {
		if data[i].Date.Before(data[i-1].Date) {
			return simerrors.NewDataError("data", "ValidateTimeSequence",
				fmt.Sprintf("data not in chronological order at index %d: %s comes after %s",
					i, data[i].Date.Format(types.DateLayout), data[i-1].Date.Format(types.DateLayout)))
		}

		if data[i].Date.Equal(data[i-1].Date) {
			return simerrors.NewDataError("data", "ValidateTimeSequence",
				fmt.Sprintf("duplicate date at index %d: %s", i, data[i].Date.Format(types.DateLayout)))
		}
	}

	return nil
}
