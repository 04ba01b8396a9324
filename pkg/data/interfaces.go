package data

import (
	"time"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DataProvider interface for loading historical closes from various sources
type DataProvider interface {
	// LoadData reads raw observations from the source. Rows without a close are
	// dropped; ordering is not guaranteed.
	LoadData(source string) ([]types.Observation, error)

	// GetName returns the name of the data provider
	GetName() string
}

// DataFilter interface for ordering and windowing observations
type DataFilter interface {
	// SortByDate returns the observations in ascending date order
	SortByDate(data []types.Observation) []types.Observation

	// FilterByDateRange keeps observations within [start, end]; a zero bound is open
	FilterByDateRange(data []types.Observation, start, end time.Time) []types.Observation

	// ValidateTimeSequence ensures data is strictly increasing by date
	ValidateTimeSequence(data []types.Observation) error
}

// Required CSV column names
const (
	ColumnDate  = "Date"
	ColumnClose = "Close"
)

// DateFormats lists the accepted date layouts, tried in order
var DateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}
