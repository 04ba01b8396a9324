package data

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DataManager turns a raw price file into a validated PriceSeries:
// read, sort ascending, drop missing closes, window by date, check history length.
type DataManager struct {
	provider DataProvider
	filter   DataFilter
	log      zerolog.Logger
}

// NewDataManager creates a data manager reading CSV files
func NewDataManager(log zerolog.Logger) *DataManager {
	return &DataManager{
		provider: NewCSVProvider().WithLogger(log),
		filter:   NewDefaultDataFilter(),
		log:      log,
	}
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{
		provider: provider,
		filter:   NewDefaultDataFilter(),
		log:      zerolog.Nop(),
	}
}

// Load reads source and returns the series restricted to [start, end].
// Zero start or end leaves that side unbounded.
func (dm *DataManager) Load(source string, start, end time.Time) (*types.PriceSeries, error) {
	raw, err := dm.provider.LoadData(source)
	if err != nil {
		return nil, err
	}

	sorted := dm.filter.SortByDate(raw)
	if err := dm.filter.ValidateTimeSequence(sorted); err != nil {
		return nil, err
	}

	windowed := dm.filter.FilterByDateRange(sorted, start, end)
	dm.log.Info().
		Str("source", dm.provider.GetName()).
		Int("rows", len(raw)).
		Int("in_range", len(windowed)).
		Msg("price history loaded")

	return types.NewPriceSeries(windowed)
}
