package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// writeDailyCSV writes n consecutive daily rows, newest first, in Yahoo layout
func writeDailyCSV(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	start := day(2020, time.January, 1)
	for i := n - 1; i >= 0; i-- {
		d := start.AddDate(0, 0, i)
		price := 100 + float64(i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,1000\n", d.Format("2006-01-02"), price, price, price, price)
	}
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestCSVProvider_Parse_OnlyDateAndClose(t *testing.T) {
	input := "date , close\n2020-01-02,101.5\n2020-01-03,\n2020-01-06,NaN\n2020-01-07,103\n"

	obs, err := NewCSVProvider().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, types.Observation{Date: day(2020, time.January, 2), Close: 101.5}, obs[0])
	assert.Equal(t, day(2020, time.January, 7), obs[1].Date)
}

func TestCSVProvider_Parse_MissingColumns(t *testing.T) {
	for _, input := range []string{
		"Date,Open,High\n2020-01-02,1,2\n",
		"Open,Close\n1,2\n",
		"",
	} {
		_, err := NewCSVProvider().Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.True(t, errors.Is(err, simerrors.ErrSchema), "input %q", input)
	}
}

func TestCSVProvider_Parse_BadValues(t *testing.T) {
	tests := map[string]string{
		"bad date":       "Date,Close\nnot-a-date,100\n",
		"bad close":      "Date,Close\n2020-01-02,abc\n",
		"negative close": "Date,Close\n2020-01-02,-1\n",
		"zero close":     "Date,Close\n2020-01-02,0\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSVProvider().Parse(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, simerrors.ErrInvalidData))
		})
	}
}

func TestCSVProvider_Parse_DateFormats(t *testing.T) {
	input := "Date,Close\n2020-01-02 16:00:00,1\n2020/01/03,2\n01/06/2020,3\n2020-01-07T00:00:00Z,4\n"

	obs, err := NewCSVProvider().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.Equal(t, day(2020, time.January, 2), obs[0].Date)
	assert.Equal(t, day(2020, time.January, 3), obs[1].Date)
	assert.Equal(t, day(2020, time.January, 6), obs[2].Date)
	assert.Equal(t, day(2020, time.January, 7), obs[3].Date)
}

func TestCSVProvider_LoadData_MissingFile(t *testing.T) {
	_, err := NewCSVProvider().LoadData(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerrors.ErrIO))
}

func TestDataManager_Load_SortsAndFilters(t *testing.T) {
	path := writeDailyCSV(t, 400)
	dm := NewDataManagerWithProvider(NewCSVProvider())

	series, err := dm.Load(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 400, series.Len())
	assert.Equal(t, day(2020, time.January, 1), series.First().Date)
	assert.Equal(t, 100.0, series.First().Close)

	start := day(2020, time.January, 11)
	end := day(2020, time.December, 31)
	series, err = dm.Load(path, start, end)
	require.NoError(t, err)
	assert.Equal(t, start, series.First().Date)
	assert.Equal(t, end, series.Last().Date)
}

func TestDataManager_Load_InsufficientHistory(t *testing.T) {
	path := writeDailyCSV(t, 400)
	dm := NewDataManagerWithProvider(NewCSVProvider())

	_, err := dm.Load(path, day(2020, time.December, 1), time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerrors.ErrInsufficientHistory))
}

func TestDataManager_Load_DuplicateDates(t *testing.T) {
	var b strings.Builder
	b.WriteString("Date,Close\n")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "%s,100\n", day(2020, time.January, 1).AddDate(0, 0, i/2).Format("2006-01-02"))
	}
	path := filepath.Join(t.TempDir(), "dupes.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))

	_, err := NewDataManagerWithProvider(NewCSVProvider()).Load(path, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerrors.ErrInvalidData))
}

func TestNewDataManager_ReadsCSVDirectly(t *testing.T) {
	path := writeDailyCSV(t, 300)
	dm := NewDataManager(zerolog.Nop())
	assert.IsType(t, &CSVProvider{}, dm.provider)

	series, err := dm.Load(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 300, series.Len())
}

func TestDefaultDataFilter_FilterByDateRange_OpenBounds(t *testing.T) {
	f := NewDefaultDataFilter()
	obs := []types.Observation{
		{Date: day(2020, 1, 1), Close: 1},
		{Date: day(2020, 1, 2), Close: 2},
		{Date: day(2020, 1, 3), Close: 3},
	}

	assert.Len(t, f.FilterByDateRange(obs, day(2020, 1, 2), time.Time{}), 2)
	assert.Len(t, f.FilterByDateRange(obs, time.Time{}, day(2020, 1, 2)), 2)
	assert.Len(t, f.FilterByDateRange(obs, day(2020, 1, 2), day(2020, 1, 2)), 1)
}
