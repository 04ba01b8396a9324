package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// missingTokens are close values treated as absent rather than malformed
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"null": true,
	"na":   true,
	"n/a":  true,
	"-":    true,
}

// CSVProvider implements DataProvider for CSV files with a header row.
// Columns are located by name; only Date and Close are read.
type CSVProvider struct {
	log zerolog.Logger
}

// NewCSVProvider creates a new CSV data provider
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{log: zerolog.Nop()}
}

// WithLogger sets the logger used to report dropped rows
func (p *CSVProvider) WithLogger(log zerolog.Logger) *CSVProvider {
	p.log = log
	return p
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads daily closes from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.Observation, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, simerrors.NewIOError("data", "LoadData", fmt.Errorf("failed to open file %s: %w", source, err))
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads observations from CSV content
func (p *CSVProvider) Parse(r io.Reader) ([]types.Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, simerrors.NewSchemaError("data", "LoadData", "CSV is empty; it must have 'Date' and 'Close' columns")
		}
		return nil, simerrors.WrapError(fmt.Errorf("failed to read header: %w", err), simerrors.ErrorCategoryData, "data", "LoadData")
	}

	dateCol, closeCol := columnIndex(header, ColumnDate), columnIndex(header, ColumnClose)
	if dateCol < 0 || closeCol < 0 {
		return nil, simerrors.NewSchemaError("data", "LoadData", "CSV must have 'Date' and 'Close' columns").
			WithContext("header", header)
	}

	var data []types.Observation
	dropped := 0
	lineNum := 1

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, simerrors.WrapError(fmt.Errorf("error reading CSV at line %d: %w", lineNum+1, err),
				simerrors.ErrorCategoryData, "data", "LoadData")
		}
		lineNum++

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		rawClose := ""
		if closeCol < len(record) {
			rawClose = strings.TrimSpace(record[closeCol])
		}
		if missingTokens[strings.ToLower(rawClose)] {
			dropped++
			continue
		}

		if dateCol >= len(record) {
			return nil, simerrors.NewDataError("data", "LoadData", fmt.Sprintf("missing date at line %d", lineNum)).
				WithContext("line", lineNum)
		}
		date, err := parseDate(record[dateCol])
		if err != nil {
			return nil, simerrors.NewDataError("data", "LoadData",
				fmt.Sprintf("invalid date '%s' at line %d", record[dateCol], lineNum)).
				WithContext("line", lineNum)
		}

		closePrice, err := strconv.ParseFloat(strings.ReplaceAll(rawClose, ",", ""), 64)
		if err != nil {
			return nil, simerrors.NewDataError("data", "LoadData",
				fmt.Sprintf("invalid close price '%s' at line %d", rawClose, lineNum)).
				WithContext("line", lineNum)
		}
		if closePrice <= 0 {
			return nil, simerrors.NewDataError("data", "LoadData",
				fmt.Sprintf("close price must be positive, got %v at line %d", closePrice, lineNum)).
				WithContext("line", lineNum)
		}

		data = append(data, types.Observation{Date: date, Close: closePrice})
	}

	if dropped > 0 {
		p.log.Debug().Int("rows", dropped).Msg("dropped rows with missing close")
	}

	return data, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// parseDate accepts any layout in DateFormats and truncates to the calendar day
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
