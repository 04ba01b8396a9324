package reporting

import (
	"encoding/csv"
	"io"
	"os"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// createFile opens an output file for writing
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

var equityHeader = []string{
	"Date",
	"Close",
	"DCA_Equity",
	"DCA_Shares",
	"Hybrid_Equity",
	"Hybrid_Shares",
	"Hybrid_Cash",
	"Lump_Amount",
}

// WriteEquityCSV writes both equity curves side by side, one row per observation
// The close error is returned when nothing failed earlier.
func (r *DefaultCSVReporter) WriteEquityCSV(report *Report, path string) (err error) {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityCSV", err)
	}

	f, err := createFile(path)
	if err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityCSV", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = simerrors.NewIOError("reporting", "WriteEquityCSV", cerr)
		}
	}()

	lumps := make(map[string]float64, len(report.Hybrid.Lumps))
	for _, l := range report.Hybrid.Lumps {
		lumps[l.Date.Format(types.DateLayout)] = l.Amount
	}

	w := csv.NewWriter(f)
	if err := w.Write(equityHeader); err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityCSV", err)
	}

	for i, d := range report.DCA.EquityCurve {
		h := report.Hybrid.EquityCurve[i]
		date := d.Date.Format(types.DateLayout)
		lump := ""
		if amount, ok := lumps[date]; ok {
			lump = fixed(amount, 2)
		}
		row := []string{
			date,
			fixed(d.Close, 4),
			fixed(d.Equity, 2),
			fixed(d.Shares, 6),
			fixed(h.Equity, 2),
			fixed(h.Shares, 6),
			fixed(h.Cash, 2),
			lump,
		}
		if err := w.Write(row); err != nil {
			return simerrors.NewIOError("reporting", "WriteEquityCSV", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityCSV", err)
	}
	return nil
}

// Package-level convenience function
func WriteEquityCSV(report *Report, path string) error {
	return NewDefaultCSVReporter().WriteEquityCSV(report, path)
}
