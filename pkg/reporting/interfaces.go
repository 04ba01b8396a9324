package reporting

import (
	"io"
	"time"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
)

// Package reporting renders simulation results for people and for other tools

// Report is everything one run produces: the inputs that shaped it and both
// strategy results.
type Report struct {
	Config       config.SimConfig
	DataFile     string
	Observations int
	FirstDate    time.Time
	LastDate     time.Time
	TriggerDays  int
	DCA          *backtest.Result
	Hybrid       *backtest.Result
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(report *Report)
	OutputSweep(results []backtest.SweepResult)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteEquityCSV(report *Report, path string) error
	WriteResultsXLSX(report *Report, path string) error
	WriteReportJSON(report *Report, path string) error
	WriteEquityChart(report *Report, path string) error
	WriteSweepXLSX(results []backtest.SweepResult, path string) error
}

// JSONFormatter defines interface for JSON output
type JSONFormatter interface {
	FormatReport(report *Report) ([]byte, error)
	PrintReport(w io.Writer, report *Report) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(dataFile string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	JSONFormatter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle       int
	CurrencyStyle     int
	PercentStyle      int
	NumberStyle       int
	BaseStyle         int
	RedPercentStyle   int
	GreenPercentStyle int
}

// ReportingConfig selects the outputs of a single run. Empty paths are skipped.
type ReportingConfig struct {
	EnableConsole bool
	JSONToStdout  bool
	JSONPath      string
	XLSXPath      string
	EquityCSVPath string
	ChartPath     string
}
