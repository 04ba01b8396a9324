package reporting

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter writing console output to w
func NewDefaultReporter(w io.Writer) *DefaultReporter {
	if w == nil {
		w = os.Stdout
	}
	return &DefaultReporter{
		console: NewConsoleReporter(w),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) OutputResults(report *Report) {
	r.console.OutputResults(report)
}

func (r *DefaultReporter) OutputSweep(results []backtest.SweepResult) {
	r.console.OutputSweep(results)
}

// File output methods
func (r *DefaultReporter) WriteEquityCSV(report *Report, path string) error {
	return r.csv.WriteEquityCSV(report, path)
}

func (r *DefaultReporter) WriteResultsXLSX(report *Report, path string) error {
	return r.excel.WriteResultsXLSX(report, path)
}

func (r *DefaultReporter) WriteReportJSON(report *Report, path string) error {
	return WriteReportJSON(report, path)
}

func (r *DefaultReporter) WriteEquityChart(report *Report, path string) error {
	return WriteEquityChart(report, path)
}

func (r *DefaultReporter) WriteSweepXLSX(results []backtest.SweepResult, path string) error {
	return r.excel.WriteSweepXLSX(results, path)
}

// JSON methods
func (r *DefaultReporter) FormatReport(report *Report) ([]byte, error) {
	return r.json.FormatReport(report)
}

func (r *DefaultReporter) PrintReport(w io.Writer, report *Report) error {
	return r.json.PrintReport(w, report)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(dataFile string) string {
	return r.paths.GetDefaultOutputDir(dataFile)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter Reporter
	config   ReportingConfig
	out      io.Writer
	log      zerolog.Logger
}

// NewReportingManager creates a new reporting manager writing console output to w
func NewReportingManager(config ReportingConfig, w io.Writer, log zerolog.Logger) *ReportingManager {
	if w == nil {
		w = os.Stdout
	}
	return &ReportingManager{
		reporter: NewDefaultReporter(w),
		config:   config,
		out:      w,
		log:      log,
	}
}

// ReportResults outputs results according to configuration. JSON on stdout
// replaces the console summary so the output stays machine readable.
func (m *ReportingManager) ReportResults(report *Report) error {
	switch {
	case m.config.JSONToStdout:
		if err := m.reporter.PrintReport(m.out, report); err != nil {
			return err
		}
	case m.config.EnableConsole:
		m.reporter.OutputResults(report)
	}

	outputs := []struct {
		kind  string
		path  string
		write func(*Report, string) error
	}{
		{"json", m.config.JSONPath, m.reporter.WriteReportJSON},
		{"xlsx", m.config.XLSXPath, m.reporter.WriteResultsXLSX},
		{"equity csv", m.config.EquityCSVPath, m.reporter.WriteEquityCSV},
		{"chart", m.config.ChartPath, m.reporter.WriteEquityChart},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(report, o.path); err != nil {
			return err
		}
		m.log.Info().Str("kind", o.kind).Str("path", o.path).Msg("report written")
	}

	return nil
}
