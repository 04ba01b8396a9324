package reporting

import (
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

const (
	summarySheet = "Summary"
	equitySheet  = "Equity"
	lumpsSheet   = "Lumps"
	sweepSheet   = "Sweep"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteResultsXLSX writes a workbook with Summary, Equity and Lumps sheets
func (r *DefaultExcelReporter) WriteResultsXLSX(report *Report, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteResultsXLSX", err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(lumpsSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeEquitySheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeLumpsSheet(fx, report, styles); err != nil {
		return err
	}

	if err := fx.SaveAs(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteResultsXLSX", err)
	}
	return nil
}

// WriteSweepXLSX writes one row per parameter combination, best spread first
func (r *DefaultExcelReporter) WriteSweepXLSX(results []backtest.SweepResult, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteSweepXLSX", err)
	}

	fx := excelize.NewFile()
	defer fx.Close()
	fx.SetSheetName(fx.GetSheetName(0), sweepSheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Budget", "Buy Day", "Risk Free", "Drop", "Split",
		"DCA Final", "Hybrid Final", "DCA CAGR", "Hybrid CAGR", "Spread",
		"DCA MaxDD", "Hybrid MaxDD", "Lump Events", "Error"}
	r.writeHeader(fx, sweepSheet, headers, styles)
	fx.SetColWidth(sweepSheet, "A", "N", 13)
	fx.SetColWidth(sweepSheet, "O", "O", 40)

	for i, res := range SortBySpread(results) {
		row := i + 2
		cfg := res.Config
		r.setCell(fx, sweepSheet, 1, row, i+1, styles.BaseStyle)
		r.setCell(fx, sweepSheet, 2, row, cfg.MonthlyBudget, styles.CurrencyStyle)
		r.setCell(fx, sweepSheet, 3, row, cfg.BuyDay, styles.BaseStyle)
		r.setCell(fx, sweepSheet, 4, row, cfg.RiskFreeRate, styles.PercentStyle)
		r.setCell(fx, sweepSheet, 5, row, cfg.DropPct, styles.PercentStyle)
		r.setCell(fx, sweepSheet, 6, row, cfg.HybridSplit, styles.PercentStyle)
		if res.Error != nil {
			r.setCell(fx, sweepSheet, 15, row, res.Error.Error(), styles.BaseStyle)
			continue
		}
		r.setCell(fx, sweepSheet, 7, row, roundTo(res.DCA.FinalValue, 2), styles.CurrencyStyle)
		r.setCell(fx, sweepSheet, 8, row, roundTo(res.Hybrid.FinalValue, 2), styles.CurrencyStyle)
		r.setOptionalPct(fx, sweepSheet, 9, row, res.DCA.CAGR, styles.PercentStyle)
		r.setOptionalPct(fx, sweepSheet, 10, row, res.Hybrid.CAGR, styles.PercentStyle)
		spreadStyle := styles.GreenPercentStyle
		if res.CAGRSpread() < 0 {
			spreadStyle = styles.RedPercentStyle
		}
		r.setOptionalPct(fx, sweepSheet, 11, row, res.CAGRSpread(), spreadStyle)
		r.setCell(fx, sweepSheet, 12, row, res.DCA.MaxDrawdown, styles.RedPercentStyle)
		r.setCell(fx, sweepSheet, 13, row, res.Hybrid.MaxDrawdown, styles.RedPercentStyle)
		r.setCell(fx, sweepSheet, 14, row, res.Hybrid.LumpEvents, styles.BaseStyle)
	}

	fx.SetPanes(sweepSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := fx.SaveAs(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteSweepXLSX", err)
	}
	return nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	sheet := summarySheet
	r.writeHeader(fx, sheet, []string{"Metric", "DCA", "Hybrid"}, styles)
	fx.SetColWidth(sheet, "A", "A", 22)
	fx.SetColWidth(sheet, "B", "C", 16)

	dca, hyb := report.DCA, report.Hybrid
	type metricRow struct {
		label    string
		dca, hyb interface{}
		style    int
	}
	rows := []metricRow{
		{"As-of", dca.AsOf.Format(types.DateLayout), hyb.AsOf.Format(types.DateLayout), styles.BaseStyle},
		{"Years", roundTo(dca.Years, 2), roundTo(hyb.Years, 2), styles.NumberStyle},
		{"Final Equity", roundTo(dca.FinalValue, 2), roundTo(hyb.FinalValue, 2), styles.CurrencyStyle},
		{"Total Contributed", roundTo(dca.TotalContributed, 2), roundTo(hyb.TotalContributed, 2), styles.CurrencyStyle},
		{"CAGR", pctCell(dca.CAGR), pctCell(hyb.CAGR), styles.PercentStyle},
		{"Max Drawdown", dca.MaxDrawdown, hyb.MaxDrawdown, styles.RedPercentStyle},
		{"Contributions", dca.Contributions, hyb.Contributions, styles.BaseStyle},
		{"Lump Events", dca.LumpEvents, hyb.LumpEvents, styles.BaseStyle},
		{"Monthly Budget", report.Config.MonthlyBudget, report.Config.MonthlyBudget, styles.CurrencyStyle},
		{"Buy Day", report.Config.BuyDay, report.Config.BuyDay, styles.BaseStyle},
		{"Risk Free Rate", report.Config.RiskFreeRate, report.Config.RiskFreeRate, styles.PercentStyle},
		{"Drop Trigger", report.Config.DropPct, report.Config.DropPct, styles.PercentStyle},
		{"Invest Now Split", 1.0, report.Config.HybridSplit, styles.PercentStyle},
	}

	for i, mr := range rows {
		row := i + 2
		r.setCell(fx, sheet, 1, row, mr.label, styles.BaseStyle)
		r.setCell(fx, sheet, 2, row, mr.dca, mr.style)
		r.setCell(fx, sheet, 3, row, mr.hyb, mr.style)
	}
	return nil
}

func (r *DefaultExcelReporter) writeEquitySheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	sheet := equitySheet
	r.writeHeader(fx, sheet, equityHeader, styles)
	fx.SetColWidth(sheet, "A", "A", 12)
	fx.SetColWidth(sheet, "B", "H", 15)

	lumps := make(map[string]float64, len(report.Hybrid.Lumps))
	for _, l := range report.Hybrid.Lumps {
		lumps[l.Date.Format(types.DateLayout)] = l.Amount
	}

	for i, d := range report.DCA.EquityCurve {
		h := report.Hybrid.EquityCurve[i]
		row := i + 2
		date := d.Date.Format(types.DateLayout)
		r.setCell(fx, sheet, 1, row, date, styles.BaseStyle)
		r.setCell(fx, sheet, 2, row, d.Close, styles.NumberStyle)
		r.setCell(fx, sheet, 3, row, roundTo(d.Equity, 2), styles.CurrencyStyle)
		r.setCell(fx, sheet, 4, row, d.Shares, styles.NumberStyle)
		r.setCell(fx, sheet, 5, row, roundTo(h.Equity, 2), styles.CurrencyStyle)
		r.setCell(fx, sheet, 6, row, h.Shares, styles.NumberStyle)
		r.setCell(fx, sheet, 7, row, roundTo(h.Cash, 2), styles.CurrencyStyle)
		if amount, ok := lumps[date]; ok {
			r.setCell(fx, sheet, 8, row, roundTo(amount, 2), styles.CurrencyStyle)
		}
	}

	fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return nil
}

func (r *DefaultExcelReporter) writeLumpsSheet(fx *excelize.File, report *Report, styles ExcelStyles) error {
	sheet := lumpsSheet
	r.writeHeader(fx, sheet, []string{"#", "Date", "Price", "Amount", "Shares"}, styles)
	fx.SetColWidth(sheet, "A", "A", 6)
	fx.SetColWidth(sheet, "B", "E", 14)

	for i, l := range report.Hybrid.Lumps {
		row := i + 2
		r.setCell(fx, sheet, 1, row, i+1, styles.BaseStyle)
		r.setCell(fx, sheet, 2, row, l.Date.Format(types.DateLayout), styles.BaseStyle)
		r.setCell(fx, sheet, 3, row, l.Price, styles.NumberStyle)
		r.setCell(fx, sheet, 4, row, roundTo(l.Amount, 2), styles.CurrencyStyle)
		r.setCell(fx, sheet, 5, row, l.Shares, styles.NumberStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
}

func (r *DefaultExcelReporter) setCell(fx *excelize.File, sheet string, col, row int, value interface{}, style int) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	fx.SetCellValue(sheet, cell, value)
	fx.SetCellStyle(sheet, cell, cell, style)
}

func (r *DefaultExcelReporter) setOptionalPct(fx *excelize.File, sheet string, col, row int, v float64, style int) {
	r.setCell(fx, sheet, col, row, pctCell(v), style)
}

// pctCell leaves undefined ratios as text so Excel does not show a number
func pctCell(v float64) interface{} {
	if !finite(v) {
		return notAvailable
	}
	return v
}

// createExcelStyles creates all Excel styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7, // $#,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10, // 0.00%
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.RedPercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Font:      &excelize.Font{Color: "C00000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.GreenPercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Font:      &excelize.Font{Color: "00B050"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// Package-level convenience functions

// WriteResultsXLSX writes a single-run workbook
func WriteResultsXLSX(report *Report, path string) error {
	return NewDefaultExcelReporter().WriteResultsXLSX(report, path)
}

// WriteSweepXLSX writes a sweep workbook
func WriteSweepXLSX(results []backtest.SweepResult, path string) error {
	return NewDefaultExcelReporter().WriteSweepXLSX(results, path)
}
