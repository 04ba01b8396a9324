package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

type configJSON struct {
	MonthlyBudget float64 `json:"monthly_budget"`
	BuyDay        int     `json:"buy_day"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	DropPct       float64 `json:"drop_pct"`
	HybridSplit   float64 `json:"hybrid_split"`
	Start         string  `json:"start,omitempty"`
	End           string  `json:"end,omitempty"`
}

type lumpJSON struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Shares float64 `json:"shares"`
}

type strategyJSON struct {
	Strategy         string     `json:"strategy"`
	FinalValue       float64    `json:"final_value"`
	TotalContributed float64    `json:"total_contributed"`
	CAGR             *float64   `json:"cagr"` // null when undefined
	MaxDrawdown      float64    `json:"max_drawdown"`
	Contributions    int        `json:"contributions"`
	LumpEvents       int        `json:"lump_events"`
	Lumps            []lumpJSON `json:"lumps,omitempty"`
}

type reportJSON struct {
	DataFile     string         `json:"data_file,omitempty"`
	AsOf         string         `json:"as_of"`
	FirstDate    string         `json:"first_date"`
	Years        float64        `json:"years"`
	Observations int            `json:"observations"`
	TriggerDays  int            `json:"trigger_days"`
	Config       configJSON     `json:"config"`
	Results      []strategyJSON `json:"results"`
}

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

func toStrategyJSON(res *backtest.Result) strategyJSON {
	out := strategyJSON{
		Strategy:         string(res.Strategy),
		FinalValue:       roundTo(res.FinalValue, 2),
		TotalContributed: roundTo(res.TotalContributed, 2),
		MaxDrawdown:      roundTo(res.MaxDrawdown, 6),
		Contributions:    res.Contributions,
		LumpEvents:       res.LumpEvents,
	}
	if res.HasCAGR() {
		cagr := roundTo(res.CAGR, 6)
		out.CAGR = &cagr
	}
	for _, l := range res.Lumps {
		out.Lumps = append(out.Lumps, lumpJSON{
			Date:   l.Date.Format(types.DateLayout),
			Price:  roundTo(l.Price, 4),
			Amount: roundTo(l.Amount, 2),
			Shares: roundTo(l.Shares, 6),
		})
	}
	return out
}

func toReportJSON(report *Report) reportJSON {
	cfg := report.Config
	out := reportJSON{
		DataFile:     report.DataFile,
		AsOf:         report.LastDate.Format(types.DateLayout),
		FirstDate:    report.FirstDate.Format(types.DateLayout),
		Years:        roundTo(report.DCA.Years, 4),
		Observations: report.Observations,
		TriggerDays:  report.TriggerDays,
		Config: configJSON{
			MonthlyBudget: cfg.MonthlyBudget,
			BuyDay:        cfg.BuyDay,
			RiskFreeRate:  cfg.RiskFreeRate,
			DropPct:       cfg.DropPct,
			HybridSplit:   cfg.HybridSplit,
		},
		Results: []strategyJSON{toStrategyJSON(report.DCA), toStrategyJSON(report.Hybrid)},
	}
	if !cfg.Start.IsZero() {
		out.Config.Start = cfg.Start.Format(types.DateLayout)
	}
	if !cfg.End.IsZero() {
		out.Config.End = cfg.End.Format(types.DateLayout)
	}
	return out
}

// FormatReport formats the run as indented JSON
func (f *DefaultJSONFormatter) FormatReport(report *Report) ([]byte, error) {
	return json.MarshalIndent(toReportJSON(report), "", "  ")
}

// PrintReport writes the run as indented JSON to w
func (f *DefaultJSONFormatter) PrintReport(w io.Writer, report *Report) error {
	data, err := f.FormatReport(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteReportJSON writes the run as JSON to path
func WriteReportJSON(report *Report, path string) error {
	data, err := NewDefaultJSONFormatter().FormatReport(report)
	if err != nil {
		return err
	}

	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteReportJSON", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return simerrors.NewIOError("reporting", "WriteReportJSON", err)
	}
	return nil
}
