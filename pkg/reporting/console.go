package reporting

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: os.Stdout}
}

// NewConsoleReporter creates a console reporter writing to w
func NewConsoleReporter(w io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w}
}

// StrategyLine formats one strategy as a single summary line. Lump events are
// only shown for strategies that can deploy cash.
func StrategyLine(res *backtest.Result) string {
	line := fmt.Sprintf("Final %s | Contrib %s | CAGR %s | MaxDD %s",
		formatUSD(res.FinalValue),
		formatUSD(res.TotalContributed),
		formatPct(res.CAGR, 4),
		formatPct(res.MaxDrawdown, 2))
	if res.Strategy == backtest.StrategyHybrid {
		line += fmt.Sprintf(" | Lump events %d", res.LumpEvents)
	}
	return line
}

// OutputResults prints the run summary followed by a comparison table
func (r *DefaultConsoleReporter) OutputResults(report *Report) {
	w := r.out
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "📊 DCA vs HYBRID BACKTEST")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintf(w, "As-of: %s\n", report.DCA.AsOf.Format(types.DateLayout))
	fmt.Fprintf(w, "Years: %.2f\n", report.DCA.Years)
	fmt.Fprintf(w, "Drop trigger: %s\n", formatPct(report.Config.DropPct, 0))
	fmt.Fprintln(w, "--- DCA ---")
	fmt.Fprintln(w, StrategyLine(report.DCA))
	fmt.Fprintln(w, "--- Hybrid ---")
	fmt.Fprintln(w, StrategyLine(report.Hybrid))
	fmt.Fprintln(w)

	r.outputComparison(report)
}

func (r *DefaultConsoleReporter) outputComparison(report *Report) {
	dca, hyb := report.DCA, report.Hybrid

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("STRATEGY COMPARISON")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "DCA", "Hybrid", "Hybrid - DCA"})

	t.AppendRows([]table.Row{
		{"💰 Final Equity", formatUSD(dca.FinalValue), formatUSD(hyb.FinalValue), formatUSD(hyb.FinalValue - dca.FinalValue)},
		{"💵 Contributed", formatUSD(dca.TotalContributed), formatUSD(hyb.TotalContributed), ""},
		{"📈 CAGR", formatPct(dca.CAGR, 2), formatPct(hyb.CAGR, 2), formatPct(hyb.CAGR-dca.CAGR, 2)},
		{"📉 Max Drawdown", formatPct(dca.MaxDrawdown, 2), formatPct(hyb.MaxDrawdown, 2), formatPct(hyb.MaxDrawdown-dca.MaxDrawdown, 2)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🗓️ Contributions", dca.Contributions, hyb.Contributions, ""},
		{"🎯 Trigger Days", "", report.TriggerDays, ""},
		{"🚀 Lump Events", dca.LumpEvents, hyb.LumpEvents, ""},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 14, Align: text.AlignRight},
		{Number: 3, WidthMin: 14, Align: text.AlignRight},
		{Number: 4, WidthMin: 14, Align: text.AlignRight},
	})

	t.Render()
}

// SortBySpread returns a copy of results ordered by Hybrid minus DCA CAGR,
// largest first. Runs without a spread sort last in their original order.
func SortBySpread(results []backtest.SweepResult) []backtest.SweepResult {
	sorted := make([]backtest.SweepResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].CAGRSpread(), sorted[j].CAGRSpread()
		if math.IsNaN(si) {
			return false
		}
		if math.IsNaN(sj) {
			return true
		}
		return si > sj
	})
	return sorted
}

// OutputSweep prints one row per parameter combination, best spread first
func (r *DefaultConsoleReporter) OutputSweep(results []backtest.SweepResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("PARAMETER SWEEP (%d runs)", len(results)))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Budget", "Day", "RF", "Drop", "Split", "DCA CAGR", "Hybrid CAGR", "Spread", "Lumps", "DCA MaxDD", "Hybrid MaxDD"})

	for rank, res := range SortBySpread(results) {
		cfg := res.Config
		if res.Error != nil {
			t.AppendRow(table.Row{rank + 1, formatUSD(cfg.MonthlyBudget), cfg.BuyDay, formatPct(cfg.RiskFreeRate, 2),
				formatPct(cfg.DropPct, 0), formatPct(cfg.HybridSplit, 0), "error: " + res.Error.Error()})
			continue
		}
		t.AppendRow(table.Row{
			rank + 1,
			formatUSD(cfg.MonthlyBudget),
			cfg.BuyDay,
			formatPct(cfg.RiskFreeRate, 2),
			formatPct(cfg.DropPct, 0),
			formatPct(cfg.HybridSplit, 0),
			formatPct(res.DCA.CAGR, 2),
			formatPct(res.Hybrid.CAGR, 2),
			formatPct(res.CAGRSpread(), 2),
			res.Hybrid.LumpEvents,
			formatPct(res.DCA.MaxDrawdown, 2),
			formatPct(res.Hybrid.MaxDrawdown, 2),
		})
	}

	t.Render()
}

// Package-level convenience functions

// OutputResults prints a run summary to stdout
func OutputResults(report *Report) {
	NewDefaultConsoleReporter().OutputResults(report)
}

// OutputSweep prints a sweep table to stdout
func OutputSweep(results []backtest.SweepResult) {
	NewDefaultConsoleReporter().OutputSweep(results)
}
