package reporting

import (
	"errors"
	"fmt"
	"os"

	"github.com/vicanso/go-charts/v2"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// maxChartPoints caps the points drawn per series; longer curves are sampled
const maxChartPoints = 600

// sampleIndices returns evenly spaced indices over n points, always keeping
// the first and the last
func sampleIndices(n, limit int) []int {
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	step := (n + limit - 1) / limit
	out := make([]int, 0, limit+1)
	for i := 0; i < n; i += step {
		out = append(out, i)
	}
	if out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

// RenderEquityChart draws both equity curves as a PNG line chart
func RenderEquityChart(report *Report) ([]byte, error) {
	dca, hyb := report.DCA.EquityCurve, report.Hybrid.EquityCurve
	if len(dca) < 2 || len(dca) != len(hyb) {
		return nil, errors.New("not enough data points")
	}

	idx := sampleIndices(len(dca), maxChartPoints)
	xLabels := make([]string, len(idx))
	dcaValues := make([]float64, len(idx))
	hybValues := make([]float64, len(idx))
	yMin, yMax := dca[0].Equity, dca[0].Equity
	for k, i := range idx {
		xLabels[k] = dca[i].Date.Format(types.DateLayout)
		dcaValues[k] = dca[i].Equity
		hybValues[k] = hyb[i].Equity
		for _, v := range []float64{dca[i].Equity, hyb[i].Equity} {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}

	pad := (yMax - yMin) * 0.05
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad
	if yMax <= yMin {
		yMax = yMin + 1
	}

	split := 10
	if len(idx) < split {
		split = len(idx)
	}

	title := fmt.Sprintf("DCA vs Hybrid • budget %s • drop %s",
		formatUSD(report.Config.MonthlyBudget), formatPct(report.Config.DropPct, 0))
	subtitle := fmt.Sprintf("%s → %s", report.FirstDate.Format(types.DateLayout), report.LastDate.Format(types.DateLayout))

	painter, err := charts.LineRender(
		[][]float64{dcaValues, hybValues},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"DCA", "Hybrid"},
			Left: charts.PositionRight,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// WriteEquityChart renders the equity chart to a PNG file
func WriteEquityChart(report *Report, path string) error {
	buf, err := RenderEquityChart(report)
	if err != nil {
		return err
	}
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityChart", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return simerrors.NewIOError("reporting", "WriteEquityChart", err)
	}
	return nil
}
