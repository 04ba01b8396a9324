package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ducminhle1904/dca-hybrid-backtest/cmd/common"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
)

// SimFlags holds all command line flags for the simulation command
type SimFlags struct {
	// Data
	DataFile *string
	DataRoot *string
	Start    *string
	End      *string

	// Strategy parameters
	Budget      *float64
	BuyDay      *int
	RiskFree    *float64
	Drop        *float64
	HybridSplit *float64

	// Output options
	JSON        *bool
	JSONOut     *string
	XLSX        *string
	EquityCSV   *string
	Chart       *string
	MetricsFile *string
	Quiet       *bool

	Common *common.CommonFlags
}

// flagEnv maps flags to the environment variables they take precedence over
var flagEnv = map[string]string{
	"data":    config.EnvDataFile,
	"start":   config.EnvStart,
	"end":     config.EnvEnd,
	"budget":  config.EnvBudget,
	"buy-day": config.EnvBuyDay,
	"rf":      config.EnvRiskFreeRate,
	"drop":    config.EnvDropPct,
	"split":   config.EnvHybridSplit,
}

// NewSimFlags creates and registers all simulation flags on fs
func NewSimFlags(fs *flag.FlagSet) *SimFlags {
	return &SimFlags{
		DataFile: fs.String("data", "", "CSV file with Date and Close columns (or pass it as the first argument)"),
		DataRoot: fs.String("data-root", "data", "Directory searched when the data argument is a bare ticker"),
		Start:    fs.String("start", "", "First date to include (YYYY-MM-DD)"),
		End:      fs.String("end", "", "Last date to include (YYYY-MM-DD)"),

		Budget:      fs.Float64("budget", config.DefaultMonthlyBudget, "Monthly contribution"),
		BuyDay:      fs.Int("buy-day", config.DefaultBuyDay, "Day of month to buy (1-31); falls back to the last trading day"),
		RiskFree:    fs.Float64("rf", config.DefaultRiskFreeRate, "Risk-free annual rate earned by Hybrid cash (0.03 = 3%)"),
		Drop:        fs.Float64("drop", config.DefaultDropPct, "Drawdown from the 252-day high that deploys Hybrid cash (0.20 = 20%)"),
		HybridSplit: fs.Float64("split", config.DefaultHybridSplit, "Share of each Hybrid contribution invested immediately"),

		JSON:        fs.Bool("json", false, "Print the results as JSON instead of the console summary"),
		JSONOut:     fs.String("json-out", "", "Write the results as JSON to this path"),
		XLSX:        fs.String("xlsx", "", "Write an Excel workbook to this path"),
		EquityCSV:   fs.String("equity-csv", "", "Write both daily equity curves as CSV to this path"),
		Chart:       fs.String("chart", "", "Write a PNG chart of both equity curves to this path"),
		MetricsFile: fs.String("metrics-file", "", "Write Prometheus text-format metrics to this path"),
		Quiet:       fs.Bool("quiet", false, "Suppress the console summary"),

		Common: common.RegisterCommonFlags(fs),
	}
}

// ValidateSimFlags performs range checks that don't need the data file
func ValidateSimFlags(flags *SimFlags) error {
	v := common.NewFlagValidator()

	v.ValidateFloat("budget", *flags.Budget, 0, 1e12)
	v.ValidateInt("buy-day", *flags.BuyDay, config.MinBuyDay, config.MaxBuyDay)
	v.ValidateFloat("split", *flags.HybridSplit, 0, 1)
	if *flags.Drop <= 0 || *flags.Drop >= 1 {
		v.AddError(fmt.Sprintf("drop must be strictly between 0 and 1, got: %.4f", *flags.Drop))
	}
	if *flags.RiskFree <= -1 {
		v.AddError(fmt.Sprintf("rf must be greater than -1, got: %.4f", *flags.RiskFree))
	}
	if _, err := config.ParseDate(*flags.Start); err != nil {
		v.AddError("start: " + err.Error())
	}
	if _, err := config.ParseDate(*flags.End); err != nil {
		v.AddError("end: " + err.Error())
	}

	return v.GetError()
}

// BuildConfig turns flag values into a SimConfig, then lets DCA_* environment
// variables override any flag that was not set explicitly
func BuildConfig(fs *flag.FlagSet, flags *SimFlags, dataFile string) (*config.SimConfig, error) {
	cfg := config.NewDefaultSimConfig()
	cfg.DataFile = dataFile
	cfg.MonthlyBudget = *flags.Budget
	cfg.BuyDay = *flags.BuyDay
	cfg.RiskFreeRate = *flags.RiskFree
	cfg.DropPct = *flags.Drop
	cfg.HybridSplit = *flags.HybridSplit

	var err error
	if cfg.Start, err = config.ParseDate(*flags.Start); err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "cli", "ParseStart")
	}
	if cfg.End, err = config.ParseDate(*flags.End); err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "cli", "ParseEnd")
	}

	skip := common.EnvSkip(fs, flagEnv)
	if dataFile != "" {
		skip[config.EnvDataFile] = true
	}
	if err := config.ApplyEnv(cfg, skip); err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "cli", "ApplyEnv")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newUsage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "Monthly DCA vs Hybrid cash-buffer backtest", "<prices.csv>").
		AddExample("dca-sim data/spx.csv", "Default parameters: $1000 on the 15th, 3% cash rate, 20% trigger").
		AddExample("dca-sim -start 2010-01-01 -budget 500 -buy-day 1 -drop 0.15 data/spx.csv", "Custom window and parameters").
		AddExample("dca-sim -json -xlsx results/spx.xlsx -chart results/spx.png spx", "Machine-readable output plus workbook and chart")
}

// PrintUsage prints usage information for the simulation command
func PrintUsage(w io.Writer, fs *flag.FlagSet) {
	newUsage().PrintUsage(w, fs)
}
