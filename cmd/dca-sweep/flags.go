package main

import (
	"flag"
	"runtime"

	"github.com/ducminhle1904/dca-hybrid-backtest/cmd/common"
)

// SweepFlags holds all command line flags for the sweep command
type SweepFlags struct {
	ConfigFile  *string
	DataFile    *string
	DataRoot    *string
	Workers     *int
	XLSX        *string
	MetricsFile *string
	Quiet       *bool

	Common *common.CommonFlags
}

// NewSweepFlags creates and registers all sweep flags on fs
func NewSweepFlags(fs *flag.FlagSet) *SweepFlags {
	return &SweepFlags{
		ConfigFile:  fs.String("config", "sweep.yaml", "YAML file listing the parameter values to combine"),
		DataFile:    fs.String("data", "", "CSV file with Date and Close columns, overrides data_file in the sweep config"),
		DataRoot:    fs.String("data-root", "data", "Directory searched when the data argument is a bare ticker"),
		Workers:     fs.Int("workers", 0, "Parallel workers (0 = sweep config value, then number of CPUs)"),
		XLSX:        fs.String("xlsx", "", "Write the sweep table to this Excel workbook"),
		MetricsFile: fs.String("metrics-file", "", "Write Prometheus text-format metrics to this path"),
		Quiet:       fs.Bool("quiet", false, "Suppress the console table"),

		Common: common.RegisterCommonFlags(fs),
	}
}

// ValidateSweepFlags performs basic validation on the sweep flags
func ValidateSweepFlags(flags *SweepFlags) error {
	v := common.NewFlagValidator()
	v.ValidateFile("config", *flags.ConfigFile, true)
	v.ValidateInt("workers", *flags.Workers, 0, 1024)
	return v.GetError()
}

// resolveWorkers picks the flag value, then the config value, then the CPU count
func resolveWorkers(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if configValue > 0 {
		return configValue
	}
	return runtime.NumCPU()
}

func newUsage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "Run the DCA vs Hybrid backtest over a grid of parameters", "[prices.csv]").
		AddExample("dca-sweep -config sweep.yaml", "Sweep using the data file named in the config").
		AddExample("dca-sweep -config sweep.yaml -workers 8 -xlsx results/sweep.xlsx data/spx.csv", "Override the data file and save a workbook")
}
