package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/dca-hybrid-backtest/cmd/common"
	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/internal/monitoring"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
	datamanager "github.com/ducminhle1904/dca-hybrid-backtest/pkg/data"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/reporting"
)

const AppName = "DCA Sim"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one simulation and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dca-sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := NewSimFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if common.CheckHelpAndVersion(stdout, AppName, flags.Common, fs, newUsage()) {
		return 0
	}

	_ = common.LoadEnvFile(*flags.Common.EnvFile, common.BootstrapLogger(stderr, flags.Common))

	runLog, err := common.SetupLogger(flags.Common, "dca-sim")
	if err != nil {
		fmt.Fprintf(stderr, "❌ Logger error: %v\n", err)
		return 2
	}
	defer runLog.Close()
	log := runLog.Logger

	metrics := monitoring.NewRunMetrics()
	err = simulate(fs, flags, stdout, log, metrics)
	if err != nil {
		metrics.RecordError(err)
		log.Error().Err(err).Msg("❌ Simulation failed")
	}

	if path := *flags.MetricsFile; path != "" {
		if werr := metrics.WriteToTextfile(path); werr != nil {
			log.Error().Err(werr).Str("path", path).Msg("failed to write metrics")
			if err == nil {
				err = werr
			}
		}
	}

	return simerrors.ExitCode(err)
}

func simulate(fs *flag.FlagSet, flags *SimFlags, stdout io.Writer, log zerolog.Logger, metrics *monitoring.RunMetrics) error {
	if err := ValidateSimFlags(flags); err != nil {
		return err
	}

	arg := *flags.DataFile
	if fs.NArg() > 0 {
		arg = fs.Arg(0)
	}

	cfg, err := BuildConfig(fs, flags, arg)
	if err != nil {
		return err
	}

	dataFile := datamanager.NewDefaultFileLocator(log).FindDataFile(*flags.DataRoot, cfg.DataFile)
	if dataFile == "" {
		if strings.TrimSpace(cfg.DataFile) == "" {
			return simerrors.NewConfigurationError("cli", "ResolveData", "a price CSV is required (argument, -data or "+config.EnvDataFile+")")
		}
		return simerrors.NewIOError("cli", "ResolveData", fmt.Errorf("data file not found: %s", cfg.DataFile))
	}
	cfg.DataFile = dataFile

	log.Info().
		Str("data", cfg.DataFile).
		Str("params", cfg.Label()).
		Float64("split", cfg.HybridSplit).
		Msg("🎯 Starting simulation")

	started := time.Now()
	series, err := datamanager.NewDataManager(log).Load(cfg.DataFile, cfg.Start, cfg.End)
	if err != nil {
		return err
	}
	metrics.SetObservations(series.Len())

	engine, err := backtest.NewEngine(cfg, series)
	if err != nil {
		return err
	}
	engine.WithLogger(log)

	dca, hybrid := engine.RunAll()
	metrics.ObserveDuration("single", time.Since(started))
	metrics.RecordResult(dca)
	metrics.RecordResult(hybrid)

	log.Info().
		Int("observations", series.Len()).
		Int("buy_dates", engine.BuyDates().Len()).
		Int("trigger_days", engine.Triggers().Count()).
		Dur("elapsed", time.Since(started)).
		Msg("✅ Simulation complete")

	report := &reporting.Report{
		Config:       engine.Config(),
		DataFile:     cfg.DataFile,
		Observations: series.Len(),
		FirstDate:    series.First().Date,
		LastDate:     series.Last().Date,
		TriggerDays:  engine.Triggers().Count(),
		DCA:          dca,
		Hybrid:       hybrid,
	}

	manager := reporting.NewReportingManager(reporting.ReportingConfig{
		EnableConsole: !*flags.Quiet,
		JSONToStdout:  *flags.JSON,
		JSONPath:      *flags.JSONOut,
		XLSXPath:      *flags.XLSX,
		EquityCSVPath: *flags.EquityCSV,
		ChartPath:     *flags.Chart,
	}, stdout, log)

	return manager.ReportResults(report)
}
