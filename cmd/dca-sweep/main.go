package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
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

const AppName = "DCA Sweep"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dca-sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := NewSweepFlags(fs)
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

	runLog, err := common.SetupLogger(flags.Common, "dca-sweep")
	if err != nil {
		fmt.Fprintf(stderr, "❌ Logger error: %v\n", err)
		return 2
	}
	defer runLog.Close()
	log := runLog.Logger

	metrics := monitoring.NewRunMetrics()
	err = sweep(ctx, fs, flags, stdout, log, metrics)
	if err != nil {
		metrics.RecordError(err)
		log.Error().Err(err).Msg("❌ Sweep failed")
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

func sweep(ctx context.Context, fs *flag.FlagSet, flags *SweepFlags, stdout io.Writer, log zerolog.Logger, metrics *monitoring.RunMetrics) error {
	if err := ValidateSweepFlags(flags); err != nil {
		return err
	}

	sc, err := config.LoadSweepConfig(*flags.ConfigFile)
	if err != nil {
		return err
	}

	arg := sc.DataFile
	if *flags.DataFile != "" {
		arg = *flags.DataFile
	}
	if fs.NArg() > 0 {
		arg = fs.Arg(0)
	}
	dataFile := datamanager.NewDefaultFileLocator(log).FindDataFile(*flags.DataRoot, arg)
	if dataFile == "" {
		if arg == "" {
			return simerrors.NewConfigurationError("cli", "ResolveData", "a price CSV is required (argument, -data or data_file)")
		}
		return simerrors.NewIOError("cli", "ResolveData", fmt.Errorf("data file not found: %s", arg))
	}
	sc.DataFile = dataFile

	configs, err := sc.Expand()
	if err != nil {
		return err
	}

	// Every combination shares the window, so the series is loaded once.
	started := time.Now()
	first := configs[0]
	series, err := datamanager.NewDataManager(log).Load(dataFile, first.Start, first.End)
	if err != nil {
		return err
	}
	metrics.SetObservations(series.Len())

	workers := resolveWorkers(*flags.Workers, sc.Workers)
	log.Info().
		Str("data", dataFile).
		Int("combinations", len(configs)).
		Int("workers", workers).
		Msg("🚀 Starting parameter sweep")

	processor := backtest.NewBatchProcessor(workers, len(configs)).
		OnProgress(func(done, total int) {
			log.Debug().Int("done", done).Int("total", total).Msg("sweep progress")
		})

	results, err := processor.ProcessBatch(ctx, series, configs)
	metrics.ObserveDuration("sweep", time.Since(started))
	if err != nil {
		return fmt.Errorf("sweep interrupted after %d of %d combinations: %w", len(results), len(configs), err)
	}

	failed := 0
	var firstErr error
	for _, r := range results {
		if r.Error != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Error
			}
			metrics.RecordError(r.Error)
			log.Warn().Err(r.Error).Str("params", r.Config.Label()).Msg("⚠️ Combination failed")
			continue
		}
		metrics.RecordResult(r.DCA)
		metrics.RecordResult(r.Hybrid)
	}

	log.Info().
		Int("completed", len(results)-failed).
		Int("failed", failed).
		Dur("elapsed", time.Since(started)).
		Msg("✅ Sweep complete")

	if !*flags.Quiet {
		reporting.NewConsoleReporter(stdout).OutputSweep(results)
	}

	if path := *flags.XLSX; path != "" {
		if err := reporting.WriteSweepXLSX(results, path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("report written")
	}

	if failed == len(results) {
		return fmt.Errorf("every combination failed: %w", firstErr)
	}
	return nil
}
