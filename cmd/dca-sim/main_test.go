package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/dca-hybrid-backtest/cmd/common"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
)

// writePrices writes n weekday closes: a steady climb followed by a 30% slide
func writePrices(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Close\n")
	d := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			if i < n*2/3 {
				price += 0.25
			} else {
				price *= 0.997
			}
			fmt.Fprintf(&b, "%s,%.4f\n", d.Format("2006-01-02"), price)
			i++
		}
		d = d.AddDate(0, 0, 1)
	}
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range flagEnv {
		t.Setenv(name, "")
	}
}

func TestBuildConfig_FlagsBeatEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBudget, "250")
	t.Setenv(config.EnvDropPct, "0.3")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := NewSimFlags(fs)
	require.NoError(t, fs.Parse([]string{"-drop", "0.1", "-start", "2019-06-01"}))

	cfg, err := BuildConfig(fs, flags, "prices.csv")
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.MonthlyBudget)
	assert.Equal(t, 0.1, cfg.DropPct)
	assert.Equal(t, config.DefaultBuyDay, cfg.BuyDay)
	assert.Equal(t, "prices.csv", cfg.DataFile)
	assert.Equal(t, 2019, cfg.Start.Year())
}

func TestBuildConfig_DataFileFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvDataFile, "from-env.csv")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := NewSimFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := BuildConfig(fs, flags, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.DataFile)

	cfg, err = BuildConfig(fs, flags, "from-arg.csv")
	require.NoError(t, err)
	assert.Equal(t, "from-arg.csv", cfg.DataFile)
}

func TestBuildConfig_BadEnvironmentValue(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBuyDay, "fifteenth")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := NewSimFlags(fs)
	require.NoError(t, fs.Parse(nil))

	_, err := BuildConfig(fs, flags, "prices.csv")
	assert.Error(t, err)
}

func TestValidateSimFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"zero drop", []string{"-drop", "0"}, true},
		{"full drop", []string{"-drop", "1"}, true},
		{"buy day out of range", []string{"-buy-day", "32"}, true},
		{"negative budget", []string{"-budget", "-5"}, true},
		{"split above one", []string{"-split", "1.5"}, true},
		{"bad start", []string{"-start", "2020/01/01"}, true},
		{"rate at minus one", []string{"-rf", "-1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := NewSimFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			err := ValidateSimFlags(flags)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun_JSONAndFiles(t *testing.T) {
	clearEnv(t)
	csvPath := writePrices(t, 600)
	out := t.TempDir()
	xlsxPath := filepath.Join(out, "results.xlsx")
	equityPath := filepath.Join(out, "equity.csv")
	metricsPath := filepath.Join(out, "metrics.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-json",
		"-log-level", "error",
		"-xlsx", xlsxPath,
		"-equity-csv", equityPath,
		"-metrics-file", metricsPath,
		csvPath,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var doc struct {
		Observations int `json:"observations"`
		Results      []struct {
			Strategy         string  `json:"strategy"`
			TotalContributed float64 `json:"total_contributed"`
			LumpEvents       int     `json:"lump_events"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, 600, doc.Observations)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "DCA", doc.Results[0].Strategy)
	assert.Equal(t, "Hybrid", doc.Results[1].Strategy)
	assert.Equal(t, doc.Results[0].TotalContributed, doc.Results[1].TotalContributed)
	assert.Equal(t, 1, doc.Results[1].LumpEvents)

	for _, path := range []string{xlsxPath, equityPath, metricsPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "dca_sim_runs_total")
}

func TestRun_ConsoleSummary(t *testing.T) {
	clearEnv(t)
	csvPath := writePrices(t, 400)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", csvPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	text := stdout.String()
	assert.Contains(t, text, "As-of: ")
	assert.Contains(t, text, "Drop trigger: 20%")
	assert.Contains(t, text, "--- DCA ---")
	assert.Contains(t, text, "--- Hybrid ---")
	assert.Contains(t, text, "Lump events")
}

func TestRun_ExitCodes(t *testing.T) {
	clearEnv(t)
	csvPath := writePrices(t, 400)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	short := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("Date,Close\n2020-01-02,100\n2020-01-03,101\n"), 0644))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"-version"}, 0},
		{"help", []string{"-help"}, 0},
		{"unknown flag", []string{"-bogus"}, 2},
		{"no data", []string{"-log-level", "error"}, 2},
		{"invalid drop", []string{"-log-level", "error", "-drop", "2", csvPath}, 2},
		{"missing file", []string{"-log-level", "error", missing}, 3},
		{"too little history", []string{"-log-level", "error", short}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(tt.args, &stdout, &stderr))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), common.ProjectVersion)
}
