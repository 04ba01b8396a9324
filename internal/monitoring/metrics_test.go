package monitoring

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
)

func TestRunMetrics_RecordResult(t *testing.T) {
	m := NewRunMetrics()

	m.RecordResult(&backtest.Result{
		Strategy:         backtest.StrategyHybrid,
		FinalValue:       12500,
		TotalContributed: 10000,
		CAGR:             0.071,
		MaxDrawdown:      0.18,
		LumpEvents:       3,
	})
	m.RecordResult(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("Hybrid")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.lumpEvents.WithLabelValues("Hybrid")))
	assert.Equal(t, 12500.0, testutil.ToFloat64(m.finalEquity.WithLabelValues("Hybrid")))
	assert.Equal(t, 0.071, testutil.ToFloat64(m.cagr.WithLabelValues("Hybrid")))
}

func TestRunMetrics_UndefinedCAGRSkipsGauge(t *testing.T) {
	m := NewRunMetrics()
	m.RecordResult(&backtest.Result{Strategy: backtest.StrategyDCA, CAGR: math.NaN()})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("DCA")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.cagr))
}

func TestRunMetrics_RecordError(t *testing.T) {
	m := NewRunMetrics()
	m.RecordError(nil)
	m.RecordError(simerrors.NewSchemaError("data", "Parse", "no Close column"))
	m.RecordError(os.ErrPermission)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("SCHEMA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("UNKNOWN")))
}

func TestRunMetrics_WriteToTextfile(t *testing.T) {
	m := NewRunMetrics()
	m.SetObservations(2520)
	m.ObserveDuration("single", 3*time.Millisecond)
	m.RecordResult(&backtest.Result{Strategy: backtest.StrategyDCA, FinalValue: 1, CAGR: 0.05})

	path := filepath.Join(t.TempDir(), "dca_sim.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.Contains(body, "dca_sim_observations 2520"))
	assert.True(t, strings.Contains(body, `dca_sim_runs_total{strategy="DCA"} 1`))
	assert.True(t, strings.Contains(body, "dca_sim_run_duration_seconds_count"))
}

func TestRunMetrics_WriteToTextfileBadPath(t *testing.T) {
	m := NewRunMetrics()
	err := m.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	require.Error(t, err)
	assert.ErrorIs(t, err, simerrors.ErrIO)
}
