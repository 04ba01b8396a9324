package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ducminhle1904/dca-hybrid-backtest/internal/backtest"
	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
)

// RunMetrics collects per-run simulation metrics in a private registry so that
// several runs in one process never collide on the default registerer.
type RunMetrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	lumpEvents   *prometheus.CounterVec
	finalEquity  *prometheus.GaugeVec
	contributed  *prometheus.GaugeVec
	cagr         *prometheus.GaugeVec
	maxDrawdown  *prometheus.GaugeVec
	runDuration  *prometheus.HistogramVec
	errorsTotal  *prometheus.CounterVec
	observations prometheus.Gauge
}

// NewRunMetrics creates and registers the simulation metrics
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_sim_runs_total",
				Help: "Total number of strategy simulations",
			},
			[]string{"strategy"},
		),
		lumpEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_sim_lump_events_total",
				Help: "Total number of cash buffer deployments",
			},
			[]string{"strategy"},
		),
		finalEquity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dca_sim_final_equity",
				Help: "Portfolio value on the last observation",
			},
			[]string{"strategy"},
		),
		contributed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dca_sim_contributed_total",
				Help: "Total amount contributed over the run",
			},
			[]string{"strategy"},
		),
		cagr: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dca_sim_cagr",
				Help: "Compound annual growth of equity over contributions",
			},
			[]string{"strategy"},
		),
		maxDrawdown: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dca_sim_max_drawdown",
				Help: "Largest peak-to-trough equity decline as a fraction",
			},
			[]string{"strategy"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dca_sim_run_duration_seconds",
				Help:    "Distribution of simulation wall time",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"mode"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_sim_errors_total",
				Help: "Total number of errors by category",
			},
			[]string{"category"},
		),
		observations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dca_sim_observations",
				Help: "Number of daily observations in the simulated series",
			},
		),
	}

	m.registry.MustRegister(
		m.runsTotal,
		m.lumpEvents,
		m.finalEquity,
		m.contributed,
		m.cagr,
		m.maxDrawdown,
		m.runDuration,
		m.errorsTotal,
		m.observations,
	)
	return m
}

// Registry exposes the underlying registry
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordResult records one strategy result. An undefined CAGR leaves the gauge untouched.
func (m *RunMetrics) RecordResult(res *backtest.Result) {
	if res == nil {
		return
	}
	label := string(res.Strategy)
	m.runsTotal.WithLabelValues(label).Inc()
	m.lumpEvents.WithLabelValues(label).Add(float64(res.LumpEvents))
	m.finalEquity.WithLabelValues(label).Set(res.FinalValue)
	m.contributed.WithLabelValues(label).Set(res.TotalContributed)
	m.maxDrawdown.WithLabelValues(label).Set(res.MaxDrawdown)
	if res.HasCAGR() {
		m.cagr.WithLabelValues(label).Set(res.CAGR)
	}
}

// ObserveDuration records the wall time of a single run or a sweep
func (m *RunMetrics) ObserveDuration(mode string, d time.Duration) {
	m.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// SetObservations records the series length
func (m *RunMetrics) SetObservations(n int) {
	m.observations.Set(float64(n))
}

// RecordError records an error by its category
func (m *RunMetrics) RecordError(err error) {
	if err == nil {
		return
	}
	category := "UNKNOWN"
	if se, ok := simerrors.AsSimError(err); ok {
		category = string(se.Category)
	}
	m.errorsTotal.WithLabelValues(category).Inc()
}

// WriteToTextfile writes the metrics in the text exposition format, suitable
// for the node exporter textfile collector
func (m *RunMetrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return simerrors.NewIOError("monitoring", "WriteToTextfile", err)
	}
	return nil
}
