package config

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// Simulation defaults
const (
	DefaultMonthlyBudget = 1000.0
	DefaultBuyDay        = 15
	DefaultRiskFreeRate  = 0.03
	DefaultDropPct       = 0.20
	DefaultHybridSplit   = 0.5 // share of each contribution the Hybrid strategy invests immediately

	MinBuyDay = 1
	MaxBuyDay = 31
)

// SimConfig holds every parameter of a single simulation run. It is passed
// explicitly into the engine so parameter sweeps never share state.
type SimConfig struct {
	DataFile      string    `json:"data_file" yaml:"data_file"`
	Start         time.Time `json:"start,omitempty" yaml:"-"`
	End           time.Time `json:"end,omitempty" yaml:"-"`
	MonthlyBudget float64   `json:"monthly_budget" yaml:"monthly_budget" validate:"gte=0"`
	BuyDay        int       `json:"buy_day" yaml:"buy_day" validate:"min=1,max=31"`
	RiskFreeRate  float64   `json:"risk_free_rate" yaml:"risk_free_rate" validate:"gt=-1"`
	DropPct       float64   `json:"drop_pct" yaml:"drop_pct" validate:"gt=0,lt=1"`
	HybridSplit   float64   `json:"hybrid_split" yaml:"hybrid_split" validate:"gte=0,lte=1"`
}

// NewDefaultSimConfig returns a configuration populated with the default parameters
func NewDefaultSimConfig() *SimConfig {
	return &SimConfig{
		MonthlyBudget: DefaultMonthlyBudget,
		BuyDay:        DefaultBuyDay,
		RiskFreeRate:  DefaultRiskFreeRate,
		DropPct:       DefaultDropPct,
		HybridSplit:   DefaultHybridSplit,
	}
}

// Validate checks the configuration
func (c *SimConfig) Validate() error {
	return NewSimValidator().Validate(c)
}

// Label is a short human-readable description of the parameters
func (c *SimConfig) Label() string {
	return fmt.Sprintf("budget=%.0f day=%d rf=%.2f%% drop=%.0f%%",
		c.MonthlyBudget, c.BuyDay, c.RiskFreeRate*100, c.DropPct*100)
}

// ParseDate parses an optional ISO date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
