package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
)

// SweepConfig describes a grid of simulation parameters loaded from YAML.
// Empty lists fall back to the single default value for that parameter.
type SweepConfig struct {
	DataFile      string    `yaml:"data_file"`
	Start         string    `yaml:"start"`
	End           string    `yaml:"end"`
	Workers       int       `yaml:"workers"`
	Budgets       []float64 `yaml:"budgets"`
	BuyDays       []int     `yaml:"buy_days"`
	RiskFreeRates []float64 `yaml:"risk_free_rates"`
	Drops         []float64 `yaml:"drops"`
	HybridSplits  []float64 `yaml:"hybrid_splits"`
}

// LoadSweepConfig reads a sweep definition from a YAML file
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerrors.NewIOError("config", "LoadSweepConfig", fmt.Errorf("read sweep config: %w", err))
	}
	return ParseSweepConfig(data)
}

// ParseSweepConfig decodes a sweep definition
func ParseSweepConfig(data []byte) (*SweepConfig, error) {
	sc := &SweepConfig{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, simerrors.WrapError(fmt.Errorf("parse sweep config: %w", err),
			simerrors.ErrorCategoryConfiguration, "config", "ParseSweepConfig")
	}
	return sc, nil
}

// Expand returns one validated SimConfig per parameter combination, in a
// deterministic order (budget, buy day, rate, drop, split).
func (sc *SweepConfig) Expand() ([]*SimConfig, error) {
	start, err := ParseDate(sc.Start)
	if err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "Expand")
	}
	end, err := ParseDate(sc.End)
	if err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "Expand")
	}

	budgets := orDefault(sc.Budgets, DefaultMonthlyBudget)
	buyDays := sc.BuyDays
	if len(buyDays) == 0 {
		buyDays = []int{DefaultBuyDay}
	}
	rates := orDefault(sc.RiskFreeRates, DefaultRiskFreeRate)
	drops := orDefault(sc.Drops, DefaultDropPct)
	splits := orDefault(sc.HybridSplits, DefaultHybridSplit)

	validator := NewSimValidator()
	out := make([]*SimConfig, 0, len(budgets)*len(buyDays)*len(rates)*len(drops)*len(splits))
	for _, b := range budgets {
		for _, d := range buyDays {
			for _, rf := range rates {
				for _, drop := range drops {
					for _, split := range splits {
						cfg := &SimConfig{
							DataFile:      sc.DataFile,
							Start:         start,
							End:           end,
							MonthlyBudget: b,
							BuyDay:        d,
							RiskFreeRate:  rf,
							DropPct:       drop,
							HybridSplit:   split,
						}
						if err := validator.Validate(cfg); err != nil {
							return nil, fmt.Errorf("sweep combination %s: %w", cfg.Label(), err)
						}
						out = append(out, cfg)
					}
				}
			}
		}
	}
	return out, nil
}

func orDefault(values []float64, def float64) []float64 {
	if len(values) == 0 {
		return []float64{def}
	}
	return values
}
