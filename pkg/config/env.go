package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognised by ApplyEnv
const (
	EnvDataFile     = "DCA_DATA_FILE"
	EnvStart        = "DCA_START"
	EnvEnd          = "DCA_END"
	EnvBudget       = "DCA_BUDGET"
	EnvBuyDay       = "DCA_BUY_DAY"
	EnvRiskFreeRate = "DCA_RF"
	EnvDropPct      = "DCA_DROP"
	EnvHybridSplit  = "DCA_HYBRID_SPLIT"
)

// ApplyEnv overrides configuration fields from DCA_* environment variables.
// Fields named in skip (by env var name) are left untouched so that explicit
// command line flags keep precedence.
func ApplyEnv(cfg *SimConfig, skip map[string]bool) error {
	lookup := func(name string) (string, bool) {
		if skip[name] {
			return "", false
		}
		v, ok := os.LookupEnv(name)
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDataFile); ok {
		cfg.DataFile = v
	}
	if v, ok := lookup(EnvStart); ok {
		t, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStart, err)
		}
		cfg.Start = t
	}
	if v, ok := lookup(EnvEnd); ok {
		t, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnd, err)
		}
		cfg.End = t
	}
	if v, ok := lookup(EnvBudget); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBudget, err)
		}
		cfg.MonthlyBudget = f
	}
	if v, ok := lookup(EnvBuyDay); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBuyDay, err)
		}
		cfg.BuyDay = n
	}
	if v, ok := lookup(EnvRiskFreeRate); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRiskFreeRate, err)
		}
		cfg.RiskFreeRate = f
	}
	if v, ok := lookup(EnvDropPct); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDropPct, err)
		}
		cfg.DropPct = f
	}
	if v, ok := lookup(EnvHybridSplit); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHybridSplit, err)
		}
		cfg.HybridSplit = f
	}

	return nil
}
