package backtest

import (
	"fmt"
	"math"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// TriggerState is the arming state of the drawdown detector
type TriggerState int

const (
	StateUnarmed TriggerState = iota
	StateArmed
)

func (s TriggerState) String() string {
	if s == StateArmed {
		return "armed"
	}
	return "unarmed"
}

// TriggerFlags marks, per series position, the days a lump deployment fires
type TriggerFlags []bool

// Count returns the number of trigger days
func (f TriggerFlags) Count() int {
	n := 0
	for _, v := range f {
		if v {
			n++
		}
	}
	return n
}

// TriggerDetector fires on the first close at or below threshold x rolling high
// after a new high. A new high must exceed the previously recorded high to
// re-arm, so a plateau at the old high does not re-arm.
type TriggerDetector struct {
	threshold float64
	state     TriggerState
	lastHigh  float64
}

// NewTriggerDetector creates an unarmed detector for a drop fraction in (0, 1)
func NewTriggerDetector(dropPct float64) (*TriggerDetector, error) {
	if !(dropPct > 0 && dropPct < 1) {
		return nil, simerrors.NewConfigurationError("backtest", "NewTriggerDetector",
			fmt.Sprintf("drop trigger must be within (0, 1), got: %v", dropPct))
	}
	return &TriggerDetector{
		threshold: 1.0 - dropPct,
		state:     StateUnarmed,
		lastHigh:  math.Inf(-1),
	}, nil
}

// Step advances the detector by one day and reports whether it fired.
// rollingHigh must include today's close.
func (d *TriggerDetector) Step(close, rollingHigh float64) bool {
	if close >= rollingHigh && close > d.lastHigh {
		d.state = StateArmed
		d.lastHigh = close
	}

	if d.state == StateArmed && close <= d.threshold*rollingHigh {
		d.state = StateUnarmed
		return true
	}

	return false
}

// State returns the current arming state
func (d *TriggerDetector) State() TriggerState {
	return d.state
}

// LastHigh returns the most recent high that armed the detector
func (d *TriggerDetector) LastHigh() float64 {
	return d.lastHigh
}

// DetectTriggers runs the detector over the series with a 252-day rolling high
func DetectTriggers(series *types.PriceSeries, dropPct float64) (TriggerFlags, error) {
	detector, err := NewTriggerDetector(dropPct)
	if err != nil {
		return nil, err
	}

	rm := NewRollingMax(types.TradingDaysPerYear)
	flags := make(TriggerFlags, series.Len())
	for i := 0; i < series.Len(); i++ {
		close := series.Close(i)
		flags[i] = detector.Step(close, rm.Push(close))
	}

	return flags, nil
}
