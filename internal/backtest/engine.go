package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/config"
	"github.com/ducminhle1904/dca-hybrid-backtest/pkg/types"
)

// Strategy names a contribution strategy
type Strategy string

const (
	StrategyDCA    Strategy = "DCA"
	StrategyHybrid Strategy = "Hybrid"
)

// EquityPoint is the portfolio state at the close of one day
type EquityPoint struct {
	Date   time.Time
	Close  float64
	Equity float64
	Shares float64
	Cash   float64
}

// LumpEvent records one deployment of the Hybrid cash buffer
type LumpEvent struct {
	Date   time.Time
	Price  float64
	Amount float64
	Shares float64
}

// Result summarises one strategy run. It is not modified after Run returns.
type Result struct {
	Strategy         Strategy
	FinalValue       float64
	TotalContributed float64
	Years            float64
	CAGR             float64 // NaN when nothing was contributed
	MaxDrawdown      float64
	LumpEvents       int
	Contributions    int
	AsOf             time.Time

	EquityCurve []EquityPoint
	Lumps       []LumpEvent
}

// HasCAGR reports whether CAGR is defined
func (r *Result) HasCAGR() bool {
	return !math.IsNaN(r.CAGR)
}

// Equity returns the equity curve values
func (r *Result) Equity() []float64 {
	out := make([]float64, len(r.EquityCurve))
	for i, p := range r.EquityCurve {
		out[i] = p.Equity
	}
	return out
}

type portfolioState struct {
	shares      float64
	cash        float64
	contributed float64
}

func (p *portfolioState) buy(amount, price float64) float64 {
	qty := amount / price
	p.shares += qty
	return qty
}

// Engine simulates both strategies over one price series. Buy dates and
// trigger flags are computed once in NewEngine and shared by every run.
type Engine struct {
	cfg       config.SimConfig
	series    *types.PriceSeries
	buyDates  *BuyDateSet
	triggers  TriggerFlags
	dailyRate float64
	log       zerolog.Logger
}

// NewEngine validates cfg and prepares the shared inputs
func NewEngine(cfg *config.SimConfig, series *types.PriceSeries) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if series == nil {
		return nil, fmt.Errorf("price series is nil")
	}

	buyDates, err := SelectBuyDates(series, cfg.BuyDay)
	if err != nil {
		return nil, err
	}
	triggers, err := DetectTriggers(series, cfg.DropPct)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       *cfg,
		series:    series,
		buyDates:  buyDates,
		triggers:  triggers,
		dailyRate: DailyRate(cfg.RiskFreeRate),
		log:       zerolog.Nop(),
	}, nil
}

// WithLogger sets the logger used for per-event debug output
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log
	return e
}

// Config returns the engine's configuration
func (e *Engine) Config() config.SimConfig { return e.cfg }

// BuyDates returns the selected monthly purchase dates
func (e *Engine) BuyDates() *BuyDateSet { return e.buyDates }

// Triggers returns the drawdown trigger flags
func (e *Engine) Triggers() TriggerFlags { return e.triggers }

// Run simulates the named strategy
func (e *Engine) Run(strategy Strategy) (*Result, error) {
	switch strategy {
	case StrategyDCA:
		return e.RunDCA(), nil
	case StrategyHybrid:
		return e.RunHybrid(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// RunAll simulates DCA then Hybrid
func (e *Engine) RunAll() (dca, hybrid *Result) {
	return e.RunDCA(), e.RunHybrid()
}

// RunDCA invests the full budget on every buy date
func (e *Engine) RunDCA() *Result {
	return e.simulate(StrategyDCA, 1.0, false)
}

// RunHybrid invests HybridSplit of the budget on every buy date, holds the rest
// as cash at the risk-free rate and deploys all cash on trigger days
func (e *Engine) RunHybrid() *Result {
	return e.simulate(StrategyHybrid, e.cfg.HybridSplit, true)
}

func (e *Engine) simulate(strategy Strategy, investNow float64, deployOnTrigger bool) *Result {
	n := e.series.Len()
	budget := e.cfg.MonthlyBudget
	res := &Result{
		Strategy:    strategy,
		EquityCurve: make([]EquityPoint, n),
	}

	var st portfolioState
	for i := 0; i < n; i++ {
		price := e.series.Close(i)
		date := e.series.Date(i)

		st.cash *= 1.0 + e.dailyRate

		if e.buyDates.Contains(i) {
			now := budget * investNow
			st.contributed += budget
			st.buy(now, price)
			st.cash += budget - now
			res.Contributions++
		}

		if deployOnTrigger && e.triggers[i] && st.cash > 0 {
			amount := st.cash
			qty := st.buy(amount, price)
			st.cash = 0
			res.LumpEvents++
			res.Lumps = append(res.Lumps, LumpEvent{Date: date, Price: price, Amount: amount, Shares: qty})
			e.log.Debug().
				Str("strategy", string(strategy)).
				Time("date", date).
				Float64("amount", amount).
				Float64("price", price).
				Msg("lump deployment")
		}

		res.EquityCurve[i] = EquityPoint{
			Date:   date,
			Close:  price,
			Equity: st.shares*price + st.cash,
			Shares: st.shares,
			Cash:   st.cash,
		}
	}

	first, last := e.series.First(), e.series.Last()
	res.FinalValue = res.EquityCurve[n-1].Equity
	res.TotalContributed = st.contributed
	res.Years = YearsElapsed(first.Date, last.Date)
	res.CAGR = CAGR(res.FinalValue, res.TotalContributed, res.Years)
	res.MaxDrawdown = MaxDrawdown(res.Equity())
	res.AsOf = last.Date

	return res
}
