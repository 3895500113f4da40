// Package portfolio is the demo tool domain: a small in-memory investment
// book the pipeline's tools read and mutate. All figures are seeded
// deterministically so runs are reproducible.
package portfolio

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Allocation strategies.
const (
	StrategyAggressive   = "aggressive"
	StrategyConservative = "conservative"
	StrategyBalanced     = "balanced"
)

// Strategies lists the accepted rebalancing strategies.
func Strategies() []string {
	return []string{StrategyAggressive, StrategyConservative, StrategyBalanced}
}

// allocations maps each strategy to its target asset-class weights.
var allocations = map[string]map[string]float64{
	StrategyAggressive:   {"stocks": 0.90, "bonds": 0.05, "cash": 0.05},
	StrategyBalanced:     {"stocks": 0.60, "bonds": 0.30, "cash": 0.10},
	StrategyConservative: {"stocks": 0.30, "bonds": 0.55, "cash": 0.15},
}

// growthRates maps each strategy to the annual rate used for projections.
var growthRates = map[string]float64{
	StrategyAggressive:   0.09,
	StrategyBalanced:     0.07,
	StrategyConservative: 0.05,
}

// monthlyReturns is the fixed per-ticker monthly return the performance
// analysis assumes. Fixed rates keep the analysis deterministic.
var monthlyReturns = map[string]float64{
	"VTI":  0.0085,
	"VXUS": 0.0062,
	"BND":  0.0021,
	"AAPL": 0.0118,
}

// Holding is one position in the book.
type Holding struct {
	Ticker string  `json:"ticker"`
	Class  string  `json:"class"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// Value is the position's market value.
func (h Holding) Value() float64 { return round2(h.Shares * h.Price) }

// Book holds the portfolio state. Safe for concurrent use.
type Book struct {
	mu       sync.Mutex
	holdings []Holding
	cash     float64
	strategy string
}

// NewBook seeds a book with a fixed set of holdings.
func NewBook() *Book {
	return &Book{
		holdings: []Holding{
			{Ticker: "VTI", Class: "stocks", Shares: 40, Price: 285.30},
			{Ticker: "VXUS", Class: "stocks", Shares: 80, Price: 64.10},
			{Ticker: "BND", Class: "bonds", Shares: 50, Price: 72.55},
			{Ticker: "AAPL", Class: "stocks", Shares: 12, Price: 232.80},
		},
		cash:     2500.00,
		strategy: StrategyBalanced,
	}
}

// Snapshot is the read view returned by getPortfolio.
type Snapshot struct {
	Holdings   []HoldingView `json:"holdings"`
	Cash       float64       `json:"cash"`
	TotalValue float64       `json:"total_value"`
	Strategy   string        `json:"strategy"`
}

// HoldingView is a Holding with its computed value.
type HoldingView struct {
	Ticker string  `json:"ticker"`
	Class  string  `json:"class"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
}

// Snapshot returns the current state of the book.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{Cash: round2(b.cash), Strategy: b.strategy}
	total := b.cash
	for _, h := range b.holdings {
		v := h.Value()
		total += v
		snap.Holdings = append(snap.Holdings, HoldingView{
			Ticker: h.Ticker,
			Class:  h.Class,
			Shares: h.Shares,
			Price:  h.Price,
			Value:  v,
		})
	}
	snap.TotalValue = round2(total)
	return snap
}

// Rebalanced describes the result of a rebalance.
type Rebalanced struct {
	Strategy   string             `json:"strategy"`
	Allocation map[string]float64 `json:"allocation"`
	Moved      float64            `json:"moved"`
}

// Rebalance switches the book to the given strategy and reports the value
// that had to move between asset classes to hit the target weights.
func (b *Book) Rebalance(strategy string) (Rebalanced, error) {
	target, ok := allocations[strategy]
	if !ok {
		return Rebalanced{}, fmt.Errorf("unknown strategy %q: must be one of %s",
			strategy, strings.Join(Strategies(), ", "))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	current := map[string]float64{"cash": b.cash}
	total := b.cash
	for _, h := range b.holdings {
		current[h.Class] += h.Value()
		total += h.Value()
	}

	var moved float64
	for class, weight := range target {
		moved += math.Abs(current[class] - total*weight)
	}
	b.strategy = strategy

	return Rebalanced{
		Strategy:   strategy,
		Allocation: target,
		Moved:      round2(moved / 2),
	}, nil
}

// Performance is the result of analyzePerformance.
type Performance struct {
	Period     string  `json:"period"`
	Months     float64 `json:"months"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
	ReturnPct  float64 `json:"return_pct"`
	Best       string  `json:"best"`
	Worst      string  `json:"worst"`
}

// AnalyzePerformance backdates each holding at its fixed monthly return
// and reports the portfolio's gain over the period. An empty period
// defaults to one year.
func (b *Book) AnalyzePerformance(period string) (Performance, error) {
	if strings.TrimSpace(period) == "" {
		period = "1y"
	}
	months, err := parsePeriod(period)
	if err != nil {
		return Performance{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.cash
	end := b.cash
	best, worst := "", ""
	bestRate, worstRate := math.Inf(-1), math.Inf(1)
	for _, h := range b.holdings {
		rate := monthlyReturns[h.Ticker]
		end += h.Value()
		start += h.Value() / math.Pow(1+rate, months)
		if rate > bestRate {
			best, bestRate = h.Ticker, rate
		}
		if rate < worstRate {
			worst, worstRate = h.Ticker, rate
		}
	}

	return Performance{
		Period:     strings.TrimSpace(period),
		Months:     months,
		StartValue: round2(start),
		EndValue:   round2(end),
		ReturnPct:  round2((end - start) / start * 100),
		Best:       best,
		Worst:      worst,
	}, nil
}

// Projection is the result of projectGrowth.
type Projection struct {
	Amount      float64 `json:"amount"`
	Years       int     `json:"years"`
	AnnualRate  float64 `json:"annual_rate"`
	Strategy    string  `json:"strategy"`
	FutureValue float64 `json:"future_value"`
}

// ProjectGrowth compounds the amount at the current strategy's annual rate.
func (b *Book) ProjectGrowth(amount float64, years int) (Projection, error) {
	if amount <= 0 {
		return Projection{}, fmt.Errorf("amount must be positive, got %v", amount)
	}
	if years <= 0 || years > 100 {
		return Projection{}, fmt.Errorf("years must be between 1 and 100, got %d", years)
	}

	b.mu.Lock()
	strategy := b.strategy
	b.mu.Unlock()

	rate := growthRates[strategy]
	return Projection{
		Amount:      amount,
		Years:       years,
		AnnualRate:  rate,
		Strategy:    strategy,
		FutureValue: round2(amount * math.Pow(1+rate, float64(years))),
	}, nil
}

var periodRe = regexp.MustCompile(`^(\d+)\s*(days?|d|months?|mo|m|years?|yrs?|y)$`)

// parsePeriod converts period shorthand like "6m", "1y", or "30 days" to
// months.
func parsePeriod(s string) (float64, error) {
	m := periodRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("unrecognized period %q: use forms like \"6m\" or \"1y\"", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unrecognized period %q: use forms like \"6m\" or \"1y\"", s)
	}
	switch m[2][0] {
	case 'd':
		return float64(n) / 30, nil
	case 'y':
		return float64(n) * 12, nil
	default:
		return float64(n), nil
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
