package portfolio_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/relaykit/relaykit/pkg/intent"
	"github.com/relaykit/relaykit/pkg/portfolio"
	"github.com/relaykit/relaykit/pkg/tool"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.011 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestSnapshot(t *testing.T) {
	snap := portfolio.NewBook().Snapshot()

	if len(snap.Holdings) != 4 {
		t.Fatalf("holdings = %d, want 4", len(snap.Holdings))
	}
	if snap.Strategy != portfolio.StrategyBalanced {
		t.Errorf("Strategy = %q, want balanced", snap.Strategy)
	}
	if snap.Holdings[0].Ticker != "VTI" {
		t.Errorf("first holding = %q, want VTI", snap.Holdings[0].Ticker)
	}
	approx(t, "VTI value", snap.Holdings[0].Value, 11412.00)
	approx(t, "Cash", snap.Cash, 2500.00)
	approx(t, "TotalValue", snap.TotalValue, 25461.10)
}

func TestRebalance(t *testing.T) {
	book := portfolio.NewBook()

	got, err := book.Rebalance(portfolio.StrategyAggressive)
	if err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	if got.Strategy != portfolio.StrategyAggressive {
		t.Errorf("Strategy = %q, want aggressive", got.Strategy)
	}
	if got.Allocation["stocks"] != 0.90 {
		t.Errorf("stocks allocation = %v, want 0.90", got.Allocation["stocks"])
	}
	approx(t, "Moved", got.Moved, 3581.39)

	if snap := book.Snapshot(); snap.Strategy != portfolio.StrategyAggressive {
		t.Errorf("snapshot strategy = %q, want the new strategy", snap.Strategy)
	}

	if _, err := book.Rebalance("yolo"); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func TestAnalyzePerformance(t *testing.T) {
	book := portfolio.NewBook()

	perf, err := book.AnalyzePerformance("1y")
	if err != nil {
		t.Fatalf("AnalyzePerformance: %v", err)
	}
	if perf.Months != 12 {
		t.Errorf("Months = %v, want 12", perf.Months)
	}
	approx(t, "EndValue", perf.EndValue, 25461.10)
	if perf.StartValue >= perf.EndValue {
		t.Errorf("StartValue %v not below EndValue %v", perf.StartValue, perf.EndValue)
	}
	if perf.ReturnPct <= 0 {
		t.Errorf("ReturnPct = %v, want positive", perf.ReturnPct)
	}
	if perf.Best != "AAPL" || perf.Worst != "BND" {
		t.Errorf("best/worst = %s/%s, want AAPL/BND", perf.Best, perf.Worst)
	}

	// The analysis is deterministic.
	again, _ := book.AnalyzePerformance("1y")
	if again != perf {
		t.Errorf("repeated analysis differs: %+v vs %+v", again, perf)
	}
}

func TestAnalyzePerformance_PeriodForms(t *testing.T) {
	book := portfolio.NewBook()

	tests := []struct {
		period string
		months float64
	}{
		{"6m", 6},
		{"6 months", 6},
		{"30d", 1},
		{"2y", 24},
		{"1 year", 12},
		{"", 12},
	}
	for _, tc := range tests {
		perf, err := book.AnalyzePerformance(tc.period)
		if err != nil {
			t.Errorf("AnalyzePerformance(%q): %v", tc.period, err)
			continue
		}
		if perf.Months != tc.months {
			t.Errorf("AnalyzePerformance(%q) months = %v, want %v", tc.period, perf.Months, tc.months)
		}
	}

	if _, err := book.AnalyzePerformance("soon"); err == nil {
		t.Error("expected an error for an unrecognized period")
	}
}

func TestProjectGrowth(t *testing.T) {
	book := portfolio.NewBook()

	proj, err := book.ProjectGrowth(1000, 10)
	if err != nil {
		t.Fatalf("ProjectGrowth: %v", err)
	}
	if proj.Strategy != portfolio.StrategyBalanced {
		t.Errorf("Strategy = %q, want balanced", proj.Strategy)
	}
	approx(t, "FutureValue at 7%", proj.FutureValue, 1967.15)

	// The rate follows the active strategy.
	if _, err := book.Rebalance(portfolio.StrategyAggressive); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	proj, err = book.ProjectGrowth(1000, 10)
	if err != nil {
		t.Fatalf("ProjectGrowth after rebalance: %v", err)
	}
	approx(t, "FutureValue at 9%", proj.FutureValue, 2367.36)

	for _, bad := range []struct {
		amount float64
		years  int
	}{{0, 10}, {-5, 10}, {1000, 0}, {1000, 101}} {
		if _, err := book.ProjectGrowth(bad.amount, bad.years); err == nil {
			t.Errorf("ProjectGrowth(%v, %d): expected an error", bad.amount, bad.years)
		}
	}
}

func TestRegisterAndExecute(t *testing.T) {
	reg := tool.NewRegistry()
	book := portfolio.NewBook()
	if err := portfolio.Register(reg, book); err != nil {
		t.Fatalf("Register: %v", err)
	}

	wantOrder := []string{"getPortfolio", "rebalancePortfolio", "analyzePerformance", "projectGrowth"}
	listed := reg.List()
	if len(listed) != len(wantOrder) {
		t.Fatalf("List len = %d, want %d", len(listed), len(wantOrder))
	}
	for i, d := range listed {
		if d.Name != wantOrder[i] {
			t.Errorf("List[%d] = %q, want %q", i, d.Name, wantOrder[i])
		}
	}

	ctx := context.Background()
	result, err := reg.Execute(ctx, "getPortfolio", nil)
	if err != nil {
		t.Fatalf("Execute getPortfolio: %v", err)
	}
	snap, ok := result.(portfolio.Snapshot)
	if !ok {
		t.Fatalf("result type = %T, want Snapshot", result)
	}
	approx(t, "TotalValue", snap.TotalValue, 25461.10)

	// Arguments may arrive as JSON numbers.
	result, err = reg.Execute(ctx, "projectGrowth", map[string]any{"amount": 1000.0, "years": 10.0})
	if err != nil {
		t.Fatalf("Execute projectGrowth: %v", err)
	}
	if proj := result.(portfolio.Projection); proj.Years != 10 {
		t.Errorf("Years = %d, want 10", proj.Years)
	}

	if _, err := reg.Execute(ctx, "projectGrowth", map[string]any{"years": 10.0}); !errors.Is(err, tool.ErrToolFailed) {
		t.Errorf("missing amount err = %v, want ErrToolFailed", err)
	}
}

func TestRulesResolvePrompts(t *testing.T) {
	local, err := intent.NewLocal(portfolio.Rules())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		prompt string
		tools  []string
		args   map[string]any
	}{
		{
			prompt: "Show my portfolio",
			tools:  []string{"getPortfolio"},
			args:   nil,
		},
		{
			prompt: "Please rebalance to aggressive",
			tools:  []string{"rebalancePortfolio"},
			args:   map[string]any{"strategy": "aggressive"},
		},
		{
			prompt: "How did my performance look over 6 months?",
			tools:  []string{"analyzePerformance"},
			args:   map[string]any{"period": "6 months"},
		},
		{
			prompt: "analyze my returns",
			tools:  []string{"analyzePerformance"},
			args:   map[string]any{"period": "1y"},
		},
		{
			prompt: "If I invest $2,500.50 for 10 years, how much will I have?",
			tools:  []string{"projectGrowth", "getPortfolio"},
			args:   map[string]any{"amount": 2500.50, "years": 10},
		},
		{
			prompt: "hello there",
			tools:  nil,
		},
	}
	for _, tc := range tests {
		reqs, err := local.Resolve(ctx, tc.prompt)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tc.prompt, err)
			continue
		}
		var names []string
		for _, r := range reqs {
			names = append(names, r.Name)
		}
		if !reflect.DeepEqual(names, tc.tools) {
			t.Errorf("Resolve(%q) tools = %v, want %v", tc.prompt, names, tc.tools)
			continue
		}
		if tc.args != nil && !reflect.DeepEqual(reqs[0].Args, tc.args) {
			t.Errorf("Resolve(%q) args = %v, want %v", tc.prompt, reqs[0].Args, tc.args)
		}
	}
}
