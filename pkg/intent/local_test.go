package intent_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/intent"
)

func testRules() []intent.Rule {
	return []intent.Rule{
		{Tool: "getPortfolio", Any: []string{"portfolio", "holdings", "positions"}},
		{
			Tool:    "rebalancePortfolio",
			Pattern: `rebalance.*\b(?P<strategy>aggressive|conservative|balanced)\b`,
		},
		{
			Tool:     "projectGrowth",
			Pattern:  `(?:invest|contribute|add)\D{0,20}\$?(?P<amount>[\d,]+(?:\.\d+)?)\D{0,30}?(?P<years>\d+)\s*years?`,
			ArgTypes: map[string]string{"amount": "float", "years": "int"},
		},
		{Tool: "analyzePerformance", Any: []string{"performance", "analyze"}, Args: map[string]any{"period": "1y"}},
	}
}

func newLocal(t *testing.T) *intent.Local {
	t.Helper()
	l, err := intent.NewLocal(testRules())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return l
}

func TestLocalResolve(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   []domain.ToolRequest
	}{
		{
			"portfolio request",
			"Show my portfolio",
			[]domain.ToolRequest{{Name: "getPortfolio"}},
		},
		{
			"rebalance with strategy",
			"Please rebalance to AGGRESSIVE",
			[]domain.ToolRequest{{Name: "rebalancePortfolio", Args: map[string]any{"strategy": "aggressive"}}},
		},
		{
			"numeric extraction",
			"What if I invest $2,500.50 every month for 10 years?",
			[]domain.ToolRequest{{Name: "projectGrowth", Args: map[string]any{"amount": 2500.50, "years": 10}}},
		},
		{
			"static args",
			"analyze my returns",
			[]domain.ToolRequest{{Name: "analyzePerformance", Args: map[string]any{"period": "1y"}}},
		},
		{
			"multiple rules fire in rule order",
			"show my holdings and rebalance to balanced",
			[]domain.ToolRequest{
				{Name: "getPortfolio"},
				{Name: "rebalancePortfolio", Args: map[string]any{"strategy": "balanced"}},
			},
		},
		{"no match", "what's the weather like", nil},
		{"empty prompt", "", nil},
		{"whitespace prompt", "   \t\n", nil},
	}

	l := newLocal(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Resolve(context.Background(), tt.prompt)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestLocalResolveIsDeterministic(t *testing.T) {
	l := newLocal(t)
	prompt := "show my holdings and rebalance to balanced"
	first, _ := l.Resolve(context.Background(), prompt)
	for i := 0; i < 10; i++ {
		again, _ := l.Resolve(context.Background(), prompt)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("iteration %d: %#v != %#v", i, again, first)
		}
	}
}

func TestNewLocalRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []intent.Rule
	}{
		{"empty tool", []intent.Rule{{Tool: "", Any: []string{"x"}}}},
		{"no trigger", []intent.Rule{{Tool: "getPortfolio"}}},
		{"bad pattern", []intent.Rule{{Tool: "getPortfolio", Pattern: `([`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := intent.NewLocal(tt.rules); err == nil {
				t.Error("NewLocal: expected error, got nil")
			}
		})
	}
}
