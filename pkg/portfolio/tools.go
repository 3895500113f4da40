package portfolio

import (
	"context"
	"fmt"

	"github.com/relaykit/relaykit/pkg/tool"
)

// Tools returns the portfolio tool set backed by this book.
func (b *Book) Tools() []tool.Tool {
	return []tool.Tool{
		{
			Name:        "getPortfolio",
			Description: "Returns the current holdings, cash balance, total value, and strategy.",
			Handler: func(context.Context, map[string]any) (any, error) {
				return b.Snapshot(), nil
			},
		},
		{
			Name:        "rebalancePortfolio",
			Description: "Rebalances the portfolio to a target allocation strategy.",
			Params: &tool.Params{Fields: []tool.Field{
				{
					Name:        "strategy",
					Type:        tool.TypeString,
					Enum:        Strategies(),
					Required:    true,
					Description: "Target allocation strategy.",
				},
			}},
			Handler: func(_ context.Context, args map[string]any) (any, error) {
				strategy, _ := args["strategy"].(string)
				return b.Rebalance(strategy)
			},
		},
		{
			Name:        "analyzePerformance",
			Description: "Analyzes portfolio performance over a period such as \"1y\" or \"6m\".",
			Params: &tool.Params{Fields: []tool.Field{
				{
					Name:        "period",
					Type:        tool.TypeString,
					Description: "Lookback period, e.g. \"6m\", \"1y\", \"30d\". Defaults to one year.",
				},
			}},
			Handler: func(_ context.Context, args map[string]any) (any, error) {
				period, _ := args["period"].(string)
				return b.AnalyzePerformance(period)
			},
		},
		{
			Name:        "projectGrowth",
			Description: "Projects the compound growth of an investment at the current strategy's rate.",
			Params: &tool.Params{Fields: []tool.Field{
				{
					Name:        "amount",
					Type:        tool.TypeNumber,
					Required:    true,
					Description: "Amount to invest, in dollars.",
				},
				{
					Name:        "years",
					Type:        tool.TypeInteger,
					Required:    true,
					Description: "Investment horizon in years.",
				},
			}},
			Handler: func(_ context.Context, args map[string]any) (any, error) {
				amount, ok := numberArg(args, "amount")
				if !ok {
					return nil, fmt.Errorf("'amount' parameter is required")
				}
				years, ok := numberArg(args, "years")
				if !ok {
					return nil, fmt.Errorf("'years' parameter is required")
				}
				return b.ProjectGrowth(amount, int(years))
			},
		},
	}
}

// Register adds every portfolio tool to the registry.
func Register(reg *tool.Registry, b *Book) error {
	for _, tl := range b.Tools() {
		if err := reg.Register(tl); err != nil {
			return fmt.Errorf("registering %s: %w", tl.Name, err)
		}
	}
	return nil
}

// numberArg reads a numeric argument that may arrive as a float64 from
// JSON or as an int from the rules engine.
func numberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
