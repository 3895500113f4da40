package portfolio

import "github.com/relaykit/relaykit/pkg/intent"

// Rules is the default local rule set for the portfolio tools. Specific
// rules come first so a prompt like "rebalance to aggressive" resolves the
// targeted tool before the catch-most getPortfolio rule is considered.
func Rules() []intent.Rule {
	return []intent.Rule{
		{
			Tool:    "rebalancePortfolio",
			Pattern: `rebalance.*\b(?P<strategy>aggressive|conservative|balanced)\b`,
		},
		{
			Tool:     "projectGrowth",
			Pattern:  `(?:invest|contribute|put|save|grow|project)\D{0,24}\$?(?P<amount>[\d,]+(?:\.\d+)?)\D{0,40}?(?P<years>\d+)\s*(?:years?|yrs?)`,
			ArgTypes: map[string]string{"amount": "float", "years": "int"},
		},
		{
			Tool:    "analyzePerformance",
			Pattern: `(?:analy[sz]|performance|return).*?\b(?P<period>\d+\s*(?:days?|d|months?|mo|m|years?|yrs?|y))\b`,
			Any:     []string{"performance", "analyz"},
			Args:    map[string]any{"period": "1y"},
		},
		{
			Tool: "getPortfolio",
			Any:  []string{"portfolio", "holdings", "positions", "invest"},
		},
	}
}
