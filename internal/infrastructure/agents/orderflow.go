package agents

import (
	"context"
	"fmt"
	"math"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// OrderFlowAgent reads the market's microstructure. Deep books with tight
// spreads are treated as honest price discovery; thin or wide markets get
// their price discounted toward the mid.
type OrderFlowAgent struct{}

func NewOrderFlowAgent() *OrderFlowAgent { return &OrderFlowAgent{} }

func (a *OrderFlowAgent) Name() string     { return "order_flow" }
func (a *OrderFlowAgent) Category() string { return analysis.CategoryMicrostructure }

func (a *OrderFlowAgent) Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AgentSignal{}, err
	}

	spreadPenalty := math.Min(1, briefing.BidAskSpread*20)
	depth := briefing.LiquidityScore / 10

	fair := briefing.MarketProbability + (0.5-briefing.MarketProbability)*spreadPenalty*0.3
	confidence := 0.55 + 0.35*depth - 0.35*spreadPenalty

	drivers := []string{
		fmt.Sprintf("bid/ask spread %.3f against liquidity %.1f/10", briefing.BidAskSpread, briefing.LiquidityScore),
		fmt.Sprintf("24h volume %.0f", briefing.Volume24h),
	}
	var risks []string
	if briefing.LiquidityScore < 5 {
		risks = append(risks, "book too thin to absorb informed flow")
	}
	if briefing.BidAskSpread > 0.03 {
		risks = append(risks, "wide spread may conceal stale quotes")
	}

	return newSignal(a.Name(), a.Category(), lean(fair, briefing.MarketProbability, 0.015),
		fair, confidence, drivers, risks,
		map[string]any{"spread_penalty": spreadPenalty, "depth": depth},
	), nil
}
