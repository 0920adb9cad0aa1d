package agents

import (
	"context"
	"fmt"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// highVolumeThreshold marks a market the crowd is actively chasing.
const highVolumeThreshold = 50_000

// CrowdPulseAgent reads crowd positioning. A high-volume, high-volatility
// market is treated as crowded and faded; a sleepy one carries no signal.
type CrowdPulseAgent struct{}

func NewCrowdPulseAgent() *CrowdPulseAgent { return &CrowdPulseAgent{} }

func (a *CrowdPulseAgent) Name() string     { return "crowd_pulse" }
func (a *CrowdPulseAgent) Category() string { return analysis.CategorySentiment }

func (a *CrowdPulseAgent) Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AgentSignal{}, err
	}

	crowded := briefing.Volume24h >= highVolumeThreshold && briefing.Volatility == market.VolatilityHigh

	var fair, confidence float64
	var drivers, risks []string
	switch {
	case crowded:
		fair = briefing.MarketProbability - (briefing.MarketProbability-0.5)*0.2
		confidence = 0.65
		drivers = append(drivers, fmt.Sprintf("crowded tape: %.0f volume in a high volatility regime", briefing.Volume24h))
		risks = append(risks, "fading the crowd loses when the crowd is early, not wrong")
	case briefing.Volume24h < highVolumeThreshold/10:
		fair = briefing.MarketProbability
		confidence = 0.4
		drivers = append(drivers, fmt.Sprintf("thin participation: %.0f volume in 24h", briefing.Volume24h))
	default:
		fair = briefing.MarketProbability + (briefing.MarketProbability-0.5)*0.1
		confidence = 0.55
		drivers = append(drivers, fmt.Sprintf("steady participation: %.0f volume in 24h", briefing.Volume24h))
	}

	return newSignal(a.Name(), a.Category(), lean(fair, briefing.MarketProbability, 0.015),
		fair, confidence, drivers, risks,
		map[string]any{"volume_24h": briefing.Volume24h, "crowded": crowded},
	), nil
}
