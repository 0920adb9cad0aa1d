package agents

import (
	"context"
	"math"
	"strings"
	"time"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// PollingIntelAgent applies survey-style skepticism to political markets:
// crowd prices near the extremes get pulled back toward the toss-up line.
// Non-political markets yield a low-confidence neutral signal.
type PollingIntelAgent struct{}

func NewPollingIntelAgent() *PollingIntelAgent { return &PollingIntelAgent{} }

func (a *PollingIntelAgent) Name() string     { return "polling_intel" }
func (a *PollingIntelAgent) Category() string { return analysis.CategoryPolling }

func (a *PollingIntelAgent) Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AgentSignal{}, err
	}

	if !a.political(briefing.EventType) {
		return newSignal(a.Name(), a.Category(), analysis.DirectionNeutral,
			briefing.MarketProbability, 0.35,
			[]string{"no polling coverage for event type " + briefing.EventType},
			nil,
			map[string]any{"covered": false},
		), nil
	}

	// Favorite-longshot dampening toward 0.5.
	fair := 0.5 + (briefing.MarketProbability-0.5)*0.85
	confidence := 0.5 + math.Abs(briefing.MarketProbability-0.5)*0.6
	if briefing.HoursToExpiry(time.Now()) < 48 {
		confidence -= 0.15
	}

	drivers := []string{
		"aggregate polling discounts the crowd's favorite-longshot bias",
	}
	risks := []string{
		"polling averages lag late-breaking shifts",
	}

	return newSignal(a.Name(), a.Category(), lean(fair, briefing.MarketProbability, 0.02),
		fair, confidence, drivers, risks,
		map[string]any{"covered": true, "dampening": 0.85},
	), nil
}

func (a *PollingIntelAgent) political(eventType string) bool {
	switch strings.ToLower(eventType) {
	case "politics", "election", "referendum":
		return true
	default:
		return false
	}
}
