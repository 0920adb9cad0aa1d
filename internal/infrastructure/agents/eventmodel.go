package agents

import (
	"context"
	"fmt"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// minCriteriaDetail separates a precisely worded resolution clause from a
// vague one. Vague clauses carry resolution-dispute risk that the crowd
// tends to ignore.
const minCriteriaDetail = 40

// EventModelAgent prices the event's structural fundamentals: how precisely
// the market resolves and which side ambiguity favors.
type EventModelAgent struct{}

func NewEventModelAgent() *EventModelAgent { return &EventModelAgent{} }

func (a *EventModelAgent) Name() string     { return "event_model" }
func (a *EventModelAgent) Category() string { return analysis.CategoryFundamentals }

func (a *EventModelAgent) Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AgentSignal{}, err
	}

	detail := len(briefing.ResolutionCriteria)
	vague := detail < minCriteriaDetail

	var fair, confidence float64
	var drivers, risks []string
	if vague {
		// Ambiguous wording usually resolves against the YES holder.
		fair = briefing.MarketProbability - 0.05
		confidence = 0.55
		drivers = append(drivers, fmt.Sprintf("resolution clause only %d characters; dispute surface is wide", detail))
		risks = append(risks, "ambiguous resolution wording invites a contested outcome")
	} else {
		tilt := 0.03
		if briefing.MarketProbability < 0.5 {
			tilt = -0.03
		}
		fair = briefing.MarketProbability + tilt
		confidence = 0.6
		drivers = append(drivers, fmt.Sprintf("resolution clause is specific (%d characters)", detail))
	}
	drivers = append(drivers, "event type "+briefing.EventType)

	return newSignal(a.Name(), a.Category(), lean(fair, briefing.MarketProbability, 0.02),
		fair, confidence, drivers, risks,
		map[string]any{"criteria_detail": detail, "vague": vague},
	), nil
}
