// Package agents holds the built-in analyst roster: deterministic heuristics
// over the briefing document, one per signal category. Real deployments can
// register additional agents behind the same interface.
package agents

import (
	"math"
	"time"

	"main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
)

// Roster returns the enabled built-in agents in the order requested. Unknown
// names are skipped so a config typo degrades to fewer agents instead of a
// boot failure.
func Roster(enabled []string) []interfaces.Agent {
	builtin := map[string]interfaces.Agent{
		"order_flow":        NewOrderFlowAgent(),
		"headline_catalyst": NewHeadlineCatalystAgent(),
		"polling_intel":     NewPollingIntelAgent(),
		"event_model":       NewEventModelAgent(),
		"crowd_pulse":       NewCrowdPulseAgent(),
	}
	out := make([]interfaces.Agent, 0, len(enabled))
	for _, name := range enabled {
		if ag, ok := builtin[name]; ok {
			out = append(out, ag)
		}
	}
	return out
}

func newSignal(name, category string, dir analysis.Direction, fair, confidence float64, drivers, risks []string, meta map[string]any) analysis.AgentSignal {
	return analysis.AgentSignal{
		AgentName:       name,
		Category:        category,
		Timestamp:       time.Now(),
		Confidence:      clamp01(confidence),
		Direction:       dir,
		FairProbability: clamp01(fair),
		KeyDrivers:      drivers,
		RiskFactors:     risks,
		Metadata:        meta,
	}
}

// lean classifies a fair-value estimate against the market price with a small
// dead band so noise-level differences stay NEUTRAL.
func lean(fair, marketProb, deadband float64) analysis.Direction {
	switch {
	case fair-marketProb > deadband:
		return analysis.DirectionYes
	case marketProb-fair > deadband:
		return analysis.DirectionNo
	default:
		return analysis.DirectionNeutral
	}
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
