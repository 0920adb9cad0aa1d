package agents

import (
	"context"
	"math"
	"strings"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

var (
	bullishCues = []string{"approve", "win", "pass", "confirm", "surge", "deal", "agree", "advance"}
	bearishCues = []string{"delay", "reject", "ban", "scandal", "resign", "drop", "collapse", "fail", "probe"}
)

// HeadlineCatalystAgent scores the briefing's live catalysts by directional
// cue words and shifts fair value off the market price accordingly.
type HeadlineCatalystAgent struct{}

func NewHeadlineCatalystAgent() *HeadlineCatalystAgent { return &HeadlineCatalystAgent{} }

func (a *HeadlineCatalystAgent) Name() string     { return "headline_catalyst" }
func (a *HeadlineCatalystAgent) Category() string { return analysis.CategoryBreakingNews }

func (a *HeadlineCatalystAgent) Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AgentSignal{}, err
	}

	net := 0
	for _, c := range briefing.Catalysts {
		lc := strings.ToLower(c)
		for _, cue := range bullishCues {
			if strings.Contains(lc, cue) {
				net++
				break
			}
		}
		for _, cue := range bearishCues {
			if strings.Contains(lc, cue) {
				net--
				break
			}
		}
	}

	shift := math.Max(-0.12, math.Min(0.12, 0.04*float64(net)))
	fair := briefing.MarketProbability + shift

	confidence := 0.4
	if n := len(briefing.Catalysts); n > 0 {
		confidence = 0.5 + 0.08*math.Min(float64(n), 4)
		if briefing.Volatility == market.VolatilityHigh {
			confidence += 0.1
		}
	}

	drivers := briefing.Catalysts
	if len(drivers) > 5 {
		drivers = drivers[:5]
	}
	if len(drivers) == 0 {
		drivers = []string{"no live catalysts in the briefing"}
	}
	var risks []string
	if net != 0 {
		risks = append(risks, "headline momentum fades once the wire cycles")
	}
	if briefing.Volatility == market.VolatilityHigh {
		risks = append(risks, "high volatility regime overreacts to single headlines")
	}

	return newSignal(a.Name(), a.Category(), lean(fair, briefing.MarketProbability, 0.02),
		fair, confidence, drivers, risks,
		map[string]any{"cue_net": net, "catalysts": len(briefing.Catalysts)},
	), nil
}
