package interfaces

import (
	"context"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// Agent is an independent capability that produces one probabilistic opinion
// about a market, or fails. Implementations must honor ctx cancellation.
type Agent interface {
	Name() string
	Category() string
	Run(ctx context.Context, briefing market.BriefingDocument) (analysis.AgentSignal, error)
}
