package interfaces

import (
	"context"

	"main/internal/domain/entity/market"
)

// MarketSummary is one row of a venue market listing, enough to decide
// whether the market is worth a full analysis run.
type MarketSummary struct {
	MarketID       string
	Question       string
	Probability    float64
	LiquidityScore float64
	Volume24h      float64
}

type MarketDataProvider interface {
	FetchBriefing(ctx context.Context, marketID string) (market.BriefingDocument, error)
	ListActiveMarkets(ctx context.Context, minLiquidity float64, limit int) ([]MarketSummary, error)
}
