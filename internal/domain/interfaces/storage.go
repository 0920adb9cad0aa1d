package interfaces

import (
	"context"
	"errors"

	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
)

// ErrRecommendationNotFound reports that a market has no stored
// recommendation yet. Implementations of AnalysisStore return it from
// GetLatestRecommendation.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// AnalysisStore persists terminal run artifacts. The engine calls it only
// after a run reaches a terminal state, never mid-pipeline.
type AnalysisStore interface {
	UpsertMarket(ctx context.Context, briefing market.BriefingDocument) (int64, error)
	StoreRecommendation(ctx context.Context, marketID int64, runID string, rec *analysis.TradeRecommendation) (int64, error)
	StoreAgentSignals(ctx context.Context, marketID, recommendationID int64, signals []analysis.AgentSignal) error
	RecordAnalysis(ctx context.Context, marketID int64, record analysis.Record) error

	GetLatestRecommendation(ctx context.Context, marketID string) (*analysis.StoredRecommendation, error)
	ListAnalyses(ctx context.Context, marketID string, limit int) ([]analysis.Record, error)

	Close()
}
